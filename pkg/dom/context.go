package dom

import "github.com/vango-dev/head/pkg/head"

// UpdateContext is the per-flush view of the resolved tags.
type UpdateContext struct {
	// Title is nil when no title tag survived resolution.
	Title *string

	HTMLAttrs head.Props
	BodyAttrs head.Props

	// TagsByName groups every other tag by tag name. Before-update hooks
	// may mutate it.
	TagsByName map[string][]head.Tag
}

// NewUpdateContext routes resolved tags into a fresh UpdateContext. The last
// title wins; attribute tags are merged with later keys overwriting earlier
// ones.
func NewUpdateContext(tags []head.Tag) *UpdateContext {
	ctx := &UpdateContext{
		HTMLAttrs:  head.Props{},
		BodyAttrs:  head.Props{},
		TagsByName: make(map[string][]head.Tag),
	}

	for _, tag := range tags {
		switch tag.Name {
		case head.TagTitle:
			text, _ := tag.Text()
			ctx.Title = &text
		case head.TagHTMLAttrs:
			for k, v := range tag.Props {
				ctx.HTMLAttrs[k] = v
			}
		case head.TagBodyAttrs:
			for k, v := range tag.Props {
				ctx.BodyAttrs[k] = v
			}
		default:
			ctx.TagsByName[tag.Name] = append(ctx.TagsByName[tag.Name], tag)
		}
	}

	return ctx
}
