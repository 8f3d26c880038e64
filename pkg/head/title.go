package head

import "strings"

// TitleTemplateFunc computes the final title from the current one.
type TitleTemplateFunc func(title string) string

// titlePlaceholder is replaced by the current title in string templates.
const titlePlaceholder = "%s"

// findTitleTemplate returns the template of the last input that sets one.
func findTitleTemplate(inputs []map[string]any) any {
	for i := len(inputs) - 1; i >= 0; i-- {
		if t, ok := inputs[i][FieldTitleTemplate]; ok && t != nil {
			return t
		}
	}
	return nil
}

// applyTitleTemplate renders title through template. An empty string or an
// unusable template leaves the title unchanged.
func applyTitleTemplate(template any, title string) string {
	switch t := template.(type) {
	case TitleTemplateFunc:
		return t(title)
	case func(string) string:
		return t(title)
	case string:
		if t == "" {
			return title
		}
		return strings.Replace(t, titlePlaceholder, title, 1)
	default:
		return title
	}
}
