package head

import (
	"context"

	"github.com/vango-dev/head/internal/errors"
)

type contextKey struct{}

// NewContext returns a copy of ctx carrying client.
func NewContext(ctx context.Context, client *Client) context.Context {
	return context.WithValue(ctx, contextKey{}, client)
}

// FromContext returns the client injected with NewContext. It fails with
// error H001 when there is none, since registration cannot proceed without
// a client.
func FromContext(ctx context.Context) (*Client, error) {
	if ctx != nil {
		if c, ok := ctx.Value(contextKey{}).(*Client); ok && c != nil {
			return c, nil
		}
	}
	return nil, errors.New("H001")
}

// Use registers input with the client carried by ctx.
func Use(ctx context.Context, input any) (RemoveFunc, error) {
	c, err := FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return c.Register(input), nil
}

// MustUse is like Use but panics when ctx carries no client.
func MustUse(ctx context.Context, input any) RemoveFunc {
	remove, err := Use(ctx, input)
	if err != nil {
		panic(err)
	}
	return remove
}
