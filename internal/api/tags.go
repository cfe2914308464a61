package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// TagsAPI covers /tags.
type TagsAPI struct{ c *Client }

// Tags returns the tag endpoint group.
func (c *Client) Tags() *TagsAPI { return &TagsAPI{c: c} }

// List returns the caller's tags with usage counts.
func (t *TagsAPI) List(ctx context.Context) ([]domain.Tag, error) {
	out := []domain.Tag{}
	if err := t.c.do(ctx, request{method: http.MethodGet, path: "/tags"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create adds a tag.
func (t *TagsAPI) Create(ctx context.Context, name string) (*domain.Tag, error) {
	var out domain.Tag
	body := map[string]string{"name": name}
	if err := t.c.do(ctx, request{method: http.MethodPost, path: "/tags", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a tag.
func (t *TagsAPI) Delete(ctx context.Context, id int64) error {
	sid := strconv.FormatInt(id, 10)
	return t.c.do(ctx, request{method: http.MethodDelete, path: "/tags/" + sid, resource: "tag", id: sid}, nil)
}
