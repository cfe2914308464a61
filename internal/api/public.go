package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// PublicAPI covers the anonymous /public feed.
type PublicAPI struct{ c *Client }

// Public returns the public endpoint group.
func (c *Client) Public() *PublicAPI { return &PublicAPI{c: c} }

// Bookmarks lists shareable bookmarks across all users.
func (p *PublicAPI) Bookmarks(ctx context.Context, f domain.PublicFilters) ([]domain.Bookmark, error) {
	q := url.Values{}
	setIf(q, "tag", f.Tag)
	setIf(q, "search", f.Search)
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}

	out := []domain.Bookmark{}
	if err := p.c.do(ctx, request{method: http.MethodGet, path: "/public/bookmarks", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserBookmarks lists the public bookmarks of one user.
func (p *PublicAPI) UserBookmarks(ctx context.Context, username string) ([]domain.Bookmark, error) {
	out := []domain.Bookmark{}
	r := request{
		method:   http.MethodGet,
		path:     "/public/users/" + url.PathEscape(username) + "/bookmarks",
		resource: "user",
		id:       username,
	}
	if err := p.c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PopularTags returns the most used public tags.
func (p *PublicAPI) PopularTags(ctx context.Context, limit int) ([]domain.PopularTag, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	out := []domain.PopularTag{}
	if err := p.c.do(ctx, request{method: http.MethodGet, path: "/public/tags/popular", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
