package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// BookmarksAPI covers the owner-scoped /bookmarks endpoints.
type BookmarksAPI struct{ c *Client }

// Bookmarks returns the bookmark endpoint group.
func (c *Client) Bookmarks() *BookmarksAPI { return &BookmarksAPI{c: c} }

// List returns the caller's bookmarks narrowed by f. Filtering happens server-side.
func (b *BookmarksAPI) List(ctx context.Context, f domain.Filters) ([]domain.Bookmark, error) {
	q := url.Values{}
	setIf(q, "folder", f.Folder)
	setIf(q, "tag", f.Tag)
	setIf(q, "search", f.Search)

	out := []domain.Bookmark{}
	if err := b.c.do(ctx, request{method: http.MethodGet, path: "/bookmarks", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one bookmark.
func (b *BookmarksAPI) Get(ctx context.Context, id int64) (*domain.Bookmark, error) {
	var out domain.Bookmark
	if err := b.c.do(ctx, b.one(http.MethodGet, id, "", nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create stores a new bookmark.
func (b *BookmarksAPI) Create(ctx context.Context, in domain.CreateBookmark) (*domain.Bookmark, error) {
	var out domain.Bookmark
	if err := b.c.do(ctx, request{method: http.MethodPost, path: "/bookmarks", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update applies a partial update.
func (b *BookmarksAPI) Update(ctx context.Context, id int64, in domain.UpdateBookmark) (*domain.Bookmark, error) {
	var out domain.Bookmark
	if err := b.c.do(ctx, b.one(http.MethodPut, id, "", in), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TogglePrivacy flips is_public and returns the new value.
func (b *BookmarksAPI) TogglePrivacy(ctx context.Context, id int64) (*domain.PrivacyState, error) {
	var out domain.PrivacyState
	if err := b.c.do(ctx, b.one(http.MethodPatch, id, "/privacy", nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a bookmark.
func (b *BookmarksAPI) Delete(ctx context.Context, id int64) error {
	return b.c.do(ctx, b.one(http.MethodDelete, id, "", nil), nil)
}

// Folders lists folder names with their bookmark counts.
func (b *BookmarksAPI) Folders(ctx context.Context) ([]domain.Folder, error) {
	out := []domain.Folder{}
	if err := b.c.do(ctx, request{method: http.MethodGet, path: "/bookmarks/folders"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BookmarksAPI) one(method string, id int64, suffix string, body any) request {
	sid := strconv.FormatInt(id, 10)
	return request{
		method:   method,
		path:     "/bookmarks/" + sid + suffix,
		body:     body,
		resource: "bookmark",
		id:       sid,
	}
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
