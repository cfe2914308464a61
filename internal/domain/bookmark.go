package domain

// DefaultFolder is the folder a bookmark lands in when none is given.
const DefaultFolder = "Unsorted"

// Bookmark represents a saved link owned by a user.
// Bookmarks flagged public also appear in the shared feed.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the backend.
	ID int64 `json:"id"`

	// UserID is the owner.
	UserID int64 `json:"user_id"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
	Favicon     *string `json:"favicon"`

	// ─────────────────────────────
	// Organisation
	// ─────────────────────────────

	// Folder is a free-form name, "Unsorted" by default.
	Folder string `json:"folder"`

	// IsPublic makes the bookmark visible in the public feed.
	IsPublic bool `json:"is_public"`

	Tags []Tag `json:"tags"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	// User is only populated on public listings.
	User *User `json:"user,omitempty"`
}

// TagNames returns the names of the bookmark tags in order.
func (b *Bookmark) TagNames() []string {
	names := make([]string, 0, len(b.Tags))
	for _, t := range b.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Tag is a user-scoped label.
type Tag struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	Name       string `json:"name"`
	CreatedAt  string `json:"created_at"`
	UsageCount *int   `json:"usage_count,omitempty"`
}

// Folder is a folder name with the number of bookmarks it holds.
type Folder struct {
	Folder string `json:"folder"`
	Count  int    `json:"count"`
}

// PopularTag is an entry of the public tag cloud.
type PopularTag struct {
	Name       string `json:"name"`
	UsageCount int    `json:"usage_count"`
}

// PrivacyState is returned by the privacy toggle endpoint.
type PrivacyState struct {
	IsPublic bool `json:"is_public"`
}

// CreateBookmark is the body of a create call. URL is required.
type CreateBookmark struct {
	URL         string   `json:"url"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Favicon     *string  `json:"favicon,omitempty"`
	Folder      *string  `json:"folder,omitempty"`
	IsPublic    *bool    `json:"is_public,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateBookmark is a partial update; nil fields are left untouched.
type UpdateBookmark struct {
	URL         *string  `json:"url,omitempty"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Folder      *string  `json:"folder,omitempty"`
	IsPublic    *bool    `json:"is_public,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Filters narrows an owner bookmark listing. Empty fields are not sent.
type Filters struct {
	Folder string `json:"folder,omitempty"`
	Tag    string `json:"tag,omitempty"`
	Search string `json:"search,omitempty"`
}

// PublicFilters narrows the public feed.
type PublicFilters struct {
	Tag    string
	Search string
	Limit  int
	Offset int
}
