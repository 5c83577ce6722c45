package bookmark

import (
	"github.com/deppfellow/bookmarks/internal/validation"
)

// ------------------------------------------------------------

// CreateBookmarkPayload is the POST /bookmarks body. Field order is the
// order required fields are checked in; the first missing one is reported.
type CreateBookmarkPayload struct {
	Title       string  `json:"title" validate:"required"`
	URL         string  `json:"url" validate:"required"`
	Rating      Rating  `json:"rating" validate:"required"`
	Description *string `json:"description"`
}

func (p *CreateBookmarkPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

// MessageEmptyPatch is returned when a PATCH body carries no usable field.
const MessageEmptyPatch = "Request body must contain either 'title', 'url', 'description' or 'rating'"

// UpdateBookmarkPayload is the PATCH /bookmarks/:id body. A field is
// applied only when it is present and non-empty.
type UpdateBookmarkPayload struct {
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Description *string `json:"description"`
	Rating      *Rating `json:"rating"`
}

func (p *UpdateBookmarkPayload) Validate() error {
	if p.Patch().IsEmpty() {
		return validation.CustomValidationErrors{{Message: MessageEmptyPatch}}
	}
	return nil
}

// Patch returns the fields to write. Empty strings and a zero rating are
// dropped.
func (p *UpdateBookmarkPayload) Patch() Patch {
	var patch Patch

	if p.Title != nil && *p.Title != "" {
		patch.Title = p.Title
	}
	if p.URL != nil && *p.URL != "" {
		patch.URL = p.URL
	}
	if p.Description != nil && *p.Description != "" {
		patch.Description = p.Description
	}
	if p.Rating != nil && *p.Rating != 0 {
		rating := float64(*p.Rating)
		patch.Rating = &rating
	}

	return patch
}

// Patch is the set of columns an update writes. Nil means unchanged.
type Patch struct {
	Title       *string
	URL         *string
	Description *string
	Rating      *float64
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.URL == nil && p.Description == nil && p.Rating == nil
}

// Apply returns b with the patch applied.
func (p Patch) Apply(b Bookmark) Bookmark {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.URL != nil {
		b.URL = *p.URL
	}
	if p.Description != nil {
		b.Description = p.Description
	}
	if p.Rating != nil {
		b.Rating = *p.Rating
	}
	return b
}

// ------------------------------------------------------------

// NewBookmark is the validated input for an insert.
type NewBookmark struct {
	Title       string
	URL         string
	Description *string
	Rating      float64
}

// NewBookmark converts the payload into insert input.
func (p *CreateBookmarkPayload) NewBookmark() NewBookmark {
	return NewBookmark{
		Title:       p.Title,
		URL:         p.URL,
		Description: p.Description,
		Rating:      float64(p.Rating),
	}
}

// ------------------------------------------------------------

// GetBookmarksQuery is the (empty) GET /bookmarks request.
type GetBookmarksQuery struct{}

func (q *GetBookmarksQuery) Validate() error {
	return nil
}

// BookmarkRequest is used by routes addressing a single bookmark. The id is
// resolved by the route middleware, so there is nothing to bind.
type BookmarkRequest struct{}

func (r *BookmarkRequest) Validate() error {
	return nil
}
