package bookmark

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy is safe for concurrent use.
var policy = bluemonday.UGCPolicy()

// textEntities reverts the entities bluemonday writes for plain text.
// '<' and '>' stay escaped, so no markup comes back.
var textEntities = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&#34;", "\"")

// sanitize strips markup and keeps ordinary punctuation readable.
func sanitize(s string) string {
	return textEntities.Replace(policy.Sanitize(s))
}

// Response is the public JSON shape of a bookmark.
type Response struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
}

// Serialize shapes a row for output. Title and description are sanitized,
// url passes through untouched.
func Serialize(b Bookmark) Response {
	var description string
	if b.Description != nil {
		description = sanitize(*b.Description)
	}

	return Response{
		ID:          b.ID,
		Title:       sanitize(b.Title),
		URL:         b.URL,
		Description: description,
		Rating:      b.Rating,
	}
}

// SerializeAll shapes a list of rows. It never returns nil.
func SerializeAll(bookmarks []Bookmark) []Response {
	out := make([]Response, 0, len(bookmarks))
	for _, b := range bookmarks {
		out = append(out, Serialize(b))
	}
	return out
}
