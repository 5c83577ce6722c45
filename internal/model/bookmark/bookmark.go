package bookmark

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/deppfellow/bookmarks/internal/validation"
)

// Bookmark is a row of the bookmarks table.
type Bookmark struct {
	ID          int64
	Title       string
	URL         string
	Description *string
	Rating      float64
}

// Rating is a numeric rating that also decodes from a numeric JSON string,
// so both 5 and "5" become 5. An empty string or null decodes to zero,
// which counts as absent.
type Rating float64

func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errRatingNotNumber
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*r = 0
			return nil
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return errRatingNotNumber
	}

	*r = Rating(v)
	return nil
}

var errRatingNotNumber = validation.CustomValidationError{
	Field:   "rating",
	Message: "'rating' must be a number",
}
