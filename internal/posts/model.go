package posts

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Story       string    `json:"story"`
	ImageURL    string    `json:"avatar"`
	ImageKey    string    `json:"image_key"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostInput carries the writable fields of a post. Create and edit both
// overwrite all three; there is no partial update.
type PostInput struct {
	Title       string
	Description string
	Story       string
}

func (in PostInput) Validate() *ValidationError {
	missing := make([]string, 0, 3)
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}
	if in.Story == "" {
		missing = append(missing, "story")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
