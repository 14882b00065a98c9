package comments

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/reelhouse-backend/internal/movies"
	"github.com/angelmondragon/reelhouse-backend/internal/profiles"
	"github.com/angelmondragon/reelhouse-backend/pkg/db/models"
)

// CommentDTO is the public representation of a comment. Commenter is null
// when the author deleted their account.
type CommentDTO struct {
	URL         string    `json:"url"`
	ID          uuid.UUID `json:"id"`
	Commenter   *string   `json:"commenter"`
	Movie       string    `json:"movie"`
	Description string    `json:"description"`
}

// CreateCommentRequest carries a new comment body.
type CreateCommentRequest struct {
	Description string `json:"description" validate:"required,max=250"`
}

// FromModel renders the transport shape.
func FromModel(c *models.Comment, baseURL string) *CommentDTO {
	if c == nil {
		return nil
	}

	var commenter *string
	if c.ProfileID != nil {
		link := profiles.ResourceURL(baseURL, *c.ProfileID)
		commenter = &link
	}

	return &CommentDTO{
		URL:         fmt.Sprintf("%s/api/v1/movies/%s/comments/%s", baseURL, c.MovieID, c.ID),
		ID:          c.ID,
		Commenter:   commenter,
		Movie:       movies.ResourceURL(baseURL, c.MovieID),
		Description: c.Body,
	}
}
