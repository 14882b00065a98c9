package movies

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/reelhouse-backend/internal/profiles"
	"github.com/angelmondragon/reelhouse-backend/pkg/db/models"
)

// MovieDTO is the public representation of a movie. Uploader is the link to
// the owning profile.
type MovieDTO struct {
	URL          string    `json:"url"`
	ID           uuid.UUID `json:"id"`
	Uploader     *string   `json:"uploader"`
	MovieName    string    `json:"movie_name"`
	Description  string    `json:"description"`
	UploadedFile string    `json:"uploaded_file"`
}

// UpdateMovieRequest is a partial update of the editable fields.
type UpdateMovieRequest struct {
	MovieName   *string `json:"movie_name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// FromModel renders the transport shape; fileURL is the public object URL.
func FromModel(m *models.Movie, baseURL, fileURL string) *MovieDTO {
	if m == nil {
		return nil
	}

	var uploader *string
	if m.ProfileID != nil {
		link := profiles.ResourceURL(baseURL, *m.ProfileID)
		uploader = &link
	}

	return &MovieDTO{
		URL:          ResourceURL(baseURL, m.ID),
		ID:           m.ID,
		Uploader:     uploader,
		MovieName:    m.Title,
		Description:  m.Description,
		UploadedFile: fileURL,
	}
}

// ResourceURL renders the canonical link for a movie.
func ResourceURL(baseURL string, id uuid.UUID) string {
	return fmt.Sprintf("%s/api/v1/movies/%s", baseURL, id)
}
