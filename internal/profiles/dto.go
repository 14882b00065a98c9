package profiles

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/reelhouse-backend/internal/users"
	"github.com/angelmondragon/reelhouse-backend/pkg/db/models"
)

// ProfileDTO is the public representation of a profile, nesting the account
// fields the owner may edit.
type ProfileDTO struct {
	URL  string         `json:"url"`
	ID   uuid.UUID      `json:"id"`
	Bio  string         `json:"bio"`
	User *users.UserDTO `json:"user"`
}

// CreateProfileDTO holds the data required to persist a new profile. The bio
// always starts empty; owners fill it in later.
type CreateProfileDTO struct {
	UserID uuid.UUID
}

func FromModel(p *models.Profile, u *models.User, baseURL string) *ProfileDTO {
	if p == nil {
		return nil
	}

	return &ProfileDTO{
		URL:  ResourceURL(baseURL, p.ID),
		ID:   p.ID,
		Bio:  p.Bio,
		User: users.FromModel(u),
	}
}

// ResourceURL renders the canonical link for a profile.
func ResourceURL(baseURL string, id uuid.UUID) string {
	return fmt.Sprintf("%s/api/v1/users/%s", baseURL, id)
}

func (c CreateProfileDTO) ToModel() *models.Profile {
	userID := c.UserID
	return &models.Profile{
		ID:     uuid.New(),
		UserID: &userID,
		Bio:    "",
	}
}
