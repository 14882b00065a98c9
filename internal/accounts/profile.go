package accounts

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/reelhouse-backend/internal/profiles"
	"github.com/angelmondragon/reelhouse-backend/internal/users"
	pkgerrors "github.com/angelmondragon/reelhouse-backend/pkg/errors"
)

// maxBioLength bounds the profile bio, counted in characters.
const maxBioLength = 1000

// GetProfile returns the public resource for a profile id.
func (s *service) GetProfile(ctx context.Context, profileID uuid.UUID) (*profiles.ProfileDTO, error) {
	profileRepo := s.profileRepo(nil)
	userRepo := s.userRepo(nil)

	profile, err := profileRepo.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}

	if profile.UserID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	user, err := userRepo.FindByID(ctx, *profile.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile owner")
	}

	return profiles.FromModel(profile, user, s.siteBaseURL), nil
}

// UpdateProfile applies a partial update to the caller's own profile. A
// profile that exists but belongs to someone else is FORBIDDEN, not hidden.
func (s *service) UpdateProfile(ctx context.Context, userID, profileID uuid.UUID, req UpdateProfileRequest) (*profiles.ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		profileRepo := s.profileRepo(tx)
		userRepo := s.userRepo(tx)

		profile, err := profileRepo.FindByID(ctx, profileID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
		}
		if profile.UserID == nil || *profile.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "profile belongs to another account")
		}

		if req.Bio != nil {
			if utf8.RuneCountInString(*req.Bio) > maxBioLength {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("bio exceeds %d characters", maxBioLength))
			}
			if err := profileRepo.UpdateBio(ctx, profile.ID, *req.Bio); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update bio")
			}
		}
		if req.User != nil {
			update := users.NameUpdate{
				FirstName: req.User.FirstName,
				LastName:  req.User.LastName,
			}
			if err := userRepo.UpdateName(ctx, userID, update); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update name")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, profileID)
}
