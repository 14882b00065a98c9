package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/reelhouse-backend/pkg/errors"
)

// DeleteAccount removes the caller's uploads, profile, and user row in one
// transaction. Comments keep their rows with a null profile reference and
// read as anonymous, but movies go with their uploader: records inside the
// transaction, stored objects after commit so a surviving object is the
// worst case, never a dangling record.
func (s *service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var fileKeys []string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)
		profileRepo := s.profileRepo(tx)
		movieRepo := s.movieRepo(tx)

		profile, err := profileRepo.FindByUserID(ctx, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
		}
		if profile != nil && err == nil {
			owned, err := movieRepo.FindByProfileID(ctx, profile.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load uploads")
			}
			for _, movie := range owned {
				if err := movieRepo.Delete(ctx, movie.ID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete upload")
				}
				fileKeys = append(fileKeys, movie.FileKey)
			}
			if err := profileRepo.Delete(ctx, profile.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete profile")
			}
		}

		if err := userRepo.Delete(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, key := range fileKeys {
		if err := s.store.Delete(ctx, key); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stored file")
		}
	}
	return nil
}
