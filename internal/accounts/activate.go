package accounts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/reelhouse-backend/internal/profiles"
	"github.com/angelmondragon/reelhouse-backend/pkg/confirm"
	pkgerrors "github.com/angelmondragon/reelhouse-backend/pkg/errors"
)

const activationFailedMessage = "activation link is invalid"

// Activate flips an account active and creates its profile. Every failure
// mode collapses to NOT_FOUND so the link leaks nothing about which accounts
// exist or which part of the check failed.
func (s *service) Activate(ctx context.Context, uid, token string) error {
	decoded, err := decodeUserID(uid)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, activationFailedMessage)
	}
	userID, err := uuid.Parse(decoded)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, activationFailedMessage)
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)
		profileRepo := s.profileRepo(tx)

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, activationFailedMessage)
		}
		// Token reuse: an already-active account never re-activates.
		if user.IsActive {
			return pkgerrors.New(pkgerrors.CodeNotFound, activationFailedMessage)
		}
		if !confirm.Verify(s.confirmCfg, user.ID, confirm.PurposeActivate, token) {
			return pkgerrors.New(pkgerrors.CodeNotFound, activationFailedMessage)
		}

		if err := userRepo.SetActive(ctx, user.ID, true); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "activate user")
		}
		if _, err := profileRepo.Create(ctx, profiles.CreateProfileDTO{UserID: user.ID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}
		return nil
	})
}
