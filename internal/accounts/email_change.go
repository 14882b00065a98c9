package accounts

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/reelhouse-backend/pkg/confirm"
	"github.com/angelmondragon/reelhouse-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/reelhouse-backend/pkg/errors"
)

const emailChangeFailedMessage = "email confirmation link is invalid"

// RequestEmailChange runs phase one: validate the proposed address and mail a
// confirmation link to it. Nothing is persisted until phase two.
func (s *service) RequestEmailChange(ctx context.Context, userID uuid.UUID, req EmailChangeRequest) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	newEmail := strings.ToLower(strings.TrimSpace(req.NewEmail))
	if newEmail == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "new_email is required")
	}

	userRepo := s.userRepo(nil)
	if _, err := userRepo.FindByEmail(ctx, newEmail); err == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email availability")
	}

	token, err := confirm.Mint(s.confirmCfg, time.Now().UTC(), userID, confirm.PurposeChangeEmail)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint email change token")
	}

	// The proposed address travels in the link, not the token.
	encoded := base64.RawURLEncoding.EncodeToString([]byte(newEmail))
	if err := s.mailer.SendEmailChange(ctx, newEmail, token, encoded); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send email change email")
	}
	return nil
}

// ConfirmEmailChange runs phase two. The token is verified against the
// currently-authenticated user, so a link opened under a different login
// fails closed.
func (s *service) ConfirmEmailChange(ctx context.Context, userID uuid.UUID, token, encodedEmail string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encodedEmail, "="))
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, emailChangeFailedMessage)
	}
	newEmail := strings.ToLower(strings.TrimSpace(string(raw)))
	if newEmail == "" {
		return pkgerrors.New(pkgerrors.CodeNotFound, emailChangeFailedMessage)
	}

	if !confirm.Verify(s.confirmCfg, userID, confirm.PurposeChangeEmail, token) {
		return pkgerrors.New(pkgerrors.CodeNotFound, emailChangeFailedMessage)
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)

		if _, err := userRepo.FindByEmail(ctx, newEmail); err == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email availability")
		}

		if err := userRepo.UpdateEmail(ctx, userID, newEmail); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeValidation, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update email")
		}
		return nil
	})
}
