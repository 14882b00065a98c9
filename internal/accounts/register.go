package accounts

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/reelhouse-backend/internal/users"
	"github.com/angelmondragon/reelhouse-backend/pkg/confirm"
	"github.com/angelmondragon/reelhouse-backend/pkg/db"
	"github.com/angelmondragon/reelhouse-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/reelhouse-backend/pkg/errors"
	"github.com/angelmondragon/reelhouse-backend/pkg/security"
)

func (s *service) Register(ctx context.Context, req RegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if req.Password != req.PasswordConfirm {
		return pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeValidation, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		created = user
		return nil
	})
	if err != nil {
		return err
	}

	token, err := confirm.Mint(s.confirmCfg, time.Now().UTC(), created.ID, confirm.PurposeActivate)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint activation token")
	}

	uid := encodeUserID(created.ID.String())
	if err := s.mailer.SendActivation(ctx, created.Email, uid, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send activation email")
	}
	return nil
}

// encodeUserID renders the user id as the url-safe opaque handle carried in
// confirmation links.
func encodeUserID(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

func decodeUserID(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
