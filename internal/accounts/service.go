package accounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/reelhouse-backend/internal/movies"
	"github.com/angelmondragon/reelhouse-backend/internal/profiles"
	"github.com/angelmondragon/reelhouse-backend/internal/users"
	"github.com/angelmondragon/reelhouse-backend/pkg/config"
	"github.com/angelmondragon/reelhouse-backend/pkg/db/models"
)

// Service owns the account lifecycle: registration, activation, the
// two-phase email change, profile reads/updates, and self-deletion.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) error
	Activate(ctx context.Context, uid, token string) error
	RequestEmailChange(ctx context.Context, userID uuid.UUID, req EmailChangeRequest) error
	ConfirmEmailChange(ctx context.Context, userID uuid.UUID, token, encodedEmail string) error
	GetProfile(ctx context.Context, profileID uuid.UUID) (*profiles.ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID, profileID uuid.UUID, req UpdateProfileRequest) (*profiles.ProfileDTO, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	UpdateName(ctx context.Context, id uuid.UUID, update users.NameUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type profileRepository interface {
	Create(ctx context.Context, dto profiles.CreateProfileDTO) (*models.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateBio(ctx context.Context, id uuid.UUID, bio string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type movieRepository interface {
	FindByProfileID(ctx context.Context, profileID uuid.UUID) ([]models.Movie, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type objectStore interface {
	Delete(ctx context.Context, key string) error
}

type mailSender interface {
	SendActivation(ctx context.Context, to, uid, token string) error
	SendEmailChange(ctx context.Context, to, token, encodedEmail string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx          txRunner
	userRepo    func(tx *gorm.DB) userRepository
	profileRepo func(tx *gorm.DB) profileRepository
	movieRepo   func(tx *gorm.DB) movieRepository
	store       objectStore
	mailer      mailSender
	passwordCfg config.PasswordConfig
	confirmCfg  config.ConfirmConfig
	siteBaseURL string
}

// ServiceParams bundles the dependencies for the account lifecycle service.
// The repo factories bind against the ambient connection when tx is nil and
// against an open transaction otherwise.
type ServiceParams struct {
	TxRunner           txRunner
	UserRepoFactory    func(tx *gorm.DB) userRepository
	ProfileRepoFactory func(tx *gorm.DB) profileRepository
	MovieRepoFactory   func(tx *gorm.DB) movieRepository
	Store              objectStore
	Mailer             mailSender
	PasswordConfig     config.PasswordConfig
	ConfirmConfig      config.ConfirmConfig
	SiteBaseURL        string
}

// NewService constructs the account lifecycle service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.UserRepoFactory == nil {
		return nil, fmt.Errorf("user repo factory is required")
	}
	if params.ProfileRepoFactory == nil {
		return nil, fmt.Errorf("profile repo factory is required")
	}
	if params.MovieRepoFactory == nil {
		return nil, fmt.Errorf("movie repo factory is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	if params.SiteBaseURL == "" {
		return nil, fmt.Errorf("site base url is required")
	}
	return &service{
		tx:          params.TxRunner,
		userRepo:    params.UserRepoFactory,
		profileRepo: params.ProfileRepoFactory,
		movieRepo:   params.MovieRepoFactory,
		store:       params.Store,
		mailer:      params.Mailer,
		passwordCfg: params.PasswordConfig,
		confirmCfg:  params.ConfirmConfig,
		siteBaseURL: params.SiteBaseURL,
	}, nil
}

// DefaultUserRepoFactory binds the users repository to the given connection,
// which may be an open transaction.
func DefaultUserRepoFactory(tx *gorm.DB) userRepository {
	return users.NewRepository(tx)
}

// DefaultProfileRepoFactory binds the profiles repository to the given
// connection.
func DefaultProfileRepoFactory(tx *gorm.DB) profileRepository {
	return profiles.NewRepository(tx)
}

// DefaultMovieRepoFactory binds the movies repository to the given
// connection.
func DefaultMovieRepoFactory(tx *gorm.DB) movieRepository {
	return movies.NewRepository(tx)
}
