package movies

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/reelhouse-backend/pkg/db/models"
)

// Service exposes movie upload, browsing, and owner-gated mutation.
type Service interface {
	Upload(ctx context.Context, profileID uuid.UUID, input UploadInput) (*MovieDTO, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*MovieDTO, error)
	Update(ctx context.Context, profileID, id uuid.UUID, req UpdateMovieRequest) (*MovieDTO, error)
	Delete(ctx context.Context, profileID, id uuid.UUID) error
}

type movieRepository interface {
	Create(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Movie, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query ListQuery) ([]models.Movie, error)
}

type objectStore interface {
	Save(ctx context.Context, key string, r io.Reader) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx       txRunner
	repo     func(tx *gorm.DB) movieRepository
	store    objectStore
	baseURL  string
	maxBytes int64
}

// ServiceParams bundles the dependencies for the movie service.
type ServiceParams struct {
	TxRunner    txRunner
	RepoFactory func(tx *gorm.DB) movieRepository
	Store       objectStore
	SiteBaseURL string
	MaxBytes    int64
}

// NewService constructs a movie service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.RepoFactory == nil {
		return nil, fmt.Errorf("movie repo factory is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if params.SiteBaseURL == "" {
		return nil, fmt.Errorf("site base url is required")
	}
	if params.MaxBytes <= 0 {
		return nil, fmt.Errorf("max upload bytes must be positive")
	}
	return &service{
		tx:       params.TxRunner,
		repo:     params.RepoFactory,
		store:    params.Store,
		baseURL:  params.SiteBaseURL,
		maxBytes: params.MaxBytes,
	}, nil
}

func (s *service) toDTO(m *models.Movie) *MovieDTO {
	return FromModel(m, s.baseURL, s.store.URL(m.FileKey))
}

// DefaultRepoFactory binds the movie repository to the given connection,
// which may be an open transaction.
func DefaultRepoFactory(tx *gorm.DB) movieRepository {
	return NewRepository(tx)
}
