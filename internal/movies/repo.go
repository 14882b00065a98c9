package movies

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/reelhouse-backend/pkg/db/models"
	"github.com/angelmondragon/reelhouse-backend/pkg/pagination"
)

// ListQuery carries the repo-level filters for a movie page.
type ListQuery struct {
	Keywords []string
	Limit    int
	Cursor   *pagination.Cursor
}

// Repository exposes movie persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a movies repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a movie record.
func (r *Repository) Create(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	if err := r.db.WithContext(ctx).Create(movie).Error; err != nil {
		return nil, err
	}
	return movie, nil
}

// FindByID retrieves a movie by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	var m models.Movie
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Update applies the given column values.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Movie{}).
		Where("id = ?", id).
		UpdateColumns(fields).Error
}

// Delete removes a movie record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Movie{}).Error
}

// FindByProfileID returns every movie uploaded by the given profile.
func (r *Repository) FindByProfileID(ctx context.Context, profileID uuid.UUID) ([]models.Movie, error) {
	var out []models.Movie
	if err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// List returns a newest-first page. Every keyword must match the title,
// case-insensitively. Callers pass limit+1 to detect the next page.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Movie, error) {
	q := r.db.WithContext(ctx).Model(&models.Movie{})

	for _, keyword := range query.Keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}

	if query.Cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			query.Cursor.CreatedAt, query.Cursor.CreatedAt, query.Cursor.ID,
		)
	}

	var rows []models.Movie
	err := q.Order("created_at DESC, id DESC").
		Limit(query.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
