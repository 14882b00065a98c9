package comments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/reelhouse-backend/pkg/db/models"
	"github.com/angelmondragon/reelhouse-backend/pkg/pagination"
)

// ListQuery carries the repo-level filters for a comment page.
type ListQuery struct {
	MovieID uuid.UUID
	Limit   int
	Cursor  *pagination.Cursor
}

// Repository exposes comment persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a comments repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a comment.
func (r *Repository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// List returns a newest-first page of comments for a movie. Callers pass
// limit+1 to detect the next page.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Comment, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("movie_id = ?", query.MovieID)

	if query.Cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			query.Cursor.CreatedAt, query.Cursor.CreatedAt, query.Cursor.ID,
		)
	}

	var rows []models.Comment
	err := q.Order("created_at DESC, id DESC").
		Limit(query.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
