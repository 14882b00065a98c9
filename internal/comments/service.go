package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/reelhouse-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/reelhouse-backend/pkg/errors"
	"github.com/angelmondragon/reelhouse-backend/pkg/pagination"
)

// maxBodyLength bounds a comment, counted in characters.
const maxBodyLength = 250

// Service exposes comment creation and browsing for a movie.
type Service interface {
	Create(ctx context.Context, profileID, movieID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error)
	List(ctx context.Context, movieID uuid.UUID, params ListParams) (*ListResult, error)
}

// ListParams configures a comment page.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult is one page of comments plus the cursor for the next one.
type ListResult struct {
	Items  []CommentDTO `json:"items"`
	Cursor string       `json:"cursor"`
}

type commentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	List(ctx context.Context, query ListQuery) ([]models.Comment, error)
}

type movieFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Movie, error)
}

type service struct {
	repo    commentRepository
	movies  movieFinder
	baseURL string
}

// ServiceParams bundles the dependencies for the comment service.
type ServiceParams struct {
	Repo        commentRepository
	MovieFinder movieFinder
	SiteBaseURL string
}

// NewService constructs a comment service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("comment repository is required")
	}
	if params.MovieFinder == nil {
		return nil, fmt.Errorf("movie finder is required")
	}
	if params.SiteBaseURL == "" {
		return nil, fmt.Errorf("site base url is required")
	}
	return &service{
		repo:    params.Repo,
		movies:  params.MovieFinder,
		baseURL: params.SiteBaseURL,
	}, nil
}

// Create adds a comment to an existing movie.
func (s *service) Create(ctx context.Context, profileID, movieID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error) {
	if profileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "profile identity missing")
	}

	body := strings.TrimSpace(req.Description)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if utf8.RuneCountInString(body) > maxBodyLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("description exceeds %d characters", maxBodyLength))
	}

	if _, err := s.movies.FindByID(ctx, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "movie not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load movie")
	}

	commenter := profileID
	comment := &models.Comment{
		ID:        uuid.New(),
		MovieID:   movieID,
		ProfileID: &commenter,
		Body:      body,
	}
	if _, err := s.repo.Create(ctx, comment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create comment")
	}

	return FromModel(comment, s.baseURL), nil
}

// List returns a newest-first page of a movie's comments.
func (s *service) List(ctx context.Context, movieID uuid.UUID, params ListParams) (*ListResult, error) {
	if _, err := s.movies.FindByID(ctx, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "movie not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load movie")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	query := ListQuery{MovieID: movieID, Limit: limit + 1}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list comments")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	items := make([]CommentDTO, len(rows))
	for i := range rows {
		items[i] = *FromModel(&rows[i], s.baseURL)
	}
	return &ListResult{Items: items, Cursor: nextCursor}, nil
}
