package movies

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
)

// Get returns the public representation of a movie.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*MovieDTO, error) {
	movie, err := s.findMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(movie), nil
}

// Update edits title/description. Only the uploader may edit; a movie that
// exists but belongs to someone else is FORBIDDEN, not hidden.
func (s *service) Update(ctx context.Context, profileID, id uuid.UUID, req UpdateMovieRequest) (*MovieDTO, error) {
	movie, err := s.authorizeOwner(ctx, profileID, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.MovieName != nil {
		title := strings.TrimSpace(*req.MovieName)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "movie_name cannot be empty")
		}
		if utf8.RuneCountInString(title) > maxTitleLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("movie_name exceeds %d characters", maxTitleLength))
		}
		fields["title"] = title
		movie.Title = title
	}
	if req.Description != nil {
		if utf8.RuneCountInString(*req.Description) > maxDescriptionLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("description exceeds %d characters", maxDescriptionLength))
		}
		fields["description"] = *req.Description
		movie.Description = *req.Description
	}

	if len(fields) > 0 {
		if err := s.repo(nil).Update(ctx, movie.ID, fields); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update movie")
		}
	}
	return s.toDTO(movie), nil
}

// Delete removes the record and the stored object. The record goes first so
// a surviving object is the worst case, never a dangling record.
func (s *service) Delete(ctx context.Context, profileID, id uuid.UUID) error {
	movie, err := s.authorizeOwner(ctx, profileID, id)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo(tx).Delete(ctx, movie.ID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete movie")
	}

	if err := s.store.Delete(ctx, movie.FileKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stored file")
	}
	return nil
}

func (s *service) findMovie(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	movie, err := s.repo(nil).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "movie not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load movie")
	}
	return movie, nil
}

func (s *service) authorizeOwner(ctx context.Context, profileID, id uuid.UUID) (*models.Movie, error) {
	if profileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "profile identity missing")
	}
	movie, err := s.findMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie.ProfileID == nil || *movie.ProfileID != profileID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "movie belongs to another profile")
	}
	return movie, nil
}
