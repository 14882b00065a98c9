package movies

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/reelhouse-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/reelhouse-backend/pkg/errors"
)

const sniffBytes = 1024

// Field bounds, counted in characters.
const (
	maxTitleLength       = 100
	maxDescriptionLength = 1000
)

const (
	extensionErrorMessage = "invalid file extension: not a movie file"
	contentErrorMessage   = "invalid file type: not a movie file"
)

var allowedExtensions = map[string]struct{}{
	".mp4": {},
}

var allowedMimeTypes = map[string]struct{}{
	"video/mp4": {},
}

// UploadInput models an incoming multipart movie upload.
type UploadInput struct {
	MovieName   string
	Description string
	FileName    string
	SizeBytes   int64
	File        io.Reader
}

// Upload validates and stores a new movie. The client filename is checked by
// extension, the content by magic bytes; both must pass independently. The
// stored key never carries the client name.
func (s *service) Upload(ctx context.Context, profileID uuid.UUID, input UploadInput) (*MovieDTO, error) {
	if profileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "profile identity missing")
	}

	title := strings.TrimSpace(input.MovieName)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movie_name is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("movie_name exceeds %d characters", maxTitleLength))
	}
	description := strings.TrimSpace(input.Description)
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("description exceeds %d characters", maxDescriptionLength))
	}
	if input.File == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "uploaded_file is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "uploaded file is empty")
	}
	if input.SizeBytes > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("uploaded file exceeds %d bytes", s.maxBytes))
	}

	ext := strings.ToLower(path.Ext(input.FileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, extensionErrorMessage)
	}

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(input.File, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload")
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	if !isAllowedContent(detected) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, contentErrorMessage)
	}

	movieID := uuid.New()
	key := fmt.Sprintf("movies/%s%s", movieID, ext)

	body := io.MultiReader(bytes.NewReader(head), input.File)
	if err := s.store.Save(ctx, key, io.LimitReader(body, s.maxBytes)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store upload")
	}

	owner := profileID
	movie := &models.Movie{
		ID:          movieID,
		ProfileID:   &owner,
		Title:       title,
		Description: description,
		FileKey:     key,
		MimeType:    detected.String(),
		SizeBytes:   input.SizeBytes,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo(tx).Create(ctx, movie)
		return err
	})
	if err != nil {
		// The object must not outlive a failed insert.
		if cleanupErr := s.store.Delete(ctx, key); cleanupErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, cleanupErr, "remove orphaned upload")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create movie")
	}

	return s.toDTO(movie), nil
}

func isAllowedContent(detected *mimetype.MIME) bool {
	for allowed := range allowedMimeTypes {
		if detected.Is(allowed) {
			return true
		}
	}
	return false
}
