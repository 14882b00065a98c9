package movies

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/reelhouse-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/reelhouse-backend/pkg/errors"
	"github.com/angelmondragon/reelhouse-backend/pkg/pagination"
)

// mp4Header is a minimal ISO BMFF ftyp box that sniffs as video/mp4.
var mp4Header = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
	'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
	'i', 's', 'o', 'm', 'i', 's', 'o', '2',
}

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubMovieRepo struct {
	byID      map[uuid.UUID]*models.Movie
	rows      []models.Movie
	createErr error
	lastQuery ListQuery
}

func newStubMovieRepo() *stubMovieRepo {
	return &stubMovieRepo{byID: map[uuid.UUID]*models.Movie{}}
}

func (s *stubMovieRepo) Create(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.byID[movie.ID] = movie
	return movie, nil
}

func (s *stubMovieRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	if m, ok := s.byID[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMovieRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	m, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if title, ok := fields["title"].(string); ok {
		m.Title = title
	}
	if desc, ok := fields["description"].(string); ok {
		m.Description = desc
	}
	return nil
}

func (s *stubMovieRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

func (s *stubMovieRepo) List(ctx context.Context, query ListQuery) ([]models.Movie, error) {
	s.lastQuery = query
	if query.Limit < len(s.rows) {
		return s.rows[:query.Limit], nil
	}
	return s.rows, nil
}

type stubStore struct {
	objects map[string][]byte
	saveErr error
	deleted []string
}

func newStubStore() *stubStore {
	return &stubStore{objects: map[string][]byte{}}
}

func (s *stubStore) Save(ctx context.Context, key string, r io.Reader) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *stubStore) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *stubStore) URL(key string) string {
	return "https://media.reelhouse.example/" + key
}

type movieTestSetup struct {
	service Service
	repo    *stubMovieRepo
	store   *stubStore
}

func newMovieTestSetup(t *testing.T) *movieTestSetup {
	t.Helper()
	repo := newStubMovieRepo()
	store := newStubStore()
	svc, err := NewService(ServiceParams{
		TxRunner: stubTxRunner{},
		RepoFactory: func(tx *gorm.DB) movieRepository {
			return repo
		},
		Store:       store,
		SiteBaseURL: "https://reelhouse.example",
		MaxBytes:    1 << 20,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &movieTestSetup{service: svc, repo: repo, store: store}
}

func validUpload(name string) UploadInput {
	body := append(append([]byte{}, mp4Header...), bytes.Repeat([]byte{0x01}, 64)...)
	return UploadInput{
		MovieName:   name,
		Description: "a short film",
		FileName:    "original name.mp4",
		SizeBytes:   int64(len(body)),
		File:        bytes.NewReader(body),
	}
}

func TestUploadStoresObjectUnderOpaqueKey(t *testing.T) {
	setup := newMovieTestSetup(t)
	profileID := uuid.New()

	dto, err := setup.service.Upload(context.Background(), profileID, validUpload("First Cut"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if dto.MovieName != "First Cut" {
		t.Fatalf("unexpected movie name %q", dto.MovieName)
	}
	if dto.Uploader == nil || !strings.Contains(*dto.Uploader, profileID.String()) {
		t.Fatalf("uploader link missing")
	}

	if len(setup.store.objects) != 1 {
		t.Fatalf("expected one stored object")
	}
	for key := range setup.store.objects {
		if !strings.HasPrefix(key, "movies/") || !strings.HasSuffix(key, ".mp4") {
			t.Fatalf("unexpected object key %q", key)
		}
		if strings.Contains(key, "original") {
			t.Fatalf("client filename leaked into key %q", key)
		}
	}

	stored := setup.repo.byID[dto.ID]
	if stored == nil {
		t.Fatalf("record not created")
	}
	if stored.MimeType != "video/mp4" {
		t.Fatalf("unexpected sniffed type %q", stored.MimeType)
	}
}

func TestUploadRejectsBadExtensionBeforeContent(t *testing.T) {
	setup := newMovieTestSetup(t)
	input := validUpload("Bad Ext")
	input.FileName = "movie.avi"

	_, err := setup.service.Upload(context.Background(), uuid.New(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), extensionErrorMessage) {
		t.Fatalf("expected extension message, got %q", err.Error())
	}
	if len(setup.store.objects) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestUploadRejectsMasqueradingContent(t *testing.T) {
	setup := newMovieTestSetup(t)
	body := []byte("#!/bin/sh\necho not a movie\n")
	input := UploadInput{
		MovieName: "Disguised",
		FileName:  "payload.mp4",
		SizeBytes: int64(len(body)),
		File:      bytes.NewReader(body),
	}

	_, err := setup.service.Upload(context.Background(), uuid.New(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), contentErrorMessage) {
		t.Fatalf("expected content message, got %q", err.Error())
	}
	if len(setup.store.objects) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	setup := newMovieTestSetup(t)
	input := validUpload("Huge")
	input.SizeBytes = 2 << 20

	_, err := setup.service.Upload(context.Background(), uuid.New(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadRejectsOverlongTitleAndDescription(t *testing.T) {
	setup := newMovieTestSetup(t)

	input := validUpload(strings.Repeat("t", 10000))
	_, err := setup.service.Upload(context.Background(), uuid.New(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for long title, got %v", err)
	}

	input = validUpload("Short Title")
	input.Description = strings.Repeat("d", 50000)
	_, err = setup.service.Upload(context.Background(), uuid.New(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for long description, got %v", err)
	}

	if len(setup.store.objects) != 0 {
		t.Fatalf("nothing should be stored")
	}
	if len(setup.repo.byID) != 0 {
		t.Fatalf("no record should be created")
	}
}

func TestUploadAcceptsBoundaryLengths(t *testing.T) {
	setup := newMovieTestSetup(t)
	input := validUpload(strings.Repeat("t", 100))
	input.Description = strings.Repeat("d", 1000)

	if _, err := setup.service.Upload(context.Background(), uuid.New(), input); err != nil {
		t.Fatalf("boundary-length upload should pass: %v", err)
	}
}

func TestUpdateRejectsOverlongFields(t *testing.T) {
	setup := newMovieTestSetup(t)
	owner := uuid.New()
	dto, err := setup.service.Upload(context.Background(), owner, validUpload("Original"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	longTitle := strings.Repeat("t", 101)
	if _, err := setup.service.Update(context.Background(), owner, dto.ID, UpdateMovieRequest{MovieName: &longTitle}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for long title, got %v", err)
	}

	longDescription := strings.Repeat("d", 1001)
	if _, err := setup.service.Update(context.Background(), owner, dto.ID, UpdateMovieRequest{Description: &longDescription}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for long description, got %v", err)
	}

	if setup.repo.byID[dto.ID].Title != "Original" {
		t.Fatalf("record must be untouched after rejected update")
	}
}

func TestUploadRemovesObjectWhenInsertFails(t *testing.T) {
	setup := newMovieTestSetup(t)
	setup.repo.createErr = gorm.ErrInvalidData

	_, err := setup.service.Upload(context.Background(), uuid.New(), validUpload("Doomed"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(setup.store.objects) != 0 {
		t.Fatalf("orphaned object left behind")
	}
	if len(setup.store.deleted) != 1 {
		t.Fatalf("expected cleanup delete")
	}
}

func seedMovie(setup *movieTestSetup, profileID uuid.UUID, title string) *models.Movie {
	owner := profileID
	movie := &models.Movie{
		ID:        uuid.New(),
		ProfileID: &owner,
		Title:     title,
		FileKey:   "movies/" + uuid.NewString() + ".mp4",
		MimeType:  "video/mp4",
		CreatedAt: time.Now().UTC(),
	}
	setup.repo.byID[movie.ID] = movie
	return movie
}

func TestGetMissingMovieIsNotFound(t *testing.T) {
	setup := newMovieTestSetup(t)
	_, err := setup.service.Get(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateByNonOwnerIsForbidden(t *testing.T) {
	setup := newMovieTestSetup(t)
	movie := seedMovie(setup, uuid.New(), "Original")

	name := "Hijacked"
	_, err := setup.service.Update(context.Background(), uuid.New(), movie.ID, UpdateMovieRequest{MovieName: &name})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if movie.Title != "Original" {
		t.Fatalf("title must be unchanged")
	}
}

func TestUpdateByOwnerAppliesPartialFields(t *testing.T) {
	setup := newMovieTestSetup(t)
	profileID := uuid.New()
	movie := seedMovie(setup, profileID, "Original")

	desc := "recut edition"
	dto, err := setup.service.Update(context.Background(), profileID, movie.ID, UpdateMovieRequest{Description: &desc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.MovieName != "Original" {
		t.Fatalf("untouched title changed")
	}
	if dto.Description != "recut edition" {
		t.Fatalf("description not updated")
	}
}

func TestDeleteByOwnerRemovesRecordAndObject(t *testing.T) {
	setup := newMovieTestSetup(t)
	profileID := uuid.New()
	movie := seedMovie(setup, profileID, "Short")
	setup.store.objects[movie.FileKey] = []byte("data")

	if err := setup.service.Delete(context.Background(), profileID, movie.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := setup.repo.byID[movie.ID]; ok {
		t.Fatalf("record should be gone")
	}
	if _, ok := setup.store.objects[movie.FileKey]; ok {
		t.Fatalf("object should be gone")
	}
}

func TestDeleteByNonOwnerIsForbidden(t *testing.T) {
	setup := newMovieTestSetup(t)
	movie := seedMovie(setup, uuid.New(), "Short")

	err := setup.service.Delete(context.Background(), uuid.New(), movie.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestListSplitsSearchIntoKeywords(t *testing.T) {
	setup := newMovieTestSetup(t)

	_, err := setup.service.List(context.Background(), ListParams{Search: "  space  odyssey "})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := setup.repo.lastQuery.Keywords
	if len(got) != 2 || got[0] != "space" || got[1] != "odyssey" {
		t.Fatalf("unexpected keywords %v", got)
	}
	if setup.repo.lastQuery.Limit != pagination.DefaultLimit+1 {
		t.Fatalf("expected buffered limit, got %d", setup.repo.lastQuery.Limit)
	}
}

func TestListEmitsCursorOnlyWhenMoreRowsExist(t *testing.T) {
	setup := newMovieTestSetup(t)
	base := time.Now().UTC()
	for i := 0; i < pagination.DefaultLimit+1; i++ {
		owner := uuid.New()
		setup.repo.rows = append(setup.repo.rows, models.Movie{
			ID:        uuid.New(),
			ProfileID: &owner,
			Title:     "movie",
			FileKey:   "movies/" + uuid.NewString() + ".mp4",
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		})
	}

	result, err := setup.service.List(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != pagination.DefaultLimit {
		t.Fatalf("expected %d items, got %d", pagination.DefaultLimit, len(result.Items))
	}
	if result.Cursor == "" {
		t.Fatalf("expected next cursor")
	}

	cursor, err := pagination.ParseCursor(result.Cursor)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	last := result.Items[len(result.Items)-1]
	if cursor.ID != last.ID {
		t.Fatalf("cursor should point at the last returned row")
	}

	setup.repo.rows = setup.repo.rows[:3]
	short, err := setup.service.List(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if short.Cursor != "" {
		t.Fatalf("no cursor expected on final page")
	}
}

func TestListRejectsMalformedCursor(t *testing.T) {
	setup := newMovieTestSetup(t)
	_, err := setup.service.List(context.Background(), ListParams{Cursor: "not-base64!!"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
