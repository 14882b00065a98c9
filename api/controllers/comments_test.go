package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/reelhouse-backend/internal/comments"
	pkgerrors "github.com/angelmondragon/reelhouse-backend/pkg/errors"
)

type stubCommentsService struct {
	comment    *comments.CommentDTO
	listResult *comments.ListResult
	err        error

	createdMovie uuid.UUID
	createdBody  string
}

func (s *stubCommentsService) Create(ctx context.Context, profileID, movieID uuid.UUID, req comments.CreateCommentRequest) (*comments.CommentDTO, error) {
	s.createdMovie = movieID
	s.createdBody = req.Description
	return s.comment, s.err
}

func (s *stubCommentsService) List(ctx context.Context, movieID uuid.UUID, params comments.ListParams) (*comments.ListResult, error) {
	return s.listResult, s.err
}

func TestCommentsCreateSuccess(t *testing.T) {
	movieID := uuid.New()
	svc := &stubCommentsService{comment: &comments.CommentDTO{
		ID:          uuid.New(),
		Description: "great movie",
	}}
	handler := CommentsCreate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/movies/"+movieID.String()+"/comments",
		bytes.NewReader([]byte(`{"description":"great movie"}`)))
	req = withActingProfile(req, uuid.New())
	req = withURLParams(req, map[string]string{"id": movieID.String()})
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.createdMovie != movieID {
		t.Fatalf("expected comment on %s got %s", movieID, svc.createdMovie)
	}
	if svc.createdBody != "great movie" {
		t.Fatalf("unexpected body %q", svc.createdBody)
	}
}

func TestCommentsCreateRejectsOversizedBody(t *testing.T) {
	handler := CommentsCreate(&stubCommentsService{}, nil)

	movieID := uuid.New()
	payload := `{"description":"` + strings.Repeat("a", 251) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/movies/"+movieID.String()+"/comments",
		bytes.NewReader([]byte(payload)))
	req = withActingProfile(req, uuid.New())
	req = withURLParams(req, map[string]string{"id": movieID.String()})
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCommentsCreateUnknownMovie(t *testing.T) {
	svc := &stubCommentsService{err: pkgerrors.New(pkgerrors.CodeNotFound, "movie not found")}
	handler := CommentsCreate(svc, nil)

	movieID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/movies/"+movieID.String()+"/comments",
		bytes.NewReader([]byte(`{"description":"hello"}`)))
	req = withActingProfile(req, uuid.New())
	req = withURLParams(req, map[string]string{"id": movieID.String()})
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCommentsListReturnsPage(t *testing.T) {
	movieID := uuid.New()
	svc := &stubCommentsService{listResult: &comments.ListResult{
		Items:  []comments.CommentDTO{{ID: uuid.New(), Description: "great movie"}},
		Cursor: "next",
	}}
	handler := CommentsList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/"+movieID.String()+"/comments", nil)
	req = withURLParams(req, map[string]string{"id": movieID.String()})
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data comments.ListResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 || envelope.Data.Cursor != "next" {
		t.Fatalf("unexpected page %+v", envelope.Data)
	}
}
