package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/reelhouse-backend/api/middleware"
	"github.com/angelmondragon/reelhouse-backend/api/responses"
	"github.com/angelmondragon/reelhouse-backend/api/validators"
	"github.com/angelmondragon/reelhouse-backend/internal/movies"
	pkgerrors "github.com/angelmondragon/reelhouse-backend/pkg/errors"
	"github.com/angelmondragon/reelhouse-backend/pkg/logger"
	"github.com/angelmondragon/reelhouse-backend/pkg/pagination"
)

// multipartMemoryLimit caps how much of the upload is buffered in memory
// before spilling to a temp file.
const multipartMemoryLimit = 10 << 20

func actingProfileID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ProfileIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active profile")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid credentials")
	}
	return id, nil
}

// MoviesUpload accepts a multipart form with movie_name, description and an
// uploaded_file part.
func MoviesUpload(svc movies.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := actingProfileID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartMemoryLimit)
		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("uploaded_file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "uploaded_file is required"))
			return
		}
		defer file.Close()

		input := movies.UploadInput{
			MovieName:   strings.TrimSpace(r.FormValue("movie_name")),
			Description: strings.TrimSpace(r.FormValue("description")),
			FileName:    header.Filename,
			SizeBytes:   header.Size,
			File:        file,
		}

		movie, err := svc.Upload(r.Context(), profileID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, movie)
	}
}

// MoviesList serves the public, searchable movie feed.
func MoviesList(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := movies.ListParams{
			Search: strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func MoviesGet(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movie, err := svc.Get(r.Context(), movieID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, movie)
	}
}

// MoviesUpdate applies a partial update; only the owning profile may mutate.
func MoviesUpdate(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := actingProfileID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movieID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req movies.UpdateMovieRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movie, err := svc.Update(r.Context(), profileID, movieID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, movie)
	}
}

// MoviesDelete removes the record and its stored file; owner only.
func MoviesDelete(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := actingProfileID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movieID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), profileID, movieID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
