package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/reelhouse-backend/api/responses"
	"github.com/angelmondragon/reelhouse-backend/api/validators"
	"github.com/angelmondragon/reelhouse-backend/internal/comments"
	"github.com/angelmondragon/reelhouse-backend/pkg/logger"
	"github.com/angelmondragon/reelhouse-backend/pkg/pagination"
)

// CommentsCreate posts a comment on a movie as the acting profile.
func CommentsCreate(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
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

		var req comments.CreateCommentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		comment, err := svc.Create(r.Context(), profileID, movieID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, comment)
	}
}

// CommentsList returns one cursor page of a movie's comments.
func CommentsList(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := comments.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		result, err := svc.List(r.Context(), movieID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
