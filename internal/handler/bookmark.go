package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/tutorial-hub/internal/auth"
	"github.com/sakif/tutorial-hub/internal/service"
)

// BookmarkHandler lets users save tutorials and read their saved list.
//
// Bookmarks are always scoped to the caller — there is no way to read or
// modify another account's bookmarks through this surface.
type BookmarkHandler struct {
	bookmarks *service.BookmarkService
	logger    *slog.Logger
}

// NewBookmarkHandler creates a BookmarkHandler.
func NewBookmarkHandler(bookmarks *service.BookmarkService, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks, logger: logger}
}

// createBookmarkRequest is the body for POST /api/bookmarks.
type createBookmarkRequest struct {
	TutorialID string `json:"tutorial_id"`
}

// HandleCreate bookmarks a tutorial for the caller.
//
// HTTP: POST /api/bookmarks
// Auth: Required
//
// IDEMPOTENT:
// Bookmarking something already bookmarked returns the existing record —
// same ID, same timestamp, still 201. The frontend's toggle button can fire
// twice without consequence.
func (h *BookmarkHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	var req createBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid bookmark JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	bookmark, err := h.bookmarks.Create(r.Context(), user.ID, req.TutorialID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, bookmark)
}

// HandleList returns the full tutorial records the caller has bookmarked.
//
// HTTP: GET /api/bookmarks
// Auth: Required
//
// Note this returns tutorials, not bookmark records — the service resolves
// the references so the frontend can render the saved list directly.
func (h *BookmarkHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	tutorials, err := h.bookmarks.ListTutorials(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tutorials)
}

// HandleDelete removes the caller's bookmark for a tutorial.
//
// HTTP: DELETE /api/bookmarks/{tutorialId}
// Auth: Required
//
// 404 if the caller never bookmarked this tutorial.
func (h *BookmarkHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	tutorialID := chi.URLParam(r, "tutorialId")

	if err := h.bookmarks.Remove(r.Context(), user.ID, tutorialID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "bookmark removed"})
}

// HandleCheck reports whether the caller has bookmarked a tutorial.
//
// HTTP: GET /api/bookmarks/check/{tutorialId}
// Auth: Required
// RESPONSE: {"bookmarked": true}
//
// Absence is a normal false, never a 404 — the frontend polls this on every
// tutorial page load.
func (h *BookmarkHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	tutorialID := chi.URLParam(r, "tutorialId")

	bookmarked, err := h.bookmarks.Exists(r.Context(), user.ID, tutorialID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"bookmarked": bookmarked})
}
