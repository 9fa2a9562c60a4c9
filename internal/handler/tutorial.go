package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/tutorial-hub/internal/auth"
	"github.com/sakif/tutorial-hub/internal/repository"
	"github.com/sakif/tutorial-hub/internal/service"
)

// TutorialHandler manages CRUD operations for tutorials.
//
// Every route here sits behind RequireAuth, so the caller's full user record
// is always in the request context. Ownership enforcement (who may update or
// delete) lives in the service — the handler only passes the caller's ID
// along.
type TutorialHandler struct {
	tutorials *service.TutorialService
	logger    *slog.Logger
}

// NewTutorialHandler creates a TutorialHandler.
func NewTutorialHandler(tutorials *service.TutorialService, logger *slog.Logger) *TutorialHandler {
	return &TutorialHandler{tutorials: tutorials, logger: logger}
}

// createTutorialRequest is the body for POST /api/tutorials.
type createTutorialRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	YouTubeURL   string `json:"youtube_url"`
	Category     string `json:"category"`
	PreviewImage string `json:"preview_image"`
}

// HandleCreate publishes a new tutorial owned by the caller.
//
// HTTP: POST /api/tutorials
// Auth: Required
func (h *TutorialHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	var req createTutorialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid tutorial JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	tutorial, err := h.tutorials.Create(r.Context(), user, service.CreateTutorial{
		Title:        req.Title,
		Description:  req.Description,
		YouTubeURL:   req.YouTubeURL,
		Category:     req.Category,
		PreviewImage: req.PreviewImage,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tutorial)
}

// HandleList returns all tutorials, optionally filtered.
//
// HTTP: GET /api/tutorials?category=Tech&search=intro
//
// QUERY PARAMETERS:
//   - category: exact match on the tutorial's category tag
//   - search: case-insensitive substring match against title OR description
//
// Results are ordered newest-created-first. Any authenticated account sees
// all tutorials, not just its own.
func (h *TutorialHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := repository.TutorialFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	tutorials, err := h.tutorials.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tutorials)
}

// HandleListMine returns the caller's own tutorials, newest first.
//
// HTTP: GET /api/tutorials/my
// Auth: Required
func (h *TutorialHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	tutorials, err := h.tutorials.ListByCreator(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tutorials)
}

// HandleGetByID returns a single tutorial.
//
// HTTP: GET /api/tutorials/{id}
func (h *TutorialHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tutorial, err := h.tutorials.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tutorial)
}

// updateTutorialRequest is the body for PUT /api/tutorials/{id}.
// Same pointer-field partial-merge convention as the profile update.
type updateTutorialRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	YouTubeURL   *string `json:"youtube_url"`
	Category     *string `json:"category"`
	PreviewImage *string `json:"preview_image"`
}

// HandleUpdate partially updates a tutorial. Owner only.
//
// HTTP: PUT /api/tutorials/{id}
// Auth: Required
//
// A non-owner gets 403 regardless of what's in the body — the ownership
// check runs before field validation.
func (h *TutorialHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	id := chi.URLParam(r, "id")

	var req updateTutorialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid tutorial JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	tutorial, err := h.tutorials.Update(r.Context(), id, user.ID, service.TutorialUpdate{
		Title:        req.Title,
		Description:  req.Description,
		YouTubeURL:   req.YouTubeURL,
		Category:     req.Category,
		PreviewImage: req.PreviewImage,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tutorial)
}

// HandleDelete removes a tutorial and all bookmarks referencing it. Owner only.
//
// HTTP: DELETE /api/tutorials/{id}
// Auth: Required
func (h *TutorialHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.tutorials.Delete(r.Context(), id, user.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "tutorial deleted"})
}
