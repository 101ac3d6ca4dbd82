package items

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/siamdocs/quarry/pkg/handlers"
	"github.com/siamdocs/quarry/pkg/pagination"
	"github.com/siamdocs/quarry/pkg/routes"
)

// Handler provides HTTP endpoints for knowledge item operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "items"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for item endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/items",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/chunks", Handler: h.Chunks},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	item, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) Chunks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	chunks, err := h.sys.Chunks(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, chunks)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, statusFor(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrItemExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
