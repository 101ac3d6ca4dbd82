package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/siamdocs/quarry/internal/ingest"
	"github.com/siamdocs/quarry/pkg/handlers"
)

var (
	errInvalidRequest = errors.New("invalid request body")
	errUnknownRun     = errors.New("unknown run")
	errQueueFull      = errors.New("ingestion queue is full")
)

type ingestRequest struct {
	Path string `json:"path"`
}

// handleIngest discovers supported documents at the requested path and
// queues one run per document. The response lists the queued records;
// ingestion proceeds in the background.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		handlers.RespondError(w, s.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	docs, err := ingest.Discover(req.Path)
	if err != nil {
		handlers.RespondError(w, s.logger, http.StatusBadRequest, err)
		return
	}
	if len(docs) == 0 {
		handlers.RespondError(w, s.logger, http.StatusBadRequest, errors.New("no supported documents found"))
		return
	}

	records := make([]RunRecord, 0, len(docs))
	for _, doc := range docs {
		rec := s.store.Create(doc)
		select {
		case s.ingestCh <- ingestTask{record: rec, document: doc}:
			records = append(records, *rec)
		default:
			s.store.Update(rec.ID, func(r *RunRecord) {
				r.Status = StatusFailed
				r.Error = errQueueFull.Error()
			})
			handlers.RespondError(w, s.logger, http.StatusServiceUnavailable, errQueueFull)
			return
		}
	}

	handlers.RespondJSON(w, http.StatusAccepted, records)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, s.store.List())
}

func (s *Server) handleFindRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handlers.RespondError(w, s.logger, http.StatusBadRequest, err)
		return
	}

	rec := s.store.Get(id)
	if rec == nil {
		handlers.RespondError(w, s.logger, http.StatusNotFound, errUnknownRun)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
