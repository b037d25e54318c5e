package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/rinkstats/internal/hockey"
	"github.com/mauv0809/rinkstats/internal/journal"
	"github.com/mauv0809/rinkstats/internal/syncer"
)

// maxEventsBody bounds a submission body.
const maxEventsBody = 1 << 20

// SubmitEventsHandler journals a batch of events and saves it to the workbook.
func (s *Server) SubmitEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := hockey.ParseKind(r.PathValue("kind"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		var req eventsRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventsBody)).Decode(&req); err != nil {
			log.FromContext(r.Context()).Warn("Invalid events body", "kind", kind, "error", err)
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		batch := syncer.Batch{Kind: kind, SubmissionID: req.SubmissionID}
		for _, values := range req.Records {
			batch.Records = append(batch.Records, hockey.RecordFromValues(values))
		}
		for i, raw := range req.Events {
			e, err := hockey.UnmarshalEvent(kind, raw)
			if err != nil {
				log.FromContext(r.Context()).Warn("Invalid typed event", "kind", kind, "index", i, "error", err)
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			batch.Events = append(batch.Events, e)
		}

		sub, err := s.Syncer.Submit(r.Context(), batch, isDryRunFromContext(r))
		switch {
		case errors.Is(err, syncer.ErrSyncFailed):
			// Journaled; the scheduler retries the sync.
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: syncer.ErrSyncFailed.Error(), IDs: sub.IDs})
		case errors.Is(err, hockey.ErrInvalidEvent), errors.Is(err, hockey.ErrMissingColumn), errors.Is(err, hockey.ErrUnknownKind):
			writeError(w, http.StatusBadRequest, err.Error())
		case err != nil:
			log.FromContext(r.Context()).Error("Failed to submit events", "kind", kind, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to save events")
		case len(sub.IDs) == 0:
			writeJSON(w, http.StatusOK, sub)
		default:
			writeJSON(w, http.StatusCreated, sub)
		}
	}
}

// SyncHandler pushes pending journal entries to the workbook. An optional
// kind limits the sync to one sheet.
func (s *Server) SyncHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dryRun := isDryRunFromContext(r)
		resp := syncResponse{Results: []syncer.Result{}, DryRun: dryRun}

		if k := r.URL.Query().Get("kind"); k != "" {
			kind, err := hockey.ParseKind(k)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			res, err := s.Syncer.Sync(r.Context(), kind, dryRun)
			if err != nil {
				log.FromContext(r.Context()).Error("Manual sync failed", "kind", kind, "error", err)
				writeError(w, http.StatusBadGateway, err.Error())
				return
			}
			resp.Results = append(resp.Results, res)
			writeJSON(w, http.StatusOK, resp)
			return
		}

		results, err := s.Syncer.SyncAll(r.Context(), dryRun)
		resp.Results = append(resp.Results, results...)
		if err != nil {
			log.FromContext(r.Context()).Error("Manual sync failed", "error", err)
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// JournalHandler lists journal entries and per-status counts.
func (s *Server) JournalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := journal.Filter{
			Status: journal.SyncStatus(q.Get("status")),
			Team:   q.Get("team"),
			Limit:  100,
		}
		if k := q.Get("kind"); k != "" {
			kind, err := hockey.ParseKind(k)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			f.Kind = kind
		}
		if l := q.Get("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "limit must be a positive number")
				return
			}
			f.Limit = n
		}

		entries, err := s.Journal.List(r.Context(), f)
		if err != nil {
			log.FromContext(r.Context()).Error("Failed to list journal", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list journal")
			return
		}
		counts, err := s.Journal.Counts(r.Context())
		if err != nil {
			log.FromContext(r.Context()).Error("Failed to count journal", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to count journal")
			return
		}
		writeJSON(w, http.StatusOK, journalResponse{Entries: nonNil(entries), Counts: nonNil(counts)})
	}
}
