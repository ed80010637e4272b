package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/javiermolinar/semana/internal/exchange"
	"github.com/javiermolinar/semana/internal/logging"
	"github.com/javiermolinar/semana/internal/store"
	"github.com/javiermolinar/semana/internal/task"
)

const syncHeader = "X-Sync-Status"

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type stateResponse struct {
	task.Snapshot
	Sync string `json:"sync"`
}

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Duration    int    `json:"duration"`
	Color       string `json:"color"`
}

type patchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Duration    *int    `json:"duration"`
	Color       *string `json:"color"`
}

type placeRequest struct {
	Day  int  `json:"day"`
	Slot int  `json:"slot"`
	Auto bool `json:"auto"`
}

type resizeRequest struct {
	Edge string `json:"edge"`
	Slot int    `json:"slot"`
}

func (r patchRequest) fields() task.Fields {
	f := task.Fields{
		Title:       r.Title,
		Description: r.Description,
		Duration:    r.Duration,
		Color:       r.Color,
	}
	if r.Category != nil {
		c := task.Category(*r.Category)
		f.Category = &c
	}
	if r.Priority != nil {
		p := task.Priority(*r.Priority)
		f.Priority = &p
	}
	return f
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeState(w, http.StatusOK)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.engine.CreateTask(r.Context(), task.Draft{
		Title:       req.Title,
		Description: req.Description,
		Category:    task.Category(req.Category),
		Priority:    task.Priority(req.Priority),
		Duration:    req.Duration,
		Color:       req.Color,
	})
	s.respond(w, http.StatusCreated, t, err)
}

func (s *Server) handleEditTask(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.engine.EditTask(r.Context(), r.PathValue("id"), req.fields())
	s.respond(w, http.StatusOK, t, err)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.engine.DeleteTask(r.Context(), id) {
		s.fail(w, fmt.Errorf("%w: task %s", task.ErrNotFound, id))
		return
	}
	s.writeNoContent(w)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		st  task.ScheduledTask
		err error
	)
	if req.Auto {
		st, err = s.engine.AutoPlace(r.Context(), r.PathValue("id"), req.Day, req.Slot)
	} else {
		st, err = s.engine.DropPoolTask(r.Context(), r.PathValue("id"), req.Day, req.Slot)
	}
	s.respond(w, http.StatusCreated, st, err)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.engine.DropScheduled(r.Context(), r.PathValue("id"), req.Day, req.Slot)
	s.respond(w, http.StatusOK, st, err)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	edge, err := store.ParseEdge(req.Edge)
	if err != nil {
		s.fail(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.engine.Resize(r.Context(), r.PathValue("id"), edge, req.Slot)
	s.respond(w, http.StatusOK, st, err)
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.engine.CopyTo(r.Context(), r.PathValue("id"), req.Day, req.Slot)
	s.respond(w, http.StatusCreated, st, err)
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.engine.ReturnToPool(r.Context(), r.PathValue("id"))
	s.respond(w, http.StatusOK, t, err)
}

func (s *Server) handleUnschedule(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.DeleteScheduled(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, err)
		return
	}
	s.writeNoContent(w)
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	snap := s.engine.Export()
	s.mu.Unlock()

	data, err := exchange.Encode(snap)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exchange.ExportFileName(s.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "reading body: "+err.Error(), task.KindValidation.String())
		return
	}
	snap, err := exchange.Decode(data)
	if err != nil {
		s.fail(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.Import(r.Context(), snap); err != nil {
		s.fail(w, err)
		return
	}
	s.writeState(w, http.StatusOK)
}

// respond writes v on success or the mapped error. Callers hold s.mu.
func (s *Server) respond(w http.ResponseWriter, code int, v any, err error) {
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set(syncHeader, string(s.engine.SyncStatus()))
	writeJSON(w, code, v)
}

func (s *Server) writeState(w http.ResponseWriter, code int) {
	status := string(s.engine.SyncStatus())
	w.Header().Set(syncHeader, status)
	writeJSON(w, code, stateResponse{Snapshot: s.engine.State(), Sync: status})
}

func (s *Server) writeNoContent(w http.ResponseWriter) {
	w.Header().Set(syncHeader, string(s.engine.SyncStatus()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	kind := task.KindOf(err)
	if kind == task.KindInternal {
		s.logger.Error("request failed", logging.Err(err))
	}
	writeErr(w, statusFor(kind), err.Error(), kind.String())
}

func statusFor(kind task.Kind) int {
	switch kind {
	case task.KindNotFound:
		return http.StatusNotFound
	case task.KindConflict:
		return http.StatusConflict
	case task.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON body into out, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		msg := "invalid JSON body"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			msg = "request body too large"
		}
		writeErr(w, http.StatusBadRequest, msg, task.KindValidation.String())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg, kind string) {
	writeJSON(w, code, errorResponse{Error: msg, Kind: kind})
}
