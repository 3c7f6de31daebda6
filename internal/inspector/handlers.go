package inspector

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/statekit/pkg/pref"
	"github.com/vango-dev/statekit/pkg/reactive"
)

const maxBodyBytes = 1 << 20

type stateView struct {
	State map[string]any `json:"state"`
	Dirty bool           `json:"dirty"`
}

type themeView struct {
	Theme  pref.Theme `json:"theme"`
	IsDark bool       `json:"isDark"`
}

func (s *Server) view() stateView {
	return stateView{State: s.doc.Peek(), Dirty: s.ref.IsDirty()}
}

func (s *Server) handleGetState(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	state := s.doc.Peek()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePutState(w http.ResponseWriter, r *http.Request) {
	body, err := decodeObject(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	s.doc.Replace(body)
	view := s.view()
	s.mu.Unlock()

	s.metrics.Mutation("put")
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePatchState(w http.ResponseWriter, r *http.Request) {
	body, err := decodeObject(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	reactive.Batch(func() {
		for key, value := range body {
			if value == nil {
				s.doc.DeleteField(key)
				continue
			}
			s.doc.SetField(key, value)
		}
	})
	view := s.view()
	s.mu.Unlock()

	s.metrics.Mutation("patch")
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	s.mu.Lock()
	if _, ok := s.doc.Field(key); !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, fmt.Errorf("no key %q", key))
		return
	}
	s.doc.DeleteField(key)
	view := s.view()
	s.mu.Unlock()

	s.metrics.Mutation("delete")
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDirty(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"dirty": s.Dirty()})
}

// Reset restores the document to its reset target.
func (s *Server) Reset() {
	s.mu.Lock()
	s.ref.Reset()
	s.mu.Unlock()
	s.metrics.Reset()
}

// Resync makes the current document the new baseline.
func (s *Server) Resync() {
	s.mu.Lock()
	s.ref.Resync()
	s.mu.Unlock()
	s.metrics.Resync()
}

// Dirty reports whether the document differs from its baseline.
func (s *Server) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ref.IsDirty()
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.Reset()
	s.respondView(w)
}

func (s *Server) handleResync(w http.ResponseWriter, _ *http.Request) {
	s.Resync()
	s.respondView(w)
}

func (s *Server) respondView(w http.ResponseWriter) {
	s.mu.Lock()
	view := s.view()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	snapshot := s.ref.Snapshot()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	view := themeView{Theme: s.store.CurrentTheme.Peek(), IsDark: s.store.IsDark()}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePutTheme(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme pref.Theme `json:"theme"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetTheme(body.Theme); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if s.persister != nil {
		if err := s.store.Save(r.Context(), s.persister); err != nil {
			s.logger.Error("inspector: save preferences", "error", err)
			writeError(w, http.StatusInternalServerError, errors.New("could not save preferences"))
			return
		}
	}

	writeJSON(w, http.StatusOK, themeView{Theme: s.store.CurrentTheme.Peek(), IsDark: s.store.IsDark()})
}

var errNotObject = errors.New("document must be a JSON object")

func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, errNotObject
		}
		return nil, err
	}
	if body == nil {
		return nil, errNotObject
	}
	return body, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
