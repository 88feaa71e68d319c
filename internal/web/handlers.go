package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/statware/genesis/internal/logging"
)

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleImportCube decodes the raw export in the request body and persists
// it under the cube name from the URL. A previous import of the same name
// is replaced.
func (s *Server) handleImportCube(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	raw, err := readBody(w, r, s.cfg.Import.MaxBodySize)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.Timeout)
	defer cancel()

	result, err := s.service.ImportCube(ctx, name, raw)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, result)
}

// handleDecodeCube decodes the raw export in the request body and returns
// the full exported form without persisting anything.
func (s *Server) handleDecodeCube(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	raw, err := readBody(w, r, s.cfg.Import.MaxBodySize)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	exported, err := s.service.Preview(r.Context(), name, string(raw))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, exported)
}

// handleListCubes returns the stored import history.
func (s *Server) handleListCubes(w http.ResponseWriter, r *http.Request) {
	imports, err := s.service.ListImports(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"imports": imports})
}

// handleGetCube re-decodes a stored cube and returns its exported form.
func (s *Server) handleGetCube(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	exported, err := s.service.GetCube(r.Context(), name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, exported)
}

// handleDeleteCube removes a stored cube and its facts.
func (s *Server) handleDeleteCube(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.service.DeleteImport(r.Context(), name); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readBody reads the full request body subject to the configured size cap.
func readBody(w http.ResponseWriter, r *http.Request, maxSize int64) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxSize))
}

// writeJSON encodes v as JSON. Encoding errors are logged since the status
// is already written.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode failed", "error", err)
	}
}
