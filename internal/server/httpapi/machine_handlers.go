package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkozel/shopfloor/internal/server/machines"
)

func (s *Server) handleListMachines(w http.ResponseWriter, r *http.Request) {
	res, err := s.machines.List(r.Context(),
		queryInt(r, "page"), queryInt(r, "limit"),
		r.URL.Query().Get("status"))
	if err != nil {
		s.logger.Error(r.Context(), "list machines failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreateMachine(w http.ResponseWriter, r *http.Request) {
	var req machines.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	machine, err := s.machines.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, machine)
}

func (s *Server) handleGetMachine(w http.ResponseWriter, r *http.Request) {
	machine, err := s.machines.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, machine)
}

func (s *Server) handleUpdateMachine(w http.ResponseWriter, r *http.Request) {
	var req machines.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	machine, err := s.machines.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, machine)
}

func (s *Server) handleAddMaintenance(w http.ResponseWriter, r *http.Request) {
	var req machines.MaintenanceEntry
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	machine, err := s.machines.AddMaintenance(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, machine)
}

func (s *Server) handleDeleteMachine(w http.ResponseWriter, r *http.Request) {
	if err := s.machines.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
