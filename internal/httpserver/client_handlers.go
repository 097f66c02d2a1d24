package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"placement-admin/internal/repo"
)

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.repo.ListClients(r.Context())
	if err != nil {
		s.logger.Error("list clients failed", "error", err)
		s.metrics.Errors.WithLabelValues("repo").Inc()
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	if clients == nil {
		clients = []repo.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid request body"})
		return
	}

	id, err := s.repo.CreateClient(r.Context(), payload)
	if err != nil {
		if errors.Is(err, repo.ErrNoData) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "No data provided"})
			return
		}
		// Storage errors are relayed verbatim, as the dashboard expects.
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": err.Error()})
		return
	}

	s.metrics.ClientWrites.WithLabelValues("create").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      id,
		"message": "Client added successfully!",
	})
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Client not found"})
		return
	}

	client, err := s.repo.GetClient(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "Client not found"})
			return
		}
		s.logger.Error("get client failed", "error", err, "id", id)
		s.metrics.Errors.WithLabelValues("repo").Inc()
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Client not found"})
		return
	}

	var payload map[string]any
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid request body"})
		return
	}

	// Zero affected rows is still success: updates are idempotent by
	// contract and updated_at is refreshed no matter what was sent.
	if err := s.repo.UpdateClient(r.Context(), id, payload); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": err.Error()})
		return
	}

	s.metrics.ClientWrites.WithLabelValues("update").Inc()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Client updated successfully!"})
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Client not found"})
		return
	}

	if err := s.repo.DeleteClient(r.Context(), id); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": err.Error()})
		return
	}

	s.metrics.ClientWrites.WithLabelValues("delete").Inc()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Client deleted successfully!"})
}

func (s *Server) handleClearClients(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.ClearClients(r.Context()); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": err.Error()})
		return
	}

	s.metrics.ClientWrites.WithLabelValues("clear").Inc()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "All clients deleted!"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repo.Stats(r.Context())
	if err != nil {
		s.logger.Error("stats failed", "error", err)
		s.metrics.Errors.WithLabelValues("repo").Inc()
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	s.metrics.StatsQueries.Inc()
	writeJSON(w, http.StatusOK, stats)
}
