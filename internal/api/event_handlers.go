package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/termalign/termalign-server/internal/http/response"
)

// registerEventRoutes mounts the event stream on the router directly; huma
// would buffer the long-lived response.
func (s *Server) registerEventRoutes() {
	if s.events == nil {
		return
	}
	s.router.Get("/api/v1/workspaces/{id}/events", s.handleWorkspaceEvents)
}

// handleWorkspaceEvents streams analysis events for one workspace.
func (s *Server) handleWorkspaceEvents(w http.ResponseWriter, r *http.Request) {
	wsID := chi.URLParam(r, "id")
	if _, err := s.services.Workspace.GetWorkspace(r.Context(), wsID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.events.Stream(w, r, wsID)
}
