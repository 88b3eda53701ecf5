package handler

import (
	"net/http"

	"github.com/pkordes/travel-journal/internal/scene"
)

// SceneResponse is the body of GET /scene.
type SceneResponse struct {
	scene.Scene
	State State `json:"state"`
}

// GetScene handles GET /scene: everything the renderer draws for one frame
// of data, plus the interaction state it was derived from.
func (s *Server) GetScene(w http.ResponseWriter, r *http.Request) {
	st := s.session.State()
	locs, err := s.locations.All(r.Context())
	if err != nil {
		s.writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SceneResponse{
		Scene: scene.Compose(locs, st.FocusedID),
		State: stateToResponse(st),
	})
}
