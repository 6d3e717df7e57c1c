package web

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/venturelinkhq/venturelink/pkg/proto"
)

// userResponse is the JSON shape of the authenticated user.
type userResponse struct {
	ID          int64  `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name,omitempty"`
	Admin       bool   `json:"admin"`
}

// UserController registers the current user route.
func UserController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/v1/user", withUser(getUser)).Methods(http.MethodGet)
}

func getUser(w http.ResponseWriter, r *http.Request) {
	user := proto.UserFromContext(r.Context())
	renderJSON(w, http.StatusOK, userResponse{
		ID:          user.ID(),
		Handle:      user.Handle(),
		DisplayName: user.DisplayName(),
		Admin:       user.IsAdmin(),
	})
}
