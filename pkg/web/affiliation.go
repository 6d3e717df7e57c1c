package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/venturelinkhq/venturelink/pkg/backend"
	"github.com/venturelinkhq/venturelink/pkg/proto"
	"github.com/venturelinkhq/venturelink/pkg/utils"
)

// AffiliationController registers the affiliation routes. All routes are
// scoped to the authenticated user; records owned by other users are
// indistinguishable from missing ones.
func AffiliationController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/v1/affiliations", withUser(listAffiliations)).Methods(http.MethodGet)
	r.HandleFunc("/v1/affiliations", withUser(createAffiliation)).Methods(http.MethodPost)
	r.HandleFunc("/v1/affiliations/{id}", withUser(getAffiliation)).Methods(http.MethodGet)
	r.HandleFunc("/v1/affiliations/{id}", withUser(updateAffiliation)).Methods(http.MethodPut)
	r.HandleFunc("/v1/affiliations/{id}", withUser(deleteAffiliation)).Methods(http.MethodDelete)
}

func listAffiliations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)
	user := proto.UserFromContext(ctx)

	affs, err := be.ListAffiliations(ctx, user.ID())
	if err != nil {
		renderError(w, r, err)
		return
	}

	if current, _ := strconv.ParseBool(r.URL.Query().Get("current")); current {
		active := make([]proto.Affiliation, 0, len(affs))
		for _, aff := range affs {
			if utils.IsCurrentTitle(aff.Title) {
				active = append(active, aff)
			}
		}
		affs = active
	}

	renderJSON(w, http.StatusOK, affs)
}

func createAffiliation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)
	user := proto.UserFromContext(ctx)

	change, ok := decodeChange(w, r)
	if !ok {
		return
	}

	aff, err := be.CreateAffiliation(ctx, user.ID(), change)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, aff)
}

func getAffiliation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)
	user := proto.UserFromContext(ctx)

	aff, err := be.Affiliation(ctx, user.ID(), mux.Vars(r)["id"])
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, aff)
}

func updateAffiliation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)
	user := proto.UserFromContext(ctx)

	change, ok := decodeChange(w, r)
	if !ok {
		return
	}

	aff, err := be.UpdateAffiliation(ctx, user.ID(), mux.Vars(r)["id"], change)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, aff)
}

func deleteAffiliation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)
	user := proto.UserFromContext(ctx)

	if err := be.DeleteAffiliation(ctx, user.ID(), mux.Vars(r)["id"]); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeChange reads an affiliation change from the request body and
// validates it. Invalid submissions are answered with a 400 listing every
// offending field and never reach the backend.
func decodeChange(w http.ResponseWriter, r *http.Request) (proto.AffiliationChange, bool) {
	var change proto.AffiliationChange
	defer r.Body.Close() //nolint:errcheck
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		renderJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return change, false
	}

	change.CompanyName = strings.TrimSpace(change.CompanyName)
	change.Title = strings.TrimSpace(change.Title)
	change.WebsiteURL = strings.TrimSpace(change.WebsiteURL)

	var errs []fieldError
	if err := utils.ValidateCompanyName(change.CompanyName); err != nil {
		errs = append(errs, fieldError{Field: "company_name", Message: err.Error()})
	}
	if err := utils.ValidateTitle(change.Title); err != nil {
		errs = append(errs, fieldError{Field: "title", Message: err.Error()})
	}
	if err := utils.ValidateWebsiteURL(change.WebsiteURL); err != nil {
		errs = append(errs, fieldError{Field: "website_url", Message: err.Error()})
	}

	if len(errs) > 0 {
		renderJSON(w, http.StatusBadRequest, fieldErrorResponse{Errors: errs})
		return change, false
	}

	return change, true
}
