package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/orgsvc/orgsvc/pkg/backend"
	"github.com/orgsvc/orgsvc/pkg/proto"
)

// APIController registers the user and organisation routes.
func APIController(ctx context.Context, r *mux.Router) {
	be := backend.FromContext(ctx)
	s := r.PathPrefix("/api").Subrouter()

	s.HandleFunc("/users/{id}", withAuth(getUser)).Methods(http.MethodGet)
	s.HandleFunc("/organisations", withAuth(getOrganisations)).Methods(http.MethodGet)
	s.HandleFunc("/organisations", withAuth(postOrganisation)).Methods(http.MethodPost)
	s.HandleFunc("/organisations/{orgId}", withAuth(getOrganisation)).Methods(http.MethodGet)
	s.HandleFunc("/organisations/{orgId}/users", withAuth(getMembers)).Methods(http.MethodGet)

	addMember := withAuth(postMember)
	if be != nil && !be.AddMemberPolicy().RequiresMembership() {
		addMember = withOptionalAuth(postMember)
	}
	s.HandleFunc("/organisations/{orgId}/users", addMember).Methods(http.MethodPost)
}

func getUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	user, err := be.GetUserRecord(ctx, proto.UserIDFromContext(ctx), mux.Vars(r)["id"])
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderSuccess(w, http.StatusOK, "User record retrieved successfully", user)
}

type organisationList struct {
	Organisations []proto.Organisation `json:"organisations"`
}

func getOrganisations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	orgs, err := be.ListMyOrganisations(ctx, proto.UserIDFromContext(ctx))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderSuccess(w, http.StatusOK, "Organisations retrieved successfully", organisationList{orgs})
}

func getOrganisation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	org, err := be.GetOrganisationRecord(ctx, proto.UserIDFromContext(ctx), mux.Vars(r)["orgId"])
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderSuccess(w, http.StatusOK, "Organisation retrieved successfully", org)
}

func postOrganisation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	var opts proto.OrganisationOptions
	if !decodeJSON(w, r, &opts) {
		return
	}

	org, err := be.CreateOrganisation(ctx, proto.UserIDFromContext(ctx), opts)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderSuccess(w, http.StatusCreated, "Organisation created successfully", org)
}

type memberList struct {
	Users []proto.User `json:"users"`
}

func getMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	users, err := be.ListMembers(ctx, proto.UserIDFromContext(ctx), mux.Vars(r)["orgId"])
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderSuccess(w, http.StatusOK, "Members retrieved successfully", memberList{users})
}

func postMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	var opts proto.MemberOptions
	if !decodeJSON(w, r, &opts) {
		return
	}

	if err := be.AddMember(ctx, proto.UserIDFromContext(ctx), mux.Vars(r)["orgId"], opts); err != nil {
		renderError(w, r, err)
		return
	}

	renderSuccess(w, http.StatusOK, "User added to organisation successfully", nil)
}

func getJWKS(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	ks := be.Tokens().KeySet()
	if ks == nil {
		renderNotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/jwk-set+json")
	if err := json.NewEncoder(w).Encode(ks); err != nil {
		renderInternalServerError(w, r)
	}
}
