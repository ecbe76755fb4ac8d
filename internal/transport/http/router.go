package httptransport

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sofs91/InspectWise3.0/internal/httpx"
	"github.com/sofs91/InspectWise3.0/internal/realtime"
)

type AuthAPI interface {
	AuthServices
	httpx.Authenticator
}

type ProfileAPI interface {
	httpx.ProfileLoader
	MemberServices
}

type Dependencies struct {
	Auth           AuthAPI
	Profiles       ProfileAPI
	Organizations  OrganizationServices
	Templates      TemplateServices
	Configurations ConfigurationServices
	Inspections    InspectionServices
	Reports        ReportServices
	Feed           realtime.Feed
}

func Router(deps Dependencies) *mux.Router {
	router := mux.NewRouter()
	router.Use(httpx.RequestID, httpx.RequestLogger)

	protected := httpx.Protected(deps.Auth)
	profile := httpx.Profile(deps.Profiles)

	api := router.PathPrefix("/api").Subrouter()

	authHandler := NewAuthHandlers(deps.Auth)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", authHandler.Refresh).Methods(http.MethodPost)
	auth.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	auth.HandleFunc("/password-reset", authHandler.RequestPasswordReset).Methods(http.MethodPost)
	auth.HandleFunc("/password-reset/confirm", authHandler.ResetPassword).Methods(http.MethodPost)
	auth.Handle("/me", protected(http.HandlerFunc(authHandler.Me))).Methods(http.MethodGet)

	orgHandler := NewOrganizationHandlers(deps.Organizations, deps.Profiles)
	orgs := api.PathPrefix("/organizations").Subrouter()
	orgs.Use(protected, profile)
	orgs.HandleFunc("", orgHandler.Create).Methods(http.MethodPost)
	orgs.HandleFunc("/{id}/join", orgHandler.Join).Methods(http.MethodPost)
	orgs.Handle("/{id}", httpx.RequireOrganization(http.HandlerFunc(orgHandler.Get))).Methods(http.MethodGet)
	orgs.Handle("/{id}/members", httpx.RequireOrganization(http.HandlerFunc(orgHandler.Members))).Methods(http.MethodGet)

	templateHandler := NewTemplateHandlers(deps.Templates)
	templates := api.PathPrefix("/templates").Subrouter()
	templates.Use(protected, profile, httpx.RequireOrganization)
	templates.HandleFunc("", templateHandler.List).Methods(http.MethodGet)
	templates.HandleFunc("", templateHandler.Create).Methods(http.MethodPost)
	templates.HandleFunc("/{id}", templateHandler.Get).Methods(http.MethodGet)
	templates.HandleFunc("/{id}", templateHandler.Update).Methods(http.MethodPut)
	templates.HandleFunc("/{id}", templateHandler.Delete).Methods(http.MethodDelete)

	configurationHandler := NewConfigurationHandlers(deps.Configurations)
	configurations := api.PathPrefix("/configurations").Subrouter()
	configurations.Use(protected, profile, httpx.RequireOrganization)
	configurations.HandleFunc("", configurationHandler.List).Methods(http.MethodGet)
	configurations.HandleFunc("", configurationHandler.Create).Methods(http.MethodPost)
	configurations.HandleFunc("/{id}", configurationHandler.Get).Methods(http.MethodGet)
	configurations.HandleFunc("/{id}", configurationHandler.Update).Methods(http.MethodPut)
	configurations.HandleFunc("/{id}", configurationHandler.Delete).Methods(http.MethodDelete)

	inspectionHandler := NewInspectionHandlers(deps.Inspections, deps.Reports)
	inspections := api.PathPrefix("/inspections").Subrouter()
	inspections.Use(protected, profile, httpx.RequireOrganization)
	inspections.HandleFunc("", inspectionHandler.List).Methods(http.MethodGet)
	inspections.HandleFunc("", inspectionHandler.Create).Methods(http.MethodPost)
	inspections.HandleFunc("/{id}", inspectionHandler.Get).Methods(http.MethodGet)
	inspections.HandleFunc("/{id}", inspectionHandler.Update).Methods(http.MethodPut)
	inspections.HandleFunc("/{id}", inspectionHandler.Delete).Methods(http.MethodDelete)
	inspections.HandleFunc("/{id}/report", inspectionHandler.Report).Methods(http.MethodGet)

	changesHandler := NewChangesHandler(deps.Feed)
	changes := api.PathPrefix("/changes").Subrouter()
	changes.Use(protected, profile, httpx.RequireOrganization)
	changes.HandleFunc("", changesHandler.Stream).Methods(http.MethodGet)

	return router
}
