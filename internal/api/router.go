package api

import (
	"net/http"

	"github.com/drovane/Mentis/internal/middleware"
	"github.com/drovane/Mentis/internal/services"
)

// Router wires the HTTP surface to the service layer. Every route under
// /api/patients and the clinician-side test routes require a verified
// JWT; test submission and progress also accept a share token instead.
type Router struct {
	auth     *services.AuthService
	patients *services.PatientService
	sessions *services.SessionService
	catalog  *services.CatalogService
}

func NewRouter(store Store, baseURL string) *Router {
	return &Router{
		auth:     services.NewAuthService(store, middleware.SignToken),
		patients: services.NewPatientService(store),
		sessions: services.NewSessionService(store, baseURL),
		catalog:  services.NewCatalogService(store),
	}
}

// Seed loads the fixed questionnaires into the store. Safe at every boot.
func (rt *Router) Seed() error {
	return rt.catalog.Seed()
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/signup", rt.handleSignup)   // POST
	mux.HandleFunc("/api/auth/signin", rt.handleSignin)   // POST
	mux.HandleFunc("/api/auth/me", rt.handleMe)           // GET
	mux.HandleFunc("/api/patients", rt.handlePatients)    // GET list, POST create
	mux.HandleFunc("/api/patients/", rt.handlePatientByID) // GET/PUT/DELETE /api/patients/{id}
	mux.HandleFunc("/api/tests/", rt.handleTests)         // {instrument}/questions|start|share-link|submit|progress
}

// doctorID pulls the authenticated clinician from the request context.
func doctorID(r *http.Request) string {
	id, _ := middleware.DoctorIDFromContext(r.Context())
	return id
}
