package api

import (
	"github.com/drovane/Mentis/internal/services"
)

// Store is the full persistence surface the portal needs. The sqlite
// store implements it for production; NewMemoryStore backs tests and
// zero-config development runs.
type Store interface {
	services.AuthStore
	services.PatientStore
	services.SessionStore
	services.CatalogStore
}
