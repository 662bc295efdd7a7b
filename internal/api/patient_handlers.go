package api

import (
	"net/http"
	"strings"

	"github.com/drovane/Mentis/internal/services"
)

// GET /api/patients?search=..., POST /api/patients
func (rt *Router) handlePatients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		patients, err := rt.patients.List(doctorID(r), r.URL.Query().Get("search"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"patients": patients, "total": len(patients)})
	case http.MethodPost:
		var in services.PatientInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		p, err := rt.patients.Create(doctorID(r), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET/PUT/DELETE /api/patients/{id}
func (rt *Router) handlePatientByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/patients/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		p, err := rt.patients.Get(doctorID(r), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodPut:
		var in services.PatientInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		p, err := rt.patients.Update(doctorID(r), id, in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		if err := rt.patients.Delete(doctorID(r), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
