package api

import (
	"net/http"

	"github.com/drovane/Mentis/internal/services"
)

// POST /api/auth/signup
func (rt *Router) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var in services.SignupInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	res, err := rt.auth.Register(in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"token": res.Token, "doctor": res.Doctor})
}

// POST /api/auth/signin
func (rt *Router) handleSignin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	res, err := rt.auth.Login(in.Email, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "doctor": res.Doctor})
}

// GET /api/auth/me
func (rt *Router) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	d, err := rt.auth.Me(doctorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doctor": d})
}
