package api

import (
	"net/http"
	"strings"

	"github.com/drovane/Mentis/internal/services"
)

// submitAnswer carries the superset of both answer shapes; the handler
// narrows it by instrument before scoring.
type submitAnswer struct {
	QuestionID int `json:"question_id"`
	OptionID   int `json:"option_id"`
	AnalyticID int `json:"analytic_id"`
	TypeID     int `json:"type_id"`
	ScoreValue int `json:"score_value"`
}

// handleTests dispatches /api/tests/{instrument}/{action}.
func (rt *Router) handleTests(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/tests/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	instrument, err := services.ParseInstrument(parts[0])
	if err != nil {
		writeError(w, err)
		return
	}
	switch parts[1] {
	case "questions":
		rt.handleQuestions(w, r, instrument)
	case "start":
		rt.handleStart(w, r, instrument)
	case "share-link":
		rt.handleShareLink(w, r, instrument)
	case "submit":
		rt.handleSubmit(w, r, instrument)
	case "progress":
		rt.handleProgress(w, r, instrument)
	default:
		http.NotFound(w, r)
	}
}

// GET /api/tests/{instrument}/questions
// Public: test takers load the questionnaire through the share link.
func (rt *Router) handleQuestions(w http.ResponseWriter, r *http.Request, instrument services.InstrumentType) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if instrument == services.InstrumentMBTI {
		catalog, err := rt.catalog.MBTIQuestions()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, catalog)
		return
	}
	catalog, err := rt.catalog.RIASECQuestionnaire()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

// POST /api/tests/{instrument}/start {patient_id}
func (rt *Router) handleStart(w http.ResponseWriter, r *http.Request, instrument services.InstrumentType) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		PatientID string `json:"patient_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	session, err := rt.sessions.Start(doctorID(r), in.PatientID, instrument)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// POST /api/tests/{instrument}/share-link {patient_id}
func (rt *Router) handleShareLink(w http.ResponseWriter, r *http.Request, instrument services.InstrumentType) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		PatientID string `json:"patient_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	link, err := rt.sessions.ShareLink(doctorID(r), in.PatientID, instrument)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// POST /api/tests/{instrument}/submit {token?, patient_id?, answers}
// Reachable with a share token (public) or a JWT plus patient id.
func (rt *Router) handleSubmit(w http.ResponseWriter, r *http.Request, instrument services.InstrumentType) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Token     string         `json:"token"`
		PatientID string         `json:"patient_id"`
		Answers   []submitAnswer `json:"answers"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	claim := services.AccessClaim{Token: in.Token, DoctorID: doctorID(r), PatientID: in.PatientID}
	answers := services.AnswerSet{Instrument: instrument}
	for _, a := range in.Answers {
		switch instrument {
		case services.InstrumentMBTI:
			answers.MBTI = append(answers.MBTI, services.MBTIAnswer{
				QuestionID: a.QuestionID,
				OptionID:   a.OptionID,
				AnalyticID: a.AnalyticID,
			})
		case services.InstrumentRIASEC:
			answers.RIASEC = append(answers.RIASEC, services.RIASECAnswer{
				QuestionID: a.QuestionID,
				TypeID:     a.TypeID,
				OptionID:   a.OptionID,
				ScoreValue: a.ScoreValue,
			})
		}
	}

	result, err := rt.sessions.Submit(claim, instrument, answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GET /api/tests/{instrument}/progress?token=... or ?patient_id=...
func (rt *Router) handleProgress(w http.ResponseWriter, r *http.Request, instrument services.InstrumentType) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claim := services.AccessClaim{
		Token:     r.URL.Query().Get("token"),
		DoctorID:  doctorID(r),
		PatientID: r.URL.Query().Get("patient_id"),
	}
	progress, err := rt.sessions.Progress(claim, instrument)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
