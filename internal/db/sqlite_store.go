package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/drovane/Mentis/internal/api"
	"github.com/drovane/Mentis/internal/services"
)

// SQLiteStore persists the full portal state through database/sql.
// All timestamps are stored as RFC3339Nano text in UTC.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func toNullInt(i int) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(i), Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func toNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		log.Printf("sqlite store: parse time %q: %v", s, err)
		return time.Time{}
	}
	return t
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

func encodeJSON(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeIntMap(ns sql.NullString) map[string]int {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	var out map[string]int
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		log.Printf("sqlite store: decode int map: %v", err)
		return nil
	}
	return out
}

func decodeDimensions(ns sql.NullString) map[string]map[string]int {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	var out map[string]map[string]int
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		log.Printf("sqlite store: decode dimensions: %v", err)
		return nil
	}
	return out
}

func decodeAnswers(ns sql.NullString, instrument services.InstrumentType) services.AnswerSet {
	answers := services.AnswerSet{Instrument: instrument}
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return answers
	}
	if err := json.Unmarshal([]byte(ns.String), &answers); err != nil {
		log.Printf("sqlite store: decode answers: %v", err)
		return services.AnswerSet{Instrument: instrument}
	}
	return answers
}

// --- services.AuthStore ---

const doctorColumns = "id, full_name, email, phone, license_number, specialization, hospital, pass_hash, created_at"

func (s *SQLiteStore) scanDoctor(row *sql.Row) (*services.Doctor, error) {
	var d services.Doctor
	var createdAt string
	err := row.Scan(&d.ID, &d.FullName, &d.Email, &d.Phone, &d.LicenseNumber, &d.Specialization, &d.Hospital, &d.PassHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan doctor: %w", err)
	}
	d.CreatedAt = parseTime(createdAt)
	return &d, nil
}

func (s *SQLiteStore) FindDoctorByEmail(email string) (*services.Doctor, error) {
	row := s.db.QueryRow("SELECT "+doctorColumns+" FROM doctors WHERE email = ?", strings.ToLower(email))
	return s.scanDoctor(row)
}

func (s *SQLiteStore) FindDoctorByLicense(licenseNumber string) (*services.Doctor, error) {
	row := s.db.QueryRow("SELECT "+doctorColumns+" FROM doctors WHERE license_number = ?", licenseNumber)
	return s.scanDoctor(row)
}

func (s *SQLiteStore) GetDoctor(id string) (*services.Doctor, error) {
	row := s.db.QueryRow("SELECT "+doctorColumns+" FROM doctors WHERE id = ?", id)
	return s.scanDoctor(row)
}

func (s *SQLiteStore) AddDoctor(d *services.Doctor) error {
	_, err := s.db.Exec(
		"INSERT INTO doctors ("+doctorColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		d.ID, d.FullName, d.Email, d.Phone, d.LicenseNumber, d.Specialization, d.Hospital, d.PassHash, formatTime(d.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}
	return nil
}

// --- services.PatientStore ---

const patientColumns = "id, doctor_id, full_name, email, phone, age, gender, address, notes, status, created_at, updated_at"

func scanPatient(scan func(dest ...any) error) (*services.Patient, error) {
	var p services.Patient
	var email, phone, gender, address, notes sql.NullString
	var age sql.NullInt64
	var createdAt, updatedAt string
	err := scan(&p.ID, &p.DoctorID, &p.FullName, &email, &phone, &age, &gender, &address, &notes, &p.Status, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan patient: %w", err)
	}
	p.Email = email.String
	p.Phone = phone.String
	p.Age = int(age.Int64)
	p.Gender = gender.String
	p.Address = address.String
	p.Notes = notes.String
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

func (s *SQLiteStore) InsertPatient(p *services.Patient) error {
	_, err := s.db.Exec(
		"INSERT INTO patients ("+patientColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.DoctorID, p.FullName, toNullString(p.Email), toNullString(p.Phone), toNullInt(p.Age),
		toNullString(p.Gender), toNullString(p.Address), toNullString(p.Notes), p.Status,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetPatient(id string) (*services.Patient, error) {
	row := s.db.QueryRow("SELECT "+patientColumns+" FROM patients WHERE id = ?", id)
	return scanPatient(row.Scan)
}

func (s *SQLiteStore) UpdatePatient(p *services.Patient) error {
	res, err := s.db.Exec(
		"UPDATE patients SET full_name = ?, email = ?, phone = ?, age = ?, gender = ?, address = ?, notes = ?, status = ?, updated_at = ? WHERE id = ?",
		p.FullName, toNullString(p.Email), toNullString(p.Phone), toNullInt(p.Age),
		toNullString(p.Gender), toNullString(p.Address), toNullString(p.Notes), p.Status,
		formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return services.NewNotFoundError("patient not found")
	}
	return nil
}

func (s *SQLiteStore) DeletePatient(id string) error {
	if _, err := s.db.Exec("DELETE FROM patients WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListPatientsByDoctor(doctorID, search string) ([]*services.Patient, error) {
	query := "SELECT " + patientColumns + " FROM patients WHERE doctor_id = ?"
	args := []any{doctorID}
	if search != "" {
		query += " AND (full_name LIKE ? OR email LIKE ? OR phone LIKE ?)"
		like := "%" + search + "%"
		args = append(args, like, like, like)
	}
	query += " ORDER BY created_at, id"
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()
	out := []*services.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// --- services.SessionStore ---

const sessionColumns = "id, patient_id, doctor_id, instrument, status, answers, token, token_expires_at, started_at, completed_at"

func scanSession(scan func(dest ...any) error) (*services.TestSession, error) {
	var sess services.TestSession
	var instrument string
	var answers, token, tokenExpires, completedAt sql.NullString
	var startedAt string
	err := scan(&sess.ID, &sess.PatientID, &sess.DoctorID, &instrument, &sess.Status, &answers, &token, &tokenExpires, &startedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	sess.Instrument = services.InstrumentType(instrument)
	sess.Answers = decodeAnswers(answers, sess.Instrument)
	sess.Token = token.String
	sess.TokenExpiresAt = parseNullTime(tokenExpires)
	sess.StartedAt = parseTime(startedAt)
	sess.CompletedAt = parseNullTime(completedAt)
	return &sess, nil
}

func (s *SQLiteStore) GetSession(patientID string, instrument services.InstrumentType) (*services.TestSession, error) {
	row := s.db.QueryRow("SELECT "+sessionColumns+" FROM test_sessions WHERE patient_id = ? AND instrument = ?", patientID, string(instrument))
	return scanSession(row.Scan)
}

func (s *SQLiteStore) GetSessionByToken(token string) (*services.TestSession, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	row := s.db.QueryRow("SELECT "+sessionColumns+" FROM test_sessions WHERE token = ?", token)
	return scanSession(row.Scan)
}

func (s *SQLiteStore) InsertSession(sess *services.TestSession) error {
	answers, err := encodeJSON(sess.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT INTO test_sessions ("+sessionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		sess.ID, sess.PatientID, sess.DoctorID, string(sess.Instrument), string(sess.Status),
		answers, toNullString(sess.Token), toNullTime(sess.TokenExpiresAt),
		formatTime(sess.StartedAt), toNullTime(sess.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetSessionToken(sessionID, token string, expiresAt time.Time) error {
	res, err := s.db.Exec(
		"UPDATE test_sessions SET token = ?, token_expires_at = ? WHERE id = ?",
		token, formatTime(expiresAt), sessionID,
	)
	if err != nil {
		return fmt.Errorf("set session token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return services.NewNotFoundError("session not found")
	}
	return nil
}

// CompleteSession persists answers, result and the completed status in one
// transaction. The conditional UPDATE makes the transition race-safe: a
// concurrent submit that lost the race affects zero rows and gets a
// conflict instead of overwriting the stored result.
func (s *SQLiteStore) CompleteSession(sess *services.TestSession, result *services.TestResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin complete session: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	answers, err := encodeJSON(sess.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	res, err := tx.Exec(
		"UPDATE test_sessions SET status = ?, answers = ?, completed_at = ? WHERE id = ? AND status != ?",
		string(services.StatusCompleted), answers, toNullTime(sess.CompletedAt), sess.ID, string(services.StatusCompleted),
	)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return services.NewConflictError("test already completed")
	}

	switch {
	case result.MBTI != nil:
		dims, err := encodeJSON(result.MBTI.Dimensions)
		if err != nil {
			return fmt.Errorf("encode dimensions: %w", err)
		}
		_, err = tx.Exec(
			"INSERT INTO mbti_results (id, session_id, patient_id, doctor_id, personality_type, dimensions, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			result.MBTI.ID, result.MBTI.SessionID, result.MBTI.PatientID, result.MBTI.DoctorID,
			result.MBTI.PersonalityType, dims, formatTime(result.MBTI.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert mbti result: %w", err)
		}
	case result.RIASEC != nil:
		scores, err := encodeJSON(result.RIASEC.Scores)
		if err != nil {
			return fmt.Errorf("encode scores: %w", err)
		}
		percentages, err := encodeJSON(result.RIASEC.Percentages)
		if err != nil {
			return fmt.Errorf("encode percentages: %w", err)
		}
		_, err = tx.Exec(
			"INSERT INTO riasec_results (id, session_id, patient_id, doctor_id, ranked_code, top_three, scores, percentages, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			result.RIASEC.ID, result.RIASEC.SessionID, result.RIASEC.PatientID, result.RIASEC.DoctorID,
			result.RIASEC.RankedCode, result.RIASEC.TopThree, scores, percentages, formatTime(result.RIASEC.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert riasec result: %w", err)
		}
	default:
		return services.NewInvalidError("result payload required")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit complete session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetResult(sessionID string, instrument services.InstrumentType) (*services.TestResult, error) {
	switch instrument {
	case services.InstrumentMBTI:
		row := s.db.QueryRow(
			"SELECT id, session_id, patient_id, doctor_id, personality_type, dimensions, created_at FROM mbti_results WHERE session_id = ?",
			sessionID,
		)
		var r services.MBTIResult
		var dims sql.NullString
		var createdAt string
		err := row.Scan(&r.ID, &r.SessionID, &r.PatientID, &r.DoctorID, &r.PersonalityType, &dims, &createdAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("scan mbti result: %w", err)
		}
		r.Dimensions = decodeDimensions(dims)
		r.CreatedAt = parseTime(createdAt)
		return &services.TestResult{Instrument: services.InstrumentMBTI, MBTI: &r}, nil
	case services.InstrumentRIASEC:
		row := s.db.QueryRow(
			"SELECT id, session_id, patient_id, doctor_id, ranked_code, top_three, scores, percentages, created_at FROM riasec_results WHERE session_id = ?",
			sessionID,
		)
		var r services.RIASECResult
		var scores, percentages sql.NullString
		var createdAt string
		err := row.Scan(&r.ID, &r.SessionID, &r.PatientID, &r.DoctorID, &r.RankedCode, &r.TopThree, &scores, &percentages, &createdAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("scan riasec result: %w", err)
		}
		r.Scores = decodeIntMap(scores)
		r.Percentages = decodeIntMap(percentages)
		r.CreatedAt = parseTime(createdAt)
		return &services.TestResult{Instrument: services.InstrumentRIASEC, RIASEC: &r}, nil
	default:
		return nil, services.NewInvalidError("unknown instrument type")
	}
}

// --- services.CatalogStore ---

func (s *SQLiteStore) SeedCatalog(questions []*services.MBTIQuestion, types []*services.RIASECType, riasecQuestions []*services.RIASECQuestion, options []*services.RIASECOption) error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM mbti_questions").Scan(&count); err != nil {
		return fmt.Errorf("count catalog: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range questions {
		if _, err := tx.Exec("INSERT INTO mbti_questions (id, text) VALUES (?, ?)", q.ID, q.Text); err != nil {
			return fmt.Errorf("seed mbti question %d: %w", q.ID, err)
		}
		for _, o := range q.Options {
			if _, err := tx.Exec("INSERT INTO mbti_options (id, question_id, text, analytic_id) VALUES (?, ?, ?, ?)", o.ID, o.QuestionID, o.Text, o.AnalyticID); err != nil {
				return fmt.Errorf("seed mbti option %d: %w", o.ID, err)
			}
		}
	}
	for _, t := range types {
		if _, err := tx.Exec("INSERT INTO riasec_types (id, code, name, description) VALUES (?, ?, ?, ?)", t.ID, t.Code, t.Name, toNullString(t.Description)); err != nil {
			return fmt.Errorf("seed riasec type %d: %w", t.ID, err)
		}
	}
	for _, q := range riasecQuestions {
		if _, err := tx.Exec("INSERT INTO riasec_questions (id, type_id, text) VALUES (?, ?, ?)", q.ID, q.TypeID, q.Text); err != nil {
			return fmt.Errorf("seed riasec question %d: %w", q.ID, err)
		}
	}
	for _, o := range options {
		if _, err := tx.Exec("INSERT INTO riasec_options (id, text, score_value) VALUES (?, ?, ?)", o.ID, o.Text, o.ScoreValue); err != nil {
			return fmt.Errorf("seed riasec option %d: %w", o.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListMBTIQuestions() ([]*services.MBTIQuestion, error) {
	rows, err := s.db.Query("SELECT id, text FROM mbti_questions ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list mbti questions: %w", err)
	}
	defer rows.Close()
	byID := map[int]*services.MBTIQuestion{}
	out := []*services.MBTIQuestion{}
	for rows.Next() {
		var q services.MBTIQuestion
		if err := rows.Scan(&q.ID, &q.Text); err != nil {
			return nil, fmt.Errorf("scan mbti question: %w", err)
		}
		byID[q.ID] = &q
		out = append(out, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	optRows, err := s.db.Query("SELECT id, question_id, text, analytic_id FROM mbti_options ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list mbti options: %w", err)
	}
	defer optRows.Close()
	for optRows.Next() {
		var o services.MBTIOption
		if err := optRows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.AnalyticID); err != nil {
			return nil, fmt.Errorf("scan mbti option: %w", err)
		}
		if q := byID[o.QuestionID]; q != nil {
			q.Options = append(q.Options, o)
		}
	}
	return out, optRows.Err()
}

func (s *SQLiteStore) ListRIASECTypes() ([]*services.RIASECType, error) {
	rows, err := s.db.Query("SELECT id, code, name, description FROM riasec_types ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list riasec types: %w", err)
	}
	defer rows.Close()
	out := []*services.RIASECType{}
	for rows.Next() {
		var t services.RIASECType
		var desc sql.NullString
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &desc); err != nil {
			return nil, fmt.Errorf("scan riasec type: %w", err)
		}
		t.Description = desc.String
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListRIASECQuestions() ([]*services.RIASECQuestion, error) {
	rows, err := s.db.Query("SELECT id, type_id, text FROM riasec_questions ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list riasec questions: %w", err)
	}
	defer rows.Close()
	out := []*services.RIASECQuestion{}
	for rows.Next() {
		var q services.RIASECQuestion
		if err := rows.Scan(&q.ID, &q.TypeID, &q.Text); err != nil {
			return nil, fmt.Errorf("scan riasec question: %w", err)
		}
		out = append(out, &q)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListRIASECOptions() ([]*services.RIASECOption, error) {
	rows, err := s.db.Query("SELECT id, text, score_value FROM riasec_options ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list riasec options: %w", err)
	}
	defer rows.Close()
	out := []*services.RIASECOption{}
	for rows.Next() {
		var o services.RIASECOption
		if err := rows.Scan(&o.ID, &o.Text, &o.ScoreValue); err != nil {
			return nil, fmt.Errorf("scan riasec option: %w", err)
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}
