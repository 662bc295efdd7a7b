package api

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/drovane/Mentis/internal/services"
)

// MemoryStore keeps everything in process memory behind one RWMutex.
// Values are copied on the way in and out so callers never share state
// with the store.
type MemoryStore struct {
	mu               sync.RWMutex
	doctors          map[string]*services.Doctor
	doctorsByEmail   map[string]*services.Doctor
	doctorsByLicense map[string]*services.Doctor
	patients         map[string]*services.Patient
	patientOrder     []string
	sessions         map[string]*services.TestSession // patientID + "/" + instrument
	sessionsByToken  map[string]*services.TestSession
	results          map[string]*services.TestResult // session id
	mbtiQuestions    []*services.MBTIQuestion
	riasecTypes      []*services.RIASECType
	riasecQuestions  []*services.RIASECQuestion
	riasecOptions    []*services.RIASECOption
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		doctors:          map[string]*services.Doctor{},
		doctorsByEmail:   map[string]*services.Doctor{},
		doctorsByLicense: map[string]*services.Doctor{},
		patients:         map[string]*services.Patient{},
		sessions:         map[string]*services.TestSession{},
		sessionsByToken:  map[string]*services.TestSession{},
		results:          map[string]*services.TestResult{},
	}
}

var _ Store = (*MemoryStore)(nil)

func sessionKey(patientID string, instrument services.InstrumentType) string {
	return patientID + "/" + string(instrument)
}

func copyDoctor(d *services.Doctor) *services.Doctor {
	if d == nil {
		return nil
	}
	cp := *d
	cp.PassHash = append([]byte(nil), d.PassHash...)
	return &cp
}

func copyPatient(p *services.Patient) *services.Patient {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func copySession(s *services.TestSession) *services.TestSession {
	if s == nil {
		return nil
	}
	cp := *s
	if s.TokenExpiresAt != nil {
		t := *s.TokenExpiresAt
		cp.TokenExpiresAt = &t
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		cp.CompletedAt = &t
	}
	cp.Answers.MBTI = append([]services.MBTIAnswer(nil), s.Answers.MBTI...)
	cp.Answers.RIASEC = append([]services.RIASECAnswer(nil), s.Answers.RIASEC...)
	return &cp
}

// --- services.AuthStore ---

func (s *MemoryStore) FindDoctorByEmail(email string) (*services.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyDoctor(s.doctorsByEmail[strings.ToLower(email)]), nil
}

func (s *MemoryStore) FindDoctorByLicense(licenseNumber string) (*services.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyDoctor(s.doctorsByLicense[licenseNumber]), nil
}

func (s *MemoryStore) AddDoctor(d *services.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := copyDoctor(d)
	s.doctors[cp.ID] = cp
	s.doctorsByEmail[strings.ToLower(cp.Email)] = cp
	s.doctorsByLicense[cp.LicenseNumber] = cp
	return nil
}

func (s *MemoryStore) GetDoctor(id string) (*services.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyDoctor(s.doctors[id]), nil
}

// --- services.PatientStore ---

func (s *MemoryStore) InsertPatient(p *services.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[p.ID] = copyPatient(p)
	s.patientOrder = append(s.patientOrder, p.ID)
	return nil
}

func (s *MemoryStore) GetPatient(id string) (*services.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyPatient(s.patients[id]), nil
}

func (s *MemoryStore) UpdatePatient(p *services.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.patients[p.ID] == nil {
		return services.NewNotFoundError("patient not found")
	}
	s.patients[p.ID] = copyPatient(p)
	return nil
}

func (s *MemoryStore) DeletePatient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.patients, id)
	for _, instrument := range []services.InstrumentType{services.InstrumentMBTI, services.InstrumentRIASEC} {
		key := sessionKey(id, instrument)
		if sess := s.sessions[key]; sess != nil {
			delete(s.sessionsByToken, sess.Token)
			delete(s.results, sess.ID)
			delete(s.sessions, key)
		}
	}
	return nil
}

func (s *MemoryStore) ListPatientsByDoctor(doctorID, search string) ([]*services.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(search)
	out := []*services.Patient{}
	for _, id := range s.patientOrder {
		p := s.patients[id]
		if p == nil || p.DoctorID != doctorID {
			continue
		}
		if needle != "" {
			hay := strings.ToLower(p.FullName + " " + p.Email + " " + p.Phone)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		out = append(out, copyPatient(p))
	}
	return out, nil
}

// --- services.SessionStore ---

func (s *MemoryStore) GetSession(patientID string, instrument services.InstrumentType) (*services.TestSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.sessions[sessionKey(patientID, instrument)]), nil
}

func (s *MemoryStore) GetSessionByToken(token string) (*services.TestSession, error) {
	if token == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.sessionsByToken[token]), nil
}

func (s *MemoryStore) InsertSession(sess *services.TestSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey(sess.PatientID, sess.Instrument)
	if s.sessions[key] != nil {
		return services.NewConflictError("session already exists")
	}
	s.sessions[key] = copySession(sess)
	return nil
}

func (s *MemoryStore) SetSessionToken(sessionID, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.ID != sessionID {
			continue
		}
		if sess.Token != "" {
			delete(s.sessionsByToken, sess.Token)
		}
		exp := expiresAt
		sess.Token = token
		sess.TokenExpiresAt = &exp
		s.sessionsByToken[token] = sess
		return nil
	}
	return services.NewNotFoundError("session not found")
}

func (s *MemoryStore) CompleteSession(sess *services.TestSession, result *services.TestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.sessions[sessionKey(sess.PatientID, sess.Instrument)]
	if cur == nil || cur.ID != sess.ID {
		return services.NewNotFoundError("session not found")
	}
	if cur.Status == services.StatusCompleted {
		return services.NewConflictError("test already completed")
	}
	cur.Status = services.StatusCompleted
	cur.Answers = copySession(sess).Answers
	cur.CompletedAt = sess.CompletedAt
	s.results[sess.ID] = result
	return nil
}

func (s *MemoryStore) GetResult(sessionID string, instrument services.InstrumentType) (*services.TestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := s.results[sessionID]
	if r == nil || r.Instrument != instrument {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

// --- services.CatalogStore ---

func (s *MemoryStore) ListMBTIQuestions() ([]*services.MBTIQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]*services.MBTIQuestion(nil), s.mbtiQuestions...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListRIASECTypes() ([]*services.RIASECType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*services.RIASECType(nil), s.riasecTypes...), nil
}

func (s *MemoryStore) ListRIASECQuestions() ([]*services.RIASECQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]*services.RIASECQuestion(nil), s.riasecQuestions...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListRIASECOptions() ([]*services.RIASECOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*services.RIASECOption(nil), s.riasecOptions...), nil
}

func (s *MemoryStore) SeedCatalog(questions []*services.MBTIQuestion, types []*services.RIASECType, riasecQuestions []*services.RIASECQuestion, options []*services.RIASECOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.mbtiQuestions) > 0 {
		return nil
	}
	s.mbtiQuestions = questions
	s.riasecTypes = types
	s.riasecQuestions = riasecQuestions
	s.riasecOptions = options
	return nil
}
