package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionStore abstracts persistence for test sessions and their results.
//
// Implementations must keep (patientID, instrument) and token unique, and
// CompleteSession must perform a conditional transition: persist answers,
// result, status and completion time together, and fail with a conflict
// when the session is already completed, so a losing concurrent writer
// never produces a second result.
type SessionStore interface {
	AccessStore
	InsertSession(s *TestSession) error
	SetSessionToken(sessionID, token string, expiresAt time.Time) error
	CompleteSession(s *TestSession, result *TestResult) error
	GetResult(sessionID string, instrument InstrumentType) (*TestResult, error)
}

// SessionService owns the test-session lifecycle:
// not_started (virtual) -> in_progress -> completed (terminal).
type SessionService struct {
	store     SessionStore
	resolver  *AccessResolver
	baseURL   string
	now       func() time.Time
	idGen     func(prefix string, n int) string
	mintToken func(instrument InstrumentType, now time.Time) (string, error)
}

// ShareLink is a minted (or re-fetched) public completion link.
type ShareLink struct {
	URL       string    `json:"url"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TestProgress is the side-effect-free view of one session.
type TestProgress struct {
	Status   SessionStatus `json:"status"`
	Session  *TestSession  `json:"session,omitempty"`
	Result   *TestResult   `json:"result,omitempty"`
	TestLink string        `json:"test_link,omitempty"`
}

func NewSessionService(store SessionStore, baseURL string) *SessionService {
	return &SessionService{
		store:     store,
		resolver:  NewAccessResolver(store),
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     func(prefix string, n int) string { return prefix + shortID(n) },
		mintToken: NewShareToken,
	}
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// Start creates the session for (patient, instrument) or returns the
// existing one unchanged: no progress reset, no token minting. Tokens are
// only created by ShareLink.
func (s *SessionService) Start(doctorID, patientID string, instrument InstrumentType) (*TestSession, error) {
	session, err := s.ownedSession(doctorID, patientID, instrument)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	session = &TestSession{
		ID:         s.idGen("s", 12),
		PatientID:  patientID,
		DoctorID:   doctorID,
		Instrument: instrument,
		Status:     StatusInProgress,
		Answers:    AnswerSet{Instrument: instrument},
		StartedAt:  s.now(),
	}
	if err := s.store.InsertSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// ShareLink returns the session's public completion link, minting a fresh
// token only when none exists or the current one has expired. Calling it
// twice before expiry yields the same URL.
func (s *SessionService) ShareLink(doctorID, patientID string, instrument InstrumentType) (*ShareLink, error) {
	session, err := s.ownedSession(doctorID, patientID, instrument)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, NewNotFoundError("test not started")
	}

	now := s.now()
	if session.Token != "" && session.TokenExpiresAt != nil && now.Before(*session.TokenExpiresAt) {
		return &ShareLink{
			URL:       s.testLink(instrument, session.Token),
			Token:     session.Token,
			ExpiresAt: *session.TokenExpiresAt,
		}, nil
	}

	token, err := s.mintToken(instrument, now)
	if err != nil {
		return nil, err
	}
	expiresAt := ShareTokenExpiry(now)
	if err := s.store.SetSessionToken(session.ID, token, expiresAt); err != nil {
		return nil, err
	}
	return &ShareLink{
		URL:       s.testLink(instrument, token),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Submit resolves the target session, validates the answer set, scores it
// and finalizes the session. The store call persists answers, result and
// the completed status together; if anything fails before it, the session
// stays in_progress so the caller can retry.
func (s *SessionService) Submit(claim AccessClaim, instrument InstrumentType, answers AnswerSet) (*TestResult, error) {
	session, err := s.resolver.Resolve(claim, instrument)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, NewNotFoundError("test not started")
	}
	if session.Status == StatusCompleted {
		return nil, NewConflictError("test already completed")
	}
	now := s.now()
	if session.Token != "" && session.TokenExpiresAt != nil && now.After(*session.TokenExpiresAt) {
		return nil, NewForbiddenError("test link has expired")
	}
	if answers.Instrument != instrument {
		return nil, NewInvalidError("answers do not match instrument type")
	}
	if answers.Len() != instrument.RequiredAnswers() {
		return nil, NewInvalidError(fmt.Sprintf("all %d questions must be answered", instrument.RequiredAnswers()))
	}

	result, err := s.score(session, answers, now)
	if err != nil {
		return nil, err
	}

	completed := *session
	completed.Answers = answers
	completed.Status = StatusCompleted
	completed.CompletedAt = &now
	if err := s.store.CompleteSession(&completed, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Progress reports the current status, raw session record, result when
// completed and the share link when a token exists. No side effects; an
// identity-path lookup with no session reports the virtual not_started
// state.
func (s *SessionService) Progress(claim AccessClaim, instrument InstrumentType) (*TestProgress, error) {
	session, err := s.resolver.Resolve(claim, instrument)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &TestProgress{Status: StatusNotStarted}, nil
	}

	progress := &TestProgress{Status: session.Status, Session: session}
	if session.Token != "" {
		progress.TestLink = s.testLink(instrument, session.Token)
	}
	if session.Status == StatusCompleted {
		result, err := s.store.GetResult(session.ID, instrument)
		if err != nil {
			return nil, err
		}
		progress.Result = result
	}
	return progress, nil
}

func (s *SessionService) score(session *TestSession, answers AnswerSet, now time.Time) (*TestResult, error) {
	switch session.Instrument {
	case InstrumentMBTI:
		score, err := ScoreMBTI(answers.MBTI)
		if err != nil {
			return nil, err
		}
		return &TestResult{
			Instrument: InstrumentMBTI,
			MBTI: &MBTIResult{
				ID:              s.idGen("r", 12),
				SessionID:       session.ID,
				PatientID:       session.PatientID,
				DoctorID:        session.DoctorID,
				PersonalityType: score.PersonalityType,
				Dimensions:      score.Dimensions,
				CreatedAt:       now,
			},
		}, nil
	case InstrumentRIASEC:
		score, err := ScoreRIASEC(answers.RIASEC, DefaultRIASECConfig())
		if err != nil {
			return nil, err
		}
		return &TestResult{
			Instrument: InstrumentRIASEC,
			RIASEC: &RIASECResult{
				ID:          s.idGen("r", 12),
				SessionID:   session.ID,
				PatientID:   session.PatientID,
				DoctorID:    session.DoctorID,
				RankedCode:  score.RankedCode,
				TopThree:    score.TopThree,
				Scores:      score.Scores,
				Percentages: score.Percentages,
				CreatedAt:   now,
			},
		}, nil
	default:
		return nil, NewInvalidError("unknown instrument type")
	}
}

// ownedSession loads the session for a clinician-side operation, checking
// that the patient (and session, when present) belongs to the doctor.
func (s *SessionService) ownedSession(doctorID, patientID string, instrument InstrumentType) (*TestSession, error) {
	if doctorID == "" {
		return nil, NewUnauthorizedError("not authenticated")
	}
	if strings.TrimSpace(patientID) == "" {
		return nil, NewInvalidError("patient id required")
	}
	return s.resolver.Resolve(AccessClaim{DoctorID: doctorID, PatientID: patientID}, instrument)
}

func (s *SessionService) testLink(instrument InstrumentType, token string) string {
	return fmt.Sprintf("%s/test/%s?token=%s", s.baseURL, instrument, token)
}
