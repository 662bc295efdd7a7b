package services

import "time"

// InstrumentType identifies one of the two fixed questionnaires.
type InstrumentType string

const (
	InstrumentMBTI   InstrumentType = "mbti"
	InstrumentRIASEC InstrumentType = "riasec"
)

// ParseInstrument validates a path/query segment into an instrument type.
func ParseInstrument(s string) (InstrumentType, error) {
	switch InstrumentType(s) {
	case InstrumentMBTI:
		return InstrumentMBTI, nil
	case InstrumentRIASEC:
		return InstrumentRIASEC, nil
	default:
		return "", NewInvalidError("unknown instrument type")
	}
}

// RequiredAnswers is the answer-set size a submission must carry.
func (t InstrumentType) RequiredAnswers() int {
	if t == InstrumentMBTI {
		return MBTIQuestionCount
	}
	return RIASECQuestionCount
}

type SessionStatus string

const (
	StatusNotStarted SessionStatus = "not_started"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
)

// MBTIAnswer is one type-inventory selection. AnalyticID maps 1:1 to a
// dimension letter (1=E 2=I 3=S 4=N 5=T 6=F 7=J 8=P).
type MBTIAnswer struct {
	QuestionID int `json:"question_id"`
	OptionID   int `json:"option_id"`
	AnalyticID int `json:"analytic_id"`
}

// RIASECAnswer is one interest-inventory selection. TypeID references one
// of the six interest categories; ScoreValue comes from the chosen Likert
// option (0..2).
type RIASECAnswer struct {
	QuestionID int `json:"question_id"`
	TypeID     int `json:"type_id"`
	OptionID   int `json:"option_id"`
	ScoreValue int `json:"score_value"`
}

// AnswerSet is a tagged union over the two answer shapes. Exactly one of
// the slices is populated, selected by Instrument.
type AnswerSet struct {
	Instrument InstrumentType `json:"instrument"`
	MBTI       []MBTIAnswer   `json:"mbti,omitempty"`
	RIASEC     []RIASECAnswer `json:"riasec,omitempty"`
}

func (a AnswerSet) Len() int {
	if a.Instrument == InstrumentMBTI {
		return len(a.MBTI)
	}
	return len(a.RIASEC)
}

// TestSession tracks one patient's progress through one instrument.
// (PatientID, Instrument) is unique; Token is unique when set.
type TestSession struct {
	ID             string         `json:"id"`
	PatientID      string         `json:"patient_id"`
	DoctorID       string         `json:"doctor_id"`
	Instrument     InstrumentType `json:"instrument"`
	Status         SessionStatus  `json:"status"`
	Answers        AnswerSet      `json:"answers"`
	Token          string         `json:"token,omitempty"`
	TokenExpiresAt *time.Time     `json:"token_expires_at,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}

// MBTIResult is the derived outcome of a completed type-inventory session.
// Dimensions maps dichotomy code to its two letter percentages,
// e.g. "EI" -> {"E": 67, "I": 33}.
type MBTIResult struct {
	ID              string                    `json:"id"`
	SessionID       string                    `json:"session_id"`
	PatientID       string                    `json:"patient_id"`
	DoctorID        string                    `json:"doctor_id"`
	PersonalityType string                    `json:"personality_type"`
	Dimensions      map[string]map[string]int `json:"dimensions"`
	CreatedAt       time.Time                 `json:"created_at"`
}

// RIASECResult is the derived outcome of a completed interest-inventory
// session. RankedCode orders all six category letters by score;
// TopThree is its first three letters after tie handling.
type RIASECResult struct {
	ID          string         `json:"id"`
	SessionID   string         `json:"session_id"`
	PatientID   string         `json:"patient_id"`
	DoctorID    string         `json:"doctor_id"`
	RankedCode  string         `json:"ranked_code"`
	TopThree    string         `json:"top_three"`
	Scores      map[string]int `json:"scores"`
	Percentages map[string]int `json:"percentages"`
	CreatedAt   time.Time      `json:"created_at"`
}

// TestResult is a tagged union over the two result shapes.
type TestResult struct {
	Instrument InstrumentType `json:"instrument"`
	MBTI       *MBTIResult    `json:"mbti,omitempty"`
	RIASEC     *RIASECResult  `json:"riasec,omitempty"`
}

// Doctor is a registered clinician account.
type Doctor struct {
	ID             string    `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	LicenseNumber  string    `json:"license_number"`
	Specialization string    `json:"specialization"`
	Hospital       string    `json:"hospital"`
	PassHash       []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Patient belongs to exactly one doctor.
type Patient struct {
	ID        string    `json:"id"`
	DoctorID  string    `json:"doctor_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Age       int       `json:"age,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MBTIQuestion with its two options, as served to test takers.
type MBTIQuestion struct {
	ID      int          `json:"id"`
	Text    string       `json:"text"`
	Options []MBTIOption `json:"options"`
}

type MBTIOption struct {
	ID         int    `json:"id"`
	QuestionID int    `json:"question_id"`
	Text       string `json:"text"`
	AnalyticID int    `json:"analytic_id"`
}

// RIASECType is one of the six interest categories (R,I,A,S,E,C).
type RIASECType struct {
	ID          int    `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type RIASECQuestion struct {
	ID     int    `json:"id"`
	TypeID int    `json:"type_id"`
	Text   string `json:"text"`
}

// RIASECOption is one of the five shared Likert options.
type RIASECOption struct {
	ID         int    `json:"id"`
	Text       string `json:"text"`
	ScoreValue int    `json:"score_value"`
}
