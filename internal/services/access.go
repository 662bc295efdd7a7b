package services

// AccessClaim carries whatever identity a request presented: an opaque
// session token, or a verified doctor id (from the auth middleware) plus
// an explicit patient id. The two paths are mutually exclusive; a token,
// when present, wins and any identity claim is ignored.
type AccessClaim struct {
	Token     string
	DoctorID  string
	PatientID string
}

// AccessStore is the lookup surface the resolver needs.
type AccessStore interface {
	GetSessionByToken(token string) (*TestSession, error)
	GetSession(patientID string, instrument InstrumentType) (*TestSession, error)
	GetPatient(id string) (*Patient, error)
}

// AccessResolver maps a claim to the one session it authorizes.
type AccessResolver struct {
	store AccessStore
}

func NewAccessResolver(store AccessStore) *AccessResolver {
	return &AccessResolver{store: store}
}

// Resolve returns the target session for a claim.
//
// Token path: the token alone authorizes exactly that session; an unknown
// token is rejected as an invalid link, never enumerated further.
//
// Identity path: requires an authenticated doctor and an explicit patient
// id; the patient must belong to that doctor. A verified identity path
// with no session yet returns (nil, nil) so callers can treat the session
// as virtually not started.
func (r *AccessResolver) Resolve(claim AccessClaim, instrument InstrumentType) (*TestSession, error) {
	if claim.Token != "" {
		s, err := r.store.GetSessionByToken(claim.Token)
		if err != nil {
			return nil, err
		}
		if s == nil || s.Instrument != instrument {
			return nil, NewForbiddenError("invalid test link")
		}
		return s, nil
	}

	if claim.PatientID == "" {
		return nil, NewInvalidError("token or patient id required")
	}
	if claim.DoctorID == "" {
		return nil, NewUnauthorizedError("not authenticated")
	}

	p, err := r.store.GetPatient(claim.PatientID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewNotFoundError("patient not found")
	}
	if p.DoctorID != claim.DoctorID {
		return nil, NewForbiddenError("patient belongs to another doctor")
	}

	s, err := r.store.GetSession(claim.PatientID, instrument)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	if s.DoctorID != claim.DoctorID {
		return nil, NewForbiddenError("test belongs to another doctor")
	}
	return s, nil
}
