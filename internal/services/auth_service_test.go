package services

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

type stubAuthStore struct {
	byID      map[string]*Doctor
	byEmail   map[string]*Doctor
	byLicense map[string]*Doctor
}

func newStubAuthStore() *stubAuthStore {
	return &stubAuthStore{
		byID:      map[string]*Doctor{},
		byEmail:   map[string]*Doctor{},
		byLicense: map[string]*Doctor{},
	}
}

func (s *stubAuthStore) FindDoctorByEmail(email string) (*Doctor, error) {
	return s.byEmail[email], nil
}

func (s *stubAuthStore) FindDoctorByLicense(licenseNumber string) (*Doctor, error) {
	return s.byLicense[licenseNumber], nil
}

func (s *stubAuthStore) AddDoctor(d *Doctor) error {
	s.byID[d.ID] = d
	s.byEmail[d.Email] = d
	s.byLicense[d.LicenseNumber] = d
	return nil
}

func (s *stubAuthStore) GetDoctor(id string) (*Doctor, error) {
	return s.byID[id], nil
}

func newTestAuthService(store *stubAuthStore) *AuthService {
	svc := NewAuthService(store, func(uid, email string, ttl time.Duration) (string, error) {
		return fmt.Sprintf("jwt:%s:%s:%s", uid, email, ttl), nil
	})
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	seq := 0
	svc.idGen = func(prefix string, n int) string {
		seq++
		return fmt.Sprintf("%s%06d", prefix, seq)
	}
	return svc
}

func validSignup() SignupInput {
	return SignupInput{
		FullName:       "Dr. Amina Osei",
		Email:          "amina.osei@clinic.example",
		Phone:          "+1 555 0100",
		LicenseNumber:  "MD-4821",
		Specialization: "Psychiatry",
		Hospital:       "Riverside General",
		Password:       "correct horse battery",
	}
}

func TestRegisterCreatesDoctorAndToken(t *testing.T) {
	store := newStubAuthStore()
	svc := newTestAuthService(store)

	res, err := svc.Register(validSignup())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected a signed token")
	}
	if res.Doctor.Email != "amina.osei@clinic.example" {
		t.Fatalf("email = %q", res.Doctor.Email)
	}
	if !strings.HasPrefix(res.Doctor.ID, "d") {
		t.Fatalf("doctor id = %q, want d prefix", res.Doctor.ID)
	}
	if len(res.Doctor.PassHash) == 0 || string(res.Doctor.PassHash) == "correct horse battery" {
		t.Fatalf("password stored without hashing")
	}
	if store.byEmail["amina.osei@clinic.example"] == nil {
		t.Fatalf("doctor not persisted")
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	store := newStubAuthStore()
	svc := newTestAuthService(store)

	in := validSignup()
	in.Email = "  Amina.Osei@Clinic.Example  "
	res, err := svc.Register(in)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Doctor.Email != "amina.osei@clinic.example" {
		t.Fatalf("email = %q, want lowercased and trimmed", res.Doctor.Email)
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	store := newStubAuthStore()
	svc := newTestAuthService(store)

	mutations := []func(*SignupInput){
		func(in *SignupInput) { in.FullName = "  " },
		func(in *SignupInput) { in.Email = "" },
		func(in *SignupInput) { in.Phone = "" },
		func(in *SignupInput) { in.LicenseNumber = "" },
		func(in *SignupInput) { in.Specialization = "" },
		func(in *SignupInput) { in.Hospital = "" },
		func(in *SignupInput) { in.Password = "" },
	}
	for i, mutate := range mutations {
		in := validSignup()
		mutate(&in)
		if _, err := svc.Register(in); !IsCode(err, ErrorInvalid) {
			t.Fatalf("case %d: expected invalid error, got %v", i, err)
		}
	}
}

func TestRegisterRejectsBadEmailAndShortPassword(t *testing.T) {
	store := newStubAuthStore()
	svc := newTestAuthService(store)

	in := validSignup()
	in.Email = "not-an-email"
	if _, err := svc.Register(in); !IsCode(err, ErrorInvalid) {
		t.Fatalf("expected invalid error for bad email, got %v", err)
	}

	in = validSignup()
	in.Password = "short"
	if _, err := svc.Register(in); !IsCode(err, ErrorInvalid) {
		t.Fatalf("expected invalid error for short password, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmailAndLicense(t *testing.T) {
	store := newStubAuthStore()
	svc := newTestAuthService(store)
	if _, err := svc.Register(validSignup()); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	dup := validSignup()
	dup.LicenseNumber = "MD-9999"
	if _, err := svc.Register(dup); !IsCode(err, ErrorConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}

	dup = validSignup()
	dup.Email = "someone.else@clinic.example"
	if _, err := svc.Register(dup); !IsCode(err, ErrorConflict) {
		t.Fatalf("expected conflict for duplicate license, got %v", err)
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	store := newStubAuthStore()
	svc := newTestAuthService(store)
	if _, err := svc.Register(validSignup()); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	res, err := svc.Login("Amina.Osei@clinic.example", "correct horse battery")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Token == "" || res.Doctor == nil {
		t.Fatalf("incomplete login result: %+v", res)
	}

	if _, err := svc.Login("amina.osei@clinic.example", "wrong password"); !IsCode(err, ErrorUnauthorized) {
		t.Fatalf("expected unauthorized for wrong password, got %v", err)
	}
	if _, err := svc.Login("nobody@clinic.example", "correct horse battery"); !IsCode(err, ErrorUnauthorized) {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
	if _, err := svc.Login("", ""); !IsCode(err, ErrorInvalid) {
		t.Fatalf("expected invalid for empty credentials, got %v", err)
	}
}

func TestMeReturnsDoctor(t *testing.T) {
	store := newStubAuthStore()
	svc := newTestAuthService(store)
	res, err := svc.Register(validSignup())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	d, err := svc.Me(res.Doctor.ID)
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if d.Email != res.Doctor.Email {
		t.Fatalf("Me returned %q, want %q", d.Email, res.Doctor.Email)
	}

	if _, err := svc.Me(""); !IsCode(err, ErrorUnauthorized) {
		t.Fatalf("expected unauthorized without id, got %v", err)
	}
	if _, err := svc.Me("dmissing"); !IsCode(err, ErrorNotFound) {
		t.Fatalf("expected not_found for unknown id, got %v", err)
	}
}
