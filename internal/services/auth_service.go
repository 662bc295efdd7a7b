package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type AuthStore interface {
	FindDoctorByEmail(email string) (*Doctor, error)
	FindDoctorByLicense(licenseNumber string) (*Doctor, error)
	AddDoctor(d *Doctor) error
	GetDoctor(id string) (*Doctor, error)
}

type TokenSigner func(uid, email string, ttl time.Duration) (string, error)

type AuthService struct {
	store     AuthStore
	now       func() time.Time
	idGen     func(prefix string, n int) string
	signToken TokenSigner
	tokenTTL  time.Duration
}

// SignupInput mirrors the clinician registration form. All fields are
// required.
type SignupInput struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	LicenseNumber  string `json:"license_number"`
	Specialization string `json:"specialization"`
	Hospital       string `json:"hospital"`
	Password       string `json:"password"`
}

type AuthResult struct {
	Token  string
	Doctor *Doctor
}

func NewAuthService(store AuthStore, signer TokenSigner) *AuthService {
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     func(prefix string, n int) string { return prefix + shortID(n) },
		signToken: signer,
		tokenTTL:  30 * 24 * time.Hour,
	}
}

func (s *AuthService) Register(in SignupInput) (*AuthResult, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.LicenseNumber = strings.TrimSpace(in.LicenseNumber)
	if in.FullName == "" || in.Email == "" || strings.TrimSpace(in.Phone) == "" ||
		in.LicenseNumber == "" || strings.TrimSpace(in.Specialization) == "" ||
		strings.TrimSpace(in.Hospital) == "" || in.Password == "" {
		return nil, NewInvalidError("all fields are required")
	}
	if !validEmail(in.Email) {
		return nil, NewInvalidError("invalid email format")
	}
	if len(in.Password) < 8 {
		return nil, NewInvalidError("password must be at least 8 characters long")
	}

	if existing, err := s.store.FindDoctorByEmail(in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, NewConflictError("email already registered")
	}
	if existing, err := s.store.FindDoctorByLicense(in.LicenseNumber); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, NewConflictError("license number already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	doctor := &Doctor{
		ID:             s.idGen("d", 8),
		FullName:       in.FullName,
		Email:          in.Email,
		Phone:          strings.TrimSpace(in.Phone),
		LicenseNumber:  in.LicenseNumber,
		Specialization: strings.TrimSpace(in.Specialization),
		Hospital:       strings.TrimSpace(in.Hospital),
		PassHash:       hash,
		CreatedAt:      s.now(),
	}
	if err := s.store.AddDoctor(doctor); err != nil {
		return nil, err
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(doctor.ID, doctor.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Doctor: doctor}, nil
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	d, err := s.store.FindDoctorByEmail(email)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(d.PassHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(d.ID, d.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Doctor: d}, nil
}

// Me returns the doctor behind a verified identity claim.
func (s *AuthService) Me(doctorID string) (*Doctor, error) {
	if doctorID == "" {
		return nil, NewUnauthorizedError("not authenticated")
	}
	d, err := s.store.GetDoctor(doctorID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, NewNotFoundError("doctor not found")
	}
	return d, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1 && !strings.ContainsAny(email, " \t")
}
