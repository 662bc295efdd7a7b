package services

import (
	"strings"
	"time"
)

type PatientStore interface {
	InsertPatient(p *Patient) error
	GetPatient(id string) (*Patient, error)
	UpdatePatient(p *Patient) error
	DeletePatient(id string) error
	ListPatientsByDoctor(doctorID, search string) ([]*Patient, error)
}

// PatientInput mirrors the add/edit patient form. Only FullName is
// required; the rest is optional clinical context.
type PatientInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
	Status   string `json:"status"`
}

type PatientService struct {
	store PatientStore
	now   func() time.Time
	idGen func(prefix string, n int) string
}

func NewPatientService(store PatientStore) *PatientService {
	return &PatientService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func(prefix string, n int) string { return prefix + shortID(n) },
	}
}

var patientStatuses = map[string]bool{"active": true, "pending": true, "inactive": true}
var patientGenders = map[string]bool{"Male": true, "Female": true, "Other": true}

func (s *PatientService) Create(doctorID string, in PatientInput) (*Patient, error) {
	if doctorID == "" {
		return nil, NewUnauthorizedError("not authenticated")
	}
	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" {
		return nil, NewInvalidError("patient name is required")
	}
	if in.Status == "" {
		in.Status = "active"
	}
	if !patientStatuses[in.Status] {
		return nil, NewInvalidError("invalid patient status")
	}
	if in.Gender != "" && !patientGenders[in.Gender] {
		return nil, NewInvalidError("invalid gender value")
	}
	if in.Age < 0 {
		return nil, NewInvalidError("invalid age value")
	}
	now := s.now()
	p := &Patient{
		ID:        s.idGen("p", 8),
		DoctorID:  doctorID,
		FullName:  in.FullName,
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Age:       in.Age,
		Gender:    in.Gender,
		Address:   strings.TrimSpace(in.Address),
		Notes:     in.Notes,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertPatient(p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns the doctor's patients, optionally filtered by a search
// term matched against name, email and phone.
func (s *PatientService) List(doctorID, search string) ([]*Patient, error) {
	if doctorID == "" {
		return nil, NewUnauthorizedError("not authenticated")
	}
	return s.store.ListPatientsByDoctor(doctorID, strings.TrimSpace(search))
}

func (s *PatientService) Get(doctorID, patientID string) (*Patient, error) {
	p, err := s.owned(doctorID, patientID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PatientService) Update(doctorID, patientID string, in PatientInput) (*Patient, error) {
	p, err := s.owned(doctorID, patientID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.FullName); name != "" {
		p.FullName = name
	}
	if in.Status != "" {
		if !patientStatuses[in.Status] {
			return nil, NewInvalidError("invalid patient status")
		}
		p.Status = in.Status
	}
	if in.Gender != "" {
		if !patientGenders[in.Gender] {
			return nil, NewInvalidError("invalid gender value")
		}
		p.Gender = in.Gender
	}
	if in.Email != "" {
		p.Email = strings.TrimSpace(in.Email)
	}
	if in.Phone != "" {
		p.Phone = strings.TrimSpace(in.Phone)
	}
	if in.Age > 0 {
		p.Age = in.Age
	}
	if in.Address != "" {
		p.Address = strings.TrimSpace(in.Address)
	}
	if in.Notes != "" {
		p.Notes = in.Notes
	}
	p.UpdatedAt = s.now()
	if err := s.store.UpdatePatient(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PatientService) Delete(doctorID, patientID string) error {
	if _, err := s.owned(doctorID, patientID); err != nil {
		return err
	}
	return s.store.DeletePatient(patientID)
}

func (s *PatientService) owned(doctorID, patientID string) (*Patient, error) {
	if doctorID == "" {
		return nil, NewUnauthorizedError("not authenticated")
	}
	if strings.TrimSpace(patientID) == "" {
		return nil, NewInvalidError("patient id required")
	}
	p, err := s.store.GetPatient(patientID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewNotFoundError("patient not found")
	}
	if p.DoctorID != doctorID {
		return nil, NewForbiddenError("patient belongs to another doctor")
	}
	return p, nil
}
