package postgres

import (
	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/persistence"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PatientSaver creates patient records
type PatientSaver struct {
	Provider *Provider
}

// NewPatientSaver creates PatientSaver instance
func NewPatientSaver(provider *Provider) (*PatientSaver, error) {
	f := PatientSaver{Provider: provider}
	return &f, nil
}

// Save creates a patient, the phone number may be empty
func (ps *PatientSaver) Save(phone string) (*persistence.Patient, error) {
	p := persistence.Patient{}
	if phone != "" {
		p.PhoneNumber = &phone
	}
	if err := ps.Provider.DB().Create(&p).Error; err != nil {
		return nil, logAndWrap(err, "can't create patient")
	}
	cmdapp.Log.Infof("Created patient %d", p.PatientID)
	return &p, nil
}

// FindOrCreate returns the patient with the phone number, creating it if needed
func (ps *PatientSaver) FindOrCreate(phone string) (*persistence.Patient, error) {
	if phone == "" {
		return ps.Save("")
	}
	var p persistence.Patient
	err := ps.Provider.DB().Where("phone_number = ?", phone).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, logAndWrap(err, "can't lookup patient")
	}
	return ps.Save(phone)
}

// PatientProvider reads patient records
type PatientProvider struct {
	Provider *Provider
}

// NewPatientProvider creates PatientProvider instance
func NewPatientProvider(provider *Provider) (*PatientProvider, error) {
	f := PatientProvider{Provider: provider}
	return &f, nil
}

// GetAll returns all patients ordered by ID
func (pp *PatientProvider) GetAll() ([]persistence.Patient, error) {
	var res []persistence.Patient
	if err := pp.Provider.DB().Order("patient_id").Find(&res).Error; err != nil {
		return nil, logAndWrap(err, "can't list patients")
	}
	return res, nil
}

// Exists checks a single patient by ID
func (pp *PatientProvider) Exists(id int64) (bool, error) {
	var p persistence.Patient
	err := pp.Provider.DB().Select("patient_id").Where("patient_id = ?", id).First(&p).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, logAndWrap(err, "can't check patient")
}
