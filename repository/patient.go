package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hospital-connect/apperr"
	"hospital-connect/models"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if err := r.db.WithContext(ctx).Create(patient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Validation("a patient with this phone number already exists")
		}
		return apperr.Internal(err, "failed to create patient")
	}
	return nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).First(&patient, "patient_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("patient not found")
		}
		return nil, apperr.Internal(err, "failed to fetch patient")
	}
	return &patient, nil
}

func (r *PatientRepository) FindByPhone(ctx context.Context, phone string) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).First(&patient, "phone = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("patient not found")
		}
		return nil, apperr.Internal(err, "failed to fetch patient")
	}
	return &patient, nil
}

func (r *PatientRepository) List(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	if err := r.db.WithContext(ctx).Omit("password").Order("name").Find(&patients).Error; err != nil {
		return nil, apperr.Internal(err, "failed to fetch patients")
	}
	return patients, nil
}

// ListByDoctor returns the distinct patients who have held an appointment
// with the doctor.
func (r *PatientRepository) ListByDoctor(ctx context.Context, doctorID uint) ([]models.Patient, error) {
	var patients []models.Patient
	err := r.db.WithContext(ctx).
		Distinct("patients.patient_id", "patients.name", "patients.age", "patients.gender", "patients.phone", "patients.email").
		Joins("INNER JOIN appointments ON appointments.patient_id = patients.patient_id").
		Where("appointments.doctor_id = ?", doctorID).
		Order("patients.name").
		Find(&patients).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to fetch patients")
	}
	return patients, nil
}

func (r *PatientRepository) UpdateProfile(ctx context.Context, id uint, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("patient_id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return apperr.Internal(res.Error, "failed to update profile")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("patient not found")
	}
	return nil
}
