package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hospital-connect/apperr"
	"hospital-connect/models"
)

type PrescriptionRepository struct {
	db *gorm.DB
}

func NewPrescriptionRepository(db *gorm.DB) *PrescriptionRepository {
	return &PrescriptionRepository{db: db}
}

// Create stores the prescription together with its medication entries.
func (r *PrescriptionRepository) Create(ctx context.Context, p *models.Prescription) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return apperr.Internal(err, "failed to add prescription")
	}
	return nil
}

func (r *PrescriptionRepository) FindByID(ctx context.Context, id uint) (*models.Prescription, error) {
	var p models.Prescription
	err := r.db.WithContext(ctx).
		Preload("Medications").
		Preload("Doctor").
		First(&p, "prescription_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("prescription not found")
		}
		return nil, apperr.Internal(err, "failed to fetch prescription")
	}
	return &p, nil
}

func (r *PrescriptionRepository) ListByPatient(ctx context.Context, patientID uint) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	err := r.db.WithContext(ctx).
		Preload("Medications").
		Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to fetch prescriptions")
	}
	return prescriptions, nil
}

func (r *PrescriptionRepository) ListByDoctor(ctx context.Context, doctorID uint) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	err := r.db.WithContext(ctx).
		Preload("Medications").
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to fetch prescriptions")
	}
	return prescriptions, nil
}
