package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hospital-connect/apperr"
	"hospital-connect/models"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	if err := r.db.WithContext(ctx).Create(doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Validation("email or license number already in use")
		}
		return apperr.Internal(err, "failed to create doctor")
	}
	return nil
}

func (r *DoctorRepository) FindByID(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).First(&doctor, "doctor_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("doctor not found")
		}
		return nil, apperr.Internal(err, "failed to fetch doctor")
	}
	return &doctor, nil
}

func (r *DoctorRepository) FindByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).First(&doctor, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("doctor not found")
		}
		return nil, apperr.Internal(err, "failed to fetch doctor")
	}
	return &doctor, nil
}

// List returns doctors, optionally filtered on approval state.
func (r *DoctorRepository) List(ctx context.Context, approved *bool) ([]models.Doctor, error) {
	var doctors []models.Doctor
	q := r.db.WithContext(ctx).Omit("password")
	if approved != nil {
		q = q.Where("approved = ?", *approved)
	}
	if err := q.Order("name").Find(&doctors).Error; err != nil {
		return nil, apperr.Internal(err, "failed to fetch doctors")
	}
	return doctors, nil
}

func (r *DoctorRepository) Approve(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Where("doctor_id = ?", id).
		Update("approved", true)
	if res.Error != nil {
		return apperr.Internal(res.Error, "failed to approve doctor")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("doctor not found")
	}
	return nil
}

func (r *DoctorRepository) UpdateProfile(ctx context.Context, id uint, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Where("doctor_id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return apperr.Internal(res.Error, "failed to update profile")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("doctor not found")
	}
	return nil
}

// UpdateWorkingHours replaces the doctor's daily slot window.
func (r *DoctorRepository) UpdateWorkingHours(ctx context.Context, id uint, workStart, workEnd string) error {
	return r.UpdateProfile(ctx, id, map[string]any{
		"work_start": workStart,
		"work_end":   workEnd,
	})
}
