package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hospital-connect/apperr"
	"hospital-connect/models"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("admin not found")
		}
		return nil, apperr.Internal(err, "failed to fetch admin")
	}
	return &admin, nil
}
