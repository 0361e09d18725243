package models

import "github.com/golang-jwt/jwt/v5"

type Doctor struct {
	DoctorID       uint   `gorm:"primaryKey" json:"doctor_id"`
	Name           string `json:"name" gorm:"not null" validate:"required"`
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	Specialization string `json:"specialization" gorm:"not null" validate:"required"`
	Experience     int    `json:"experience"`
	Email          string `json:"email" gorm:"uniqueIndex" validate:"required,email"`
	Password       string `json:"password,omitempty" gorm:"not null" validate:"required,min=8"`
	Phone          string `json:"phone" gorm:"not null" validate:"required"`
	LicenseNumber  string `json:"license_number" gorm:"uniqueIndex" validate:"required"`
	Verified       bool   `json:"verified"`
	Approved       bool   `json:"approved"`

	// Daily working-hours window bounding valid slots. Empty means the
	// doctor takes no bookings.
	WorkStart string `json:"work_start" gorm:"size:5;default:09:00"`
	WorkEnd   string `json:"work_end" gorm:"size:5;default:17:00"`

	EmailNotifications bool `json:"email_notifications" gorm:"default:true"`
}

type DoctorClaims struct {
	DoctorID uint   `json:"doctor_id"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}
