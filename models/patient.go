package models

import "github.com/golang-jwt/jwt/v5"

type Patient struct {
	PatientID uint   `gorm:"primaryKey" json:"patient_id"`
	Name      string `json:"name" validate:"required"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	Phone     string `json:"phone" gorm:"uniqueIndex" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Address   string `json:"address"`
	Password  string `json:"password,omitempty" validate:"required,min=8"`

	EmailNotifications bool `json:"email_notifications" gorm:"default:true"`
	SMSNotifications   bool `json:"sms_notifications" gorm:"default:false"`
}

type PatientClaims struct {
	PatientID uint   `json:"patient_id"`
	Phone     string `json:"phone"`
	jwt.RegisteredClaims
}
