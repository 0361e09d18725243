package models

import "time"

type Prescription struct {
	PrescriptionID uint         `gorm:"primaryKey" json:"prescription_id"`
	DoctorID       uint         `gorm:"not null;index" json:"doctor_id"`
	Doctor         *Doctor      `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	PatientID      uint         `gorm:"not null;index" json:"patient_id"`
	AppointmentID  uint         `gorm:"index" json:"appointment_id,omitempty"`
	Diagnosis      string       `json:"diagnosis"`
	Symptoms       string       `json:"symptoms"`
	Medications    []Medication `gorm:"foreignKey:PrescriptionID" json:"medications"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

type Medication struct {
	MedicationID   uint   `gorm:"primaryKey" json:"medication_id"`
	PrescriptionID uint   `gorm:"not null;index" json:"-"`
	Name           string `gorm:"not null" json:"name"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency"`
	Duration       string `json:"duration"`
	Timing         string `json:"timing"`
	Instructions   string `json:"instructions"`
}
