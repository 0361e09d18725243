package models

import "time"

// AppointmentStatus is a closed enumeration. Transitions outside the table
// below are rejected, never written.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

func (s AppointmentStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s AppointmentStatus) Terminal() bool {
	return s.Valid() && len(statusTransitions[s]) == 0
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is one booked slot on a doctor's schedule. Records are never
// hard-deleted; cancellation is a status change, which also frees the slot
// for rebooking (the unique index covers non-cancelled rows only).
type Appointment struct {
	AppointmentID      uint              `gorm:"primaryKey" json:"appointment_id"`
	Reference          string            `gorm:"size:36;uniqueIndex" json:"reference"`
	DoctorID           uint              `gorm:"not null;index" json:"doctor_id"`
	Doctor             *Doctor           `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	PatientID          uint              `gorm:"not null;index" json:"patient_id"`
	Date               string            `gorm:"size:10;not null" json:"date"`
	Time               string            `gorm:"size:5;not null" json:"time"`
	Reason             string            `gorm:"not null" json:"reason"`
	Status             AppointmentStatus `gorm:"size:16;not null;default:pending" json:"status"`
	Notes              string            `json:"notes,omitempty"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}
