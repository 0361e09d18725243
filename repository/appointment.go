package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hospital-connect/apperr"
	"hospital-connect/models"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create inserts a new appointment row. The partial unique index on
// (doctor_id, date, time) for non-cancelled rows makes this the single
// atomic commit point of the booking transaction: losing the race surfaces
// as a duplicate key, never as a double-booking.
func (r *AppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	if err := r.db.WithContext(ctx).Omit("Doctor").Create(appt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.SlotConflict("the selected time slot has just been booked, please pick another slot")
		}
		return apperr.Internal(err, "failed to book appointment")
	}
	return nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.db.WithContext(ctx).Preload("Doctor").First(&appt, "appointment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("appointment not found")
		}
		return nil, apperr.Internal(err, "failed to fetch appointment")
	}
	return &appt, nil
}

// ListActiveByDoctorDate returns the non-cancelled appointments occupying
// slots for a doctor on a date.
func (r *AppointmentRepository) ListActiveByDoctorDate(ctx context.Context, doctorID uint, date string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND status <> ?", doctorID, date, models.StatusCancelled).
		Order("time").
		Find(&appts).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to fetch bookings")
	}
	return appts, nil
}

func (r *AppointmentRepository) ListByDoctorDate(ctx context.Context, doctorID uint, date string) ([]models.Appointment, error) {
	var appts []models.Appointment
	q := r.db.WithContext(ctx).Where("doctor_id = ?", doctorID)
	if date != "" {
		q = q.Where("date = ?", date)
	}
	if err := q.Order("date, time").Find(&appts).Error; err != nil {
		return nil, apperr.Internal(err, "failed to fetch appointments")
	}
	return appts, nil
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID uint) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("date DESC, time DESC").
		Find(&appts).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to fetch appointment history")
	}
	return appts, nil
}

// UpdateStatusIf performs the guarded status transition: the row is updated
// only while it still holds the expected current status. A false return
// means the appointment moved underneath the caller.
func (r *AppointmentRepository) UpdateStatusIf(ctx context.Context, id uint, from, to models.AppointmentStatus, updates map[string]any) (bool, error) {
	if updates == nil {
		updates = map[string]any{}
	}
	updates["status"] = to

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("appointment_id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, apperr.Internal(res.Error, "failed to update appointment status")
	}
	return res.RowsAffected == 1, nil
}

// StatusCounts feeds the admin dashboard.
func (r *AppointmentRepository) StatusCounts(ctx context.Context) (map[models.AppointmentStatus]int64, error) {
	var rows []struct {
		Status models.AppointmentStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to fetch booking counts")
	}

	counts := make(map[models.AppointmentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

type DoctorBookings struct {
	DoctorID     uint   `json:"doctor_id"`
	DoctorName   string `json:"doctor_name"`
	BookingCount int64  `json:"booking_count"`
}

func (r *AppointmentRepository) DoctorWiseBookings(ctx context.Context) ([]DoctorBookings, error) {
	var rows []DoctorBookings
	err := r.db.WithContext(ctx).
		Table("appointments").
		Select("appointments.doctor_id, doctors.name AS doctor_name, COUNT(*) AS booking_count").
		Joins("INNER JOIN doctors ON doctors.doctor_id = appointments.doctor_id").
		Group("appointments.doctor_id, doctors.name").
		Order("booking_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to fetch doctor-wise bookings")
	}
	return rows, nil
}
