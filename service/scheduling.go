package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hospital-connect/apperr"
	"hospital-connect/models"
	"hospital-connect/schedule"
)

// AppointmentStore is the slice of storage the scheduler needs. The booking
// commit relies on the store's atomic uniqueness guarantee for non-cancelled
// (doctor, date, time) rows; the service never takes application-level locks.
type AppointmentStore interface {
	Create(ctx context.Context, appt *models.Appointment) error
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	ListActiveByDoctorDate(ctx context.Context, doctorID uint, date string) ([]models.Appointment, error)
	ListByDoctorDate(ctx context.Context, doctorID uint, date string) ([]models.Appointment, error)
	ListByPatient(ctx context.Context, patientID uint) ([]models.Appointment, error)
	UpdateStatusIf(ctx context.Context, id uint, from, to models.AppointmentStatus, updates map[string]any) (bool, error)
}

type DoctorStore interface {
	FindByID(ctx context.Context, id uint) (*models.Doctor, error)
}

type PatientStore interface {
	FindByID(ctx context.Context, id uint) (*models.Patient, error)
}

// Notifier delivers booking lifecycle notifications. It is strictly outside
// the booking transaction: a failed notification never fails the booking.
type Notifier interface {
	BookingConfirmed(appt *models.Appointment, patient *models.Patient)
	BookingCancelled(appt *models.Appointment)
}

type SchedulingService struct {
	appointments AppointmentStore
	doctors      DoctorStore
	patients     PatientStore
	notifier     Notifier
	log          *zap.Logger

	// injectable clock for tests
	now func() time.Time
}

func NewSchedulingService(appointments AppointmentStore, doctors DoctorStore, patients PatientStore, notifier Notifier, log *zap.Logger) *SchedulingService {
	return &SchedulingService{
		appointments: appointments,
		doctors:      doctors,
		patients:     patients,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

// AvailableSlots computes the bookable slot start times for a doctor on a
// date: the working-hours grid minus the times of non-cancelled
// appointments, in chronological order. Read-only.
func (s *SchedulingService) AvailableSlots(ctx context.Context, doctorID uint, date string) ([]string, error) {
	day, err := schedule.ParseDate(date)
	if err != nil {
		return nil, apperr.Validation("invalid date format, expected YYYY-MM-DD")
	}
	if schedule.BeforeToday(day, s.now()) {
		return nil, apperr.Validation("date cannot be in the past")
	}

	doctor, err := s.doctors.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	grid := schedule.Slots(doctor.WorkStart, doctor.WorkEnd, schedule.SlotInterval)
	if len(grid) == 0 {
		return []string{}, nil
	}

	booked, err := s.appointments.ListActiveByDoctorDate(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(booked))
	for _, appt := range booked {
		taken[appt.Time] = true
	}

	available := make([]string, 0, len(grid))
	for _, slot := range grid {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	return available, nil
}

type BookingRequest struct {
	DoctorID  uint
	PatientID uint
	Date      string
	Time      string
	Reason    string
}

// Book validates the request and commits a pending appointment. The only
// write is the single insert; when two callers race for one slot the store's
// unique index lets exactly one commit and the other receives a slot
// conflict, to be resolved by the caller re-fetching availability.
func (s *SchedulingService) Book(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	day, err := schedule.ParseDate(req.Date)
	if err != nil {
		return nil, apperr.Validation("invalid date format, expected YYYY-MM-DD")
	}
	if schedule.BeforeToday(day, s.now()) {
		return nil, apperr.Validation("appointment date cannot be in the past")
	}
	if !schedule.ValidClock(req.Time) {
		return nil, apperr.Validation("invalid time format, expected HH:MM")
	}
	if req.Reason == "" {
		return nil, apperr.Validation("reason is required")
	}

	doctor, err := s.doctors.FindByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.Approved {
		return nil, apperr.NotFound("doctor not found")
	}

	grid := schedule.Slots(doctor.WorkStart, doctor.WorkEnd, schedule.SlotInterval)
	if !schedule.Contains(grid, req.Time) {
		return nil, apperr.Validation("time %s is not a valid slot for this doctor", req.Time)
	}

	patient, err := s.patients.FindByID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		Reference: uuid.NewString(),
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
		Status:    models.StatusPending,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}
	appt.Doctor = doctor

	s.log.Info("appointment booked",
		zap.Uint("appointment_id", appt.AppointmentID),
		zap.String("reference", appt.Reference),
		zap.Uint("doctor_id", req.DoctorID),
		zap.Uint("patient_id", req.PatientID),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
	)

	if s.notifier != nil {
		s.notifier.BookingConfirmed(appt, patient)
	}
	return appt, nil
}

// Transition applies a doctor-initiated status change under the transition
// table. The update is guarded on the current status so a concurrent change
// cannot be overwritten.
func (s *SchedulingService) Transition(ctx context.Context, apptID, doctorID uint, next models.AppointmentStatus, notes string) (*models.Appointment, error) {
	if !next.Valid() || next == models.StatusPending {
		return nil, apperr.Validation("invalid target status %q", string(next))
	}

	appt, err := s.appointments.FindByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if appt.DoctorID != doctorID {
		return nil, apperr.NotFound("appointment not found")
	}
	if !appt.Status.CanTransitionTo(next) {
		return nil, apperr.InvalidTransition("cannot change appointment from %s to %s", appt.Status, next)
	}
	// ISO dates compare lexicographically, so this is a calendar comparison.
	if next == models.StatusCompleted && appt.Date > s.now().Format(schedule.DateLayout) {
		return nil, apperr.Validation("appointment cannot be completed before its date")
	}

	updates := map[string]any{}
	if notes != "" {
		updates["notes"] = notes
	}
	if next == models.StatusCancelled {
		updates["cancellation_reason"] = notes
	}

	return s.commitTransition(ctx, appt, next, updates)
}

// CancelByPatient cancels the patient's own appointment, recording the
// reason. Only pending and confirmed appointments can be cancelled;
// cancelling frees the slot for other patients.
func (s *SchedulingService) CancelByPatient(ctx context.Context, apptID, patientID uint, reason string) (*models.Appointment, error) {
	if reason == "" {
		return nil, apperr.Validation("cancellation reason is required")
	}

	appt, err := s.appointments.FindByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if appt.PatientID != patientID {
		return nil, apperr.NotFound("appointment not found")
	}
	if !appt.Status.CanTransitionTo(models.StatusCancelled) {
		return nil, apperr.InvalidTransition("cannot cancel an appointment that is already %s", appt.Status)
	}

	return s.commitTransition(ctx, appt, models.StatusCancelled, map[string]any{
		"cancellation_reason": reason,
	})
}

func (s *SchedulingService) commitTransition(ctx context.Context, appt *models.Appointment, next models.AppointmentStatus, updates map[string]any) (*models.Appointment, error) {
	ok, err := s.appointments.UpdateStatusIf(ctx, appt.AppointmentID, appt.Status, next, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race: the status moved between our read and the guarded
		// write. Report against the state it is in now.
		current, err := s.appointments.FindByID(ctx, appt.AppointmentID)
		if err != nil {
			return nil, err
		}
		return nil, apperr.InvalidTransition("cannot change appointment from %s to %s", current.Status, next)
	}

	s.log.Info("appointment status changed",
		zap.Uint("appointment_id", appt.AppointmentID),
		zap.String("from", string(appt.Status)),
		zap.String("to", string(next)),
	)

	updated, err := s.appointments.FindByID(ctx, appt.AppointmentID)
	if err != nil {
		return nil, err
	}
	if next == models.StatusCancelled && s.notifier != nil {
		s.notifier.BookingCancelled(updated)
	}
	return updated, nil
}

func (s *SchedulingService) PatientAppointments(ctx context.Context, patientID uint) ([]models.Appointment, error) {
	return s.appointments.ListByPatient(ctx, patientID)
}

func (s *SchedulingService) DoctorAppointments(ctx context.Context, doctorID uint, date string) ([]models.Appointment, error) {
	if date != "" {
		if _, err := schedule.ParseDate(date); err != nil {
			return nil, apperr.Validation("invalid date format, expected YYYY-MM-DD")
		}
	}
	return s.appointments.ListByDoctorDate(ctx, doctorID, date)
}
