package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hospital-connect/models"
	"hospital-connect/service"
)

// Scheduler is the slice of the scheduling service the HTTP layer consumes.
type Scheduler interface {
	AvailableSlots(ctx context.Context, doctorID uint, date string) ([]string, error)
	Book(ctx context.Context, req service.BookingRequest) (*models.Appointment, error)
	Transition(ctx context.Context, apptID, doctorID uint, next models.AppointmentStatus, notes string) (*models.Appointment, error)
	CancelByPatient(ctx context.Context, apptID, patientID uint, reason string) (*models.Appointment, error)
	PatientAppointments(ctx context.Context, patientID uint) ([]models.Appointment, error)
	DoctorAppointments(ctx context.Context, doctorID uint, date string) ([]models.Appointment, error)
}

type AppointmentController struct {
	scheduler Scheduler
	log       *zap.Logger
}

func NewAppointmentController(scheduler Scheduler, log *zap.Logger) *AppointmentController {
	return &AppointmentController{scheduler: scheduler, log: log}
}

// GetAvailableSlots answers GET /api/patient/available-slots?doctorId=&date=
// with the bookable slot start times in chronological order.
func (ac *AppointmentController) GetAvailableSlots(c *gin.Context) {
	doctorID, err := strconv.ParseUint(c.Query("doctorId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doctorId must be a number"})
		return
	}

	slots, err := ac.scheduler.AvailableSlots(c.Request.Context(), uint(doctorID), c.Query("date"))
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availableSlots": slots})
}

type bookAppointmentRequest struct {
	DoctorID uint   `json:"doctorId" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

// BookAppointment answers POST /api/patient/appointments. On success the
// created appointment, doctor resolved, comes back with 201; a lost slot
// race comes back as 409 and the caller should re-fetch availability.
func (ac *AppointmentController) BookAppointment(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}

	var req bookAppointmentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	appt, err := ac.scheduler.Book(c.Request.Context(), service.BookingRequest{
		DoctorID:  req.DoctorID,
		PatientID: pid,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

type cancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CancelAppointment answers POST /api/patient/appointments/:id/cancel.
func (ac *AppointmentController) CancelAppointment(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	apptID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment id"})
		return
	}

	var req cancelAppointmentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	appt, err := ac.scheduler.CancelByPatient(c.Request.Context(), uint(apptID), pid, req.Reason)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// ListPatientAppointments answers GET /api/patient/appointments.
func (ac *AppointmentController) ListPatientAppointments(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	appts, err := ac.scheduler.PatientAppointments(c.Request.Context(), pid)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

type statusChangeRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// UpdateAppointmentStatus answers PUT /api/doctor/appointments/:id/status and
// enforces the appointment state machine; illegal transitions are 409s.
func (ac *AppointmentController) UpdateAppointmentStatus(c *gin.Context) {
	did, ok := doctorID(c)
	if !ok {
		return
	}
	apptID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment id"})
		return
	}

	var req statusChangeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	appt, err := ac.scheduler.Transition(c.Request.Context(), uint(apptID), did, models.AppointmentStatus(req.Status), req.Notes)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// ListDoctorAppointments answers GET /api/doctor/appointments?date=.
func (ac *AppointmentController) ListDoctorAppointments(c *gin.Context) {
	did, ok := doctorID(c)
	if !ok {
		return
	}
	appts, err := ac.scheduler.DoctorAppointments(c.Request.Context(), did, c.Query("date"))
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}
