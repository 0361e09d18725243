package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hospital-connect/service"
)

type PrescriptionController struct {
	prescriptions *service.PrescriptionService
	scheduler     Scheduler
	log           *zap.Logger
}

func NewPrescriptionController(prescriptions *service.PrescriptionService, scheduler Scheduler, log *zap.Logger) *PrescriptionController {
	return &PrescriptionController{prescriptions: prescriptions, scheduler: scheduler, log: log}
}

type prescribeRequest struct {
	PatientID     uint                      `json:"patient_id" validate:"required"`
	AppointmentID uint                      `json:"appointment_id" validate:"required"`
	Diagnosis     string                    `json:"diagnosis"`
	Symptoms      string                    `json:"symptoms"`
	Medications   []service.MedicationEntry `json:"medications" validate:"required,dive"`
}

// Prescribe answers POST /api/doctor/prescriptions.
func (pc *PrescriptionController) Prescribe(c *gin.Context) {
	did, ok := doctorID(c)
	if !ok {
		return
	}
	var req prescribeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	prescription, err := pc.prescriptions.Create(c.Request.Context(), did, service.PrescriptionRequest{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		Diagnosis:     req.Diagnosis,
		Symptoms:      req.Symptoms,
		Medications:   req.Medications,
	})
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusCreated, prescription)
}

// ListForPatient answers GET /api/patient/prescriptions.
func (pc *PrescriptionController) ListForPatient(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	prescriptions, err := pc.prescriptions.ForPatient(c.Request.Context(), pid)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prescriptions": prescriptions})
}

// ListForDoctor answers GET /api/doctor/prescriptions.
func (pc *PrescriptionController) ListForDoctor(c *gin.Context) {
	did, ok := doctorID(c)
	if !ok {
		return
	}
	prescriptions, err := pc.prescriptions.ForDoctor(c.Request.Context(), did)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prescriptions": prescriptions})
}

// PDF answers GET /api/doctor/prescriptions/:id/pdf with the printable
// prescription.
func (pc *PrescriptionController) PDF(c *gin.Context) {
	did, ok := doctorID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prescription id"})
		return
	}

	pdf, err := pc.prescriptions.RenderPDF(c.Request.Context(), uint(id), did, 0)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=prescription-%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// MedicalHistory answers GET /api/patient/medical-history: past appointments
// together with the prescriptions issued against them.
func (pc *PrescriptionController) MedicalHistory(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	appts, err := pc.scheduler.PatientAppointments(ctx, pid)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	prescriptions, err := pc.prescriptions.ForPatient(ctx, pid)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointments":  appts,
		"prescriptions": prescriptions,
	})
}
