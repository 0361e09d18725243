package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"hospital-connect/apperr"
	"hospital-connect/models"
)

type PrescriptionStore interface {
	Create(ctx context.Context, p *models.Prescription) error
	FindByID(ctx context.Context, id uint) (*models.Prescription, error)
	ListByPatient(ctx context.Context, patientID uint) ([]models.Prescription, error)
	ListByDoctor(ctx context.Context, doctorID uint) ([]models.Prescription, error)
}

type PrescriptionService struct {
	prescriptions PrescriptionStore
	appointments  AppointmentStore
	patients      PatientStore
	log           *zap.Logger
}

func NewPrescriptionService(prescriptions PrescriptionStore, appointments AppointmentStore, patients PatientStore, log *zap.Logger) *PrescriptionService {
	return &PrescriptionService{
		prescriptions: prescriptions,
		appointments:  appointments,
		patients:      patients,
		log:           log,
	}
}

type MedicationEntry struct {
	Name         string `json:"name" validate:"required"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Timing       string `json:"timing"`
	Instructions string `json:"instructions"`
}

type PrescriptionRequest struct {
	PatientID     uint
	AppointmentID uint
	Diagnosis     string
	Symptoms      string
	Medications   []MedicationEntry
}

// Create writes a prescription against a confirmed appointment and marks the
// appointment completed.
func (s *PrescriptionService) Create(ctx context.Context, doctorID uint, req PrescriptionRequest) (*models.Prescription, error) {
	if len(req.Medications) == 0 {
		return nil, apperr.Validation("at least one medication entry is required")
	}

	appt, err := s.appointments.FindByID(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt.DoctorID != doctorID || appt.PatientID != req.PatientID {
		return nil, apperr.NotFound("no appointment found for this doctor and patient")
	}

	switch appt.Status {
	case models.StatusPending:
		return nil, apperr.Validation("appointment is not confirmed yet")
	case models.StatusCompleted:
		return nil, apperr.Validation("prescription already added for this appointment")
	case models.StatusCancelled:
		return nil, apperr.Validation("appointment has been cancelled")
	}

	if _, err := s.patients.FindByID(ctx, req.PatientID); err != nil {
		return nil, err
	}

	prescription := &models.Prescription{
		DoctorID:      doctorID,
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		Diagnosis:     req.Diagnosis,
		Symptoms:      req.Symptoms,
	}
	for _, med := range req.Medications {
		prescription.Medications = append(prescription.Medications, models.Medication{
			Name:         med.Name,
			Dosage:       med.Dosage,
			Frequency:    med.Frequency,
			Duration:     med.Duration,
			Timing:       med.Timing,
			Instructions: med.Instructions,
		})
	}

	if err := s.prescriptions.Create(ctx, prescription); err != nil {
		return nil, err
	}

	// Prescribing closes out the visit.
	if _, err := s.appointments.UpdateStatusIf(ctx, appt.AppointmentID, models.StatusConfirmed, models.StatusCompleted, nil); err != nil {
		s.log.Warn("failed to mark appointment completed after prescribing",
			zap.Uint("appointment_id", appt.AppointmentID), zap.Error(err))
	}

	s.log.Info("prescription added",
		zap.Uint("prescription_id", prescription.PrescriptionID),
		zap.Uint("doctor_id", doctorID),
		zap.Uint("patient_id", req.PatientID),
	)
	return prescription, nil
}

func (s *PrescriptionService) ForPatient(ctx context.Context, patientID uint) ([]models.Prescription, error) {
	return s.prescriptions.ListByPatient(ctx, patientID)
}

func (s *PrescriptionService) ForDoctor(ctx context.Context, doctorID uint) ([]models.Prescription, error) {
	return s.prescriptions.ListByDoctor(ctx, doctorID)
}

// RenderPDF produces the printable prescription. Only the prescribing doctor
// or the patient it belongs to may render it.
func (s *PrescriptionService) RenderPDF(ctx context.Context, prescriptionID uint, doctorID, patientID uint) ([]byte, error) {
	prescription, err := s.prescriptions.FindByID(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	if prescription.DoctorID != doctorID && prescription.PatientID != patientID {
		return nil, apperr.NotFound("prescription not found")
	}

	patient, err := s.patients.FindByID(ctx, prescription.PatientID)
	if err != nil {
		return nil, err
	}
	return renderPrescriptionPDF(prescription, patient)
}

func renderPrescriptionPDF(p *models.Prescription, patient *models.Patient) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Prescription", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 7, fmt.Sprintf("Prescription #%d - %s", p.PrescriptionID, p.CreatedAt.Format("2006-01-02")), "", 1, "C", false, 0, "")

	if p.Doctor != nil {
		pdfDetail(pdf, "Doctor", p.Doctor.Name, true)
		pdfDetail(pdf, "Specialization", p.Doctor.Specialization, false)
	}
	pdfDetail(pdf, "Patient", patient.Name, true)
	if patient.Age > 0 {
		pdfDetail(pdf, "Age", fmt.Sprintf("%d", patient.Age), false)
	}
	if p.Diagnosis != "" {
		pdfDetail(pdf, "Diagnosis", p.Diagnosis, false)
	}
	if p.Symptoms != "" {
		pdfDetail(pdf, "Symptoms", p.Symptoms, false)
	}

	pdf.SetY(pdf.GetY() + 6)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Medications", "1", 1, "C", false, 0, "")
	for _, med := range p.Medications {
		line := med.Name
		if med.Dosage != "" {
			line += " " + med.Dosage
		}
		if med.Frequency != "" {
			line += ", " + med.Frequency
		}
		if med.Duration != "" {
			line += ", for " + med.Duration
		}
		if med.Timing != "" {
			line += " (" + med.Timing + ")"
		}
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 7, line, "1", "L", false)
		if med.Instructions != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(0, 6, med.Instructions, "1", "L", false)
		}
	}

	pdf.SetFont("Arial", "", 10)
	pdf.SetY(pdf.GetY() + 10)
	pdf.MultiCell(0, 5, "Follow the instructions given by the doctor. This is a computer generated prescription.", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperr.Internal(err, "failed to render prescription")
	}
	return buf.Bytes(), nil
}

func pdfDetail(pdf *gofpdf.Fpdf, label, value string, isHeader bool) {
	if isHeader {
		pdf.SetFont("Arial", "B", 12)
	} else {
		pdf.SetFont("Arial", "", 11)
	}
	pdf.CellFormat(45, 8, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 8, value, "1", 1, "", false, 0, "")
}
