package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"hospital-connect/apperr"
	"hospital-connect/models"
)

type fakePrescriptionStore struct {
	nextID uint
	rows   map[uint]*models.Prescription
}

func newFakePrescriptionStore() *fakePrescriptionStore {
	return &fakePrescriptionStore{nextID: 1, rows: make(map[uint]*models.Prescription)}
}

func (f *fakePrescriptionStore) Create(_ context.Context, p *models.Prescription) error {
	p.PrescriptionID = f.nextID
	f.nextID++
	clone := *p
	f.rows[p.PrescriptionID] = &clone
	return nil
}

func (f *fakePrescriptionStore) FindByID(_ context.Context, id uint) (*models.Prescription, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("prescription not found")
	}
	clone := *row
	return &clone, nil
}

func (f *fakePrescriptionStore) ListByPatient(_ context.Context, patientID uint) ([]models.Prescription, error) {
	var out []models.Prescription
	for _, row := range f.rows {
		if row.PatientID == patientID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakePrescriptionStore) ListByDoctor(_ context.Context, doctorID uint) ([]models.Prescription, error) {
	var out []models.Prescription
	for _, row := range f.rows {
		if row.DoctorID == doctorID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func newPrescriptionTestService(t *testing.T, apptStatus models.AppointmentStatus) (*PrescriptionService, *fakeAppointmentStore, *fakePrescriptionStore) {
	t.Helper()
	appointments := newFakeAppointmentStore()
	appointments.rows[1] = &models.Appointment{
		AppointmentID: 1,
		DoctorID:      1,
		PatientID:     10,
		Date:          "2025-06-10",
		Time:          "09:00",
		Status:        apptStatus,
	}
	appointments.nextID = 2

	patients := &fakePatientStore{patients: map[uint]*models.Patient{
		10: {PatientID: 10, Name: "Anil Kumar", Age: 42},
	}}
	store := newFakePrescriptionStore()
	svc := NewPrescriptionService(store, appointments, patients, zap.NewNop())
	return svc, appointments, store
}

func TestPrescriptionCreateCompletesAppointment(t *testing.T) {
	svc, appointments, _ := newPrescriptionTestService(t, models.StatusConfirmed)

	p, err := svc.Create(context.Background(), 1, PrescriptionRequest{
		PatientID:     10,
		AppointmentID: 1,
		Diagnosis:     "acute bronchitis",
		Medications: []MedicationEntry{
			{Name: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily", Duration: "7 days"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.PrescriptionID == 0 || len(p.Medications) != 1 {
		t.Fatalf("unexpected prescription: %+v", p)
	}
	if appointments.rows[1].Status != models.StatusCompleted {
		t.Fatalf("expected appointment completed, got %s", appointments.rows[1].Status)
	}
}

func TestPrescriptionCreateRejectsWrongAppointmentState(t *testing.T) {
	cases := []models.AppointmentStatus{models.StatusPending, models.StatusCompleted, models.StatusCancelled}

	for _, status := range cases {
		svc, _, _ := newPrescriptionTestService(t, status)
		_, err := svc.Create(context.Background(), 1, PrescriptionRequest{
			PatientID:     10,
			AppointmentID: 1,
			Medications:   []MedicationEntry{{Name: "Paracetamol"}},
		})
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Fatalf("status %s: expected validation error, got %v", status, err)
		}
	}
}

func TestPrescriptionCreateRequiresMedicationsAndOwnership(t *testing.T) {
	svc, _, _ := newPrescriptionTestService(t, models.StatusConfirmed)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, PrescriptionRequest{PatientID: 10, AppointmentID: 1})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for empty medications, got %v", err)
	}

	// another doctor's appointment
	_, err = svc.Create(ctx, 99, PrescriptionRequest{
		PatientID:     10,
		AppointmentID: 1,
		Medications:   []MedicationEntry{{Name: "Paracetamol"}},
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for another doctor, got %v", err)
	}

	// appointment does not belong to the named patient
	_, err = svc.Create(ctx, 1, PrescriptionRequest{
		PatientID:     77,
		AppointmentID: 1,
		Medications:   []MedicationEntry{{Name: "Paracetamol"}},
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for mismatched patient, got %v", err)
	}
}

func TestRenderPDFAccess(t *testing.T) {
	svc, _, store := newPrescriptionTestService(t, models.StatusConfirmed)
	ctx := context.Background()

	store.rows[1] = &models.Prescription{
		PrescriptionID: 1,
		DoctorID:       1,
		PatientID:      10,
		Diagnosis:      "acute bronchitis",
		Medications:    []models.Medication{{Name: "Amoxicillin", Dosage: "500mg"}},
	}
	store.nextID = 2

	// prescribing doctor
	if _, err := svc.RenderPDF(ctx, 1, 1, 0); err != nil {
		t.Fatalf("doctor render: %v", err)
	}
	// owning patient
	pdf, err := svc.RenderPDF(ctx, 1, 0, 10)
	if err != nil {
		t.Fatalf("patient render: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("expected PDF bytes")
	}
	// anyone else
	if _, err := svc.RenderPDF(ctx, 1, 99, 88); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for stranger, got %v", err)
	}
}
