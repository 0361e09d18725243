package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hospital-connect/apperr"
	"hospital-connect/authentication"
	"hospital-connect/models"
	"hospital-connect/service"
)

type stubScheduler struct {
	slots    []string
	slotsErr error

	booked  *models.Appointment
	bookErr error
	lastReq service.BookingRequest

	transitioned  *models.Appointment
	transitionErr error

	cancelled *models.Appointment
	cancelErr error
}

func (s *stubScheduler) AvailableSlots(_ context.Context, _ uint, _ string) ([]string, error) {
	return s.slots, s.slotsErr
}

func (s *stubScheduler) Book(_ context.Context, req service.BookingRequest) (*models.Appointment, error) {
	s.lastReq = req
	return s.booked, s.bookErr
}

func (s *stubScheduler) Transition(_ context.Context, _, _ uint, _ models.AppointmentStatus, _ string) (*models.Appointment, error) {
	return s.transitioned, s.transitionErr
}

func (s *stubScheduler) CancelByPatient(_ context.Context, _, _ uint, _ string) (*models.Appointment, error) {
	return s.cancelled, s.cancelErr
}

func (s *stubScheduler) PatientAppointments(_ context.Context, _ uint) ([]models.Appointment, error) {
	return nil, nil
}

func (s *stubScheduler) DoctorAppointments(_ context.Context, _ uint, _ string) ([]models.Appointment, error) {
	return nil, nil
}

func newTestRouter(sched *stubScheduler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ac := NewAppointmentController(sched, zap.NewNop())

	r := gin.New()
	asPatient := func(c *gin.Context) { c.Set(authentication.CtxPatientID, uint(10)) }
	asDoctor := func(c *gin.Context) { c.Set(authentication.CtxDoctorID, uint(1)) }

	r.GET("/api/patient/available-slots", asPatient, ac.GetAvailableSlots)
	r.POST("/api/patient/appointments", asPatient, ac.BookAppointment)
	r.POST("/api/patient/appointments/:id/cancel", asPatient, ac.CancelAppointment)
	r.PUT("/api/doctor/appointments/:id/status", asDoctor, ac.UpdateAppointmentStatus)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetAvailableSlotsShape(t *testing.T) {
	sched := &stubScheduler{slots: []string{"09:00", "09:30", "10:00"}}
	r := newTestRouter(sched)

	w := doJSON(t, r, http.MethodGet, "/api/patient/available-slots?doctorId=1&date=2025-06-15", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		AvailableSlots []string `json:"availableSlots"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.AvailableSlots) != 3 || resp.AvailableSlots[0] != "09:00" {
		t.Fatalf("unexpected slots: %v", resp.AvailableSlots)
	}
}

func TestGetAvailableSlotsBadDoctorID(t *testing.T) {
	r := newTestRouter(&stubScheduler{})

	w := doJSON(t, r, http.MethodGet, "/api/patient/available-slots?doctorId=abc&date=2025-06-15", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetAvailableSlotsErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		expected int
	}{
		{err: apperr.Validation("date cannot be in the past"), expected: http.StatusBadRequest},
		{err: apperr.NotFound("doctor not found"), expected: http.StatusNotFound},
	}

	for _, c := range cases {
		r := newTestRouter(&stubScheduler{slotsErr: c.err})
		w := doJSON(t, r, http.MethodGet, "/api/patient/available-slots?doctorId=1&date=2025-06-15", "")
		if w.Code != c.expected {
			t.Fatalf("error %v: expected %d, got %d", c.err, c.expected, w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["error"] == "" {
			t.Fatalf("expected an error message in the body")
		}
	}
}

func TestBookAppointmentCreated(t *testing.T) {
	sched := &stubScheduler{booked: &models.Appointment{
		AppointmentID: 5,
		DoctorID:      1,
		PatientID:     10,
		Date:          "2025-06-15",
		Time:          "09:30",
		Status:        models.StatusPending,
		Doctor:        &models.Doctor{DoctorID: 1, Name: "Dr. Meera Nair"},
	}}
	r := newTestRouter(sched)

	w := doJSON(t, r, http.MethodPost, "/api/patient/appointments",
		`{"doctorId": 1, "date": "2025-06-15", "time": "09:30", "reason": "checkup"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// patient identity comes from the token, not the body
	if sched.lastReq.PatientID != 10 {
		t.Fatalf("expected patient 10 from auth context, got %d", sched.lastReq.PatientID)
	}

	var appt models.Appointment
	if err := json.Unmarshal(w.Body.Bytes(), &appt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if appt.Status != models.StatusPending || appt.Doctor == nil {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestBookAppointmentSlotConflict(t *testing.T) {
	sched := &stubScheduler{bookErr: apperr.SlotConflict("slot 09:30 on 2025-06-15 is already booked")}
	r := newTestRouter(sched)

	w := doJSON(t, r, http.MethodPost, "/api/patient/appointments",
		`{"doctorId": 1, "date": "2025-06-15", "time": "09:30", "reason": "checkup"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "slot 09:30 on 2025-06-15 is already booked" {
		t.Fatalf("unexpected error body: %q", body["error"])
	}
}

func TestBookAppointmentMissingFields(t *testing.T) {
	r := newTestRouter(&stubScheduler{})

	cases := []string{
		`{}`,
		`{"doctorId": 1, "date": "2025-06-15", "time": "09:30"}`,
		`{"date": "2025-06-15", "time": "09:30", "reason": "checkup"}`,
		`not json`,
	}
	for _, body := range cases {
		w := doJSON(t, r, http.MethodPost, "/api/patient/appointments", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestCancelAppointment(t *testing.T) {
	sched := &stubScheduler{cancelled: &models.Appointment{
		AppointmentID: 5,
		Status:        models.StatusCancelled,
	}}
	r := newTestRouter(sched)

	w := doJSON(t, r, http.MethodPost, "/api/patient/appointments/5/cancel", `{"reason": "cannot make it"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/patient/appointments/abc/cancel", `{"reason": "x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/patient/appointments/5/cancel", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing reason, got %d", w.Code)
	}
}

func TestUpdateAppointmentStatusInvalidTransition(t *testing.T) {
	sched := &stubScheduler{transitionErr: apperr.InvalidTransition("cannot change appointment from cancelled to confirmed")}
	r := newTestRouter(sched)

	w := doJSON(t, r, http.MethodPut, "/api/doctor/appointments/5/status", `{"status": "confirmed"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestUpdateAppointmentStatusOK(t *testing.T) {
	sched := &stubScheduler{transitioned: &models.Appointment{
		AppointmentID: 5,
		Status:        models.StatusConfirmed,
	}}
	r := newTestRouter(sched)

	w := doJSON(t, r, http.MethodPut, "/api/doctor/appointments/5/status", `{"status": "confirmed", "notes": "see you"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var appt models.Appointment
	if err := json.Unmarshal(w.Body.Bytes(), &appt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if appt.Status != models.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", appt.Status)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ac := NewAppointmentController(&stubScheduler{}, zap.NewNop())
	r := gin.New()
	r.GET("/api/patient/available-slots", ac.GetAvailableSlots)
	r.POST("/api/patient/appointments", ac.BookAppointment)

	w := doJSON(t, r, http.MethodPost, "/api/patient/appointments",
		`{"doctorId": 1, "date": "2025-06-15", "time": "09:30", "reason": "checkup"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
