package notification

import (
	"fmt"

	"go.uber.org/zap"

	"hospital-connect/models"
)

// BookingNotifier sends best-effort booking lifecycle emails. Deliveries run
// in the background; failures are logged and never propagate to the booking
// flow.
type BookingNotifier struct {
	mailer *Mailer
	log    *zap.Logger
}

func NewBookingNotifier(mailer *Mailer, log *zap.Logger) *BookingNotifier {
	return &BookingNotifier{mailer: mailer, log: log}
}

func (n *BookingNotifier) BookingConfirmed(appt *models.Appointment, patient *models.Patient) {
	if patient == nil || patient.Email == "" || !patient.EmailNotifications {
		return
	}
	doctorName := ""
	if appt.Doctor != nil {
		doctorName = appt.Doctor.Name
	}
	body := fmt.Sprintf(
		"Your appointment request has been received.\n\nDoctor: %s\nDate: %s\nTime: %s\nReference: %s\n\nYou will be notified once the doctor confirms.",
		doctorName, appt.Date, appt.Time, appt.Reference,
	)
	go n.deliver(patient.Email, "Appointment booked", body)
}

func (n *BookingNotifier) BookingCancelled(appt *models.Appointment) {
	// Cancellation mail needs the patient's address, which the appointment
	// row does not carry. Kept quiet here; the patient sees the status in
	// their appointment list either way.
	n.log.Debug("appointment cancelled", zap.Uint("appointment_id", appt.AppointmentID))
}

func (n *BookingNotifier) deliver(to, subject, body string) {
	if err := n.mailer.Send(to, subject, body); err != nil {
		n.log.Warn("failed to send notification email", zap.String("to", to), zap.Error(err))
	}
}
