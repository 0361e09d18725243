package routes

import (
	"github.com/gin-gonic/gin"

	"hospital-connect/authentication"
	"hospital-connect/controllers"
)

// Controllers bundles everything the router wires up.
type Controllers struct {
	Appointments  *controllers.AppointmentController
	Patients      *controllers.PatientController
	Doctors       *controllers.DoctorController
	Admins        *controllers.AdminController
	Prescriptions *controllers.PrescriptionController
}

// Setup builds the gin engine with all API routes registered.
func Setup(jwt *authentication.JWT, c Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	// registration and login, per role
	api.POST("/register/patient", c.Patients.Signup)
	api.POST("/register/patient/verify", c.Patients.Verify)
	api.POST("/register/doctor", c.Doctors.Signup)
	api.POST("/register/doctor/verify", c.Doctors.Verify)
	api.POST("/login/patient", c.Patients.Login)
	api.POST("/login/doctor", c.Doctors.Login)
	api.POST("/login/admin", c.Admins.Login)

	// doctor directory for the booking form
	api.GET("/doctor/all", c.Patients.ListDoctors)

	patient := api.Group("/patient")
	patient.Use(jwt.PatientAuthMiddleware())
	{
		patient.GET("/available-slots", c.Appointments.GetAvailableSlots)
		patient.POST("/appointments", c.Appointments.BookAppointment)
		patient.GET("/appointments", c.Appointments.ListPatientAppointments)
		patient.POST("/appointments/:id/cancel", c.Appointments.CancelAppointment)
		patient.GET("/prescriptions", c.Prescriptions.ListForPatient)
		patient.GET("/medical-history", c.Prescriptions.MedicalHistory)
		patient.GET("/profile", c.Patients.GetProfile)
		patient.PUT("/profile", c.Patients.UpdateProfile)
		patient.POST("/change-password", c.Patients.ChangePassword)
		patient.GET("/notifications", c.Patients.GetNotificationSettings)
		patient.PUT("/notifications", c.Patients.UpdateNotificationSettings)
		patient.GET("/logout", c.Patients.Logout)
	}

	doctor := api.Group("/doctor")
	doctor.Use(jwt.DoctorAuthMiddleware())
	{
		doctor.GET("/appointments", c.Appointments.ListDoctorAppointments)
		doctor.PUT("/appointments/:id/status", c.Appointments.UpdateAppointmentStatus)
		doctor.POST("/prescriptions", c.Prescriptions.Prescribe)
		doctor.GET("/prescriptions", c.Prescriptions.ListForDoctor)
		doctor.GET("/prescriptions/:id/pdf", c.Prescriptions.PDF)
		doctor.GET("/dashboard", c.Doctors.Dashboard)
		doctor.GET("/patients", c.Doctors.Patients)
		doctor.GET("/profile", c.Doctors.GetProfile)
		doctor.PUT("/profile", c.Doctors.UpdateProfile)
		doctor.PUT("/working-hours", c.Doctors.UpdateWorkingHours)
		doctor.GET("/logout", c.Doctors.Logout)
	}

	admin := api.Group("/admin")
	admin.Use(jwt.AdminAuthMiddleware())
	{
		admin.GET("/doctors", c.Admins.ListDoctors)
		admin.POST("/doctors/:id/approve", c.Admins.ApproveDoctor)
		admin.GET("/patients", c.Admins.ListPatients)
		admin.GET("/dashboard", c.Admins.Dashboard)
		admin.GET("/logout", c.Admins.Logout)
	}

	return r
}
