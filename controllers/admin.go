package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hospital-connect/apperr"
	"hospital-connect/authentication"
	"hospital-connect/models"
	"hospital-connect/repository"
)

type AdminController struct {
	admins       *repository.AdminRepository
	doctors      *repository.DoctorRepository
	patients     *repository.PatientRepository
	appointments *repository.AppointmentRepository
	jwt          *authentication.JWT
	log          *zap.Logger
}

func NewAdminController(
	admins *repository.AdminRepository,
	doctors *repository.DoctorRepository,
	patients *repository.PatientRepository,
	appointments *repository.AppointmentRepository,
	jwt *authentication.JWT,
	log *zap.Logger,
) *AdminController {
	return &AdminController{
		admins:       admins,
		doctors:      doctors,
		patients:     patients,
		appointments: appointments,
		jwt:          jwt,
		log:          log,
	}
}

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (ac *AdminController) Login(c *gin.Context) {
	var req adminLoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	admin, err := ac.admins.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	token, err := ac.jwt.GenerateAdminToken(admin.Username)
	if err != nil {
		respondError(c, ac.log, apperr.Internal(err, "failed to generate token"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": token})
}

func (ac *AdminController) Logout(c *gin.Context) {
	token := c.GetString("token")
	expiry, _ := c.Get("token_expiry")
	if exp, ok := expiry.(time.Time); ok && token != "" {
		if err := ac.jwt.Revoke(c.Request.Context(), token, exp); err != nil {
			respondError(c, ac.log, apperr.Internal(err, "failed to log out"))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "you are successfully logged out"})
}

// ListDoctors answers GET /api/admin/doctors?approved=true|false.
func (ac *AdminController) ListDoctors(c *gin.Context) {
	var approved *bool
	if q := c.Query("approved"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "approved must be true or false"})
			return
		}
		approved = &v
	}

	doctors, err := ac.doctors.List(c.Request.Context(), approved)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	for i := range doctors {
		doctors[i].Password = ""
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

// ApproveDoctor answers POST /api/admin/doctors/:id/approve.
func (ac *AdminController) ApproveDoctor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid doctor id"})
		return
	}

	doctor, err := ac.doctors.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	if !doctor.Verified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doctor has not verified their email yet"})
		return
	}

	if err := ac.doctors.Approve(c.Request.Context(), uint(id)); err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "doctor approved"})
}

func (ac *AdminController) ListPatients(c *gin.Context) {
	patients, err := ac.patients.List(c.Request.Context())
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": patients})
}

// Dashboard answers GET /api/admin/dashboard with booking stats.
func (ac *AdminController) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := ac.appointments.StatusCounts(ctx)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	perDoctor, err := ac.appointments.DoctorWiseBookings(ctx)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	c.JSON(http.StatusOK, gin.H{
		"total_bookings":       total,
		"pending_bookings":     counts[models.StatusPending],
		"confirmed_bookings":   counts[models.StatusConfirmed],
		"completed_bookings":   counts[models.StatusCompleted],
		"cancelled_bookings":   counts[models.StatusCancelled],
		"doctor_wise_bookings": perDoctor,
	})
}
