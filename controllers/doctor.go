package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hospital-connect/apperr"
	"hospital-connect/authentication"
	"hospital-connect/models"
	"hospital-connect/notification"
	"hospital-connect/repository"
	"hospital-connect/schedule"
)

type DoctorController struct {
	doctors      *repository.DoctorRepository
	patients     *repository.PatientRepository
	appointments *repository.AppointmentRepository
	jwt          *authentication.JWT
	redis        *redis.Client
	mailer       *notification.Mailer
	log          *zap.Logger
}

func NewDoctorController(
	doctors *repository.DoctorRepository,
	patients *repository.PatientRepository,
	appointments *repository.AppointmentRepository,
	jwt *authentication.JWT,
	redisClient *redis.Client,
	mailer *notification.Mailer,
	log *zap.Logger,
) *DoctorController {
	return &DoctorController{
		doctors:      doctors,
		patients:     patients,
		appointments: appointments,
		jwt:          jwt,
		redis:        redisClient,
		mailer:       mailer,
		log:          log,
	}
}

// Signup stages the doctor record in Redis and emails a one-time code. The
// record is written unverified/unapproved after Verify; admins approve later.
func (dc *DoctorController) Signup(c *gin.Context) {
	var doctor models.Doctor
	if !bindAndValidate(c, &doctor) {
		return
	}

	if _, err := dc.doctors.FindByEmail(c.Request.Context(), doctor.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
		return
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		respondError(c, dc.log, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(doctor.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, dc.log, apperr.Internal(err, "failed to hash password"))
		return
	}
	doctor.Password = string(hashed)
	if doctor.WorkStart == "" {
		doctor.WorkStart = schedule.DefaultWorkStart
	}
	if doctor.WorkEnd == "" {
		doctor.WorkEnd = schedule.DefaultWorkEnd
	}

	otp := authentication.GenerateOTP(6)
	if err := dc.mailer.SendOTP(doctor.Email, otp); err != nil {
		respondError(c, dc.log, apperr.Internal(err, "failed to send verification code"))
		return
	}

	staged, err := json.Marshal(&doctor)
	if err != nil {
		respondError(c, dc.log, apperr.Internal(err, "failed to stage signup"))
		return
	}
	ctx := c.Request.Context()
	if err := dc.redis.Set(ctx, "otp:doctor:"+doctor.Email, otp, 5*time.Minute).Err(); err != nil {
		respondError(c, dc.log, apperr.Internal(err, "failed to stage signup"))
		return
	}
	if err := dc.redis.Set(ctx, "signup:doctor:"+doctor.Email, staged, 20*time.Minute).Err(); err != nil {
		respondError(c, dc.log, apperr.Internal(err, "failed to stage signup"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent, proceed to verification"})
}

type doctorVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

func (dc *DoctorController) Verify(c *gin.Context) {
	var req doctorVerifyRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	otp, err := dc.redis.Get(ctx, "otp:doctor:"+req.Email).Result()
	if err != nil || !authentication.ValidateOTP(otp, req.Code) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong or expired verification code"})
		return
	}

	staged, err := dc.redis.Get(ctx, "signup:doctor:"+req.Email).Result()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "signup expired, please register again"})
		return
	}

	var doctor models.Doctor
	if err := json.Unmarshal([]byte(staged), &doctor); err != nil {
		respondError(c, dc.log, apperr.Internal(err, "failed to read staged signup"))
		return
	}
	doctor.Verified = true
	doctor.Approved = false
	if err := dc.doctors.Create(ctx, &doctor); err != nil {
		respondError(c, dc.log, err)
		return
	}
	dc.redis.Del(ctx, "otp:doctor:"+req.Email, "signup:doctor:"+req.Email)

	doctor.Password = ""
	c.JSON(http.StatusCreated, gin.H{"message": "signup successful, awaiting admin approval", "doctor": doctor})
}

type doctorLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (dc *DoctorController) Login(c *gin.Context) {
	var req doctorLoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	doctor, err := dc.doctors.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(doctor.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if !doctor.Approved {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "doctor not approved yet"})
		return
	}

	token, err := dc.jwt.GenerateDoctorToken(doctor.DoctorID, doctor.Email)
	if err != nil {
		respondError(c, dc.log, apperr.Internal(err, "failed to generate token"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": token})
}

func (dc *DoctorController) Logout(c *gin.Context) {
	token := c.GetString("token")
	expiry, _ := c.Get("token_expiry")
	if exp, ok := expiry.(time.Time); ok && token != "" {
		if err := dc.jwt.Revoke(c.Request.Context(), token, exp); err != nil {
			respondError(c, dc.log, apperr.Internal(err, "failed to log out"))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "you are successfully logged out"})
}

func (dc *DoctorController) GetProfile(c *gin.Context) {
	did, ok := doctorID(c)
	if !ok {
		return
	}
	doctor, err := dc.doctors.FindByID(c.Request.Context(), did)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	doctor.Password = ""
	c.JSON(http.StatusOK, doctor)
}

type doctorProfileUpdate struct {
	Name           string `json:"name"`
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	Specialization string `json:"specialization"`
	Experience     int    `json:"experience"`
	Phone          string `json:"phone"`
}

func (dc *DoctorController) UpdateProfile(c *gin.Context) {
	did, ok := doctorID(c)
	if !ok {
		return
	}
	var req doctorProfileUpdate
	if !bindAndValidate(c, &req) {
		return
	}

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Age > 0 {
		updates["age"] = req.Age
	}
	if req.Gender != "" {
		updates["gender"] = req.Gender
	}
	if req.Specialization != "" {
		updates["specialization"] = req.Specialization
	}
	if req.Experience > 0 {
		updates["experience"] = req.Experience
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	if err := dc.doctors.UpdateProfile(c.Request.Context(), did, updates); err != nil {
		respondError(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

type workingHoursRequest struct {
	WorkStart string `json:"work_start" validate:"required"`
	WorkEnd   string `json:"work_end" validate:"required"`
}

// UpdateWorkingHours replaces the doctor's daily slot window. The window
// bounds every future availability computation; existing bookings outside
// the new window stay untouched.
func (dc *DoctorController) UpdateWorkingHours(c *gin.Context) {
	did, ok := doctorID(c)
	if !ok {
		return
	}
	var req workingHoursRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if !schedule.ValidClock(req.WorkStart) || !schedule.ValidClock(req.WorkEnd) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "working hours must be HH:MM"})
		return
	}
	if req.WorkStart >= req.WorkEnd {
		c.JSON(http.StatusBadRequest, gin.H{"error": "work_start must be before work_end"})
		return
	}

	if err := dc.doctors.UpdateWorkingHours(c.Request.Context(), did, req.WorkStart, req.WorkEnd); err != nil {
		respondError(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "working hours updated"})
}

// Dashboard summarizes the doctor's day: today's appointments grouped by
// status.
func (dc *DoctorController) Dashboard(c *gin.Context) {
	did, ok := doctorID(c)
	if !ok {
		return
	}

	today := time.Now().Format(schedule.DateLayout)
	appts, err := dc.appointments.ListByDoctorDate(c.Request.Context(), did, today)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}

	counts := map[models.AppointmentStatus]int{}
	for _, appt := range appts {
		counts[appt.Status]++
	}
	c.JSON(http.StatusOK, gin.H{
		"date":         today,
		"total":        len(appts),
		"pending":      counts[models.StatusPending],
		"confirmed":    counts[models.StatusConfirmed],
		"completed":    counts[models.StatusCompleted],
		"cancelled":    counts[models.StatusCancelled],
		"appointments": appts,
	})
}

// Patients lists everyone who has booked with this doctor.
func (dc *DoctorController) Patients(c *gin.Context) {
	did, ok := doctorID(c)
	if !ok {
		return
	}
	patients, err := dc.patients.ListByDoctor(c.Request.Context(), did)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": patients})
}
