package controllers

import (
	"encoding/json"
	"fmt"
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
)

type PatientController struct {
	patients *repository.PatientRepository
	doctors  *repository.DoctorRepository
	jwt      *authentication.JWT
	redis    *redis.Client
	sms      *notification.SMSVerifier
	log      *zap.Logger
}

func NewPatientController(
	patients *repository.PatientRepository,
	doctors *repository.DoctorRepository,
	jwt *authentication.JWT,
	redisClient *redis.Client,
	sms *notification.SMSVerifier,
	log *zap.Logger,
) *PatientController {
	return &PatientController{
		patients: patients,
		doctors:  doctors,
		jwt:      jwt,
		redis:    redisClient,
		sms:      sms,
		log:      log,
	}
}

// Signup stages the patient record in Redis and texts a verification code.
// The row is only written after the code checks out.
func (pc *PatientController) Signup(c *gin.Context) {
	var patient models.Patient
	if !bindAndValidate(c, &patient) {
		return
	}

	if _, err := pc.patients.FindByPhone(c.Request.Context(), patient.Phone); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "a patient with this phone number already exists"})
		return
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		respondError(c, pc.log, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(patient.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, pc.log, apperr.Internal(err, "failed to hash password"))
		return
	}
	patient.Password = string(hashed)

	if err := pc.sms.SendCode(patient.Phone); err != nil {
		respondError(c, pc.log, apperr.Internal(err, "failed to send verification code"))
		return
	}

	staged, err := json.Marshal(&patient)
	if err != nil {
		respondError(c, pc.log, apperr.Internal(err, "failed to stage signup"))
		return
	}
	key := fmt.Sprintf("signup:patient:%s", patient.Phone)
	if err := pc.redis.Set(c.Request.Context(), key, staged, 15*time.Minute).Err(); err != nil {
		respondError(c, pc.log, apperr.Internal(err, "failed to stage signup"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent, proceed to verification"})
}

type patientVerifyRequest struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// Verify checks the SMS code and creates the staged patient record.
func (pc *PatientController) Verify(c *gin.Context) {
	var req patientVerifyRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := pc.sms.CheckCode(req.Phone, req.Code); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong verification code"})
		return
	}

	key := fmt.Sprintf("signup:patient:%s", req.Phone)
	staged, err := pc.redis.Get(c.Request.Context(), key).Result()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "signup expired, please register again"})
		return
	}

	var patient models.Patient
	if err := json.Unmarshal([]byte(staged), &patient); err != nil {
		respondError(c, pc.log, apperr.Internal(err, "failed to read staged signup"))
		return
	}
	if err := pc.patients.Create(c.Request.Context(), &patient); err != nil {
		respondError(c, pc.log, err)
		return
	}
	pc.redis.Del(c.Request.Context(), key)

	patient.Password = ""
	c.JSON(http.StatusCreated, gin.H{"message": "signup successful", "patient": patient})
}

type patientLoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (pc *PatientController) Login(c *gin.Context) {
	var req patientLoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	patient, err := pc.patients.FindByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid phone number or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(patient.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid phone number or password"})
		return
	}

	token, err := pc.jwt.GeneratePatientToken(patient.PatientID, patient.Phone)
	if err != nil {
		respondError(c, pc.log, apperr.Internal(err, "failed to generate token"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": token})
}

// Logout denylists the current token until it expires.
func (pc *PatientController) Logout(c *gin.Context) {
	token := c.GetString("token")
	expiry, _ := c.Get("token_expiry")
	if exp, ok := expiry.(time.Time); ok && token != "" {
		if err := pc.jwt.Revoke(c.Request.Context(), token, exp); err != nil {
			respondError(c, pc.log, apperr.Internal(err, "failed to log out"))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "you are successfully logged out"})
}

func (pc *PatientController) GetProfile(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	patient, err := pc.patients.FindByID(c.Request.Context(), pid)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	patient.Password = ""
	c.JSON(http.StatusOK, patient)
}

type patientProfileUpdate struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

func (pc *PatientController) UpdateProfile(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	var req patientProfileUpdate
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
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	if err := pc.patients.UpdateProfile(c.Request.Context(), pid, updates); err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (pc *PatientController) ChangePassword(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	patient, err := pc.patients.FindByID(c.Request.Context(), pid)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(patient.Password), []byte(req.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, pc.log, apperr.Internal(err, "failed to hash password"))
		return
	}
	if err := pc.patients.UpdateProfile(c.Request.Context(), pid, map[string]any{"password": string(hashed)}); err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (pc *PatientController) GetNotificationSettings(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	patient, err := pc.patients.FindByID(c.Request.Context(), pid)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"email_notifications": patient.EmailNotifications,
		"sms_notifications":   patient.SMSNotifications,
	})
}

type notificationSettingsRequest struct {
	EmailNotifications *bool `json:"email_notifications"`
	SMSNotifications   *bool `json:"sms_notifications"`
}

func (pc *PatientController) UpdateNotificationSettings(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	var req notificationSettingsRequest
	if !bindAndValidate(c, &req) {
		return
	}

	updates := map[string]any{}
	if req.EmailNotifications != nil {
		updates["email_notifications"] = *req.EmailNotifications
	}
	if req.SMSNotifications != nil {
		updates["sms_notifications"] = *req.SMSNotifications
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	if err := pc.patients.UpdateProfile(c.Request.Context(), pid, updates); err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification settings updated"})
}

// ListDoctors backs the booking form's doctor picker with approved doctors.
func (pc *PatientController) ListDoctors(c *gin.Context) {
	approved := true
	doctors, err := pc.doctors.List(c.Request.Context(), &approved)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	for i := range doctors {
		doctors[i].Password = ""
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}
