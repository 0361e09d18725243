package authentication

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"hospital-connect/configuration"
	"hospital-connect/models"
)

const tokenTTL = 24 * time.Hour

// Context keys set by the middlewares for downstream handlers.
const (
	CtxPatientID = "patient_id"
	CtxDoctorID  = "doctor_id"
	CtxAdminUser = "admin_username"
)

// JWT issues and verifies role-scoped session tokens. Revoked tokens are held
// in Redis until their natural expiry so logout works across instances.
type JWT struct {
	patientKey []byte
	doctorKey  []byte
	adminKey   []byte
	redis      *redis.Client
}

func NewJWT(cfg *configuration.Config, client *redis.Client) *JWT {
	return &JWT{
		patientKey: []byte(cfg.PatientJWTSecret),
		doctorKey:  []byte(cfg.DoctorJWTSecret),
		adminKey:   []byte(cfg.AdminJWTSecret),
		redis:      client,
	}
}

func (j *JWT) GeneratePatientToken(patientID uint, phone string) (string, error) {
	claims := &models.PatientClaims{
		PatientID: patientID,
		Phone:     phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.patientKey)
}

func (j *JWT) GenerateDoctorToken(doctorID uint, email string) (string, error) {
	claims := &models.DoctorClaims{
		DoctorID: doctorID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.doctorKey)
}

func (j *JWT) GenerateAdminToken(username string) (string, error) {
	claims := &models.AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.adminKey)
}

func (j *JWT) ParsePatientToken(tokenString string) (*models.PatientClaims, error) {
	var claims models.PatientClaims
	if err := j.parse(tokenString, &claims, j.patientKey); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (j *JWT) ParseDoctorToken(tokenString string) (*models.DoctorClaims, error) {
	var claims models.DoctorClaims
	if err := j.parse(tokenString, &claims, j.doctorKey); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (j *JWT) ParseAdminToken(tokenString string) (*models.AdminClaims, error) {
	var claims models.AdminClaims
	if err := j.parse(tokenString, &claims, j.adminKey); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (j *JWT) parse(tokenString string, claims jwt.Claims, key []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return jwt.ErrTokenInvalidClaims
	}
	return nil
}

// Revoke denylists a token until its expiry. Expired tokens need no entry.
func (j *JWT) Revoke(ctx context.Context, tokenString string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return j.redis.Set(ctx, "revoked:"+tokenString, "1", ttl).Err()
}

func (j *JWT) revoked(ctx context.Context, tokenString string) bool {
	if j.redis == nil {
		return false
	}
	_, err := j.redis.Get(ctx, "revoked:"+tokenString).Result()
	return err == nil
}

// bearerToken extracts the raw token from the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer")), true
}

func (j *JWT) PatientAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is missing"})
			return
		}
		claims, err := j.ParsePatientToken(token)
		if err != nil || j.revoked(c.Request.Context(), token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(CtxPatientID, claims.PatientID)
		c.Set("token", token)
		c.Set("token_expiry", claims.ExpiresAt.Time)
		c.Next()
	}
}

func (j *JWT) DoctorAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is missing"})
			return
		}
		claims, err := j.ParseDoctorToken(token)
		if err != nil || j.revoked(c.Request.Context(), token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(CtxDoctorID, claims.DoctorID)
		c.Set("token", token)
		c.Set("token_expiry", claims.ExpiresAt.Time)
		c.Next()
	}
}

func (j *JWT) AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is missing"})
			return
		}
		claims, err := j.ParseAdminToken(token)
		if err != nil || j.revoked(c.Request.Context(), token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(CtxAdminUser, claims.Username)
		c.Set("token", token)
		c.Set("token_expiry", claims.ExpiresAt.Time)
		c.Next()
	}
}
