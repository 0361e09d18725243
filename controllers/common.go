package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"go.uber.org/zap"

	"hospital-connect/apperr"
	"hospital-connect/authentication"
)

var validate = validator.New()

// respondError translates a taxonomy error into the JSON error body and
// status the API promises. Internal details go to the log, not the client.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := apperr.Status(err)
	if status >= 500 && log != nil {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
// A false return means the response has already been written.
func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func patientID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(authentication.CtxPatientID)
	if !ok {
		c.JSON(401, gin.H{"error": "patient not authenticated"})
		return 0, false
	}
	return v.(uint), true
}

func doctorID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(authentication.CtxDoctorID)
	if !ok {
		c.JSON(401, gin.H{"error": "doctor not authenticated"})
		return 0, false
	}
	return v.(uint), true
}
