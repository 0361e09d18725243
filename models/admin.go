package models

import "github.com/golang-jwt/jwt/v5"

type Admin struct {
	AdminID  uint   `gorm:"primaryKey" json:"admin_id"`
	Username string `json:"username" gorm:"uniqueIndex"`
	Password string `json:"password,omitempty"`
}

type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
