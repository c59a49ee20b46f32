package dto

import (
	"credit-engine/internal/domain/user"
	"fmt"
	"strings"
	"time"
)

type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"change-me-please"`
}

func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

type LoginResponse struct {
	Token      string    `json:"token"`
	TokenType  string    `json:"tokenType" example:"Bearer"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Role       string    `json:"role" example:"ADMIN"`
	CustomerID *string   `json:"customerId,omitempty"`
}

func NewLoginResponse(res *user.LoginResult) LoginResponse {
	var customerID *string
	if res.User.CustomerID != nil {
		s := res.User.CustomerID.String()
		customerID = &s
	}
	return LoginResponse{
		Token:      res.Token,
		TokenType:  "Bearer",
		ExpiresAt:  res.ExpiresAt,
		Role:       string(res.User.Role),
		CustomerID: customerID,
	}
}
