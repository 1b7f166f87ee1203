package auth

import (
	"errors"
	"strings"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto *LoginDTO) Validate() error {
	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(dto.Email, "@") {
		return errors.New("email is invalid")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type TokenDTO struct {
	Token string `json:"token"`
}

func (dto *TokenDTO) Validate() error {
	dto.Token = strings.TrimSpace(dto.Token)
	if dto.Token == "" {
		return errors.New("token is required")
	}
	return nil
}
