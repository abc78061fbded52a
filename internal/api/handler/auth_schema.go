package handler

import "github.com/taskhive/task-tracker/internal/core/domain"

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// loginRequest carries no validator tags: missing credentials fail in
// the auth service with the same 401 as wrong credentials.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authData is the data payload of register/login responses. The user's
// password hash is excluded by the domain type's json:"-" tag.
type authData struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type userData struct {
	User *domain.User `json:"user"`
}
