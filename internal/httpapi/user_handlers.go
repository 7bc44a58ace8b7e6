package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Manujapabodhana/music-project/internal/apperr"
	"github.com/Manujapabodhana/music-project/internal/auth"
	"github.com/Manujapabodhana/music-project/internal/users"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	var in registerRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeValidation(w, "invalid JSON")
		return
	}
	var problems []apperr.Problem
	if in.FirstName == "" {
		problems = append(problems, apperr.Problem{Field: "firstName", Message: "first name is required"})
	}
	if in.LastName == "" {
		problems = append(problems, apperr.Problem{Field: "lastName", Message: "last name is required"})
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		problems = append(problems, apperr.Problem{Field: "email", Message: "valid email is required"})
	}
	if len(in.Password) < 6 {
		problems = append(problems, apperr.Problem{Field: "password", Message: "password must be at least 6 characters"})
	}
	if len(problems) > 0 {
		writeValidation(w, "validation failed", problems...)
		return
	}

	u := &users.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  users.HashPassword(in.Password),
		Phone:     in.Phone,
		Role:      users.RoleUser,
		IsActive:  true,
	}
	if err := r.users.Create(req.Context(), u); err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			writeError(w, apperr.Conflict("email already registered"))
			return
		}
		writeError(w, apperr.Dependency("create user", err))
		return
	}

	token, err := r.tokens.Issue(u.ID, u.Role)
	if err != nil {
		writeError(w, apperr.Dependency("issue token", err))
		return
	}
	writeData(w, http.StatusCreated, "User registered successfully", map[string]any{
		"user":  u,
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeValidation(w, "invalid JSON")
		return
	}
	u, err := r.users.GetByEmail(req.Context(), in.Email)
	if err != nil {
		writeError(w, apperr.Dependency("get user", err))
		return
	}
	if u == nil || !u.IsActive || !users.VerifyPassword(in.Password, u.Password) {
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "invalid email or password"})
		return
	}
	token, err := r.tokens.Issue(u.ID, u.Role)
	if err != nil {
		writeError(w, apperr.Dependency("issue token", err))
		return
	}
	writeData(w, http.StatusOK, "Login successful", map[string]any{
		"user":  u,
		"token": token,
	})
}

func (r *Router) handleGetProfile(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	u, err := r.users.GetByID(req.Context(), actor.ID)
	if err != nil {
		writeError(w, apperr.Dependency("get user", err))
		return
	}
	if u == nil {
		writeError(w, apperr.NotFound("user"))
		return
	}
	writeData(w, http.StatusOK, "", map[string]any{"user": u})
}

type updateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
}

func (r *Router) handleUpdateProfile(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	var in updateProfileRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeValidation(w, "invalid JSON")
		return
	}
	set := bson.M{}
	var problems []apperr.Problem
	if in.FirstName != nil {
		if *in.FirstName == "" {
			problems = append(problems, apperr.Problem{Field: "firstName", Message: "first name cannot be empty"})
		}
		set["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		if *in.LastName == "" {
			problems = append(problems, apperr.Problem{Field: "lastName", Message: "last name cannot be empty"})
		}
		set["last_name"] = *in.LastName
	}
	if in.Phone != nil {
		set["phone"] = *in.Phone
	}
	if len(problems) > 0 {
		writeValidation(w, "validation failed", problems...)
		return
	}
	if len(set) == 0 {
		r.handleGetProfile(w, req)
		return
	}
	u, err := r.users.UpdateFields(req.Context(), actor.ID, set)
	if err != nil {
		writeError(w, apperr.Dependency("update user", err))
		return
	}
	if u == nil {
		writeError(w, apperr.NotFound("user"))
		return
	}
	writeData(w, http.StatusOK, "Profile updated successfully", map[string]any{"user": u})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r *Router) handleChangePassword(w http.ResponseWriter, req *http.Request) {
	actor, _ := auth.FromContext(req.Context())
	var in changePasswordRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeValidation(w, "invalid JSON")
		return
	}
	if len(in.NewPassword) < 6 {
		writeValidation(w, "validation failed",
			apperr.Problem{Field: "newPassword", Message: "password must be at least 6 characters"})
		return
	}
	u, err := r.users.GetByID(req.Context(), actor.ID)
	if err != nil {
		writeError(w, apperr.Dependency("get user", err))
		return
	}
	if u == nil {
		writeError(w, apperr.NotFound("user"))
		return
	}
	if !users.VerifyPassword(in.CurrentPassword, u.Password) {
		writeValidation(w, "current password is incorrect")
		return
	}
	if _, err := r.users.UpdateFields(req.Context(), actor.ID, bson.M{"password": users.HashPassword(in.NewPassword)}); err != nil {
		writeError(w, apperr.Dependency("update user", err))
		return
	}
	writeData(w, http.StatusOK, "Password changed successfully", nil)
}
