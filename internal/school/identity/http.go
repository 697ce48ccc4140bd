// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package identity

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kietvo/scolara/internal/platform/middleware"
	requestutil "github.com/kietvo/scolara/internal/platform/request"
	"github.com/kietvo/scolara/internal/platform/respond"
	"github.com/kietvo/scolara/internal/platform/sec"
	"github.com/kietvo/scolara/internal/platform/validate"
)

// Handler implements the authentication HTTP endpoints.
//
// This layer is strictly responsible for transport concerns (status codes,
// headers, JSON); all business rules live in [Service].
type Handler struct {
	identityService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{identityService: service}
}

// Routes returns a [chi.Router] with the authentication endpoints.
//
// # Endpoints
//   - POST /signup          : Creates a new account.
//   - POST /login           : Authenticates and returns a bearer token.
//   - GET  /me              : Resolves the token into a verified profile.
//   - POST /logout          : Revokes the presented token server-side.
//   - POST /change-password : Rotates the caller's password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	SchoolID string `json:"school_id"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
signup handles the creation of a new user account.

POST /api/auth/signup

Response:
  - 201: Created user profile
  - 400: Bad input or validation failure
  - 409: Email already registered
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	role, roleOK := sec.ParseRole(input.Role)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		Custom(FieldRole, !roleOK, "Must be a recognized role").
		Custom(FieldSchoolID, role != sec.RoleSuperAdmin && strings.TrimSpace(input.SchoolID) == "",
			"Required for school-scoped roles")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.identityService.Signup(request.Context(), SignupInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     role,
		SchoolID: input.SchoolID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, NewProfile(user))
}

/*
login authenticates a user and issues a bearer token.

POST /api/auth/login

Response:
  - 200: {access_token, token_type, user}
  - 401: Incorrect email or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.identityService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"access_token": session.AccessToken,
		"token_type":   session.TokenType,
		"user":         NewProfile(session.User),
	})
}

/*
me resolves the presented bearer token into the server-verified profile.

GET /api/auth/me

This is the identity endpoint the dashboard session store polls after every
credential change. A 401 here is the signal that forces a client-side logout.

Response:
  - 200: {id, name, email, role, school_id?}
  - 401: Invalid, expired, or revoked credential
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.identityService.Profile(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
logout revokes the presented access token.

POST /api/auth/logout

The dashboard clears its session locally without calling this; it exists so
a client can also invalidate the credential server-side (shared machines).

Response:
  - 204: Token revoked (idempotent)
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	token := bearerToken(request)
	if token != "" {
		if err := handler.identityService.Logout(request.Context(), token); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	respond.NoContent(writer)
}

/*
changePassword rotates the caller's password after verifying the current one.

POST /api/auth/change-password

Response:
  - 204: Password updated
  - 401: Current password is incorrect
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	var input changePasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.identityService.ChangePassword(request.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// bearerToken extracts the raw token from the Authorization header.
func bearerToken(request *http.Request) string {
	authHeader := request.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
