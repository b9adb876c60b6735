package handler

import (
	"log/slog"
	"net/http"

	. "lovemap/internal/adapter/http/helper"
	. "lovemap/internal/adapter/http/validation"
	"lovemap/internal/core/model/request"
	"lovemap/internal/core/model/response"
	"lovemap/internal/core/port"
	"lovemap/internal/core/util"
	"lovemap/pkg/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc port.AuthService
	jwt *auth.JWT
}

func NewAuthHandler(svc port.AuthService, jwt *auth.JWT) *AuthHandler {
	return &AuthHandler{
		svc: svc,
		jwt: jwt,
	}
}

func (a *AuthHandler) RegisterByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.BindJSON[request.SignUpRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", err.Error())
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Registration(ctx, &params)

	if err != nil {
		slog.Info("Registration rejected", "error", err)
		SendDomainError(c, err, "email")
		return
	}

	SendSuccess(c, http.StatusCreated, response.NewUserResponse(*user))
}

func (a *AuthHandler) AuthByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.BindJSON[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", err.Error())
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Authenticate(ctx, &params)

	if err != nil {
		SendUnauthorizedError(c, "Invalid email or password")
		return
	}

	token, err := a.jwt.CreateToken(user.ID)

	if err != nil {
		slog.Error("Token signing failed", "error", err, "user_id", user.ID)
		SendInternalError(c, "Failed to generate access token")
		return
	}

	SendSuccess(c, http.StatusOK, response.AuthResponse{
		Token: token,
		User:  response.NewUserResponse(*user),
	})
}
