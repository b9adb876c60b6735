package handler

import (
	"log/slog"
	"net/http"

	. "lovemap/internal/adapter/http/helper"
	. "lovemap/internal/adapter/http/validation"
	"lovemap/internal/core/domain"
	"lovemap/internal/core/model/request"
	"lovemap/internal/core/model/response"
	"lovemap/internal/core/port"
	"lovemap/internal/core/util"
	"lovemap/pkg/auth"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	svc   port.ProfileService
	users port.AuthService
}

func NewProfileHandler(svc port.ProfileService, users port.AuthService) *ProfileHandler {
	return &ProfileHandler{
		svc:   svc,
		users: users,
	}
}

func (p *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := p.svc.Get(c.Request.Context())

	if err != nil {
		SendDomainError(c, err, "profile")
		return
	}

	p.respond(c, profile)
}

func (p *ProfileHandler) SaveProfile(c *gin.Context) {
	params, err := util.BindJSON[request.ProfileRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", err.Error())
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	profile, err := p.svc.Save(c.Request.Context(), params.Nickname, params.ImageURI)

	if err != nil {
		SendDomainError(c, err, "profile")
		return
	}

	p.respond(c, profile)
}

func (p *ProfileHandler) SaveNickname(c *gin.Context) {
	params, err := util.BindJSON[request.NicknameRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", err.Error())
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	profile, err := p.svc.SaveNickname(c.Request.Context(), params.Nickname)

	if err != nil {
		SendDomainError(c, err, "profile")
		return
	}

	p.respond(c, profile)
}

func (p *ProfileHandler) SaveImage(c *gin.Context) {
	params, err := util.BindJSON[request.ImageRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", err.Error())
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	profile, err := p.svc.SaveImageURI(c.Request.Context(), params.ImageURI)

	if err != nil {
		SendDomainError(c, err, "profile")
		return
	}

	p.respond(c, profile)
}

// respond adds the signed-in user's email. A lookup failure only drops the email.
func (p *ProfileHandler) respond(c *gin.Context, profile domain.Profile) {
	email := ""

	if userID := c.GetInt(auth.UserIDKey); userID > 0 && p.users != nil {
		user, err := p.users.CurrentUser(c.Request.Context(), userID)

		if err != nil {
			slog.Warn("Current user lookup failed", "error", err, "user_id", userID)
		} else {
			email = user.Email
		}
	}

	SendSuccess(c, http.StatusOK, response.NewProfileResponse(profile, email))
}
