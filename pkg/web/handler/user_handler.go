package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/golang-jwt/jwt/v5"
	jwth "github.com/hertz-contrib/jwt"

	"workbuddy-store/pkg/common/config"
	"workbuddy-store/pkg/core/user/model"
	"workbuddy-store/pkg/web/middleware"
	webmodel "workbuddy-store/pkg/web/model"
)

// Credentials is the part of the user service behind login and password change.
type Credentials interface {
	Authenticate(ctx context.Context, email, password string) (model.User, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
}

type UserHandler struct {
	users Credentials
	jwt   config.JWTAuthConfig
	now   func() time.Time
}

func NewUserHandler(users Credentials, cfg config.JWTAuthConfig) *UserHandler {
	return &UserHandler{users: users, jwt: cfg, now: time.Now}
}

// Login issues a bearer token to a verified account.
func (h *UserHandler) Login(ctx context.Context, c *app.RequestContext) {
	var req webmodel.LoginReq
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, consts.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		hlog.CtxInfof(ctx, "login refused email=%s err=%v", req.Email, err)
		respondAppError(ctx, c, err)
		return
	}

	now := h.now()
	expiresAt := now.Add(h.jwt.ExpireDuration)
	method := jwt.GetSigningMethod(h.jwt.SigningMethod)
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	token := jwt.NewWithClaims(method, jwt.MapClaims{
		middleware.IdentityKey: user.ID,
		"email":                user.Email,
		"iss":                  h.jwt.Issuer,
		"iat":                  now.Unix(),
		"orig_iat":             now.Unix(),
		"exp":                  expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(h.jwt.Secret))
	if err != nil {
		hlog.CtxErrorf(ctx, "sign token failed user_id=%d err=%v", user.ID, err)
		respondError(c, consts.StatusInternalServerError, "could not issue token")
		return
	}

	c.JSON(consts.StatusOK, webmodel.LoginRes{
		Token:     signed,
		ExpiresAt: expiresAt.Unix(),
		User:      webmodel.UserRes{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// ChangePassword requires the JWT middleware in front of it.
func (h *UserHandler) ChangePassword(ctx context.Context, c *app.RequestContext) {
	claims := jwth.ExtractClaims(ctx, c)
	// numbers come back from the token as float64
	raw, ok := claims[middleware.IdentityKey].(float64)
	if !ok || raw <= 0 {
		respondError(c, consts.StatusUnauthorized, "unauthorized")
		return
	}
	userID := int64(raw)

	var req webmodel.ChangePwdReq
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, consts.StatusBadRequest, "old_password and new_password are required")
		return
	}

	if err := h.users.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		respondAppError(ctx, c, err)
		return
	}
	hlog.CtxInfof(ctx, "password changed user_id=%d", userID)
	c.JSON(consts.StatusOK, webmodel.ErrorRes{Code: consts.StatusOK, Message: "password updated"})
}
