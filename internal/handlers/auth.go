package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookly/internal/apperr"
	"github.com/Skotchmaster/bookly/internal/blocklist"
	"github.com/Skotchmaster/bookly/internal/hash"
	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/mail"
	authmw "github.com/Skotchmaster/bookly/internal/middleware/auth"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/token"
)

type AuthHandler struct {
	DB        *gorm.DB
	Tokens    *token.Codec
	Links     *token.LinkCodec
	Blocklist blocklist.Store
	Producer  *mail.Producer
	// Domain prefixes the links embedded in outgoing mail, e.g. http://localhost:8080
	Domain string
}

// dispatch enqueues a mail job. Delivery failures are logged and swallowed,
// the HTTP caller never waits on the mailer.
func (h *AuthHandler) dispatch(c echo.Context, job mail.Job) {
	if err := h.Producer.Send(c.Request().Context(), job); err != nil {
		logging.FromContext(c.Request().Context()).Error("mail dispatch failed",
			"type", job.Type, "error", err)
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var existing models.User
	result := h.DB.Where("email = ?", req.Email).First(&existing)
	if result.Error == nil {
		return apperr.ErrUserAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := models.User{
		UID:          uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: passwordHash,
		IsVerified:   false,
		Role:         "user",
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return err
	}

	if linkToken, err := h.Links.Issue(user.Email); err == nil {
		h.dispatch(c, mail.Job{
			Type: mail.TypeVerify,
			To:   user.Email,
			Link: fmt.Sprintf("%s/api/v1/auth/verify/%s", h.Domain, linkToken),
		})
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrInvalidCredentials
		}
		return err
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return apperr.ErrInvalidCredentials
	}

	accessToken, err := h.Tokens.Issue(user.Email, user.UID.String(), user.Role, false, token.AccessTTL)
	if err != nil {
		return err
	}
	refreshToken, err := h.Tokens.Issue(user.Email, user.UID.String(), user.Role, true, token.RefreshTTL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":       "login successful",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": echo.Map{
			"email": user.Email,
			"uid":   user.UID.String(),
		},
	})
}

// RefreshToken exchanges a valid refresh token for a fresh access token.
// The refresh token itself is neither rotated nor revoked here.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	claims := authmw.ClaimsFromContext(c)
	if claims == nil {
		return apperr.ErrInvalidToken
	}

	accessToken, err := h.Tokens.Issue(claims.Email, claims.UserUID, claims.Role, false, token.AccessTTL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"access_token": accessToken})
}

// Logout blocks the presented access token's jti for the remainder of its
// lifetime. The paired refresh token keeps working until it expires.
func (h *AuthHandler) Logout(c echo.Context) error {
	claims := authmw.ClaimsFromContext(c)
	if claims == nil {
		return apperr.ErrInvalidToken
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := h.Blocklist.Revoke(c.Request().Context(), claims.ID, ttl); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	claims := authmw.ClaimsFromContext(c)
	if claims == nil {
		return apperr.ErrInvalidToken
	}

	var user models.User
	if err := h.DB.Where("email = ?", claims.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrUserNotFound
		}
		return err
	}

	// books carry no owner yet, the array is here for the response shape
	return c.JSON(http.StatusOK, echo.Map{
		"user":  user,
		"books": []models.Book{},
	})
}

func (h *AuthHandler) Verify(c echo.Context) error {
	claims, err := h.Links.Decode(c.Param("token"))
	if err != nil {
		return err
	}
	if claims.Email == "" {
		return apperr.ErrMalformedPayload
	}

	var user models.User
	if err := h.DB.Where("email = ?", claims.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrUserNotFound
		}
		return err
	}

	if err := h.DB.Model(&user).Update("is_verified", true).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "account verified successfully"})
}

// PasswordResetRequest answers 200 no matter what so the endpoint cannot be
// used to probe which emails exist.
func (h *AuthHandler) PasswordResetRequest(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err == nil {
		if linkToken, err := h.Links.Issue(user.Email); err == nil {
			h.dispatch(c, mail.Job{
				Type: mail.TypePasswordReset,
				To:   user.Email,
				Link: fmt.Sprintf("%s/api/v1/auth/password-reset-confirm/%s", h.Domain, linkToken),
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "please check your email for instructions to reset your password",
	})
}

func (h *AuthHandler) PasswordResetConfirm(c echo.Context) error {
	var req struct {
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// the mismatch check runs before any token work
	if req.NewPassword != req.ConfirmPassword {
		return apperr.ErrPasswordMismatch
	}

	claims, err := h.Links.Decode(c.Param("token"))
	if err != nil {
		return err
	}
	if claims.Email == "" {
		return apperr.ErrMalformedPayload
	}

	var user models.User
	if err := h.DB.Where("email = ?", claims.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrUserNotFound
		}
		return err
	}

	passwordHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := h.DB.Model(&user).Update("password_hash", passwordHash).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "password reset successfully"})
}
