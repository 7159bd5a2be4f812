package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Domain errors. Handlers return these as-is, the central HTTPErrorHandler
// turns them into a fixed JSON body and status code.
var (
	ErrUserAlreadyExists  = errors.New("user with email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAccessDenied       = errors.New("you don't have enough rights")
	ErrBookNotFound       = errors.New("book not found")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrMalformedPayload   = errors.New("malformed token payload")
)

type mapping struct {
	status int
	code   string
}

var codes = map[error]mapping{
	ErrUserAlreadyExists:  {http.StatusForbidden, "user_exists"},
	ErrUserNotFound:       {http.StatusNotFound, "user_not_found"},
	ErrInvalidCredentials: {http.StatusForbidden, "invalid_credentials"},
	ErrInvalidToken:       {http.StatusUnauthorized, "invalid_token"},
	ErrAccessDenied:       {http.StatusForbidden, "access_denied"},
	ErrBookNotFound:       {http.StatusNotFound, "book_not_found"},
	ErrPasswordMismatch:   {http.StatusBadRequest, "password_mismatch"},
	ErrMalformedPayload:   {http.StatusInternalServerError, "malformed_payload"},
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	for sentinel, m := range codes {
		if errors.Is(err, sentinel) {
			_ = c.JSON(m.status, echo.Map{"error": sentinel.Error(), "error_code": m.code})
			return
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = c.JSON(he.Code, echo.Map{"error": he.Message, "error_code": "http_error"})
		return
	}

	_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error", "error_code": "internal"})
}
