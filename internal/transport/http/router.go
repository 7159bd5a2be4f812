package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/blocklist"
	"github.com/Skotchmaster/bookly/internal/handlers"
	authmw "github.com/Skotchmaster/bookly/internal/middleware/auth"
	"github.com/Skotchmaster/bookly/internal/token"
)

type Deps struct {
	AuthHandler *handlers.AuthHandler
	BookHandler *handlers.BookHandler
	Tokens      *token.Codec
	Blocklist   blocklist.Store
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	requireAccess := authmw.RequireAccess(d.Tokens, d.Blocklist)
	requireRefresh := authmw.RequireRefresh(d.Tokens)

	auth := v1.Group("/auth")
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/verify/:token", d.AuthHandler.Verify)
	auth.GET("/refresh_token", d.AuthHandler.RefreshToken, requireRefresh)
	auth.GET("/logout", d.AuthHandler.Logout, requireAccess)
	auth.GET("/me", d.AuthHandler.Me, requireAccess, authmw.RequireRole([]string{"admin", "user"}))
	auth.POST("/password-reset-request", d.AuthHandler.PasswordResetRequest)
	auth.POST("/password-reset-confirm/:token", d.AuthHandler.PasswordResetConfirm)

	books := v1.Group("/books")
	books.GET("", d.BookHandler.GetBooks)
	books.POST("", d.BookHandler.CreateBook)
	books.GET("/search", d.BookHandler.SearchBooks)
	books.GET("/:id", d.BookHandler.GetBook)
	books.PATCH("/:id", d.BookHandler.PatchBook)
	books.DELETE("/:id", d.BookHandler.DeleteBook)
}
