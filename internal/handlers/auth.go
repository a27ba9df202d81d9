package handlers

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"github.com/tanvir-ahmd/chirpline/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

const sessionLifetime = 15 * 24 * time.Hour

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers the unprotected authentication routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
}

// RegisterSessionRoutes registers authenticated session routes
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.GET("/auth/me", h.Me)
}

// Signup handles account creation with username, email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request payload"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, models.NewValidationError(err.Error()))
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetByUsername(ctx, req.Username); err == nil {
		return respondError(c, models.NewValidationError("Username is already taken"))
	}
	if _, err := h.userRepository.GetByEmail(ctx, req.Email); err == nil {
		return respondError(c, models.NewValidationError("Email is already taken"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := h.userRepository.Create(ctx, user); err != nil {
		return respondError(c, err)
	}

	if err := h.setSessionCookie(c, user); err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	return c.JSON(http.StatusCreated, user)
}

// Login authenticates a user by username and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request payload"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, models.NewValidationError(err.Error()))
	}

	user, err := h.userRepository.GetByUsername(c.Request().Context(), req.Username)
	if err != nil {
		return respondError(c, models.NewValidationError("Invalid username or password"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return respondError(c, models.NewValidationError("Invalid username or password"))
	}

	if err := h.setSessionCookie(c, user); err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	return c.JSON(http.StatusOK, user)
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     "jwt",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// Me returns the authenticated caller's account
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.userRepository.GetByID(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, user *models.User) error {
	claims := &models.JwtCustomClaims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     "jwt",
		Value:    signed,
		Path:     "/",
		Expires:  time.Now().Add(sessionLifetime),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}
