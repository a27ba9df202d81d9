package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"github.com/tanvir-ahmd/chirpline/backend/internal/services"
)

// UserHandler handles follow, suggestion and profile HTTP requests
type UserHandler struct {
	social *services.SocialService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(social *services.SocialService) *UserHandler {
	return &UserHandler{social: social}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.POST("/follow/:id", h.FollowUnfollow)
	g.POST("/update", h.UpdateProfile)
	g.GET("/suggested", h.Suggested)
	g.GET("/profile/:username", h.Profile)
}

// FollowUnfollow toggles the follow relationship with the target user
func (h *UserHandler) FollowUnfollow(c echo.Context) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	targetID, err := parseObjectID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.social.FollowUnfollow(c.Request().Context(), actorID, targetID)
	if err != nil {
		return respondError(c, err)
	}

	message := "User unfollowed successfully"
	if result == services.FollowResultFollowed {
		message = "User followed successfully"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": message})
}

// UpdateProfile applies a partial update to the caller's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request payload"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, models.NewValidationError(err.Error()))
	}

	user, err := h.social.UpdateProfile(c.Request().Context(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// Suggested returns users the caller might want to follow
func (h *UserHandler) Suggested(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	users, err := h.social.Suggest(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Profile returns a public profile by username
func (h *UserHandler) Profile(c echo.Context) error {
	user, err := h.social.Profile(c.Request().Context(), c.Param("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
