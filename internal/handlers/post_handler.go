package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"github.com/tanvir-ahmd/chirpline/backend/internal/services"
)

// PostHandler handles post lifecycle, engagement and feed HTTP requests
type PostHandler struct {
	engagement *services.EngagementService
	feeds      *services.FeedService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(engagement *services.EngagementService, feeds *services.FeedService) *PostHandler {
	return &PostHandler{engagement: engagement, feeds: feeds}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/create", h.CreatePost)
	g.DELETE("/:id", h.DeletePost)
	g.POST("/like/:id", h.LikeUnlike)
	g.POST("/comment/:id", h.Comment)
	g.GET("/all", h.GlobalFeed)
	g.GET("/following", h.FollowingFeed)
	g.GET("/user/:username", h.AuthorFeed)
	g.GET("/likes/:userId", h.LikedFeed)
}

// CreatePost creates a post for the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request payload"))
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, models.NewValidationError(err.Error()))
	}

	post, err := h.engagement.CreatePost(c.Request().Context(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

// DeletePost deletes the caller's own post
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	postID, err := parseObjectID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.engagement.DeletePost(c.Request().Context(), userID, postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

// LikeUnlike toggles the caller's like on a post and returns the updated
// like set
func (h *PostHandler) LikeUnlike(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	postID, err := parseObjectID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	likes, err := h.engagement.LikeUnlike(c.Request().Context(), userID, postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, likes)
}

// Comment appends a comment to a post and returns the updated post
func (h *PostHandler) Comment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	postID, err := parseObjectID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req models.CommentRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request payload"))
	}

	post, err := h.engagement.Comment(c.Request().Context(), userID, postID, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// GlobalFeed returns all posts, newest first
func (h *PostHandler) GlobalFeed(c echo.Context) error {
	posts, err := h.feeds.GlobalFeed(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// FollowingFeed returns posts from accounts the caller follows
func (h *PostHandler) FollowingFeed(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	posts, err := h.feeds.FollowingFeed(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// AuthorFeed returns one author's posts by username
func (h *PostHandler) AuthorFeed(c echo.Context) error {
	posts, err := h.feeds.AuthorFeed(c.Request().Context(), c.Param("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// LikedFeed returns the posts a user has liked
func (h *PostHandler) LikedFeed(c echo.Context) error {
	userID, err := parseObjectID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}

	posts, err := h.feeds.LikedFeed(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}
