package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/kapilnath546/study-buddies/internal/repositories"
	"github.com/kapilnath546/study-buddies/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	hub            *services.Hub
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, hub *services.Hub) *PostHandler {
	return &PostHandler{postRepository: postRepo, hub: hub}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post authored by the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.Post{
		UserID:   claims.FirebaseUID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return httpError(err)
	}

	h.hub.Broadcast(services.ChangeEvent{Collection: "posts", Action: "insert", RecordID: post.ID.Hex()})

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a single post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post. Only the author may delete their post.
func (h *PostHandler) DeletePost(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	if post.UserID != claims.FirebaseUID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can delete this post")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return httpError(err)
	}

	h.hub.Broadcast(services.ChangeEvent{Collection: "posts", Action: "delete", RecordID: postID})

	return c.NoContent(http.StatusNoContent)
}
