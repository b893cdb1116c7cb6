package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/kapilnath546/study-buddies/internal/repositories"
	"github.com/kapilnath546/study-buddies/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	hub               *services.Hub
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	hub *services.Hub,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
		hub:               hub,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPostID)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// EnrichedComment is a comment joined with its author profile
type EnrichedComment struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Verify post exists
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  claims.UserID,
		Content: req.Content,
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		return httpError(err)
	}

	if err := h.postRepository.IncrementCommentsCount(c.Request().Context(), postID, 1); err != nil {
		log.Warn().Err(err).Str("post_id", postID).Msg("Failed to bump comment counter")
	}

	h.hub.Broadcast(services.ChangeEvent{Collection: "posts", Action: "update", RecordID: postID})

	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPostID retrieves all comments for a post, joined with their
// author profiles in a single batched lookup.
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID := c.Param("post_id")

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return httpError(err)
	}

	// Collect distinct commenter IDs and fetch them in one query
	seen := make(map[uint]struct{})
	ids := make([]uint, 0, len(comments))
	for _, cm := range comments {
		if _, ok := seen[cm.UserID]; !ok {
			seen[cm.UserID] = struct{}{}
			ids = append(ids, cm.UserID)
		}
	}
	users, err := h.userRepository.GetUsersByIDs(ids)
	if err != nil {
		return httpError(err)
	}
	userMap := make(map[uint]models.UserCompact, len(users))
	for _, u := range users {
		userMap[u.ID] = u.ToCompact()
	}

	enriched := make([]EnrichedComment, len(comments))
	for i, cm := range comments {
		author, ok := userMap[cm.UserID]
		if !ok {
			author = models.UnknownUser
		}
		enriched[i] = EnrichedComment{Comment: cm, Author: author}
	}

	return c.JSON(http.StatusOK, enriched)
}

// DeleteComment deletes a comment. Only the author may delete it.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return httpError(err)
	}
	if comment.UserID != claims.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can delete this comment")
	}

	if err := h.commentRepository.DeleteComment(uint(id)); err != nil {
		return httpError(err)
	}

	if err := h.postRepository.IncrementCommentsCount(c.Request().Context(), comment.PostID, -1); err != nil {
		log.Warn().Err(err).Str("post_id", comment.PostID).Msg("Failed to lower comment counter")
	}

	return c.NoContent(http.StatusNoContent)
}
