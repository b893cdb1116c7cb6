package handlers

import (
	"net/http"

	"github.com/kapilnath546/study-buddies/internal/repositories"
	"github.com/kapilnath546/study-buddies/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes. Likes run through
// the optimistic mutator: the returned post view reflects the confirmed
// counter, and a failed write responds with the pre-mutation value.
type LikeHandler struct {
	mutator        *services.Mutator
	postRepository repositories.PostRepository
	sessions       *services.SessionRegistry
	hub            *services.Hub
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	mutator *services.Mutator,
	postRepo repositories.PostRepository,
	sessions *services.SessionRegistry,
	hub *services.Hub,
) *LikeHandler {
	return &LikeHandler{
		mutator:        mutator,
		postRepository: postRepo,
		sessions:       sessions,
		hub:            hub,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes", h.LikePost)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost)
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	sess := h.sessions.GetOrStart(claims.UserID, claims.FirebaseUID)

	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("post_id"))
	if err != nil {
		return httpError(err)
	}

	if err := h.mutator.LikePost(c.Request().Context(), sess, post); err != nil {
		return httpError(err)
	}

	h.hub.Broadcast(services.ChangeEvent{Collection: "posts", Action: "update", RecordID: post.ID.Hex()})

	return c.JSON(http.StatusCreated, post)
}

// UnlikePost handles unliking a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	sess := h.sessions.GetOrStart(claims.UserID, claims.FirebaseUID)

	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("post_id"))
	if err != nil {
		return httpError(err)
	}

	if err := h.mutator.UnlikePost(c.Request().Context(), sess, post); err != nil {
		return httpError(err)
	}

	h.hub.Broadcast(services.ChangeEvent{Collection: "posts", Action: "update", RecordID: post.ID.Hex()})

	return c.JSON(http.StatusOK, post)
}
