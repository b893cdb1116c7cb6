package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/kapilnath546/study-buddies/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/feed/trending", h.GetTrending)
}

// GetFeed returns enriched feed posts for the current user. Optional
// skill/interest/course query parameters narrow the feed to posts by
// matching authors before the join.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	skip := int64((page - 1) * limit)

	var filter models.ProfileFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	posts, err := h.feedService.FilteredFeed(c.Request().Context(), claims.UserID, filter, skip, int64(limit))
	if err != nil {
		return httpError(err)
	}

	// Count the same filtered set the page was drawn from
	totalItems, err := h.feedService.CountFeed(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": posts,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      totalItems,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}

// GetTrending returns the top liked posts of the last 24 hours
func (h *FeedHandler) GetTrending(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	posts, err := h.feedService.Trending(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": posts}})
}
