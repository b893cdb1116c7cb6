package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/kapilnath546/study-buddies/internal/repositories"
	"github.com/kapilnath546/study-buddies/internal/services"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	userRepository repositories.UserRepository
	feedService    *services.FeedService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, feedService *services.FeedService) *UserHandler {
	return &UserHandler{userRepository: userRepo, feedService: feedService}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)           // Get own profile
	g.PUT("/profile", h.UpdateProfile)        // Update own profile
	g.GET("/users/:id", h.GetUser)            // Get other user's profile by ID
	g.GET("/users", h.ListUsers)              // Profile directory with optional filters
	g.GET("/users/filters", h.GetFilterOptions)
	g.GET("/users/search", h.SearchUsers)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	user, err := h.userRepository.GetUserByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's profile. Only the owner
// reaches this path; other users' profiles are read-only.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return httpError(err)
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Course != "" {
		user.Course = req.Course
	}
	if req.Skills != nil {
		user.Skills = req.Skills
	}
	if req.Interests != nil {
		user.Interests = req.Interests
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// ListUsers returns the profile directory, optionally narrowed by skill,
// interest and course predicates (logical AND, exact tag match).
func (h *UserHandler) ListUsers(c echo.Context) error {
	var filter models.ProfileFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	users, err := h.userRepository.GetUsers()
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, services.FilterProfiles(users, filter))
}

// GetFilterOptions returns the distinct skills, interests and courses
// observed across all profiles for the client filter pickers.
func (h *UserHandler) GetFilterOptions(c echo.Context) error {
	options, err := h.feedService.CollectFilterOptions(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, options)
}

// SearchUsers searches for users by a query string (email or name)
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query 'q' is required")
	}

	users, err := h.userRepository.SearchUsers(query)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, users)
}
