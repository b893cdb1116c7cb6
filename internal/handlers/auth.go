package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/kapilnath546/study-buddies/internal/repositories"
	"github.com/kapilnath546/study-buddies/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related HTTP requests. Signing in
// issues the session JWT, starts the in-memory session (mutation guard and
// swipe deck) and advances the login streak; signing out tears the session
// down.
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   *auth.Client
	sessions       *services.SessionRegistry
	streaks        *services.StreakService
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	userRepo repositories.UserRepository,
	firebaseAuthClient *auth.Client,
	sessions *services.SessionRegistry,
	streaks *services.StreakService,
) *AuthHandler {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey"
	}
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuthClient,
		sessions:       sessions,
		streaks:        streaks,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// RegisterSessionRoutes registers routes that require an authenticated user
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.POST("/auth/signout", h.SignOut)
	g.GET("/streak", h.GetStreak)
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.CreateLocalUserRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Check if user with this email already exists
	_, err := h.userRepository.GetUserByEmail(req.Email)
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Course:   req.Course,
		Password: string(hashedPassword),
	}

	if err := h.userRepository.CreateUser(user); err != nil {
		return httpError(err)
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after signup")
	}

	h.startSession(user)

	return c.JSON(http.StatusCreated, echo.Map{"token": token})
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	streak := h.startSession(user)

	return c.JSON(http.StatusOK, echo.Map{"token": token, "streak": streak})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin handles Firebase ID token verification and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Verify Firebase ID token
	token, err := h.firebaseAuth.VerifyIDToken(context.Background(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	firebaseUID := token.UID
	email, _ := token.Claims["email"].(string)
	name := ""
	if displayName, ok := token.Claims["name"].(string); ok {
		name = displayName
	}

	// Profile is created on first sign-in
	user, err := h.userRepository.GetUserByFirebaseUID(firebaseUID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return httpError(err)
		}
		user, err = h.userRepository.GetUserByEmail(email)
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return httpError(err)
			}
			newUser := &models.User{
				Name:        name,
				Email:       email,
				FirebaseUID: firebaseUID,
			}
			if err := h.userRepository.CreateUser(newUser); err != nil {
				return httpError(err)
			}
			user = newUser
		} else {
			// User found by email, link their Firebase UID
			user.FirebaseUID = firebaseUID
			if err := h.userRepository.UpdateUser(user); err != nil {
				return httpError(err)
			}
		}
	}

	localJWT, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate local JWT")
	}

	streak := h.startSession(user)

	return c.JSON(http.StatusOK, echo.Map{"token": localJWT, "streak": streak})
}

// SignOut tears down the in-memory session. The JWT itself expires on its
// own; session-scoped state (mutation guard, swipe skips) is discarded now.
func (h *AuthHandler) SignOut(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	h.sessions.End(claims.UserID)
	return c.NoContent(http.StatusNoContent)
}

// GetStreak returns the authenticated user's login streak
func (h *AuthHandler) GetStreak(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	streak, err := h.streaks.Touch(claims.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, streak)
}

// startSession creates the per-sign-in session and advances the streak.
// Streak failures are logged, not surfaced: sign-in must not fail because
// the bookkeeping write did.
func (h *AuthHandler) startSession(user *models.User) *models.LoginStreak {
	h.sessions.Start(user.ID, user.FirebaseUID)
	streak, err := h.streaks.Touch(user.ID)
	if err != nil {
		log.Warn().Err(err).Uint("user_id", user.ID).Msg("Failed to advance login streak")
		return nil
	}
	return streak
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:      user.ID,
		Email:       user.Email,
		FirebaseUID: user.FirebaseUID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)), // Token expires in 72 hours
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return "", err
	}
	return t, nil
}
