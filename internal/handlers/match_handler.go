package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/kapilnath546/study-buddies/internal/repositories"
	"github.com/kapilnath546/study-buddies/internal/services"
	"github.com/labstack/echo/v4"
)

// MatchHandler handles the swipe deck and match listing
type MatchHandler struct {
	matchmaker      *services.Matchmaker
	matchRepository repositories.MatchRepository
	userRepository  repositories.UserRepository
	sessions        *services.SessionRegistry
	hub             *services.Hub
}

// NewMatchHandler creates a new MatchHandler
func NewMatchHandler(
	matchmaker *services.Matchmaker,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	sessions *services.SessionRegistry,
	hub *services.Hub,
) *MatchHandler {
	return &MatchHandler{
		matchmaker:      matchmaker,
		matchRepository: matchRepo,
		userRepository:  userRepo,
		sessions:        sessions,
		hub:             hub,
	}
}

// RegisterMatchRoutes registers matching-related routes
func (h *MatchHandler) RegisterMatchRoutes(g *echo.Group) {
	g.POST("/swipes/deck", h.LoadDeck)
	g.GET("/swipes/current", h.GetCurrentCandidate)
	g.POST("/swipes", h.Swipe)
	g.GET("/matches", h.GetMatches)
}

// EnrichedMatch is a match joined with the other participant's profile
type EnrichedMatch struct {
	models.Match
	Partner models.UserCompact `json:"partner"`
}

// LoadDeck rebuilds the session's candidate deck
func (h *MatchHandler) LoadDeck(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	sess := h.sessions.GetOrStart(claims.UserID, claims.FirebaseUID)

	if err := h.matchmaker.LoadDeck(sess); err != nil {
		return httpError(err)
	}

	candidate, err := h.matchmaker.Current(sess)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"candidate": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"candidate": candidate.ToCompact()})
}

// GetCurrentCandidate returns the profile the deck cursor points at
func (h *MatchHandler) GetCurrentCandidate(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	sess := h.sessions.GetOrStart(claims.UserID, claims.FirebaseUID)

	candidate, err := h.matchmaker.Current(sess)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"candidate": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"candidate": candidate.ToCompact()})
}

// Swipe applies a left or right swipe to the current candidate. A right
// swipe that fails to persist keeps the candidate current, so the match is
// never silently lost.
func (h *MatchHandler) Swipe(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	sess := h.sessions.GetOrStart(claims.UserID, claims.FirebaseUID)

	var req models.SwipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Direction == "left" {
		if err := h.matchmaker.SwipeLeft(sess); err != nil {
			return httpError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	match, err := h.matchmaker.SwipeRight(sess)
	if err != nil {
		return httpError(err)
	}

	h.hub.Broadcast(services.ChangeEvent{
		Collection: "matches",
		Action:     "insert",
		Targets:    []uint{match.LikerID, match.TargetID},
	})

	return c.JSON(http.StatusCreated, match)
}

// GetMatches lists the user's matches joined with partner profiles in one
// batched lookup.
func (h *MatchHandler) GetMatches(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	matches, err := h.matchRepository.GetMatchesByUserID(claims.UserID)
	if err != nil {
		return httpError(err)
	}

	partnerIDs := make([]uint, 0, len(matches))
	for _, m := range matches {
		partnerIDs = append(partnerIDs, m.OtherUser(claims.UserID))
	}
	partners, err := h.userRepository.GetUsersByIDs(partnerIDs)
	if err != nil {
		return httpError(err)
	}
	partnerMap := make(map[uint]models.UserCompact, len(partners))
	for _, p := range partners {
		partnerMap[p.ID] = p.ToCompact()
	}

	enriched := make([]EnrichedMatch, len(matches))
	for i, m := range matches {
		partner, ok := partnerMap[m.OtherUser(claims.UserID)]
		if !ok {
			partner = models.UnknownUser
		}
		enriched[i] = EnrichedMatch{Match: m, Partner: partner}
	}

	return c.JSON(http.StatusOK, enriched)
}
