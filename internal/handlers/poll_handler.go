package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/kapilnath546/study-buddies/internal/repositories"
	"github.com/kapilnath546/study-buddies/internal/services"
	"github.com/labstack/echo/v4"
)

// PollHandler handles HTTP requests related to polls. Votes run through
// the optimistic mutator with the per-session single-vote guard.
type PollHandler struct {
	pollRepository repositories.PollRepository
	mutator        *services.Mutator
	sessions       *services.SessionRegistry
	hub            *services.Hub
}

// NewPollHandler creates a new PollHandler
func NewPollHandler(
	pollRepo repositories.PollRepository,
	mutator *services.Mutator,
	sessions *services.SessionRegistry,
	hub *services.Hub,
) *PollHandler {
	return &PollHandler{
		pollRepository: pollRepo,
		mutator:        mutator,
		sessions:       sessions,
		hub:            hub,
	}
}

// RegisterPollRoutes registers poll-related routes
func (h *PollHandler) RegisterPollRoutes(g *echo.Group) {
	g.POST("/polls", h.CreatePoll)
	g.GET("/polls", h.GetPolls)
	g.GET("/polls/:id", h.GetPoll)
	g.POST("/polls/:id/votes", h.CastVote)
	g.DELETE("/polls/:id", h.DeletePoll)
}

// PollView is a poll with derived vote percentages
type PollView struct {
	models.Poll
	Percentages map[string]int `json:"percentages"`
	TotalVotes  int64          `json:"total_votes"`
}

func toPollView(p models.Poll) PollView {
	percentages := make(map[string]int, len(p.Options))
	for _, o := range p.Options {
		percentages[o] = p.Percentage(o)
	}
	return PollView{Poll: p, Percentages: percentages, TotalVotes: p.TotalVotes()}
}

// CreatePoll creates a new poll authored by the authenticated user
func (h *PollHandler) CreatePoll(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req models.CreatePollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	poll := &models.Poll{
		UserID:   claims.FirebaseUID,
		Question: req.Question,
		Options:  req.Options,
		Votes:    map[string]int64{},
	}

	if err := h.pollRepository.CreatePoll(c.Request().Context(), poll); err != nil {
		return httpError(err)
	}

	h.hub.Broadcast(services.ChangeEvent{Collection: "polls", Action: "insert", RecordID: poll.ID.Hex()})

	return c.JSON(http.StatusCreated, toPollView(*poll))
}

// GetPolls retrieves polls with pagination
func (h *PollHandler) GetPolls(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	polls, err := h.pollRepository.GetAllPolls(c.Request().Context(), int64((page-1)*limit), int64(limit))
	if err != nil {
		return httpError(err)
	}

	views := make([]PollView, len(polls))
	for i, p := range polls {
		views[i] = toPollView(p)
	}
	return c.JSON(http.StatusOK, views)
}

// GetPoll retrieves a single poll by ID
func (h *PollHandler) GetPoll(c echo.Context) error {
	poll, err := h.pollRepository.GetPollByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toPollView(*poll))
}

// CastVote casts the session user's vote for one option
func (h *PollHandler) CastVote(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	sess := h.sessions.GetOrStart(claims.UserID, claims.FirebaseUID)

	var req models.CastVoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	poll, err := h.pollRepository.GetPollByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	if err := h.mutator.CastVote(c.Request().Context(), sess, poll, req.Option); err != nil {
		return httpError(err)
	}

	h.hub.Broadcast(services.ChangeEvent{Collection: "polls", Action: "update", RecordID: poll.ID.Hex()})

	return c.JSON(http.StatusOK, toPollView(*poll))
}

// DeletePoll deletes a poll. Only the author may delete it.
func (h *PollHandler) DeletePoll(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	pollID := c.Param("id")

	poll, err := h.pollRepository.GetPollByID(c.Request().Context(), pollID)
	if err != nil {
		return httpError(err)
	}
	if poll.UserID != claims.FirebaseUID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can delete this poll")
	}

	if err := h.pollRepository.DeletePoll(c.Request().Context(), pollID); err != nil {
		return httpError(err)
	}

	h.hub.Broadcast(services.ChangeEvent{Collection: "polls", Action: "delete", RecordID: pollID})

	return c.NoContent(http.StatusNoContent)
}
