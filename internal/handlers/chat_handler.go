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

// ChatHandler handles one-to-one chat inside a match
type ChatHandler struct {
	messageRepository repositories.MessageRepository
	matchRepository   repositories.MatchRepository
	hub               *services.Hub
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(
	messageRepo repositories.MessageRepository,
	matchRepo repositories.MatchRepository,
	hub *services.Hub,
) *ChatHandler {
	return &ChatHandler{
		messageRepository: messageRepo,
		matchRepository:   matchRepo,
		hub:               hub,
	}
}

// RegisterChatRoutes registers chat-related routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.GET("/matches/:match_id/messages", h.GetMessages)
	g.POST("/matches/:match_id/messages", h.SendMessage)
}

// messageHistoryLimit caps one conversation fetch
const messageHistoryLimit = 200

// GetMessages lists a match conversation oldest first. Only the two match
// participants can read it.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	match, err := h.loadMatchFor(c, claims.UserID)
	if err != nil {
		return err
	}

	messages, err := h.messageRepository.GetMessagesByMatchID(c.Request().Context(), match.ID, messageHistoryLimit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, messages)
}

// SendMessage appends a message to the match conversation. The sender must
// be a participant; the receiver is always the other participant.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	match, err := h.loadMatchFor(c, claims.UserID)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message := &models.Message{
		MatchID:    match.ID,
		SenderID:   claims.UserID,
		ReceiverID: match.OtherUser(claims.UserID),
		Content:    req.Content,
	}

	if err := h.messageRepository.CreateMessage(c.Request().Context(), message); err != nil {
		return httpError(err)
	}

	h.hub.Broadcast(services.ChangeEvent{
		Collection: "messages",
		Action:     "insert",
		RecordID:   message.ID.Hex(),
		Targets:    []uint{match.LikerID, match.TargetID},
	})

	return c.JSON(http.StatusCreated, message)
}

func (h *ChatHandler) loadMatchFor(c echo.Context, userID uint) (*models.Match, error) {
	matchID, err := strconv.ParseUint(c.Param("match_id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid match ID")
	}

	match, err := h.matchRepository.GetMatchByID(uint(matchID))
	if err != nil {
		return nil, httpError(err)
	}
	if !match.Involves(userID) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Not a participant of this match")
	}
	return match, nil
}
