package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/kapilnath546/study-buddies/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// fakeMessageRepo stores chat messages in memory
type fakeMessageRepo struct {
	messages []models.Message
}

func (f *fakeMessageRepo) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeMessageRepo) GetMessagesByMatchID(ctx context.Context, matchID uint, limit int64) ([]models.Message, error) {
	out := []models.Message{}
	for _, m := range f.messages {
		if m.MatchID == matchID {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeMatchRepo serves a fixed match set
type fakeMatchRepo struct {
	matches []models.Match
}

func (f *fakeMatchRepo) CreateMatch(match *models.Match) error {
	f.matches = append(f.matches, *match)
	return nil
}

func (f *fakeMatchRepo) GetMatchByID(id uint) (*models.Match, error) {
	for i := range f.matches {
		if f.matches[i].ID == id {
			return &f.matches[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMatchRepo) GetMatchesByUserID(userID uint) ([]models.Match, error) {
	var out []models.Match
	for _, m := range f.matches {
		if m.Involves(userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) GetMatchedUserIDs(userID uint) ([]uint, error) {
	matches, _ := f.GetMatchesByUserID(userID)
	ids := make([]uint, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.OtherUser(userID))
	}
	return ids, nil
}

func newChatFixture() (*ChatHandler, *fakeMessageRepo) {
	messageRepo := &fakeMessageRepo{}
	matchRepo := &fakeMatchRepo{matches: []models.Match{{ID: 1, LikerID: 1, TargetID: 2}}}
	return NewChatHandler(messageRepo, matchRepo, services.NewHub()), messageRepo
}

func chatContext(method, body string, userID uint) echo.Context {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, "/", nil)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("match_id")
	c.SetParamValues("1")
	c.Set("user", &models.JwtCustomClaims{UserID: userID})
	return c
}

func TestChatRejectsNonParticipant(t *testing.T) {
	h, messageRepo := newChatFixture()

	// User 3 is not part of match 1 and may neither read nor write
	err := h.GetMessages(chatContext(http.MethodGet, "", 3))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)

	err = h.SendMessage(chatContext(http.MethodPost, `{"content":"hi"}`, 3))
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
	assert.Empty(t, messageRepo.messages)
}

func TestSendMessageSetsReceiverToOtherParticipant(t *testing.T) {
	h, messageRepo := newChatFixture()

	require.NoError(t, h.SendMessage(chatContext(http.MethodPost, `{"content":"hello"}`, 1)))
	require.NoError(t, h.SendMessage(chatContext(http.MethodPost, `{"content":"hey"}`, 2)))

	require.Len(t, messageRepo.messages, 2)
	assert.Equal(t, uint(1), messageRepo.messages[0].SenderID)
	assert.Equal(t, uint(2), messageRepo.messages[0].ReceiverID)
	assert.Equal(t, uint(2), messageRepo.messages[1].SenderID)
	assert.Equal(t, uint(1), messageRepo.messages[1].ReceiverID)
	assert.Equal(t, uint(1), messageRepo.messages[0].MatchID)
}

func TestGetMessagesForParticipant(t *testing.T) {
	h, messageRepo := newChatFixture()
	messageRepo.messages = []models.Message{
		{MatchID: 1, SenderID: 1, ReceiverID: 2, Content: "hello"},
		{MatchID: 7, SenderID: 5, ReceiverID: 6, Content: "other conversation"},
	}

	c := chatContext(http.MethodGet, "", 2)
	require.NoError(t, h.GetMessages(c))
	assert.Equal(t, http.StatusOK, c.Response().Status)
}
