package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"msg-api/internal/mocks"
	"msg-api/internal/models"
)

func setupMessageRouter(handler *MessageHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", int64(1))
		c.Next()
	})
	r.POST("/conversations/:conversation_id/messages", handler.Post)
	r.GET("/conversations/:conversation_id/messages", handler.List)
	return r
}

func TestPostMessageSuccess(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(convRepo, msgRepo, nil)
	router := setupMessageRouter(handler)

	convRepo.On("IsParticipant", mock.Anything, int64(5), int64(1)).Return(true, nil).Once()
	msgRepo.On("Create", mock.Anything, int64(5), int64(1), "hello").
		Return(models.Message{ID: 7, ConversationID: 5, SenderID: 1, Body: "hello"}, nil).Once()

	body := bytes.NewBufferString(`{"msg":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/conversations/5/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(7), resp["id"])
	assert.Equal(t, "hello", resp["msg"])

	convRepo.AssertExpectations(t)
	msgRepo.AssertExpectations(t)
}

func TestPostMessageNonParticipantHidden(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(convRepo, msgRepo, nil)
	router := setupMessageRouter(handler)

	convRepo.On("IsParticipant", mock.Anything, int64(5), int64(1)).Return(false, nil).Once()

	body := bytes.NewBufferString(`{"msg":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/conversations/5/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// not-found, not forbidden: the conversation must not be revealed
	require.Equal(t, http.StatusNotFound, rec.Code)

	convRepo.AssertExpectations(t)
	msgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostMessageInvalidID(t *testing.T) {
	handler := NewMessageHandler(new(mocks.ConversationRepositoryMock), new(mocks.MessageRepositoryMock), nil)
	router := setupMessageRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/conversations/bad/messages", bytes.NewBufferString(`{"msg":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListMessagesNewestFirstCapped(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(convRepo, msgRepo, nil)
	router := setupMessageRouter(handler)

	convRepo.On("IsParticipant", mock.Anything, int64(5), int64(1)).Return(true, nil).Once()
	msgRepo.On("ListRecent", mock.Anything, int64(5), 20).
		Return([]models.Message{
			{ID: 3, ConversationID: 5, SenderID: 2, Body: "newest"},
			{ID: 2, ConversationID: 5, SenderID: 1, Body: "older"},
		}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/5/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "newest", resp.Messages[0].Body)

	convRepo.AssertExpectations(t)
	msgRepo.AssertExpectations(t)
}

func TestListMessagesNonParticipantHidden(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(convRepo, msgRepo, nil)
	router := setupMessageRouter(handler)

	convRepo.On("IsParticipant", mock.Anything, int64(5), int64(1)).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/5/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	msgRepo.AssertNotCalled(t, "ListRecent", mock.Anything, mock.Anything, mock.Anything)
}

func TestListMessagesMembershipCheckError(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	handler := NewMessageHandler(convRepo, new(mocks.MessageRepositoryMock), nil)
	router := setupMessageRouter(handler)

	convRepo.On("IsParticipant", mock.Anything, int64(5), int64(1)).Return(false, assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/5/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
