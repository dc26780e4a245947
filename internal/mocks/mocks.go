package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"msg-api/internal/models"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, username, displayName, mail, credentialHash string) (models.User, error) {
	args := m.Called(ctx, username, displayName, mail, credentialHash)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, userID int64) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UpdateCredentialHash(ctx context.Context, userID int64, oldHash, newHash string) (bool, error) {
	args := m.Called(ctx, userID, oldHash, newHash)
	return args.Bool(0), args.Error(1)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) Create(ctx context.Context, creatorID int64, title string, participantIDs []int64) (models.Conversation, error) {
	args := m.Called(ctx, creatorID, title, participantIDs)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) ListForUser(ctx context.Context, userID int64) ([]models.ConversationSummary, error) {
	args := m.Called(ctx, userID)
	var list []models.ConversationSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ConversationSummary)
	}
	return list, args.Error(1)
}

func (m *ConversationRepositoryMock) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Bool(0), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, conversationID, senderID int64, body string) (models.Message, error) {
	args := m.Called(ctx, conversationID, senderID, body)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListRecent(ctx context.Context, conversationID int64, limit int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type HasherMock struct {
	mock.Mock
}

func (m *HasherMock) Hash(secret string) (string, error) {
	args := m.Called(secret)
	return args.String(0), args.Error(1)
}

func (m *HasherMock) Verify(secret, encoded string) bool {
	args := m.Called(secret, encoded)
	return args.Bool(0)
}

func (m *HasherMock) NeedsRehash(encoded string) bool {
	args := m.Called(encoded)
	return args.Bool(0)
}

type SessionIssuerMock struct {
	mock.Mock
}

func (m *SessionIssuerMock) Issue(ctx context.Context, userID int64, deviceID string) (string, error) {
	args := m.Called(ctx, userID, deviceID)
	return args.String(0), args.Error(1)
}

type TokenVerifierMock struct {
	mock.Mock
}

func (m *TokenVerifierMock) Verify(ctx context.Context, userID int64, deviceID, token string) (bool, error) {
	args := m.Called(ctx, userID, deviceID, token)
	return args.Bool(0), args.Error(1)
}
