package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/jmoiron/sqlx"

	"msg-api/internal/models"
)

// ConversationRepository abstracts conversation persistence and the
// membership check gating every conversation-scoped operation.
type ConversationRepository interface {
	Create(ctx context.Context, creatorID int64, title string, participantIDs []int64) (models.Conversation, error)
	ListForUser(ctx context.Context, userID int64) ([]models.ConversationSummary, error)
	IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error)
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// Create inserts a conversation and its participant rows atomically. The
// creator is always a participant with the owner role; the kind is derived
// from the final participant count. Membership is fixed at creation.
func (r *ConversationRepo) Create(ctx context.Context, creatorID int64, title string, participantIDs []int64) (models.Conversation, error) {
	memberSet := map[int64]struct{}{creatorID: {}}
	for _, id := range participantIDs {
		memberSet[id] = struct{}{}
	}
	ids := make([]int64, 0, len(memberSet))
	for id := range memberSet {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	kind := models.ConversationKindGroup
	if len(ids) == 2 {
		kind = models.ConversationKindDirect
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Conversation{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var conv models.Conversation
	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO conversations (kind, title)
         VALUES ($1, $2)
         RETURNING id, kind, title, last_activity_at, created_at`,
		kind, title).StructScan(&conv); err != nil {
		return models.Conversation{}, err
	}

	for _, id := range ids {
		role := models.RoleMember
		if id == creatorID {
			role = models.RoleOwner
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO conversation_participants (conversation_id, user_id, role) VALUES ($1, $2, $3)`,
			conv.ID, id, role); err != nil {
			return models.Conversation{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Conversation{}, err
	}
	return conv, nil
}

// ListForUser returns the conversations the user participates in, most
// recently active first. The membership join scopes the result, so no
// separate authorization check is needed.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID int64) ([]models.ConversationSummary, error) {
	var convs []models.ConversationSummary
	err := r.db.SelectContext(ctx, &convs,
		`SELECT c.id, c.title FROM conversations c
         INNER JOIN conversation_participants cp ON cp.conversation_id = c.id
         WHERE cp.user_id=$1
         ORDER BY c.last_activity_at DESC`, userID)
	return convs, err
}

// IsParticipant reports whether the user belongs to the conversation. Each
// call reads current membership; nothing is cached.
func (r *ConversationRepo) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM conversation_participants WHERE conversation_id=$1 AND user_id=$2)`,
		conversationID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return exists, err
}
