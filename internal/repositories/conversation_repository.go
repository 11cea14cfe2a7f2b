package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/rooms"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrSelfConversation     = errors.New("cannot create conversation with self")
)

const conversationColumns = `id, user1_id, user2_id, last_message_text, last_message_sender, last_message_at, created_at, updated_at`

// ConversationRepository abstracts conversation persistence.
type ConversationRepository interface {
	CreateOrGet(ctx context.Context, userID int, partnerID int) (models.Conversation, bool, error)
	Get(ctx context.Context, conversationID int) (models.Conversation, error)
	FindByPair(ctx context.Context, userID int, partnerID int) (models.Conversation, error)
	ListForUser(ctx context.Context, userID int) ([]models.Conversation, error)
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// CreateOrGet returns the conversation of the unordered pair, inserting it when
// missing. The boolean reports whether this call created it.
//
// The lookup and the insert are one statement keyed on the canonical pair, so two
// concurrent first messages converge on the same row.
func (r *ConversationRepo) CreateOrGet(ctx context.Context, userID int, partnerID int) (models.Conversation, bool, error) {
	if userID == partnerID {
		return models.Conversation{}, false, ErrSelfConversation
	}
	user1, user2 := rooms.CanonicalPair(userID, partnerID)

	var row struct {
		models.Conversation
		Inserted bool `db:"inserted"`
	}
	query := `INSERT INTO conversations (user1_id, user2_id) VALUES ($1, $2)
        ON CONFLICT (user1_id, user2_id) DO UPDATE SET user1_id = EXCLUDED.user1_id
        RETURNING ` + conversationColumns + `, (xmax = 0) AS inserted`
	if err := r.db.QueryRowxContext(ctx, query, user1, user2).StructScan(&row); err != nil {
		return models.Conversation{}, false, err
	}
	return row.Conversation, row.Inserted, nil
}

// Get fetches a conversation by id.
func (r *ConversationRepo) Get(ctx context.Context, conversationID int) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

// FindByPair fetches the conversation of two users without creating it.
func (r *ConversationRepo) FindByPair(ctx context.Context, userID int, partnerID int) (models.Conversation, error) {
	user1, user2 := rooms.CanonicalPair(userID, partnerID)
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations WHERE user1_id=$1 AND user2_id=$2`, user1, user2)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

// ListForUser returns the user's conversations, most recent activity first.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID int) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.SelectContext(ctx, &convs, `SELECT `+conversationColumns+` FROM conversations
        WHERE user1_id=$1 OR user2_id=$1
        ORDER BY COALESCE(last_message_at, created_at) DESC, id DESC`, userID)
	return convs, err
}
