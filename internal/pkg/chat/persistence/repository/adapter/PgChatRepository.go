package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
)

const pgUniqueViolation = "23505"

// PgChatRepository implements the chat repository port with raw SQL over a
// pgx connection pool.
type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

func (r *PgChatRepository) FindConversationBetween(ctx context.Context, userA, userB string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var conv chat.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, last_message, last_message_at, created_at
		FROM conversations
		WHERE pair_key = $1
	`, chat.PairKey(userA, userB)).Scan(&conv.ID, &conv.LastMessage, &conv.LastMessageAt, &conv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.hydrateParticipants(ctx, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *PgChatRepository) CreateConversation(ctx context.Context, userA, userB string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var conv chat.Conversation
	err = tx.QueryRow(ctx, `
		INSERT INTO conversations (pair_key)
		VALUES ($1)
		RETURNING id::text, created_at
	`, chat.PairKey(userA, userB)).Scan(&conv.ID, &conv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, chat.ErrDuplicateConversation
		}
		return nil, err
	}

	for _, uid := range []string{userA, userB} {
		if _, err := tx.Exec(ctx, `
			INSERT INTO participants (conversation_id, user_id)
			VALUES ($1::uuid, $2::uuid)
		`, conv.ID, uid); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if err := r.hydrateParticipants(ctx, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *PgChatRepository) ListConversationsForUser(ctx context.Context, userID string) ([]chat.ConversationSummary, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.last_message, c.last_message_at, c.created_at,
		       m.id::text, m.sender_id::text, m.content, m.is_read, m.created_at,
		       (SELECT count(*) FROM messages x
		        WHERE x.conversation_id = c.id AND x.sender_id <> $1::uuid AND NOT x.is_read)
		FROM conversations c
		JOIN participants me ON me.conversation_id = c.id AND me.user_id = $1::uuid
		LEFT JOIN LATERAL (
			SELECT id, sender_id, content, is_read, created_at
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC
			LIMIT 1
		) m ON true
		ORDER BY c.last_message_at DESC NULLS LAST, c.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []chat.ConversationSummary
	for rows.Next() {
		var (
			s        chat.ConversationSummary
			msgID    *string
			senderID *string
			content  *string
			isRead   *bool
			msgAt    *time.Time
		)
		if err := rows.Scan(&s.ID, &s.LastMessage, &s.LastMessageAt, &s.CreatedAt,
			&msgID, &senderID, &content, &isRead, &msgAt, &s.UnreadCount); err != nil {
			return nil, err
		}
		if msgID != nil {
			s.NewestMessage = &chat.Message{
				ID:             *msgID,
				ConversationID: s.ID,
				SenderID:       *senderID,
				Content:        *content,
				IsRead:         *isRead,
				CreatedAt:      *msgAt,
			}
		}
		summaries = append(summaries, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	for i := range summaries {
		if err := r.hydrateParticipants(ctx, &summaries[i].Conversation); err != nil {
			return nil, err
		}
	}
	return summaries, nil
}

func (r *PgChatRepository) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChatRepository: nil pool")
	}
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM participants
			WHERE conversation_id = $1::uuid AND user_id = $2::uuid
		)
	`, conversationID, userID).Scan(&ok)
	return ok, err
}

func (r *PgChatRepository) ListParticipantIDs(ctx context.Context, conversationID string) ([]string, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT user_id::text FROM participants WHERE conversation_id = $1::uuid
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgChatRepository) CreateMessage(ctx context.Context, m chat.Message) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var (
		out    = m
		sender chat.UserSummary
	)
	err := r.pool.QueryRow(ctx, `
		WITH ins AS (
			INSERT INTO messages (conversation_id, sender_id, content)
			VALUES ($1::uuid, $2::uuid, $3)
			RETURNING id, sender_id, is_read, created_at
		)
		SELECT ins.id::text, ins.is_read, ins.created_at, u.id::text, u.name, u.avatar, u.role
		FROM ins
		JOIN users u ON u.id = ins.sender_id
	`, m.ConversationID, m.SenderID, m.Content).Scan(
		&out.ID, &out.IsRead, &out.CreatedAt,
		&sender.ID, &sender.Name, &sender.Avatar, &sender.Role,
	)
	if err != nil {
		return nil, err
	}
	out.Sender = &sender
	return &out, nil
}

func (r *PgChatRepository) GetMessage(ctx context.Context, messageID string) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var (
		m      chat.Message
		sender chat.UserSummary
	)
	err := r.pool.QueryRow(ctx, `
		SELECT m.id::text, m.conversation_id::text, m.sender_id::text, m.content, m.is_read, m.created_at,
		       u.id::text, u.name, u.avatar, u.role
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.id = $1::uuid
	`, messageID).Scan(
		&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.IsRead, &m.CreatedAt,
		&sender.ID, &sender.Name, &sender.Avatar, &sender.Role,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("message %s: %w", messageID, chat.ErrMessageNotFound)
	}
	if err != nil {
		return nil, err
	}
	m.Sender = &sender
	return &m, nil
}

func (r *PgChatRepository) UpdateConversationSummary(ctx context.Context, conversationID, lastMessage string, at time.Time) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE conversations
		SET last_message = $2, last_message_at = $3
		WHERE id = $1::uuid
	`, conversationID, lastMessage, at)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrConversationNotFound
	}
	return nil
}

func (r *PgChatRepository) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT m.id::text, m.conversation_id::text, m.sender_id::text, m.content, m.is_read, m.created_at,
		       u.id::text, u.name, u.avatar, u.role
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.conversation_id = $1::uuid
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var (
			m      chat.Message
			sender chat.UserSummary
		)
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.IsRead, &m.CreatedAt,
			&sender.ID, &sender.Name, &sender.Avatar, &sender.Role); err != nil {
			return nil, err
		}
		m.Sender = &sender
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *PgChatRepository) CountMessages(ctx context.Context, conversationID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM messages WHERE conversation_id = $1::uuid
	`, conversationID).Scan(&n)
	return n, err
}

func (r *PgChatRepository) CountUnread(ctx context.Context, conversationID, userID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM messages
		WHERE conversation_id = $1::uuid AND sender_id <> $2::uuid AND NOT is_read
	`, conversationID, userID).Scan(&n)
	return n, err
}

func (r *PgChatRepository) CountUnreadForUser(ctx context.Context, userID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM messages m
		JOIN participants p ON p.conversation_id = m.conversation_id AND p.user_id = $1::uuid
		WHERE m.sender_id <> $1::uuid AND NOT m.is_read
	`, userID).Scan(&n)
	return n, err
}

func (r *PgChatRepository) MarkRead(ctx context.Context, conversationID, userID string, at time.Time) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	// Both writes share one transaction so the watermark can never run ahead
	// of the message flags.
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		UPDATE messages
		SET is_read = true
		WHERE conversation_id = $1::uuid AND sender_id <> $2::uuid AND NOT is_read
	`, conversationID, userID)
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO participants (conversation_id, user_id, last_read_at)
		VALUES ($1::uuid, $2::uuid, $3)
		ON CONFLICT (conversation_id, user_id)
		DO UPDATE SET last_read_at = EXCLUDED.last_read_at
	`, conversationID, userID, at); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgChatRepository) GetUserSummary(ctx context.Context, userID string) (*chat.UserSummary, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var u chat.UserSummary
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name, avatar, role FROM users WHERE id = $1::uuid
	`, userID).Scan(&u.ID, &u.Name, &u.Avatar, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgChatRepository) hydrateParticipants(ctx context.Context, conv *chat.Conversation) error {
	rows, err := r.pool.Query(ctx, `
		SELECT p.user_id::text, p.last_read_at, u.id::text, u.name, u.avatar, u.role
		FROM participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.conversation_id = $1::uuid
	`, conv.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	conv.Participants = conv.Participants[:0]
	for rows.Next() {
		var (
			p chat.Participant
			u chat.UserSummary
		)
		if err := rows.Scan(&p.UserID, &p.LastReadAt, &u.ID, &u.Name, &u.Avatar, &u.Role); err != nil {
			return err
		}
		p.ConversationID = conv.ID
		p.User = &u
		conv.Participants = append(conv.Participants, p)
	}
	return rows.Err()
}
