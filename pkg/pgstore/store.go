package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/pg"
)

// Store persists notifications in PostgreSQL and reads users and companies
// from the same database. It implements notifications.Storage and
// notifications.Directory.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a store on top of a migrated pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type notificationRow struct {
	ID          string     `db:"id"`
	Type        string     `db:"type"`
	Title       string     `db:"title"`
	Message     string     `db:"message"`
	Link        string     `db:"link"`
	RecipientID string     `db:"recipient_id"`
	SenderID    string     `db:"sender_id"`
	DeliveryID  string     `db:"delivery_id"`
	CompanyID   string     `db:"company_id"`
	Read        bool       `db:"read"`
	ReadAt      *time.Time `db:"read_at"`
	EmailSent   bool       `db:"email_sent"`
	EmailStatus string     `db:"email_status"`
	CreatedAt   time.Time  `db:"created_at"`
}

func (r notificationRow) toDomain() notifications.Notification {
	return notifications.Notification{
		ID:          r.ID,
		Type:        notifications.Type(r.Type),
		Title:       r.Title,
		Message:     r.Message,
		Link:        r.Link,
		RecipientID: r.RecipientID,
		SenderID:    r.SenderID,
		DeliveryID:  r.DeliveryID,
		CompanyID:   r.CompanyID,
		Read:        r.Read,
		ReadAt:      r.ReadAt,
		EmailSent:   r.EmailSent,
		EmailStatus: notifications.EmailStatus(r.EmailStatus),
		CreatedAt:   r.CreatedAt,
	}
}

const notificationColumns = `id, type, title, message, link, recipient_id, sender_id, delivery_id,
	company_id, read, read_at, email_sent, email_status, created_at`

func (s *Store) Create(ctx context.Context, n notifications.Notification) error {
	if n.ID == "" {
		return errors.New("notification ID is required")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.EmailStatus == "" {
		n.EmailStatus = notifications.EmailNotAttempted
	}

	_, err := s.pool.Exec(ctx, `INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		n.ID, string(n.Type), n.Title, n.Message, n.Link, n.RecipientID, n.SenderID, n.DeliveryID,
		n.CompanyID, n.Read, n.ReadAt, n.EmailSent, string(n.EmailStatus), n.CreatedAt,
	)
	if pg.IsForeignKeyViolationError(err) {
		return fmt.Errorf("%w: %s", notifications.ErrRecipientNotFound, n.RecipientID)
	}
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID, notifID string) (*notifications.Notification, error) {
	rows, _ := s.pool.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1 AND recipient_id = $2`,
		notifID, userID,
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[notificationRow])
	if pg.IsNotFoundError(err) {
		return nil, notifications.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	n := row.toDomain()
	return &n, nil
}

func (s *Store) List(ctx context.Context, userID string, opts notifications.ListOptions) ([]notifications.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = $1`
	if opts.UnreadOnly {
		query += ` AND NOT read`
	}
	query += ` ORDER BY created_at DESC, id DESC OFFSET $2`
	args := []any{userID, max(opts.Offset, 0)}
	if opts.Limit > 0 {
		query += ` LIMIT $3`
		args = append(args, opts.Limit)
	}

	rows, _ := s.pool.Query(ctx, query, args...)
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[notificationRow])
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	result := make([]notifications.Notification, len(list))
	for i, row := range list {
		result[i] = row.toDomain()
	}
	return result, nil
}

func (s *Store) MarkRead(ctx context.Context, userID string, notifIDs ...string) (int, error) {
	if len(notifIDs) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE, read_at = NOW()
		WHERE recipient_id = $1 AND id = ANY($2) AND NOT read`,
		userID, notifIDs,
	)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) MarkAllRead(ctx context.Context, userID string) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE, read_at = NOW() WHERE recipient_id = $1 AND NOT read`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) Delete(ctx context.Context, userID string, notifIDs ...string) (int, error) {
	if len(notifIDs) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM notifications WHERE recipient_id = $1 AND id = ANY($2)`,
		userID, notifIDs,
	)
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT read`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (s *Store) SetEmailStatus(ctx context.Context, notifID string, status notifications.EmailStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE notifications SET email_status = $2, email_sent = $3 WHERE id = $1`,
		notifID, string(status), status == notifications.EmailSent,
	)
	if err != nil {
		return fmt.Errorf("set email status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notifications.ErrNotificationNotFound
	}
	return nil
}
