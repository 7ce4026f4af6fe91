package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications"
)

const (
	notificationsCollection = "notifications"
	usersCollection         = "users"
	companiesCollection     = "companies"
)

// Store keeps notifications, users and companies in MongoDB collections.
// It implements notifications.Storage and notifications.Directory.
type Store struct {
	notifications *mongo.Collection
	users         *mongo.Collection
	companies     *mongo.Collection
}

// New creates a store on db. Call EnsureIndexes once at startup.
func New(db *mongo.Database) *Store {
	return &Store{
		notifications: db.Collection(notificationsCollection),
		users:         db.Collection(usersCollection),
		companies:     db.Collection(companiesCollection),
	}
}

// EnsureIndexes creates the indexes the list and count queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.notifications.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "read", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create notification indexes: %w", err)
	}
	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "role", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

type notificationDoc struct {
	ID          string     `bson:"_id"`
	Type        string     `bson:"type"`
	Title       string     `bson:"title"`
	Message     string     `bson:"message"`
	Link        string     `bson:"link,omitempty"`
	RecipientID string     `bson:"recipient_id"`
	SenderID    string     `bson:"sender_id,omitempty"`
	DeliveryID  string     `bson:"delivery_id,omitempty"`
	CompanyID   string     `bson:"company_id,omitempty"`
	Read        bool       `bson:"read"`
	ReadAt      *time.Time `bson:"read_at,omitempty"`
	EmailSent   bool       `bson:"email_sent"`
	EmailStatus string     `bson:"email_status"`
	CreatedAt   time.Time  `bson:"created_at"`
}

func newNotificationDoc(n notifications.Notification) notificationDoc {
	return notificationDoc{
		ID:          n.ID,
		Type:        string(n.Type),
		Title:       n.Title,
		Message:     n.Message,
		Link:        n.Link,
		RecipientID: n.RecipientID,
		SenderID:    n.SenderID,
		DeliveryID:  n.DeliveryID,
		CompanyID:   n.CompanyID,
		Read:        n.Read,
		ReadAt:      n.ReadAt,
		EmailSent:   n.EmailSent,
		EmailStatus: string(n.EmailStatus),
		CreatedAt:   n.CreatedAt,
	}
}

func (d notificationDoc) toDomain() notifications.Notification {
	return notifications.Notification{
		ID:          d.ID,
		Type:        notifications.Type(d.Type),
		Title:       d.Title,
		Message:     d.Message,
		Link:        d.Link,
		RecipientID: d.RecipientID,
		SenderID:    d.SenderID,
		DeliveryID:  d.DeliveryID,
		CompanyID:   d.CompanyID,
		Read:        d.Read,
		ReadAt:      d.ReadAt,
		EmailSent:   d.EmailSent,
		EmailStatus: notifications.EmailStatus(d.EmailStatus),
		CreatedAt:   d.CreatedAt,
	}
}

// Create checks the recipient exists before inserting; MongoDB has no
// foreign keys to do it for us.
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

	exists, err := s.users.CountDocuments(ctx, bson.D{{Key: "_id", Value: n.RecipientID}}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("check recipient: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", notifications.ErrRecipientNotFound, n.RecipientID)
	}

	if _, err := s.notifications.InsertOne(ctx, newNotificationDoc(n)); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID, notifID string) (*notifications.Notification, error) {
	var doc notificationDoc
	err := s.notifications.FindOne(ctx, bson.D{
		{Key: "_id", Value: notifID},
		{Key: "recipient_id", Value: userID},
	}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notifications.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	n := doc.toDomain()
	return &n, nil
}

func (s *Store) List(ctx context.Context, userID string, opts notifications.ListOptions) ([]notifications.Notification, error) {
	filter := bson.D{{Key: "recipient_id", Value: userID}}
	if opts.UnreadOnly {
		filter = append(filter, bson.E{Key: "read", Value: false})
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(max(opts.Offset, 0)))
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := s.notifications.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	var docs []notificationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}

	result := make([]notifications.Notification, len(docs))
	for i, d := range docs {
		result[i] = d.toDomain()
	}
	return result, nil
}

func (s *Store) MarkRead(ctx context.Context, userID string, notifIDs ...string) (int, error) {
	if len(notifIDs) == 0 {
		return 0, nil
	}
	return s.markRead(ctx, bson.D{
		{Key: "recipient_id", Value: userID},
		{Key: "_id", Value: bson.D{{Key: "$in", Value: notifIDs}}},
		{Key: "read", Value: false},
	})
}

func (s *Store) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.markRead(ctx, bson.D{
		{Key: "recipient_id", Value: userID},
		{Key: "read", Value: false},
	})
}

func (s *Store) markRead(ctx context.Context, filter bson.D) (int, error) {
	res, err := s.notifications.UpdateMany(ctx, filter, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "read", Value: true},
			{Key: "read_at", Value: time.Now()},
		}},
	})
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return int(res.ModifiedCount), nil
}

func (s *Store) Delete(ctx context.Context, userID string, notifIDs ...string) (int, error) {
	if len(notifIDs) == 0 {
		return 0, nil
	}
	res, err := s.notifications.DeleteMany(ctx, bson.D{
		{Key: "recipient_id", Value: userID},
		{Key: "_id", Value: bson.D{{Key: "$in", Value: notifIDs}}},
	})
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}
	return int(res.DeletedCount), nil
}

func (s *Store) CountUnread(ctx context.Context, userID string) (int, error) {
	count, err := s.notifications.CountDocuments(ctx, bson.D{
		{Key: "recipient_id", Value: userID},
		{Key: "read", Value: false},
	})
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return int(count), nil
}

func (s *Store) SetEmailStatus(ctx context.Context, notifID string, status notifications.EmailStatus) error {
	res, err := s.notifications.UpdateByID(ctx, notifID, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "email_status", Value: string(status)},
			{Key: "email_sent", Value: status == notifications.EmailSent},
		}},
	})
	if err != nil {
		return fmt.Errorf("set email status: %w", err)
	}
	if res.MatchedCount == 0 {
		return notifications.ErrNotificationNotFound
	}
	return nil
}
