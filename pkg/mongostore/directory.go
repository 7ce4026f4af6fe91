package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications"
)

type preferencesDoc struct {
	InApp      bool `bson:"in_app"`
	Email      bool `bson:"email"`
	Deliveries bool `bson:"deliveries"`
	Progress   bool `bson:"progress"`
	Deadlines  bool `bson:"deadlines"`
}

type userDoc struct {
	ID          string         `bson:"_id"`
	Name        string         `bson:"name"`
	Email       string         `bson:"email"`
	Role        string         `bson:"role"`
	CompanyID   string         `bson:"company_id,omitempty"`
	Preferences preferencesDoc `bson:"preferences"`
}

func (d userDoc) toDomain() notifications.Recipient {
	return notifications.Recipient{
		ID:          d.ID,
		Name:        d.Name,
		Email:       d.Email,
		Role:        notifications.Role(d.Role),
		CompanyID:   d.CompanyID,
		Preferences: notifications.Preferences(d.Preferences),
	}
}

type companyDoc struct {
	ID            string `bson:"_id"`
	Name          string `bson:"name"`
	CSOwnerUserID string `bson:"cs_owner_user_id,omitempty"`
}

func (s *Store) GetRecipient(ctx context.Context, userID string) (*notifications.Recipient, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notifications.ErrRecipientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipient: %w", err)
	}
	r := doc.toDomain()
	return &r, nil
}

func (s *Store) GetCompany(ctx context.Context, companyID string) (*notifications.Company, error) {
	var doc companyDoc
	err := s.companies.FindOne(ctx, bson.D{{Key: "_id", Value: companyID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notifications.ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &notifications.Company{ID: doc.ID, Name: doc.Name, CSOwnerUserID: doc.CSOwnerUserID}, nil
}

func (s *Store) ListRecipients(ctx context.Context, filter notifications.RecipientFilter) ([]notifications.Recipient, error) {
	query := bson.D{}
	if filter.CompanyID != "" {
		query = append(query, bson.E{Key: "company_id", Value: filter.CompanyID})
	}
	if len(filter.Roles) > 0 {
		roles := make([]string, len(filter.Roles))
		for i, r := range filter.Roles {
			roles[i] = string(r)
		}
		query = append(query, bson.E{Key: "role", Value: bson.D{{Key: "$in", Value: roles}}})
	}

	cursor, err := s.users.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode recipients: %w", err)
	}

	result := make([]notifications.Recipient, len(docs))
	for i, d := range docs {
		result[i] = d.toDomain()
	}
	return result, nil
}

// UpsertRecipient inserts or replaces a user document.
func (s *Store) UpsertRecipient(ctx context.Context, r notifications.Recipient) error {
	doc := userDoc{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Role:        string(r.Role),
		CompanyID:   r.CompanyID,
		Preferences: preferencesDoc(r.Preferences),
	}
	_, err := s.users.ReplaceOne(ctx, bson.D{{Key: "_id", Value: r.ID}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert recipient: %w", err)
	}
	return nil
}

// UpsertCompany inserts or replaces a company document.
func (s *Store) UpsertCompany(ctx context.Context, c notifications.Company) error {
	doc := companyDoc{ID: c.ID, Name: c.Name, CSOwnerUserID: c.CSOwnerUserID}
	_, err := s.companies.ReplaceOne(ctx, bson.D{{Key: "_id", Value: c.ID}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert company: %w", err)
	}
	return nil
}
