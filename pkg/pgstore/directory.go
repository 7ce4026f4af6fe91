package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/pg"
)

type userRow struct {
	ID               string  `db:"id"`
	Name             string  `db:"name"`
	Email            string  `db:"email"`
	Role             string  `db:"role"`
	CompanyID        *string `db:"company_id"`
	NotifyInApp      bool    `db:"notify_in_app"`
	NotifyEmail      bool    `db:"notify_email"`
	NotifyDeliveries bool    `db:"notify_deliveries"`
	NotifyProgress   bool    `db:"notify_progress"`
	NotifyDeadlines  bool    `db:"notify_deadlines"`
}

func (r userRow) toDomain() notifications.Recipient {
	rec := notifications.Recipient{
		ID:    r.ID,
		Name:  r.Name,
		Email: r.Email,
		Role:  notifications.Role(r.Role),
		Preferences: notifications.Preferences{
			InApp:      r.NotifyInApp,
			Email:      r.NotifyEmail,
			Deliveries: r.NotifyDeliveries,
			Progress:   r.NotifyProgress,
			Deadlines:  r.NotifyDeadlines,
		},
	}
	if r.CompanyID != nil {
		rec.CompanyID = *r.CompanyID
	}
	return rec
}

const userColumns = `id, name, email, role, company_id, notify_in_app, notify_email,
	notify_deliveries, notify_progress, notify_deadlines`

func (s *Store) GetRecipient(ctx context.Context, userID string) (*notifications.Recipient, error) {
	rows, _ := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[userRow])
	if pg.IsNotFoundError(err) {
		return nil, notifications.ErrRecipientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipient: %w", err)
	}
	rec := row.toDomain()
	return &rec, nil
}

func (s *Store) GetCompany(ctx context.Context, companyID string) (*notifications.Company, error) {
	var (
		c       notifications.Company
		csOwner *string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, cs_owner_user_id FROM companies WHERE id = $1`, companyID,
	).Scan(&c.ID, &c.Name, &csOwner)
	if pg.IsNotFoundError(err) {
		return nil, notifications.ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	if csOwner != nil {
		c.CSOwnerUserID = *csOwner
	}
	return &c, nil
}

func (s *Store) ListRecipients(ctx context.Context, filter notifications.RecipientFilter) ([]notifications.Recipient, error) {
	roles := make([]string, len(filter.Roles))
	for i, r := range filter.Roles {
		roles[i] = string(r)
	}

	rows, _ := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users
		WHERE ($1 = '' OR company_id = $1)
		  AND (cardinality($2::text[]) = 0 OR role = ANY($2))
		ORDER BY id`,
		filter.CompanyID, roles,
	)
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}

	result := make([]notifications.Recipient, len(list))
	for i, row := range list {
		result[i] = row.toDomain()
	}
	return result, nil
}

// UpsertRecipient inserts or updates a user. It is used by seeding and tests;
// the platform owns the users table in production.
func (s *Store) UpsertRecipient(ctx context.Context, r notifications.Recipient) error {
	var companyID *string
	if r.CompanyID != "" {
		companyID = &r.CompanyID
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, email = EXCLUDED.email, role = EXCLUDED.role,
			company_id = EXCLUDED.company_id, notify_in_app = EXCLUDED.notify_in_app,
			notify_email = EXCLUDED.notify_email, notify_deliveries = EXCLUDED.notify_deliveries,
			notify_progress = EXCLUDED.notify_progress, notify_deadlines = EXCLUDED.notify_deadlines`,
		r.ID, r.Name, r.Email, string(r.Role), companyID,
		r.Preferences.InApp, r.Preferences.Email, r.Preferences.Deliveries,
		r.Preferences.Progress, r.Preferences.Deadlines,
	)
	if err != nil {
		return fmt.Errorf("upsert recipient: %w", err)
	}
	return nil
}

// UpsertCompany inserts or updates a company.
func (s *Store) UpsertCompany(ctx context.Context, c notifications.Company) error {
	var csOwner *string
	if c.CSOwnerUserID != "" {
		csOwner = &c.CSOwnerUserID
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO companies (id, name, cs_owner_user_id) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, cs_owner_user_id = EXCLUDED.cs_owner_user_id`,
		c.ID, c.Name, csOwner,
	)
	if err != nil {
		return fmt.Errorf("upsert company: %w", err)
	}
	return nil
}
