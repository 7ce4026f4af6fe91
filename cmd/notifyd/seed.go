package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications"
)

// seedData is the SEED_FILE format.
type seedData struct {
	Companies []notifications.Company   `json:"companies"`
	Users     []notifications.Recipient `json:"users"`
}

// seeder writes directory records into a store.
type seeder interface {
	UpsertCompany(ctx context.Context, c notifications.Company) error
	UpsertRecipient(ctx context.Context, r notifications.Recipient) error
}

// memorySeeder adapts MemoryStorage to seeder.
type memorySeeder struct {
	store *notifications.MemoryStorage
}

func (m memorySeeder) UpsertCompany(_ context.Context, c notifications.Company) error {
	m.store.PutCompany(c)
	return nil
}

func (m memorySeeder) UpsertRecipient(_ context.Context, r notifications.Recipient) error {
	m.store.PutRecipient(r)
	return nil
}

func readSeed(path string) (*seedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var data seedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &data, nil
}

// seed loads companies before users so foreign keys resolve.
func seed(ctx context.Context, s seeder, data *seedData) (int, error) {
	n := 0
	for _, c := range data.Companies {
		if err := s.UpsertCompany(ctx, c); err != nil {
			return n, fmt.Errorf("seed company %s: %w", c.ID, err)
		}
		n++
	}
	for _, u := range data.Users {
		if !u.Role.Valid() {
			return n, fmt.Errorf("seed user %s: %w: role %q", u.ID, errInvalidConfig, u.Role)
		}
		if err := s.UpsertRecipient(ctx, u); err != nil {
			return n, fmt.Errorf("seed user %s: %w", u.ID, err)
		}
		n++
	}
	return n, nil
}
