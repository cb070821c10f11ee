package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
)

// SelectionRepository persists the timetable selection document in Redis so a
// restart restores the in-memory state.
type SelectionRepository struct {
	client *redis.Client
	key    string
}

// NewSelectionRepository creates a selection repository writing under key.
func NewSelectionRepository(client *redis.Client, key string) *SelectionRepository {
	return &SelectionRepository{client: client, key: key}
}

// Save overwrites the stored selection document.
func (r *SelectionRepository) Save(ctx context.Context, doc models.SelectionDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal selection: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}

// Load reads the stored selection document. A missing key yields nil, not an
// error.
func (r *SelectionRepository) Load(ctx context.Context) (*models.SelectionDocument, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load selection: %w", err)
	}
	var doc models.SelectionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal selection: %w", err)
	}
	return &doc, nil
}
