package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
)

// StorageKey is the single local-storage key of the session record.
const StorageKey = "auth-storage"

// KeyValue is the slice of the metadata repository the persister needs.
type KeyValue interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// record is the serialized layout: {"user": {...}}. The initialized flag is
// deliberately not part of it.
type record struct {
	User *models.User `json:"user"`
}

// KVPersister keeps the session record under StorageKey.
type KVPersister struct {
	kv KeyValue
}

func NewKVPersister(kv KeyValue) *KVPersister {
	return &KVPersister{kv: kv}
}

func (p *KVPersister) Load(ctx context.Context) (*models.User, error) {
	raw, err := p.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return rec.User, nil
}

func (p *KVPersister) Save(ctx context.Context, u *models.User) error {
	raw, err := json.Marshal(record{User: u})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return p.kv.Set(ctx, StorageKey, raw)
}

func (p *KVPersister) Remove(ctx context.Context) error {
	return p.kv.Delete(ctx, StorageKey)
}
