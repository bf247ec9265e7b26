package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var (
	ErrNotFound = errors.New("session not found")

	sessionsBucket = []byte("Sessions")
)

type Store interface {
	Load(ctx context.Context, id string) (*State, error)
	// Update runs fn on the stored state (nil when absent) in one
	// transaction. A nil result deletes the record.
	Update(ctx context.Context, id string, fn func(stored *State) *State) error
	Delete(ctx context.Context, id string) error
}

// BoltStore keeps JSON-encoded session state in a bbolt file.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load(_ context.Context, id string) (*State, error) {
	var state State
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(sessionsBucket).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &state)
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *BoltStore) Save(_ context.Context, id string, state *State) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(id), b)
	})
}

func (s *BoltStore) Update(_ context.Context, id string, fn func(stored *State) *State) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sessionsBucket)
		key := []byte(id)

		var stored *State
		if v := b.Get(key); v != nil {
			var state State
			if err := json.Unmarshal(v, &state); err == nil {
				stored = &state
			}
		}

		next := fn(stored)
		if next == nil {
			if stored == nil && b.Get(key) == nil {
				return nil
			}
			return b.Delete(key)
		}
		v, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		return b.Put(key, v)
	})
}

func (s *BoltStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(id))
	})
}

// DeleteExpired removes sessions last touched before cutoff.
func (s *BoltStore) DeleteExpired(cutoff time.Time) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sessionsBucket)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var state State
			if err := json.Unmarshal(v, &state); err != nil || state.UpdatedAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
