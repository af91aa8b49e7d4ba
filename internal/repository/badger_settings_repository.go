package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"lingovibe/backend/internal/logger"
	"lingovibe/backend/internal/model"
)

// BadgerOptions configures the badger-backed settings store.
type BadgerOptions struct {
	// Dir is the directory for badger data files. Required unless InMemory.
	Dir string
	// InMemory keeps everything in memory; used by tests.
	InMemory bool
}

// badgerRecord is the stored value layout; the key is the setting key.
type badgerRecord struct {
	Value     string `json:"v"`
	UpdatedAt string `json:"u"`
}

type badgerSettingsRepository struct {
	db *badger.DB
}

// BadgerSettingsRepository is a SettingsRepository that owns its badger handle.
type BadgerSettingsRepository interface {
	SettingsRepository
	Close() error
}

// OpenBadgerSettingsRepository opens (or creates) a badger store.
func OpenBadgerSettingsRepository(opts BadgerOptions) (BadgerSettingsRepository, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("badger settings: dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(badgerLogger{})
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &badgerSettingsRepository{db: db}, nil
}

func (r *badgerSettingsRepository) Get(_ context.Context, key string) (*model.Setting, error) {
	var rec badgerRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.Setting{Key: key, Value: rec.Value, UpdatedAt: parseUpdatedAt(rec.UpdatedAt)}, nil
}

func (r *badgerSettingsRepository) Set(_ context.Context, key, value string) error {
	data, err := json.Marshal(badgerRecord{
		Value:     value,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (r *badgerSettingsRepository) GetByPrefix(_ context.Context, prefix string) ([]model.Setting, error) {
	p := []byte(prefix)
	var settings []model.Setting
	err := r.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = p
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			var rec badgerRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			settings = append(settings, model.Setting{
				Key:       string(item.KeyCopy(nil)),
				Value:     rec.Value,
				UpdatedAt: parseUpdatedAt(rec.UpdatedAt),
			})
		}
		return nil
	})
	return settings, err
}

func (r *badgerSettingsRepository) Delete(_ context.Context, key string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (r *badgerSettingsRepository) Close() error {
	return r.db.Close()
}

// badgerLogger routes badger warnings and errors into the app logger and
// drops its info/debug chatter.
type badgerLogger struct{}

func (badgerLogger) Errorf(f string, v ...interface{}) {
	logger.Error(fmt.Sprintf(f, v...), "module", "repository", "action", "badger", "resource", "settings", "result", "failed")
}

func (badgerLogger) Warningf(f string, v ...interface{}) {
	logger.Warn(fmt.Sprintf(f, v...), "module", "repository", "action", "badger", "resource", "settings", "result", "ok")
}

func (badgerLogger) Infof(string, ...interface{})  {}
func (badgerLogger) Debugf(string, ...interface{}) {}
