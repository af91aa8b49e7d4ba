// Package store persists the session's durable state: the language pair,
// the onboarding flag and the notebook. It is a thin typed layer over a
// key/value SettingsRepository.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"lingovibe/backend/internal/logger"
	"lingovibe/backend/internal/model"
	"lingovibe/backend/internal/repository"
)

// Record keys.
const (
	KeyNativeLang     = "lang.native"
	KeyTargetLang     = "lang.target"
	KeyOnboardingDone = "onboarding.done"
	KeyNotebook       = "notebook"
	KeySchemaVersion  = "store.schema_version"
)

// SchemaVersion is the layout this build reads and writes.
const SchemaVersion = 1

// ErrSchemaTooNew is returned when the stored layout was written by a newer build.
var ErrSchemaTooNew = errors.New("stored schema version is newer than supported")

// Snapshot is the persisted state read at startup.
type Snapshot struct {
	Languages      model.LanguagePref
	OnboardingDone bool
	Notebook       []model.NotebookItem
}

// Store reads and writes the durable session records.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	SaveLanguages(ctx context.Context, pref model.LanguagePref) error
	SaveOnboarding(ctx context.Context, done bool) error
	SaveNotebook(ctx context.Context, items []model.NotebookItem) error
}

type store struct {
	repo     repository.SettingsRepository
	defaults model.LanguagePref
}

// New creates a Store. defaults are used for missing or unsupported language codes.
func New(repo repository.SettingsRepository, defaults model.LanguagePref) Store {
	if !defaults.Valid() {
		defaults = model.DefaultLanguagePref()
	}
	return &store{repo: repo, defaults: defaults}
}

func (s *store) Load(ctx context.Context) (*Snapshot, error) {
	if err := s.checkVersion(ctx); err != nil {
		return nil, err
	}

	snap := &Snapshot{Languages: s.defaults, Notebook: []model.NotebookItem{}}

	native, err := s.getString(ctx, KeyNativeLang)
	if err != nil {
		return nil, fmt.Errorf("load native lang: %w", err)
	}
	if model.IsSupportedLanguage(native) {
		snap.Languages.NativeCode = native
	} else if native != "" {
		logger.Warn("store unsupported language", "module", "store", "action", "load", "resource", "languages", "result", "failed", "key", KeyNativeLang, "code", native)
	}

	target, err := s.getString(ctx, KeyTargetLang)
	if err != nil {
		return nil, fmt.Errorf("load target lang: %w", err)
	}
	if model.IsSupportedLanguage(target) {
		snap.Languages.TargetCode = target
	} else if target != "" {
		logger.Warn("store unsupported language", "module", "store", "action", "load", "resource", "languages", "result", "failed", "key", KeyTargetLang, "code", target)
	}

	done, err := s.getString(ctx, KeyOnboardingDone)
	if err != nil {
		return nil, fmt.Errorf("load onboarding: %w", err)
	}
	snap.OnboardingDone = done == "true"

	raw, err := s.getString(ctx, KeyNotebook)
	if err != nil {
		return nil, fmt.Errorf("load notebook: %w", err)
	}
	if raw != "" {
		var items []model.NotebookItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			logger.Warn("store notebook corrupt", "module", "store", "action", "load", "resource", "notebook", "result", "failed", "error", err)
		} else if items != nil {
			snap.Notebook = items
		}
	}

	logger.Info("store loaded", "module", "store", "action", "load", "resource", "snapshot", "result", "ok",
		"native", snap.Languages.NativeCode, "target", snap.Languages.TargetCode,
		"onboarding_done", snap.OnboardingDone, "notebook_size", len(snap.Notebook))
	return snap, nil
}

func (s *store) SaveLanguages(ctx context.Context, pref model.LanguagePref) error {
	if err := s.stampVersion(ctx); err != nil {
		return err
	}
	if err := s.repo.Set(ctx, KeyNativeLang, pref.NativeCode); err != nil {
		return fmt.Errorf("save native lang: %w", err)
	}
	if err := s.repo.Set(ctx, KeyTargetLang, pref.TargetCode); err != nil {
		return fmt.Errorf("save target lang: %w", err)
	}
	return nil
}

func (s *store) SaveOnboarding(ctx context.Context, done bool) error {
	if err := s.stampVersion(ctx); err != nil {
		return err
	}
	if err := s.repo.Set(ctx, KeyOnboardingDone, strconv.FormatBool(done)); err != nil {
		return fmt.Errorf("save onboarding: %w", err)
	}
	return nil
}

func (s *store) SaveNotebook(ctx context.Context, items []model.NotebookItem) error {
	if err := s.stampVersion(ctx); err != nil {
		return err
	}
	if items == nil {
		items = []model.NotebookItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode notebook: %w", err)
	}
	if err := s.repo.Set(ctx, KeyNotebook, string(data)); err != nil {
		return fmt.Errorf("save notebook: %w", err)
	}
	return nil
}

func (s *store) storedVersion(ctx context.Context) (int, error) {
	raw, err := s.getString(ctx, KeySchemaVersion)
	if err != nil {
		return 0, fmt.Errorf("load schema version: %w", err)
	}
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse schema version %q: %w", raw, err)
	}
	return v, nil
}

func (s *store) checkVersion(ctx context.Context) error {
	v, err := s.storedVersion(ctx)
	if err != nil {
		return err
	}
	if v > SchemaVersion {
		logger.Error("store schema too new", "module", "store", "action", "load", "resource", "schema", "result", "failed", "stored", v, "supported", SchemaVersion)
		return fmt.Errorf("%w: stored %d, supported %d", ErrSchemaTooNew, v, SchemaVersion)
	}
	return nil
}

// stampVersion writes the schema version before the first record lands and
// refuses to overwrite a layout from a newer build.
func (s *store) stampVersion(ctx context.Context) error {
	v, err := s.storedVersion(ctx)
	if err != nil {
		return err
	}
	switch {
	case v > SchemaVersion:
		return fmt.Errorf("%w: stored %d, supported %d", ErrSchemaTooNew, v, SchemaVersion)
	case v == SchemaVersion:
		return nil
	}
	if err := s.repo.Set(ctx, KeySchemaVersion, strconv.Itoa(SchemaVersion)); err != nil {
		return fmt.Errorf("save schema version: %w", err)
	}
	return nil
}

func (s *store) getString(ctx context.Context, key string) (string, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if setting == nil {
		return "", nil
	}
	return setting.Value, nil
}
