package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"lingovibe/backend/internal/model"
	"lingovibe/backend/internal/repository"
	"lingovibe/backend/internal/repository/mock"
	"lingovibe/backend/internal/repository/testutil"
	"lingovibe/backend/internal/store"
)

func newSQLiteStore(t *testing.T) (store.Store, repository.SettingsRepository) {
	repo := repository.NewSettingsRepository(testutil.NewTestDB(t))
	return store.New(repo, model.DefaultLanguagePref()), repo
}

func TestStore_LoadDefaults(t *testing.T) {
	st, _ := newSQLiteStore(t)

	snap, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.LanguagePref{NativeCode: "en", TargetCode: "ja"}, snap.Languages)
	require.False(t, snap.OnboardingDone)
	require.NotNil(t, snap.Notebook)
	require.Empty(t, snap.Notebook)
}

func TestStore_RoundTrip(t *testing.T) {
	st, repo := newSQLiteStore(t)
	ctx := context.Background()

	items := []model.NotebookItem{
		{DictionaryEntry: model.DictionaryEntry{ID: "2", TargetWord: "犬", Examples: []model.ExampleSentence{{Original: "犬がいる", Translation: "There is a dog"}}}, SavedAt: 20},
		{DictionaryEntry: model.DictionaryEntry{ID: "1", TargetWord: "猫"}, SavedAt: 10},
	}

	require.NoError(t, st.SaveLanguages(ctx, model.LanguagePref{NativeCode: "fr", TargetCode: "ko"}))
	require.NoError(t, st.SaveOnboarding(ctx, true))
	require.NoError(t, st.SaveNotebook(ctx, items))

	reloaded := store.New(repo, model.DefaultLanguagePref())
	snap, err := reloaded.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "fr", snap.Languages.NativeCode)
	require.Equal(t, "ko", snap.Languages.TargetCode)
	require.True(t, snap.OnboardingDone)
	require.Equal(t, items, snap.Notebook)

	v, err := repo.Get(ctx, store.KeySchemaVersion)
	require.NoError(t, err)
	require.Equal(t, "1", v.Value)
}

func TestStore_BadgerBackend(t *testing.T) {
	repo := testutil.NewBadgerRepo(t)
	st := store.New(repo, model.DefaultLanguagePref())
	ctx := context.Background()

	require.NoError(t, st.SaveOnboarding(ctx, true))
	snap, err := st.Load(ctx)
	require.NoError(t, err)
	require.True(t, snap.OnboardingDone)
}

func TestStore_UnsupportedLanguageFallsBack(t *testing.T) {
	st, repo := newSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, store.KeyNativeLang, "klingon"))
	require.NoError(t, repo.Set(ctx, store.KeyTargetLang, "es"))

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "en", snap.Languages.NativeCode)
	require.Equal(t, "es", snap.Languages.TargetCode)
}

func TestStore_CorruptNotebookIsEmpty(t *testing.T) {
	st, repo := newSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, store.KeyNotebook, "{not json"))

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, snap.Notebook)
}

func TestStore_SchemaTooNew(t *testing.T) {
	st, repo := newSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, store.KeySchemaVersion, "99"))

	_, err := st.Load(ctx)
	require.ErrorIs(t, err, store.ErrSchemaTooNew)

	err = st.SaveNotebook(ctx, nil)
	require.ErrorIs(t, err, store.ErrSchemaTooNew)

	raw, err := repo.Get(ctx, store.KeyNotebook)
	require.NoError(t, err)
	require.Nil(t, raw, "newer layout must not be overwritten")
}

func TestStore_SaveNotebook_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockSettingsRepository(ctrl)
	st := store.New(repo, model.DefaultLanguagePref())
	ctx := context.Background()

	repo.EXPECT().Get(ctx, store.KeySchemaVersion).Return(&model.Setting{Key: store.KeySchemaVersion, Value: "1"}, nil)
	repo.EXPECT().Set(ctx, store.KeyNotebook, "[]").Return(errors.New("disk full"))

	err := st.SaveNotebook(ctx, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "save notebook")
}

func TestStore_Load_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockSettingsRepository(ctrl)
	st := store.New(repo, model.DefaultLanguagePref())
	ctx := context.Background()

	repo.EXPECT().Get(ctx, store.KeySchemaVersion).Return(nil, nil)
	repo.EXPECT().Get(ctx, store.KeyNativeLang).Return(nil, errors.New("locked"))

	_, err := st.Load(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "load native lang")
}
