package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"lingovibe/backend/internal/logger"
	"lingovibe/backend/internal/model"
	"lingovibe/backend/internal/snowflake"
	"lingovibe/backend/internal/store"
)

// StoryFallback is stored when narration returns no text.
const StoryFallback = "Could not generate story."

// Session is the state machine behind every presentation surface. Intents
// may arrive concurrently; State returns a consistent copy.
type Session interface {
	State() model.SessionState

	CompleteOnboarding(ctx context.Context, nativeLang, targetLang string) error
	ResetOnboarding(ctx context.Context) error
	SetLanguages(ctx context.Context, nativeLang, targetLang string) error
	SwapLanguages(ctx context.Context) error
	SetView(view model.ViewMode) error

	Search(ctx context.Context, query string) error
	ToggleSave(ctx context.Context) error
	OpenNotebookItem(id string) error
	SendChatMessage(ctx context.Context, text string) error
	GenerateStory(ctx context.Context) error

	FlashcardFlip() error
	FlashcardNext(ctx context.Context) error
	FlashcardPrev(ctx context.Context) error

	// SetPlaying mirrors the audio adapter's playing flag.
	SetPlaying(playing bool)
	// WaitBackground blocks until pending illustrations have been applied
	// or ctx is done. Callers must not start a search while waiting.
	WaitBackground(ctx context.Context) error
	// Close stops background illustration requests and waits for them.
	Close()
}

// SessionOptions tunes a session. Nil funcs select time.Now and snowflake ids.
type SessionOptions struct {
	// FlipDelay is the pause between turning a card face down and moving on.
	FlipDelay time.Duration
	Now       func() time.Time
	NewID     func() string
}

type session struct {
	store     store.Store
	gateway   Gateway
	flipDelay time.Duration
	now       func() time.Time
	newID     func() string

	bg     context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu sync.Mutex
	st model.SessionState
	// chatGen changes whenever the transcript is replaced; late replies
	// carrying an older value are dropped.
	chatGen uint64
}

// NewSession loads the persisted state and returns a ready session.
func NewSession(ctx context.Context, st store.Store, gateway Gateway, opts SessionOptions) (Session, error) {
	snap, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	s := &session{
		store:     st,
		gateway:   gateway,
		flipDelay: opts.FlipDelay,
		now:       opts.Now,
		newID:     opts.NewID,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = snowflake.NextString
	}
	s.bg, s.cancel = context.WithCancel(context.Background())

	s.st = model.SessionState{
		Phase:     model.PhaseOnboarding,
		View:      model.ViewSearch,
		Languages: snap.Languages,
		Chat:      []model.ChatMessage{},
		Notebook:  snap.Notebook,
	}
	if snap.OnboardingDone {
		s.st.Phase = model.PhaseActive
	}

	logger.Info("session loaded", "module", "service", "action", "load", "resource", "session", "result", "ok", "phase", s.st.Phase, "notebook", len(snap.Notebook))
	return s, nil
}

func (s *session) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.st
	if s.st.Result != nil {
		r := *s.st.Result
		r.Examples = slices.Clone(r.Examples)
		out.Result = &r
	}
	out.Chat = slices.Clone(s.st.Chat)
	out.Notebook = slices.Clone(s.st.Notebook)
	out.Saved = s.st.Result != nil && indexOfWord(s.st.Notebook, s.st.Result.TargetWord) >= 0
	return out
}

func (s *session) WaitBackground(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *session) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *session) CompleteOnboarding(ctx context.Context, nativeLang, targetLang string) error {
	pref := model.LanguagePref{NativeCode: nativeLang, TargetCode: targetLang}
	if !pref.Valid() {
		return fmt.Errorf("%w: unsupported language pair %s/%s", ErrInvalid, nativeLang, targetLang)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveLanguages(ctx, pref); err != nil {
		return fmt.Errorf("save languages: %w", err)
	}
	if err := s.store.SaveOnboarding(ctx, true); err != nil {
		return fmt.Errorf("save onboarding: %w", err)
	}
	s.st.Languages = pref
	s.st.Phase = model.PhaseActive
	logger.Info("onboarding completed", "module", "service", "action", "update", "resource", "session", "result", "ok", "native", nativeLang, "target", targetLang)
	return nil
}

func (s *session) ResetOnboarding(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveOnboarding(ctx, false); err != nil {
		return fmt.Errorf("save onboarding: %w", err)
	}
	s.st.Phase = model.PhaseOnboarding
	return nil
}

func (s *session) SetLanguages(ctx context.Context, nativeLang, targetLang string) error {
	pref := model.LanguagePref{NativeCode: nativeLang, TargetCode: targetLang}
	if !pref.Valid() {
		return fmt.Errorf("%w: unsupported language pair %s/%s", ErrInvalid, nativeLang, targetLang)
	}
	return s.saveLanguages(ctx, pref)
}

func (s *session) SwapLanguages(ctx context.Context) error {
	s.mu.Lock()
	pref := s.st.Languages.Swapped()
	s.mu.Unlock()
	return s.saveLanguages(ctx, pref)
}

func (s *session) saveLanguages(ctx context.Context, pref model.LanguagePref) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveLanguages(ctx, pref); err != nil {
		return fmt.Errorf("save languages: %w", err)
	}
	s.st.Languages = pref
	return nil
}

func (s *session) SetView(view model.ViewMode) error {
	if !view.Valid() {
		return fmt.Errorf("%w: unknown view %q", ErrInvalid, view)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if view == model.ViewFlashcards && s.st.View != model.ViewFlashcards {
		s.st.FlashcardIndex = 0
		s.st.Flipped = false
	}
	s.st.View = view
	return nil
}

func (s *session) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("%w: empty query", ErrPrecondition)
	}

	s.mu.Lock()
	if s.st.Searching {
		s.mu.Unlock()
		return fmt.Errorf("%w: search pending", ErrPrecondition)
	}
	s.st.Searching = true
	s.st.Result = nil
	s.resetChat()
	s.st.LastError = ""
	langs := s.st.Languages
	s.mu.Unlock()

	def, err := s.gateway.Define(ctx, query, langs.NativeCode, langs.TargetCode)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Searching = false
	if err != nil {
		logger.Warn("search failed", "module", "service", "action", "search", "resource", "session", "result", "failed", "query", query, "error", err)
		s.st.LastError = userMessage("search", err)
		return err
	}

	entry := &model.DictionaryEntry{
		ID:                s.newID(),
		Query:             query,
		TargetWord:        def.TargetWord,
		NativeExplanation: def.NativeExplanation,
		Examples:          def.Examples,
		CasualGuide:       def.CasualGuide,
		TargetLang:        langs.TargetCode,
		NativeLang:        langs.NativeCode,
	}
	s.st.Result = entry
	logger.Info("search completed", "module", "service", "action", "search", "resource", "session", "result", "ok", "entry_id", entry.ID, "target_word", entry.TargetWord)

	s.wg.Add(1)
	go s.illustrate(entry.ID, entry.TargetWord, entry.TargetLang)
	return nil
}

// illustrate applies the image only while entryID is still the current result.
func (s *session) illustrate(entryID, term, targetLang string) {
	defer s.wg.Done()

	url, err := s.gateway.Illustrate(s.bg, term, targetLang)
	if err != nil {
		logger.Warn("illustration failed", "module", "service", "action", "illustrate", "resource", "session", "result", "failed", "entry_id", entryID, "error", err)
		return
	}
	if url == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.Result == nil || s.st.Result.ID != entryID {
		logger.Debug("illustration discarded", "module", "service", "action", "illustrate", "resource", "session", "result", "ok", "entry_id", entryID, "reason", "stale")
		return
	}
	s.st.Result.ImageURL = url
}

func (s *session) ToggleSave(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.Result == nil {
		return fmt.Errorf("%w: no current result", ErrPrecondition)
	}
	word := s.st.Result.TargetWord

	var next []model.NotebookItem
	saved := false
	if indexOfWord(s.st.Notebook, word) >= 0 {
		next = slices.DeleteFunc(slices.Clone(s.st.Notebook), func(item model.NotebookItem) bool {
			return item.TargetWord == word
		})
	} else {
		item := model.NotebookItem{DictionaryEntry: *s.st.Result, SavedAt: s.now().UnixMilli()}
		item.Examples = slices.Clone(item.Examples)
		next = append([]model.NotebookItem{item}, s.st.Notebook...)
		saved = true
	}

	if err := s.store.SaveNotebook(ctx, next); err != nil {
		return fmt.Errorf("save notebook: %w", err)
	}
	s.st.Notebook = next
	s.clampFlashcard()
	logger.Info("notebook toggled", "module", "service", "action", "update", "resource", "notebook", "result", "ok", "target_word", word, "saved", saved, "size", len(next))
	return nil
}

func (s *session) OpenNotebookItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.st.Notebook, func(item model.NotebookItem) bool { return item.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: notebook item %s", ErrNotFound, id)
	}
	entry := s.st.Notebook[idx].DictionaryEntry
	entry.Examples = slices.Clone(entry.Examples)
	s.st.Result = &entry
	s.resetChat()
	s.st.View = model.ViewSearch
	return nil
}

func (s *session) SendChatMessage(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty message", ErrPrecondition)
	}

	s.mu.Lock()
	if s.st.Result == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: no current result", ErrPrecondition)
	}
	if s.st.Chatting {
		s.mu.Unlock()
		return fmt.Errorf("%w: reply pending", ErrBusy)
	}
	entryID := s.st.Result.ID
	gen := s.chatGen
	targetWord := s.st.Result.TargetWord
	langs := s.st.Languages
	history := slices.Clone(s.st.Chat)
	s.st.Chat = append(s.st.Chat, model.ChatMessage{Role: model.RoleUser, Text: text})
	s.st.Chatting = true
	s.mu.Unlock()

	reply, err := s.gateway.Converse(ctx, history, targetWord, langs.NativeCode, langs.TargetCode, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	// A new search or opened item owns the transcript now.
	if s.chatGen != gen {
		logger.Debug("chat reply discarded", "module", "service", "action", "chat", "resource", "session", "result", "ok", "entry_id", entryID, "reason", "stale")
		return nil
	}
	s.st.Chatting = false
	if err != nil {
		logger.Warn("chat failed", "module", "service", "action", "chat", "resource", "session", "result", "failed", "entry_id", entryID, "error", err)
		s.st.LastError = userMessage("chat", err)
		return err
	}
	s.st.Chat = append(s.st.Chat, model.ChatMessage{Role: model.RoleModel, Text: reply})
	return nil
}

func (s *session) GenerateStory(ctx context.Context) error {
	s.mu.Lock()
	if len(s.st.Notebook) < 2 {
		s.mu.Unlock()
		return fmt.Errorf("%w: story needs at least 2 saved words", ErrPrecondition)
	}
	if s.st.Generating {
		s.mu.Unlock()
		return fmt.Errorf("%w: story pending", ErrBusy)
	}
	words := make([]string, 0, len(s.st.Notebook))
	for _, item := range s.st.Notebook {
		words = append(words, item.TargetWord)
	}
	langs := s.st.Languages
	s.st.View = model.ViewStory
	s.st.Generating = true
	s.st.Story = ""
	s.st.LastError = ""
	s.mu.Unlock()

	story, err := s.gateway.Narrate(ctx, words, langs.NativeCode, langs.TargetCode)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Generating = false
	if err != nil {
		logger.Warn("story failed", "module", "service", "action", "story", "resource", "session", "result", "failed", "words", len(words), "error", err)
		s.st.LastError = userMessage("story", err)
		return err
	}
	if strings.TrimSpace(story) == "" {
		story = StoryFallback
	}
	s.st.Story = story
	return nil
}

func (s *session) FlashcardFlip() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.st.Notebook) == 0 {
		return fmt.Errorf("%w: notebook is empty", ErrPrecondition)
	}
	s.st.Flipped = !s.st.Flipped
	return nil
}

func (s *session) FlashcardNext(ctx context.Context) error {
	return s.moveFlashcard(ctx, 1)
}

func (s *session) FlashcardPrev(ctx context.Context) error {
	return s.moveFlashcard(ctx, -1)
}

// moveFlashcard turns the card to its front face, waits for the flip delay
// when it was showing the back, then moves the index circularly.
func (s *session) moveFlashcard(ctx context.Context, step int) error {
	s.mu.Lock()
	if len(s.st.Notebook) == 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: notebook is empty", ErrPrecondition)
	}
	wasFlipped := s.st.Flipped
	s.st.Flipped = false
	s.mu.Unlock()

	if wasFlipped && s.flipDelay > 0 {
		timer := time.NewTimer(s.flipDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.st.Notebook)
	if n == 0 {
		return nil
	}
	s.st.FlashcardIndex = ((s.st.FlashcardIndex+step)%n + n) % n
	return nil
}

func (s *session) SetPlaying(playing bool) {
	s.mu.Lock()
	s.st.Playing = playing
	s.mu.Unlock()
}

// resetChat starts a new transcript. Callers hold mu.
func (s *session) resetChat() {
	s.st.Chat = []model.ChatMessage{}
	s.st.Chatting = false
	s.chatGen++
}

// clampFlashcard keeps the index inside a shrunk notebook. Callers hold mu.
func (s *session) clampFlashcard() {
	if s.st.FlashcardIndex >= len(s.st.Notebook) {
		s.st.FlashcardIndex = 0
		s.st.Flipped = false
	}
}

func indexOfWord(items []model.NotebookItem, word string) int {
	return slices.IndexFunc(items, func(item model.NotebookItem) bool { return item.TargetWord == word })
}

// userMessage turns a gateway failure into text the UI can show.
func userMessage(op string, err error) string {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "AI provider is not configured"
	case errors.Is(err, context.DeadlineExceeded):
		return op + " timed out"
	default:
		return op + " failed, please try again"
	}
}
