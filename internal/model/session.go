package model

// ViewMode is the active screen once onboarding is complete.
type ViewMode string

const (
	ViewSearch     ViewMode = "search"
	ViewNotebook   ViewMode = "notebook"
	ViewFlashcards ViewMode = "flashcards"
	ViewStory      ViewMode = "story"
)

// Valid reports whether v is a known view mode.
func (v ViewMode) Valid() bool {
	switch v {
	case ViewSearch, ViewNotebook, ViewFlashcards, ViewStory:
		return true
	}
	return false
}

// Phase is the top-level session state.
type Phase string

const (
	PhaseOnboarding Phase = "onboarding"
	PhaseActive     Phase = "active"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one turn of the per-entry tutor conversation.
type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// SessionState is a read-only snapshot of the session for presentation.
type SessionState struct {
	Phase          Phase            `json:"phase"`
	View           ViewMode         `json:"view"`
	Languages      LanguagePref     `json:"languages"`
	Result         *DictionaryEntry `json:"result"`
	Searching      bool             `json:"searching"`
	Chatting       bool             `json:"chatting"`
	Generating     bool             `json:"generating"`
	Playing        bool             `json:"playing"`
	Chat           []ChatMessage    `json:"chat"`
	Notebook       []NotebookItem   `json:"notebook"`
	Saved          bool             `json:"saved"`
	Story          string           `json:"story"`
	FlashcardIndex int              `json:"flashcardIndex"`
	Flipped        bool             `json:"flipped"`
	LastError      string           `json:"lastError,omitempty"`
}
