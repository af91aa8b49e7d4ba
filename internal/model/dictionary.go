package model

// ExampleSentence pairs a target-language sentence with its translation.
type ExampleSentence struct {
	Original    string `json:"original"    jsonschema:"example sentence in the target language"`
	Translation string `json:"translation" jsonschema:"translation of the sentence in the native language"`
}

// Definition is the structured payload returned by the define call.
type Definition struct {
	TargetWord        string            `json:"targetWord"        jsonschema:"the word or phrase in the target language"`
	NativeExplanation string            `json:"nativeExplanation" jsonschema:"a clear explanation in the native language"`
	Examples          []ExampleSentence `json:"examples"          jsonschema:"two example sentences"`
	CasualGuide       string            `json:"casualGuide"       jsonschema:"a casual note on nuance, culture or usage tips"`
}

// DictionaryEntry is one searched term.
type DictionaryEntry struct {
	ID                string            `json:"id"`
	Query             string            `json:"query"`
	TargetWord        string            `json:"targetWord"`
	NativeExplanation string            `json:"nativeExplanation"`
	Examples          []ExampleSentence `json:"examples"`
	CasualGuide       string            `json:"casualGuide"`
	ImageURL          string            `json:"imageUrl,omitempty"`
	TargetLang        string            `json:"targetLang"`
	NativeLang        string            `json:"nativeLang"`
}

// NotebookItem is a saved entry. SavedAt is Unix milliseconds.
type NotebookItem struct {
	DictionaryEntry
	SavedAt int64 `json:"savedAt"`
}
