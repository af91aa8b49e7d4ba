package ai

import (
	"fmt"
	"strings"
)

// GetDefinePrompt returns the system prompt for a dictionary lookup.
func GetDefinePrompt(nativeLang, targetLang string) string {
	return fmt.Sprintf(`You are a helpful AI dictionary. Return one JSON object describing the user's term.

<context>
<native_language>%s</native_language>
<target_language>%s</target_language>
</context>

<fields>
- targetWord: the main word or phrase in the language given in <target_language> that matches the user's intent
- nativeExplanation: a natural explanation written in the language given in <native_language>
- examples: an array of 2 objects { original: sentence in <target_language>, translation: the same sentence in <native_language> }
- casualGuide: a short, casual usage guide in <native_language> covering nuance, culture or tips
</fields>

<instructions>
1. Focus on accuracy and a clear distinction between the two languages
2. The query may be written in either language
3. Output ONLY the JSON object, no markdown
</instructions>`, nativeLang, targetLang)
}

// GetDefineContent returns the user turn for a dictionary lookup.
func GetDefineContent(query, nativeLang, targetLang string) string {
	return fmt.Sprintf(`User is searching for "%s" from %s to %s (or vice versa). Provide a detailed dictionary entry.`, query, targetLang, nativeLang)
}

// GetIllustratePrompt returns the image prompt for a term.
func GetIllustratePrompt(term, targetLang string) string {
	return fmt.Sprintf(`A clean, vibrant, 3D style concept illustration representing "%s" in the context of %s language. Simple white background, engaging.`, term, targetLang)
}

// GetTutorPrompt returns the system prompt for the per-entry tutor chat.
func GetTutorPrompt(targetWord, nativeLang, targetLang string) string {
	return fmt.Sprintf(`You are a friendly language tutor chatting with a student who just learned a new word.

<context>
<word>%s</word>
<target_language>%s</target_language>
<native_language>%s</native_language>
</context>

<instructions>
1. Keep your tone friendly, helpful, and concise
2. Stay on the word in <word> and how it is used in <target_language>
3. The student's native language is given in <native_language>; explain concepts in that language when it helps
4. NEVER use Markdown headings
</instructions>`, targetWord, targetLang, nativeLang)
}

// GetStoryPrompt returns the system prompt for a notebook story.
func GetStoryPrompt() string {
	return `You are a storyteller for language learners.

<instructions>
1. Write a story of about 100 words in the target language
2. Use every word from the list
3. After each sentence, add its translation into the explanation language in parentheses
4. Output plain text only
</instructions>`
}

// GetStoryContent returns the user turn for a notebook story.
func GetStoryContent(words []string, nativeLang, targetLang string) string {
	return fmt.Sprintf("Create a short, fun story using: %s. Target: %s, Explanations: %s.", strings.Join(words, ", "), targetLang, nativeLang)
}

// GetJSONInstruction appends the schema to a system prompt for providers
// without native structured output.
func GetJSONInstruction(systemPrompt string, schema *Schema) string {
	return fmt.Sprintf(`%s

<output_format>
Respond with a single JSON object matching this JSON Schema. Required keys: %s.
%s
</output_format>`, systemPrompt, strings.Join(schema.requiredKeys(), ", "), schema.String())
}
