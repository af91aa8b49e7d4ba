package commands

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lingovibe/backend/internal/model"
)

func TestRenderEntry(t *testing.T) {
	e := &model.DictionaryEntry{
		Query:             "cat",
		TargetWord:        "猫",
		NativeExplanation: "A small furry animal.",
		Examples:          []model.ExampleSentence{{Original: "猫がいる。", Translation: "There is a cat."}},
		CasualGuide:       "Also read neko.",
	}
	out := renderEntry(e, true)
	for _, want := range []string{"猫", "(saved)", "searched: cat", "A small furry animal.", "猫がいる。", "There is a cat.", "Also read neko."} {
		require.Contains(t, out, want)
	}
}

func TestRenderNotebook(t *testing.T) {
	require.Contains(t, renderNotebook(nil), "empty")

	out := renderNotebook([]model.NotebookItem{
		{DictionaryEntry: model.DictionaryEntry{ID: "7", TargetWord: "犬"}, SavedAt: 1_700_000_000_000},
	})
	require.Contains(t, out, "7")
	require.Contains(t, out, "犬")
	require.Contains(t, out, "2023-11-1")
}

func TestRenderLanguages(t *testing.T) {
	out := renderLanguages(model.LanguagePref{NativeCode: "en", TargetCode: "ja"})
	require.Contains(t, out, "English")
	require.Contains(t, out, "Japanese")
}
