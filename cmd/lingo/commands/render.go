package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"lingovibe/backend/internal/model"
)

var (
	accent = lipgloss.Color("#ff6f91")
	dim    = lipgloss.Color("#6e7681")

	wordStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(dim)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555"))
)

// renderEntry formats a dictionary card.
func renderEntry(e *model.DictionaryEntry, saved bool) string {
	var b strings.Builder
	title := wordStyle.Render(e.TargetWord)
	if saved {
		title += " " + dimStyle.Render("(saved)")
	}
	b.WriteString(title + "\n")
	if e.Query != "" && e.Query != e.TargetWord {
		b.WriteString(dimStyle.Render("searched: "+e.Query) + "\n")
	}
	b.WriteString("\n" + e.NativeExplanation + "\n")

	if len(e.Examples) > 0 {
		b.WriteString("\n" + labelStyle.Render("Examples") + "\n")
		for _, ex := range e.Examples {
			fmt.Fprintf(&b, "• %s\n  %s\n", ex.Original, dimStyle.Render(ex.Translation))
		}
	}
	if e.CasualGuide != "" {
		b.WriteString("\n" + labelStyle.Render("Casual guide") + "\n" + e.CasualGuide + "\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderNotebook formats the saved items as a list, newest first.
func renderNotebook(items []model.NotebookItem) string {
	if len(items) == 0 {
		return dimStyle.Render("Notebook is empty.")
	}
	var b strings.Builder
	for _, item := range items {
		saved := time.UnixMilli(item.SavedAt).Format("2006-01-02")
		fmt.Fprintf(&b, "%s  %s  %s\n", dimStyle.Render(item.ID), wordStyle.Render(item.TargetWord), dimStyle.Render(saved))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderLanguages(pref model.LanguagePref) string {
	return fmt.Sprintf("%s %s %s",
		labelStyle.Render(model.LanguageName(pref.NativeCode)),
		dimStyle.Render("→"),
		wordStyle.Render(model.LanguageName(pref.TargetCode)))
}

func renderError(msg string) string {
	return errStyle.Render(msg)
}
