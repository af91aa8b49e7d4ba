package handler

import (
	"strings"

	"lingovibe/backend/internal/model"
)

// maxTextLen bounds free text sent to the AI provider.
const maxTextLen = 2000

func validText(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && len(s) <= maxTextLen
}

func isValidView(v string) bool {
	return model.ViewMode(v).Valid()
}
