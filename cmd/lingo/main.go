// Package main provides the LingoVibe command line client.
//
// Usage:
//
//	lingo [flags] <command> [args]
//
// Commands:
//
//	define   - Look up a word or phrase
//	say      - Pronounce text on the speaker or into a WAV file
//	notebook - List, save and remove notebook words
//	story    - Write a short story from the notebook
//	lang     - Show, set or swap the language pair
//	settings - Show or test the AI provider settings
//
// The CLI shares the server's configuration file and store.
package main

import (
	"fmt"
	"os"

	"lingovibe/backend/cmd/lingo/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
