// Package textproc holds the pure text-processing helpers used around the
// streaming chat pipeline: incremental sentence segmentation for speech
// synthesis, sanitization of sentences before they are spoken, and detection
// of garbled transcripts coming back from the speech-to-text engine.
package textproc

import (
	"regexp"
	"strings"
)

// Abbreviations whose trailing period must not be treated as a sentence
// boundary. Fixed and not locale-aware.
var abbrevPattern = regexp.MustCompile(`(?i)\b(Mr|Mrs|Ms|Dr|Prof|Sr|Jr|vs|etc|i\.e|e\.g|Inc|Ltd|Corp|Co)\.`)

// A boundary is one or more terminal punctuation marks, optionally followed
// by closing quotes or brackets, then whitespace or end of text.
var boundaryPattern = regexp.MustCompile(`[.!?]+["')\]]*(\s+|$)`)

// abbrevMark temporarily replaces a protected period during splitting. NUL
// cannot appear in model output delivered as valid UTF-8 text.
const abbrevMark = "\x00"

// SplitSentences splits accumulated text into complete sentences and a
// trailing remainder that is not yet terminated. A sentence is complete when
// it ends in terminal punctuation (respecting the abbreviation list) followed
// by whitespace or the end of the input.
//
// The function is idempotent across incremental accumulation: segmenting
// buffer A and then remainder(A)+B yields the same boundaries as segmenting
// A+B in one call.
func SplitSentences(text string) (sentences []string, remainder string) {
	protected := abbrevPattern.ReplaceAllString(text, "$1"+abbrevMark)

	last := 0
	for _, loc := range boundaryPattern.FindAllStringIndex(protected, -1) {
		sentence := strings.TrimSpace(protected[last:loc[1]])
		if sentence != "" {
			sentences = append(sentences, restore(sentence))
		}
		last = loc[1]
	}
	return sentences, restore(strings.TrimSpace(protected[last:]))
}

func restore(s string) string {
	return strings.ReplaceAll(s, abbrevMark, ".")
}
