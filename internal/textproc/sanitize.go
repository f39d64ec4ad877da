package textproc

import (
	"regexp"
	"strings"
)

var markdownPattern = regexp.MustCompile("[*_~`#\\[\\]()<>]")

var emojiPattern = compileEmojiPattern()

// compileEmojiPattern builds the emoji-stripping class. The wide class covers
// the common emoji blocks plus the enclosed/dingbat ranges; if it fails to
// compile we fall back to a narrower class instead of failing.
func compileEmojiPattern() *regexp.Regexp {
	re, err := regexp.Compile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}\x{2702}-\x{27B0}\x{1F900}-\x{1F9FF}\x{2600}-\x{26FF}\x{FE00}-\x{FE0F}]+`)
	if err != nil {
		return regexp.MustCompile(`[\x{2600}-\x{26FF}\x{2700}-\x{27BF}]+`)
	}
	return re
}

// CleanForSpeech strips markdown marker characters and emoji from a sentence
// so the speech engine does not vocalize formatting symbols. Total: never
// fails, returns "" when nothing speakable remains.
func CleanForSpeech(text string) string {
	text = markdownPattern.ReplaceAllString(text, "")
	text = emojiPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
