package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasRepeatedPhrases(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"repeated word", "help help help help help", true},
		{"repeated phrase", "thank you. thank you. thank you.", true},
		{"normal speech", "The quick brown fox", false},
		{"two repeats only", "hello hello", false},
		{"short repeats", "ha ha ha ha ha", false},
		{"empty", "", false},
		{"long clean text", "This is a perfectly ordinary sentence about nothing in particular.", false},
		{"repeats without separator", strings.Repeat("abcdef", 4), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasRepeatedPhrases(tt.in))
		})
	}
}

func TestContainsMixedScripts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"latin plus cyrillic", "hello мир", true},
		{"latin plus cjk", "hello 世界", true},
		{"latin plus arabic", "hello مرحبا", true},
		{"latin only", "The quick brown fox", false},
		{"cyrillic only", "привет мир", false},
		{"cjk only", "你好世界", false},
		{"digits and punctuation", "1234 !?", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsMixedScripts(tt.in))
		})
	}
}
