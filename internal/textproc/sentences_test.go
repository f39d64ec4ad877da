package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentencesNoTerminator(t *testing.T) {
	sentences, remainder := SplitSentences("this has no terminal punctuation")
	assert.Empty(t, sentences)
	assert.Equal(t, "this has no terminal punctuation", remainder)
}

func TestSplitSentencesAbbreviations(t *testing.T) {
	sentences, remainder := SplitSentences("Dr. Smith arrived. He left.")
	require.Len(t, sentences, 2)
	assert.Equal(t, "Dr. Smith arrived.", sentences[0])
	assert.Equal(t, "He left.", sentences[1])
	assert.Empty(t, remainder)
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		sentences []string
		remainder string
	}{
		{
			name:      "empty",
			in:        "",
			sentences: nil,
			remainder: "",
		},
		{
			name:      "trailing fragment",
			in:        "First one. Second one! And then",
			sentences: []string{"First one.", "Second one!"},
			remainder: "And then",
		},
		{
			name:      "question and exclamation",
			in:        "Really? Yes! Good.",
			sentences: []string{"Really?", "Yes!", "Good."},
			remainder: "",
		},
		{
			name:      "closing quote after period",
			in:        `He said "stop." Then he ran`,
			sentences: []string{`He said "stop."`},
			remainder: "Then he ran",
		},
		{
			name:      "ellipsis run",
			in:        "Wait... okay then",
			sentences: []string{"Wait..."},
			remainder: "okay then",
		},
		{
			name:      "mixed case abbreviation",
			in:        "See MR. Jones tomorrow. Sure thing",
			sentences: []string{"See MR. Jones tomorrow."},
			remainder: "Sure thing",
		},
		{
			name:      "latin abbreviations",
			in:        "Use butter, sugar, etc. in the recipe. Mix well",
			sentences: []string{"Use butter, sugar, etc. in the recipe."},
			remainder: "Mix well",
		},
		{
			name:      "single complete sentence at end of text",
			in:        "The buffer ends here.",
			sentences: []string{"The buffer ends here."},
			remainder: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentences, remainder := SplitSentences(tt.in)
			assert.Equal(t, tt.sentences, sentences)
			assert.Equal(t, tt.remainder, remainder)
		})
	}
}

// Segmenting a stream in two chunks with the remainder carried over must give
// the same boundaries as segmenting the concatenation in one call.
func TestSplitSentencesIncremental(t *testing.T) {
	const a = "Dr. Smith arrived. He sat do"
	const b = "wn. Then he left! The end"

	wantSentences, wantRemainder := SplitSentences(a + b)

	gotSentences, rest := SplitSentences(a)
	more, gotRemainder := SplitSentences(rest + b)
	gotSentences = append(gotSentences, more...)

	assert.Equal(t, wantSentences, gotSentences)
	assert.Equal(t, wantRemainder, gotRemainder)
}
