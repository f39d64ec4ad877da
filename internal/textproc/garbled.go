package textproc

import "unicode"

// Transcript scans are bounded so a pathological input cannot stall the
// request; real dictation transcripts are far shorter.
const maxGarbledScan = 2000

// HasRepeatedPhrases reports whether the text contains a chunk of at least 5
// characters repeated 3 or more times consecutively, optionally separated by
// whitespace. This is a known failure mode of the speech-to-text engine on
// silence or noise. RE2 has no backreferences, so the scan is done by hand.
func HasRepeatedPhrases(text string) bool {
	runes := []rune(text)
	if len(runes) > maxGarbledScan {
		runes = runes[:maxGarbledScan]
	}
	n := len(runes)

	for i := 0; i < n; i++ {
		// Three occurrences of an l-rune chunk need at least 3*l runes.
		for l := 5; l <= (n-i)/3; l++ {
			chunk := runes[i : i+l]
			reps := 0
			j := i + l
			for {
				k := j
				for k < n && unicode.IsSpace(runes[k]) {
					k++
				}
				if k+l > n || !runesEqual(runes[k:k+l], chunk) {
					break
				}
				reps++
				j = k + l
			}
			if reps >= 2 {
				return true
			}
		}
	}
	return false
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ContainsMixedScripts reports whether the text mixes characters from more
// than one of the Latin, Arabic, Cyrillic and CJK scripts, which indicates a
// confused transcription rather than real speech.
func ContainsMixedScripts(text string) bool {
	var latin, arabic, cyrillic, cjk bool
	for _, r := range text {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin = true
		case r >= 0x0600 && r <= 0x06FF:
			arabic = true
		case r >= 0x0400 && r <= 0x04FF:
			cyrillic = true
		case r >= 0x4E00 && r <= 0x9FFF:
			cjk = true
		}
	}

	count := 0
	for _, present := range []bool{latin, arabic, cyrillic, cjk} {
		if present {
			count++
		}
	}
	return count > 1
}
