// Package codec implements the at-rest text format of the event catalog: a
// shift cipher for light obfuscation and the two-line-per-event record layout.
package codec

// Shift is the rotation applied to every stored text field.
const Shift = 32

const (
	printableMin  = 32
	printableMax  = 126
	printableSpan = printableMax - printableMin + 1

	fieldSep = '|'
)

// Obfuscate rotates every printable ASCII character of text by shift places
// within the printable range. The field separator and characters outside the
// range are copied unchanged. The single character that would rotate onto the
// separator is rotated once more, which keeps the mapping reversible.
// This is obfuscation, not encryption.
func Obfuscate(text string, shift int) string {
	return rotateText(text, shift)
}

// Deobfuscate reverses Obfuscate for the same shift.
func Deobfuscate(text string, shift int) string {
	return rotateText(text, -shift)
}

func rotateText(text string, shift int) string {
	b := []byte(text)
	for i, c := range b {
		if c == fieldSep || c < printableMin || c > printableMax {
			continue
		}
		r := rotate(c, shift)
		for r == fieldSep {
			r = rotate(r, shift)
		}
		b[i] = r
	}
	return string(b)
}

func rotate(c byte, shift int) byte {
	n := (int(c) - printableMin + shift) % printableSpan
	if n < 0 {
		n += printableSpan
	}
	return byte(printableMin + n)
}
