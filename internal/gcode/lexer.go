package gcode

import (
	"fmt"
	"strconv"
	"strings"
)

// splitComments separates the code part of a line from its comments.
// ';' comments run to end of line; '(' comments run to the next ')' or end of line.
func splitComments(raw string) (code string, comments []string) {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; c {
		case ';':
			comments = append(comments, raw[i+1:])
			return b.String(), comments
		case '(':
			end := strings.IndexByte(raw[i+1:], ')')
			if end < 0 {
				comments = append(comments, raw[i+1:])
				return b.String(), comments
			}
			comments = append(comments, raw[i+1:i+1+end])
			i += end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), comments
}

// stripChecksum drops a trailing "*NN" checksum.
func stripChecksum(code string) string {
	if i := strings.IndexByte(code, '*'); i >= 0 {
		return code[:i]
	}
	return code
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

// scanWord reads one word starting at s[i] (after optional whitespace) and returns it with
// the index just past it. A letter without a number is an error unless allowBare is set.
func scanWord(s string, i int, allowBare bool) (Word, int, error) {
	i = skipSpace(s, i)
	if i >= len(s) {
		return Word{}, i, fmt.Errorf("unexpected end of line")
	}
	c := s[i]
	if !isLetter(c) {
		return Word{}, i, fmt.Errorf("unexpected character %q", c)
	}
	letter := c &^ 0x20 // upper case
	i = skipSpace(s, i+1)

	j := i
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	digits := 0
	for j < len(s) && isDigit(s[j]) {
		j++
		digits++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}
	}
	if digits == 0 {
		if allowBare && j == i {
			return Word{Letter: letter, Bare: true}, i, nil
		}
		return Word{}, i, fmt.Errorf("word %c: missing number", letter)
	}

	v, err := strconv.ParseFloat(s[i:j], 64)
	if err != nil {
		return Word{}, i, fmt.Errorf("word %c: invalid number %q", letter, s[i:j])
	}
	return Word{Letter: letter, Value: v}, j, nil
}

// tokenize reads every remaining word of s.
func tokenize(s string, allowBare bool) ([]Word, error) {
	var words []Word
	i := skipSpace(s, 0)
	for i < len(s) {
		w, next, err := scanWord(s, i, allowBare)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
		i = skipSpace(s, next)
	}
	return words, nil
}

// codeName renders a code word as "G1", "G92.1". Leading zeros are dropped ("G01" -> "G1").
func codeName(w Word) string {
	return string(w.Letter) + strconv.FormatFloat(w.Value, 'f', -1, 64)
}
