package markup

import "strings"

// Segment is one part of a text or attribute value: literal text, or the
// inside of a {expr} interpolation.
type Segment struct {
	Text string
	Expr bool
}

// Split splits literal text from {expr} parts. An unterminated brace is kept
// as literal text.
func Split(data string) []Segment {
	var out []Segment
	for data != "" {
		start := strings.IndexByte(data, '{')
		if start < 0 {
			break
		}
		end := MatchBrace(data, start)
		if end < 0 {
			break
		}
		if start > 0 {
			out = append(out, Segment{Text: data[:start]})
		}
		out = append(out, Segment{Text: data[start+1 : end], Expr: true})
		data = data[end+1:]
	}
	if data != "" {
		out = append(out, Segment{Text: data})
	}
	return out
}

// MatchBrace returns the offset of the '}' closing the '{' at src[start], or
// -1. Braces inside JavaScript string and template literals are ignored.
func MatchBrace(src string, start int) int {
	depth := 0
	for i := start; i < len(src); i++ {
		switch c := src[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		case '"', '\'', '`':
			i = skipString(src, i)
			if i < 0 {
				return -1
			}
		}
	}
	return -1
}

func skipString(src string, start int) int {
	quote := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}
