package sfc

import (
	"strings"

	"github.com/recera/reactify/pkg/markup"
)

var (
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;")
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;")
)

// quoteExpressions prepares component markup for the HTML tokenizer. An
// attribute value written as {expr} becomes "{expr}", a shorthand attribute
// {name} becomes name="{name}", and '<' inside a text {expr} is escaped so it
// cannot open a tag. Script and style bodies and comments are copied as is.
func quoteExpressions(src string) string {
	var b strings.Builder
	b.Grow(len(src) + len(src)/8)

	i := 0
	for i < len(src) {
		switch c := src[i]; {
		case strings.HasPrefix(src[i:], "<!--"):
			end := strings.Index(src[i+4:], "-->")
			if end < 0 {
				b.WriteString(src[i:])
				return b.String()
			}
			end += i + 4 + 3
			b.WriteString(src[i:end])
			i = end

		case c == '<' && i+1 < len(src) && isLetter(src[i+1]):
			i = quoteTag(&b, src, i)

		case c == '{':
			end := markup.MatchBrace(src, i)
			if end < 0 {
				b.WriteString(src[i:])
				return b.String()
			}
			b.WriteString(textEscaper.Replace(src[i : end+1]))
			i = end + 1

		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// quoteTag copies the start tag at src[start] and returns the offset after
// it. For script and style the raw body up to the close tag is copied too.
func quoteTag(b *strings.Builder, src string, start int) int {
	i := start + 1
	for i < len(src) && !isSpace(src[i]) && src[i] != '>' && src[i] != '/' {
		i++
	}
	name := strings.ToLower(src[start+1 : i])
	b.WriteString(src[start:i])

	for i < len(src) {
		c := src[i]
		switch {
		case c == '>':
			b.WriteByte(c)
			i++
			if name == "script" || name == "style" {
				return copyRaw(b, src, i, name)
			}
			return i

		case c == '"' || c == '\'':
			end := strings.IndexByte(src[i+1:], c)
			if end < 0 {
				b.WriteString(src[i:])
				return len(src)
			}
			end += i + 1
			b.WriteString(src[i : end+1])
			i = end + 1

		case c == '=':
			b.WriteByte(c)
			i++
			for i < len(src) && isSpace(src[i]) {
				i++
			}
			if i < len(src) && src[i] == '{' {
				end := markup.MatchBrace(src, i)
				if end < 0 {
					b.WriteString(src[i:])
					return len(src)
				}
				b.WriteString(`"` + attrEscaper.Replace(src[i:end+1]) + `"`)
				i = end + 1
			}

		case c == '{':
			// Shorthand attribute {name}
			end := markup.MatchBrace(src, i)
			if end < 0 {
				b.WriteString(src[i:])
				return len(src)
			}
			inner := strings.TrimSpace(src[i+1 : end])
			b.WriteString(inner + `="` + attrEscaper.Replace("{"+inner+"}") + `"`)
			i = end + 1

		default:
			b.WriteByte(c)
			i++
		}
	}
	return i
}

func copyRaw(b *strings.Builder, src string, i int, name string) int {
	end := strings.Index(strings.ToLower(src[i:]), "</"+name)
	if end < 0 {
		b.WriteString(src[i:])
		return len(src)
	}
	b.WriteString(src[i : i+end])
	return i + end
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
