// Package format reprints generated component modules.
package format

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Message is one diagnostic reported by the formatter.
type Message struct {
	Line     int    `json:"line"`   // 1-based
	Column   int    `json:"column"` // 0-based
	Text     string `json:"text"`
	LineText string `json:"lineText,omitempty"`
}

// Error is returned when the module does not parse as JSX.
type Error struct {
	Messages []Message
}

func (e *Error) Error() string {
	if len(e.Messages) == 0 {
		return "format: invalid module"
	}
	m := e.Messages[0]
	msg := fmt.Sprintf("format: %d:%d: %s", m.Line, m.Column, m.Text)
	if n := len(e.Messages) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

// Source parses code as an ES module with JSX and prints it back in a
// canonical layout. JSX is kept as JSX.
func Source(code string) (string, error) {
	result := api.Transform(code, api.TransformOptions{
		Loader:     api.LoaderJSX,
		JSX:        api.JSXPreserve,
		Charset:    api.CharsetUTF8,
		Sourcefile: "component.jsx",
	})

	if len(result.Errors) > 0 {
		return "", newError(result.Errors)
	}
	return string(result.Code), nil
}

func newError(msgs []api.Message) *Error {
	e := &Error{Messages: make([]Message, 0, len(msgs))}
	for _, m := range msgs {
		out := Message{Text: strings.TrimSpace(m.Text)}
		if m.Location != nil {
			out.Line = m.Location.Line
			out.Column = m.Location.Column
			out.LineText = m.Location.LineText
		}
		e.Messages = append(e.Messages, out)
	}
	return e
}
