package prompt

import (
	"io"
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		name, input, def, want string
	}{
		{"answer", "components\n", "src", "components"},
		{"default", "\n", "src", "src"},
		{"trimmed", "  ui  \n", "", "ui"},
		{"eof", "", "dist", "dist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(strings.NewReader(tt.input), io.Discard)
			if got := p.Text("Source", tt.def); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestText_PrintsDefault(t *testing.T) {
	var out strings.Builder
	New(strings.NewReader("\n"), &out).Text("Source directory", "src")
	if out.String() != "Source directory [src]: " {
		t.Errorf("unexpected prompt %q", out.String())
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input      string
		defaultYes bool
		want       bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"maybe\n", true, false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p := New(strings.NewReader(tt.input), io.Discard)
			if got := p.Confirm("Format?", tt.defaultYes); got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	options := []string{".jsx", ".tsx", ".js"}
	tests := []struct {
		input string
		want  int
	}{
		{"2\n", 1},
		{"\n", 0},
		{".JS\n", 2},
		{"9\n", 0},
		{"other\n", 0},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p := New(strings.NewReader(tt.input), io.Discard)
			if got := p.Select("Extension", options, 0); got != tt.want {
				t.Errorf("Select() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInt(t *testing.T) {
	p := New(strings.NewReader("8080\nabc\n"), io.Discard)
	if got := p.Int("Port", 5180); got != 8080 {
		t.Errorf("Int() = %d, want 8080", got)
	}
	if got := p.Int("Port", 5180); got != 5180 {
		t.Errorf("Int() with bad input = %d, want the default", got)
	}
}

func TestSequence(t *testing.T) {
	p := New(strings.NewReader("app\ny\n3\n"), io.Discard)
	if p.Text("Source", "src") != "app" || !p.Confirm("Format?", false) || p.Select("Ext", []string{"a", "b", "c"}, 0) != 2 {
		t.Error("answers should be consumed one line at a time")
	}
}
