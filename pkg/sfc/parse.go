// Package sfc reads single-file components: markup with embedded <script>
// and <style> blocks. Parse splits a file into its parts and Flatten turns the
// markup into the flat node list the code generator consumes.
package sfc

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Extension is the file extension of component sources.
const Extension = ".svelte"

// File is a parsed component file.
type File struct {
	// Filename is the base name without extension.
	Filename string
	// Code is the content of every <script> block, in order.
	Code string
	// Tags are the top-level markup nodes, without script and style blocks.
	Tags []*html.Node
	// Styles is the content of every <style> block. It is not compiled.
	Styles string
}

// Parse splits src into script, style and markup.
func Parse(filename string, src []byte) (*File, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(quoteExpressions(string(src))), body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup of %s: %w", filename, err)
	}

	f := &File{Filename: BaseName(filename)}
	var scripts, styles []string
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script:
				scripts = append(scripts, strings.TrimSpace(textContent(n)))
				continue
			case atom.Style:
				styles = append(styles, strings.TrimSpace(textContent(n)))
				continue
			}
		}
		f.Tags = append(f.Tags, n)
	}

	f.Code = strings.Join(scripts, "\n")
	f.Styles = strings.Join(styles, "\n")
	return f, nil
}

// BaseName returns the file name of path without directory or extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
