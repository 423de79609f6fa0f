package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter handles line-oriented prompts
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// New creates a prompter reading answers from r and writing questions to w
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(r),
		out:    w,
	}
}

func (p *Prompter) readLine() string {
	input, _ := p.reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// Text prompts for text input
func (p *Prompter) Text(prompt, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Fprintf(p.out, "%s: ", prompt)
	}

	input := p.readLine()
	if input == "" {
		return defaultValue
	}
	return input
}

// Int prompts for a number. Input that is not a number keeps the default.
func (p *Prompter) Int(prompt string, defaultValue int) int {
	input := p.Text(prompt, strconv.Itoa(defaultValue))
	n, err := strconv.Atoi(input)
	if err != nil {
		fmt.Fprintln(p.out, "Not a number, using default.")
		return defaultValue
	}
	return n
}

// Confirm prompts for yes/no confirmation
func (p *Prompter) Confirm(prompt string, defaultYes bool) bool {
	defaultStr := "y/N"
	if defaultYes {
		defaultStr = "Y/n"
	}

	fmt.Fprintf(p.out, "%s [%s]: ", prompt, defaultStr)

	input := strings.ToLower(p.readLine())
	if input == "" {
		return defaultYes
	}
	return input == "y" || input == "yes"
}

// Select prompts for selection from options
func (p *Prompter) Select(prompt string, options []string, defaultIndex int) int {
	fmt.Fprintln(p.out, prompt)
	for i, option := range options {
		if i == defaultIndex {
			fmt.Fprintf(p.out, "  > %d) %s (default)\n", i+1, option)
		} else {
			fmt.Fprintf(p.out, "    %d) %s\n", i+1, option)
		}
	}

	fmt.Fprintf(p.out, "Enter choice [%d]: ", defaultIndex+1)

	input := p.readLine()
	if input == "" {
		return defaultIndex
	}

	// Try to parse as number
	if choice, err := strconv.Atoi(input); err == nil {
		if choice >= 1 && choice <= len(options) {
			return choice - 1
		}
	}

	// Try to match by name
	for i, option := range options {
		if strings.EqualFold(option, input) {
			return i
		}
	}

	fmt.Fprintln(p.out, "Invalid choice, using default.")
	return defaultIndex
}
