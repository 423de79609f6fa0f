package sfc

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedBlock is matched by every BlockError.
	ErrUnsupportedBlock = errors.New("unsupported template block")
	// ErrUnsupportedDirective is matched by every DirectiveError.
	ErrUnsupportedDirective = errors.New("unsupported directive")
)

// BlockError reports a logic block such as {#if} or {@html} in the markup.
type BlockError struct {
	Parent *int // nil at the top level
	Block  string
}

func (e *BlockError) Error() string {
	block := e.Block
	if len(block) > 40 {
		block = block[:40] + "..."
	}
	if e.Parent != nil {
		return fmt.Sprintf("node %d: template block %s is not supported", *e.Parent, block)
	}
	return fmt.Sprintf("template block %s is not supported", block)
}

func (e *BlockError) Is(target error) bool {
	return target == ErrUnsupportedBlock
}

// DirectiveError reports an element directive that has no React equivalent,
// such as bind:value or a forwarded on:click without a handler.
type DirectiveError struct {
	Index     int
	Directive string
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("node %d: directive %s is not supported", e.Index, e.Directive)
}

func (e *DirectiveError) Is(target error) bool {
	return target == ErrUnsupportedDirective
}
