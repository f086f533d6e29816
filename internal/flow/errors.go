package flow

import "fmt"

// BrokenRefError reports a reference pointer whose target file no longer
// exists. A dangling reference is an integrity failure, never a
// silently-empty value.
type BrokenRefError struct {
	// Node identifies the owner of the reference: the node title (or id
	// when untitled), or "main descriptor" for the graph's node list.
	Node string
	// Path is the reference as written in the descriptor.
	Path string
}

func (e *BrokenRefError) Error() string {
	return fmt.Sprintf("broken reference in %s: %s does not exist", e.Node, e.Path)
}

// DuplicateTitleError reports two nodes whose titles sanitize to the
// same descriptor file name. Decomposing such a document would silently
// lose one of the nodes, so it is refused instead.
type DuplicateTitleError struct {
	Title string
	Other string
	Base  string
}

func (e *DuplicateTitleError) Error() string {
	return fmt.Sprintf("node titles %q and %q both map to descriptor name %q; retitle one of the nodes", e.Other, e.Title, e.Base)
}

// MissingFieldError reports a descriptor file lacking a field the
// composer requires.
type MissingFieldError struct {
	Path  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("descriptor %s is missing required field %q", e.Path, e.Field)
}
