// Package types defines the shared data structures for SaveUtils: the
// tagged JSON Value tree that backs a save document, and the small
// command/result types passed between the shell engine and its front-ends.
package types

// Intent is the parsed representation of a shell command.
type Intent struct {
	Verb   string
	Object string // optional sub-command, e.g. "add"
	Target string // optional argument, e.g. "500"
	Extra  string // optional second argument
}

// Result is the output of a single shell step.
type Result struct {
	Output  []string
	Changed bool     // the document was mutated by this step
	Touched []string // top-level keys written by this step
	Err     error
}
