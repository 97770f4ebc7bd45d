package js

import (
	"fmt"
)

// Error is a semantic error at the node spanning [Start,End) of the source, eg. a re-declared let or an assignment to a const.
type Error struct {
	Message    string
	Start, End int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Message, e.Start)
}

// InternalError is raised when the generated edits are inconsistent, it is always a defect in the code generator.
type InternalError struct {
	Message string
	Offset  int
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s at offset %d", e.Message, e.Offset)
}

// abort is the panic value used to unwind a pass when an error is found deep inside the tree.
type abort struct {
	err error
}
