package arena

import (
	"errors"
	"fmt"
)

// NodeErrorKind distinguishes the cases a NodeError can represent.
type NodeErrorKind int

const (
	// NodeErrorDuplicate indicates an attempt to push a child index
	// already present in a node's children.
	NodeErrorDuplicate NodeErrorKind = iota
)

// NodeError reports a failed mutation on a single Node/MutNode.
type NodeError struct {
	Kind  NodeErrorKind
	Child int
}

func (e *NodeError) Error() string {
	switch e.Kind {
	case NodeErrorDuplicate:
		return fmt.Sprintf("arena: node already contains child %d", e.Child)
	default:
		return "arena: node error"
	}
}

// ErrDuplicateChild constructs the NodeError for a duplicate-child push.
func ErrDuplicateChild(child int) *NodeError {
	return &NodeError{Kind: NodeErrorDuplicate, Child: child}
}

// TreeErrorKind distinguishes the cases a TreeError can represent.
type TreeErrorKind int

const (
	// TreeErrorMissingRoot: the tree has no root node.
	TreeErrorMissingRoot TreeErrorKind = iota
	// TreeErrorInvalidRoot: the designated root node has a parent.
	TreeErrorInvalidRoot
	// TreeErrorCycleDetected: a cycle was found in the parent relation.
	TreeErrorCycleDetected
	// TreeErrorDisjointNode: a non-root node has no parent.
	TreeErrorDisjointNode
	// TreeErrorIndexOutOfBounds: an index fell outside the arena.
	TreeErrorIndexOutOfBounds
	// TreeErrorParentConflict: a node already has a different parent.
	TreeErrorParentConflict
	// TreeErrorInvalidNodeReference: a node reference could not be
	// resolved to a node in the arena.
	TreeErrorInvalidNodeReference
	// TreeErrorNode: a wrapped NodeError (see TreeError.Err).
	TreeErrorNode
)

// TreeError reports a structural problem with an Arena.
type TreeError struct {
	Kind  TreeErrorKind
	Index int
	Len   int

	Expected int
	Parent   int
	Child    int

	// Err wraps an underlying NodeError for TreeErrorKind values produced
	// while delegating to a node mutation.
	Err error
}

func (e *TreeError) Error() string {
	switch e.Kind {
	case TreeErrorMissingRoot:
		return "arena: tree is missing a root node"
	case TreeErrorInvalidRoot:
		return fmt.Sprintf("arena: root node %d cannot have a parent", e.Index)
	case TreeErrorCycleDetected:
		return "arena: tree structure contains a cycle"
	case TreeErrorDisjointNode:
		return "arena: node is disjoint (no parent)"
	case TreeErrorIndexOutOfBounds:
		return fmt.Sprintf("arena: index %d is out of bounds for tree of length %d", e.Index, e.Len)
	case TreeErrorParentConflict:
		return fmt.Sprintf("arena: cannot add child %d to %d: %d is already its parent",
			e.Child, e.Expected, e.Parent)
	case TreeErrorInvalidNodeReference:
		return "arena: could not find node from reference"
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "arena: tree error"
	}
}

func (e *TreeError) Unwrap() error {
	return e.Err
}

// ErrMissingRoot reports that the arena has no root node.
func ErrMissingRoot() *TreeError {
	return &TreeError{Kind: TreeErrorMissingRoot}
}

// ErrIndexOutOfBounds reports an out-of-bounds index access.
func ErrIndexOutOfBounds(index, length int) *TreeError {
	return &TreeError{Kind: TreeErrorIndexOutOfBounds, Index: index, Len: length}
}

// ErrInvalidNodeReference reports that a node reference could not be
// resolved.
func ErrInvalidNodeReference() *TreeError {
	return &TreeError{Kind: TreeErrorInvalidNodeReference}
}

// ErrFromNode wraps a NodeError as a TreeError.
func ErrFromNode(err *NodeError) *TreeError {
	return &TreeError{Kind: TreeErrorNode, Err: err}
}

// Is allows errors.Is(err, ErrMissingRoot()) style comparisons by kind,
// ignoring the payload fields.
func (e *TreeError) Is(target error) bool {
	var t *TreeError
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}
