package hierarchy

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrCycle        = errors.New("hierarchy_cycle")
	ErrNodeNotFound = errors.New("hierarchy_node_not_found")
)

// Node is a tree node addressed by an integer id with an optional parent.
type Node interface {
	NodeID() int
	ParentNodeID() *int
}

// NodeFinder looks nodes up by id. Implementations return ErrNodeNotFound
// (possibly wrapped) when the id does not exist.
type NodeFinder interface {
	FindNode(ctx context.Context, id int) (Node, error)
}

type NodeFinderFunc func(ctx context.Context, id int) (Node, error)

func (f NodeFinderFunc) FindNode(ctx context.Context, id int) (Node, error) { return f(ctx, id) }

// CycleError reports that attaching SubjectID under CandidateParentID would
// close a loop in the parent graph. SubjectID is nil for creations.
type CycleError struct {
	SubjectID         *int
	CandidateParentID int
}

func (e *CycleError) Error() string {
	if e.SubjectID == nil {
		return fmt.Sprintf("%s: parent %d is part of a cycle", ErrCycle, e.CandidateParentID)
	}
	return fmt.Sprintf("%s: node %d cannot be attached under %d", ErrCycle, *e.SubjectID, e.CandidateParentID)
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

func IsCycle(err error) bool {
	_, ok := errors.AsType[*CycleError](err)
	return ok
}

// ValidateNoCycle walks up from candidateParentID to the root and fails when
// it meets subjectID or revisits a node. Lookup failures other than a missing
// node are returned unchanged.
func ValidateNoCycle(ctx context.Context, store NodeFinder, candidateParentID *int, subjectID *int) error {
	if candidateParentID == nil {
		return nil
	}

	visited := make(map[int]struct{})
	current := candidateParentID
	for current != nil {
		id := *current
		if _, seen := visited[id]; seen {
			return &CycleError{SubjectID: subjectID, CandidateParentID: *candidateParentID}
		}
		if subjectID != nil && id == *subjectID {
			return &CycleError{SubjectID: subjectID, CandidateParentID: *candidateParentID}
		}
		visited[id] = struct{}{}

		if err := ctx.Err(); err != nil {
			return err
		}
		node, err := store.FindNode(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNodeNotFound) {
				return nil
			}
			return err
		}
		current = node.ParentNodeID()
	}
	return nil
}
