package hierarchy

import (
	"context"
	"errors"
	"testing"
)

type testNode struct {
	id     int
	parent *int
}

func (n testNode) NodeID() int        { return n.id }
func (n testNode) ParentNodeID() *int { return n.parent }

type mapFinder struct {
	nodes map[int]testNode
	calls int
	err   error
}

func (m *mapFinder) FindNode(_ context.Context, id int) (Node, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	n, ok := m.nodes[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	return n, nil
}

func ptr(v int) *int { return &v }

// chain: A(1) root, B(2) under A, C(3) under B, Z(9) separate root.
func chainFinder() *mapFinder {
	return &mapFinder{nodes: map[int]testNode{
		1: {id: 1},
		2: {id: 2, parent: ptr(1)},
		3: {id: 3, parent: ptr(2)},
		9: {id: 9},
	}}
}

func TestValidateNoCycle_NilParentAlwaysSucceeds(t *testing.T) {
	f := &mapFinder{err: errors.New("store down")}
	for _, subject := range []*int{nil, ptr(1), ptr(42)} {
		if err := ValidateNoCycle(context.Background(), f, nil, subject); err != nil {
			t.Fatalf("subject=%v err=%v", subject, err)
		}
	}
	if f.calls != 0 {
		t.Fatalf("calls=%d", f.calls)
	}
}

func TestValidateNoCycle_SelfParentRejected(t *testing.T) {
	f := chainFinder()
	for _, id := range []int{1, 2, 3, 9, 77} {
		err := ValidateNoCycle(context.Background(), f, ptr(id), ptr(id))
		if !IsCycle(err) {
			t.Fatalf("id=%d err=%v", id, err)
		}
		if !errors.Is(err, ErrCycle) {
			t.Fatalf("expected ErrCycle match, got %v", err)
		}
	}
}

func TestValidateNoCycle_DescendantAsParentRejected(t *testing.T) {
	err := ValidateNoCycle(context.Background(), chainFinder(), ptr(3), ptr(1))
	ce, ok := errors.AsType[*CycleError](err)
	if !ok {
		t.Fatalf("err=%v", err)
	}
	if ce.CandidateParentID != 3 || ce.SubjectID == nil || *ce.SubjectID != 1 {
		t.Fatalf("cycle error=%+v", ce)
	}
}

func TestValidateNoCycle_UnrelatedParentAccepted(t *testing.T) {
	f := chainFinder()
	if err := ValidateNoCycle(context.Background(), f, ptr(9), ptr(1)); err != nil {
		t.Fatalf("err=%v", err)
	}
	if err := ValidateNoCycle(context.Background(), f, ptr(3), ptr(9)); err != nil {
		t.Fatalf("err=%v", err)
	}
	if err := ValidateNoCycle(context.Background(), f, ptr(3), nil); err != nil {
		t.Fatalf("err=%v", err)
	}
}

func TestValidateNoCycle_DanglingParentStopsWalk(t *testing.T) {
	f := &mapFinder{nodes: map[int]testNode{
		5: {id: 5, parent: ptr(404)},
	}}
	if err := ValidateNoCycle(context.Background(), f, ptr(5), ptr(1)); err != nil {
		t.Fatalf("err=%v", err)
	}
}

func TestValidateNoCycle_ExistingLoopRejected(t *testing.T) {
	f := &mapFinder{nodes: map[int]testNode{
		1: {id: 1, parent: ptr(2)},
		2: {id: 2, parent: ptr(1)},
	}}
	if err := ValidateNoCycle(context.Background(), f, ptr(1), ptr(7)); !IsCycle(err) {
		t.Fatalf("err=%v", err)
	}
	if err := ValidateNoCycle(context.Background(), f, ptr(1), nil); !IsCycle(err) {
		t.Fatalf("err=%v", err)
	}
}

func TestValidateNoCycle_LookupErrorPropagatesUnchanged(t *testing.T) {
	boom := errors.New("connection refused")
	f := &mapFinder{err: boom}
	err := ValidateNoCycle(context.Background(), f, ptr(1), ptr(2))
	if err != boom {
		t.Fatalf("err=%v", err)
	}
	if IsCycle(err) {
		t.Fatal("lookup error must not be reported as a cycle")
	}
}

func TestValidateNoCycle_WrappedNotFoundIsRoot(t *testing.T) {
	f := NodeFinderFunc(func(context.Context, int) (Node, error) {
		return nil, errors.Join(errors.New("menu lookup"), ErrNodeNotFound)
	})
	if err := ValidateNoCycle(context.Background(), f, ptr(1), ptr(2)); err != nil {
		t.Fatalf("err=%v", err)
	}
}

func TestValidateNoCycle_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ValidateNoCycle(ctx, chainFinder(), ptr(3), ptr(9))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
}

func TestValidateNoCycle_WalkIsBoundedByDepth(t *testing.T) {
	f := chainFinder()
	if err := ValidateNoCycle(context.Background(), f, ptr(3), ptr(9)); err != nil {
		t.Fatalf("err=%v", err)
	}
	if f.calls != 3 {
		t.Fatalf("calls=%d", f.calls)
	}
}
