package uuidv7

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestNew(t *testing.T) {
	u, err := New()
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if u.Version() != 7 || u.Variant() != uuid.RFC4122 {
		t.Fatalf("version=%d variant=%v", u.Version(), u.Variant())
	}
}

func TestGenerator_SameMillisecondStaysOrdered(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(fixedClock(at), bytes.NewReader(make([]byte, 16*10)))

	var prev uuid.UUID
	for i := 0; i < 10; i++ {
		u, err := g.New()
		if err != nil {
			t.Fatalf("err=%v", err)
		}
		if i > 0 && u.String() <= prev.String() {
			t.Fatalf("ids out of order: %s then %s", prev, u)
		}
		prev = u
	}
	ts, err := Timestamp(prev)
	if err != nil || !ts.Equal(at) {
		t.Fatalf("ts=%v err=%v", ts, err)
	}
}

func TestGenerator_CounterOverflowAdvancesClock(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(fixedClock(at), nil)
	g.lastMS = uint64(at.UnixMilli())
	g.seq = maxSeq

	u, err := g.New()
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	ts, _ := Timestamp(u)
	if !ts.Equal(at.Add(time.Millisecond)) {
		t.Fatalf("ts=%v", ts)
	}
}

func TestGenerator_ReadError(t *testing.T) {
	if _, err := NewGenerator(nil, errReader{}).New(); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewAtAndParse(t *testing.T) {
	at := time.Date(2024, 12, 31, 23, 59, 59, 123e6, time.UTC)
	u, err := NewAt(at)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	parsed, err := Parse(u.String())
	if err != nil || parsed != u {
		t.Fatalf("parsed=%v err=%v", parsed, err)
	}
	ts, err := Timestamp(parsed)
	if err != nil || !ts.Equal(at) {
		t.Fatalf("ts=%v err=%v", ts, err)
	}
}

func TestParseRejectsOtherVersions(t *testing.T) {
	if _, err := Parse(uuid.NewString()); !errors.Is(err, ErrNotV7) {
		t.Fatalf("err=%v", err)
	}
	if _, err := Parse("nope"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Timestamp(uuid.New()); !errors.Is(err, ErrNotV7) {
		t.Fatalf("err=%v", err)
	}
}
