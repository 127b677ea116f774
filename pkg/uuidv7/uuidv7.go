// Package uuidv7 generates time-ordered identifiers (RFC 9562 version 7)
// for records keyed by uuid, such as notices.
package uuidv7

import (
	"crypto/rand"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotV7 = errors.New("uuidv7: not a version 7 uuid")

const maxSeq = 0x0fff

// Generator issues ids that sort by creation time. Ids issued within one
// millisecond carry an increasing 12-bit counter in the rand_a field.
type Generator struct {
	mu     sync.Mutex
	now    func() time.Time
	random io.Reader
	lastMS uint64
	seq    uint16
}

func NewGenerator(now func() time.Time, random io.Reader) *Generator {
	if now == nil {
		now = time.Now
	}
	if random == nil {
		random = rand.Reader
	}
	return &Generator{now: now, random: random}
}

var std = NewGenerator(nil, nil)

func New() (uuid.UUID, error) { return std.New() }

func (g *Generator) New() (uuid.UUID, error) {
	g.mu.Lock()
	ms := uint64(g.now().UnixMilli())
	switch {
	case ms > g.lastMS:
		g.lastMS, g.seq = ms, 0
	case g.seq < maxSeq:
		g.seq++
	default:
		g.lastMS++
		g.seq = 0
	}
	ms, seq := g.lastMS, g.seq
	g.mu.Unlock()

	return build(ms, seq, g.random)
}

// NewAt returns an id stamped with t, for backfills and tests.
func NewAt(t time.Time) (uuid.UUID, error) {
	return build(uint64(t.UnixMilli()), 0, rand.Reader)
}

func build(ms uint64, seq uint16, random io.Reader) (uuid.UUID, error) {
	var b [16]byte
	if _, err := io.ReadFull(random, b[8:]); err != nil {
		return uuid.Nil, err
	}
	b[0] = byte(ms >> 40)
	b[1] = byte(ms >> 32)
	b[2] = byte(ms >> 24)
	b[3] = byte(ms >> 16)
	b[4] = byte(ms >> 8)
	b[5] = byte(ms)
	b[6] = 0x70 | byte(seq>>8)&0x0f
	b[7] = byte(seq)
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.FromBytes(b[:])
}

// Timestamp extracts the creation time carried by a version 7 id.
func Timestamp(u uuid.UUID) (time.Time, error) {
	if u.Version() != 7 {
		return time.Time{}, ErrNotV7
	}
	var ms int64
	for _, b := range u[:6] {
		ms = ms<<8 | int64(b)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// Parse accepts only version 7 ids.
func Parse(s string) (uuid.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, err
	}
	if u.Version() != 7 {
		return uuid.Nil, ErrNotV7
	}
	return u, nil
}
