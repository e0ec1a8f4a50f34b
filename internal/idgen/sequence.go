package idgen

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Entity type prefixes.
const (
	PrefixAuditPlan  = "AP"
	PrefixNCAR       = "NCAR"
	PrefixActionPlan = "ACT"
)

const seqWidth = 6

// Sequence hands out monotonic, per-prefix sequence numbers. The counter is
// global per prefix and never resets; the YYYYMM suffix only records the
// month the identifier was issued in.
type Sequence struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewSequence creates an empty sequence.
func NewSequence() *Sequence {
	return &Sequence{counters: make(map[string]int)}
}

// Next returns the next identifier for prefix, e.g. NCAR_000003_202310.
func (s *Sequence) Next(prefix string, at time.Time) string {
	s.mu.Lock()
	s.counters[prefix]++
	seq := s.counters[prefix]
	s.mu.Unlock()
	return Format(prefix, seq, at)
}

// Observe advances the prefix counter past an existing identifier so that
// seeded records never collide with newly issued ones. Malformed ids are
// ignored.
func (s *Sequence) Observe(id string) {
	prefix, seq, _, err := Parse(id)
	if err != nil {
		return
	}
	s.mu.Lock()
	if seq > s.counters[prefix] {
		s.counters[prefix] = seq
	}
	s.mu.Unlock()
}

// Current returns the last issued (or observed) sequence number for prefix.
func (s *Sequence) Current(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[prefix]
}

// Format renders <PREFIX>_<seq6>_<YYYYMM>.
func Format(prefix string, seq int, at time.Time) string {
	return fmt.Sprintf("%s_%0*d_%04d%02d", prefix, seqWidth, seq, at.Year(), int(at.Month()))
}

// Parse splits an identifier into prefix, sequence number and period (YYYYMM).
func Parse(id string) (prefix string, seq int, period string, err error) {
	parts := strings.Split(id, "_")
	if len(parts) != 3 {
		return "", 0, "", fmt.Errorf("invalid id %q: expected <PREFIX>_<seq>_<YYYYMM>", id)
	}
	if len(parts[1]) != seqWidth {
		return "", 0, "", fmt.Errorf("invalid id %q: sequence must have %d digits", id, seqWidth)
	}
	seq, err = strconv.Atoi(parts[1])
	if err != nil || seq < 1 {
		return "", 0, "", fmt.Errorf("invalid id %q: bad sequence", id)
	}
	if len(parts[2]) != 6 {
		return "", 0, "", fmt.Errorf("invalid id %q: bad period", id)
	}
	if _, err = strconv.Atoi(parts[2]); err != nil {
		return "", 0, "", fmt.Errorf("invalid id %q: bad period", id)
	}
	return parts[0], seq, parts[2], nil
}
