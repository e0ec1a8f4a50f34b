package idgen

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_Next(t *testing.T) {
	oct := time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC)
	nov := time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC)

	seq := NewSequence()
	assert.Equal(t, "AP_000001_202310", seq.Next(PrefixAuditPlan, oct))
	assert.Equal(t, "AP_000002_202311", seq.Next(PrefixAuditPlan, nov))
	assert.Equal(t, "NCAR_000001_202311", seq.Next(PrefixNCAR, nov))
	assert.Equal(t, 2, seq.Current(PrefixAuditPlan))
}

func TestSequence_Observe(t *testing.T) {
	seq := NewSequence()
	seq.Observe("ACT_000007_202309")
	seq.Observe("ACT_000003_202310")
	seq.Observe("garbage")
	assert.Equal(t, 7, seq.Current(PrefixActionPlan))
	assert.Equal(t, "ACT_000008_202401", seq.Next(PrefixActionPlan, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
}

func TestSequence_Concurrent(t *testing.T) {
	seq := NewSequence()
	at := time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	seen := map[string]bool{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := seq.Next(PrefixNCAR, at)
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50)
}

func TestParse(t *testing.T) {
	type testCase struct {
		name   string
		id     string
		prefix string
		seq    int
		period string
		hasErr bool
	}
	tests := []testCase{
		{name: "audit plan", id: "AP_000001_202310", prefix: "AP", seq: 1, period: "202310"},
		{name: "ncar", id: "NCAR_000123_202309", prefix: "NCAR", seq: 123, period: "202309"},
		{name: "too few parts", id: "AP_000001", hasErr: true},
		{name: "short sequence", id: "AP_01_202310", hasErr: true},
		{name: "zero sequence", id: "AP_000000_202310", hasErr: true},
		{name: "bad period", id: "AP_000001_2023", hasErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prefix, seq, period, err := Parse(tc.id)
			if tc.hasErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.prefix, prefix)
			assert.Equal(t, tc.seq, seq)
			assert.Equal(t, tc.period, period)
		})
	}
}
