package pipeline

import (
	"sort"
	"testing"
	"time"
)

func TestEncodeULID(t *testing.T) {
	var b [16]byte
	if got := encodeULID(b); got != "00000000000000000000000000" {
		t.Errorf("zero value: got %q", got)
	}

	// Timestamp from the ULID reference, all randomness zero.
	ts := uint64(1469918176385)
	for i := 0; i < 6; i++ {
		b[i] = byte(ts >> (40 - 8*i))
	}
	if got := encodeULID(b); got != "01ARYZ6S410000000000000000" {
		t.Errorf("timestamp: got %q", got)
	}

	b[7] = 1
	if got := encodeULID(b); got != "01ARYZ6S41000G000000000000" {
		t.Errorf("sequence: got %q", got)
	}
}

func TestNewJobIDSortable(t *testing.T) {
	now := time.Now()
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = newULID(now)
	}
	if !sort.StringsAreSorted(ids) {
		t.Error("IDs minted in the same millisecond should sort in creation order")
	}

	later := newULID(now.Add(time.Second))
	if later <= ids[len(ids)-1] {
		t.Errorf("later ID %s should sort after %s", later, ids[len(ids)-1])
	}
}
