package metric

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fixedCounter int

func (f fixedCounter) Len() int { return int(f) }

func TestCollector_Collect(t *testing.T) {
	c := NewCollector(fixedCounter(3))

	expected := `
# HELP distkv_keys Keys currently stored
# TYPE distkv_keys gauge
distkv_keys 3
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected collect result: %v", err)
	}
}

func TestCollector_RegisteredWithRegistry(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(NewCollector(fixedCounter(0)))

	n, err := testutil.GatherAndCount(r.Gatherer(), "distkv_keys")
	if err != nil {
		t.Fatalf("GatherAndCount error = %v", err)
	}
	if n != 1 {
		t.Errorf("distkv_keys series = %d, want 1", n)
	}
}
