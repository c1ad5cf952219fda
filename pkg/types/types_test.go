package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTargetFilterMatches(t *testing.T) {
	target := Target{Compartment: "sandbox/devops", Cluster: "dev", NodePool: "pool1"}

	tests := []struct {
		name   string
		filter TargetFilter
		want   bool
	}{
		{"empty filter matches everything", TargetFilter{}, true},
		{"compartment only", TargetFilter{Compartment: "sandbox/devops"}, true},
		{"full match", TargetFilter{Compartment: "sandbox/devops", Cluster: "dev", NodePool: "pool1"}, true},
		{"wrong compartment", TargetFilter{Compartment: "prod"}, false},
		{"parent path is not a prefix match", TargetFilter{Compartment: "sandbox"}, false},
		{"wrong pool", TargetFilter{Compartment: "sandbox/devops", NodePool: "pool2"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(target))
		})
	}
}

func TestExceptionMatchesInclusiveBounds(t *testing.T) {
	start := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 26, 23, 59, 0, 0, time.UTC)
	exc := Exception{Start: &start, End: &end}
	target := Target{Compartment: "sandbox", Cluster: "dev", NodePool: "pool1"}

	assert.True(t, exc.Matches(target, start), "start bound is inclusive")
	assert.True(t, exc.Matches(target, end), "end bound is inclusive")
	assert.True(t, exc.Matches(target, start.Add(24*time.Hour)))
	assert.False(t, exc.Matches(target, start.Add(-time.Minute)))
	assert.False(t, exc.Matches(target, end.Add(time.Minute)))
}

func TestExceptionOpenEnded(t *testing.T) {
	start := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	target := Target{Compartment: "sandbox"}

	noEnd := Exception{Start: &start}
	assert.True(t, noEnd.Matches(target, start.Add(365*24*time.Hour)), "missing end never expires")

	unbounded := Exception{}
	assert.True(t, unbounded.Matches(target, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDecisionString(t *testing.T) {
	assert.Contains(t, SetSize(0, "window active").String(), "0")
	assert.Contains(t, NoAction("no matching rule").String(), "no matching rule")
}

func TestTargetString(t *testing.T) {
	target := Target{Compartment: "sandbox/devops", Cluster: "dev", NodePool: "pool1"}
	assert.Equal(t, "sandbox/devops/dev/pool1", target.String())
}
