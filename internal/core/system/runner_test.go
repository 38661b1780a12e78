package system

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r recorder) Phase() Phase { return r.phase }

func (r recorder) Update(time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerPhaseOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"cleanup", PhaseCleanup, &log})
	r.Register(recorder{"move", PhaseUpdate, &log})
	r.Register(recorder{"events", PhaseEvents, &log})
	r.Register(recorder{"move2", PhaseUpdate, &log})
	assert.Equal(t, r.Len(), 4)

	r.Tick(time.Second)
	assert.DeepEqual(t, log, []string{"events", "move", "move2", "cleanup"})
	assert.Equal(t, r.Ticks(), uint64(1))

	log = log[:0]
	r.TickPhase(PhaseUpdate, time.Second)
	assert.DeepEqual(t, log, []string{"move", "move2"})
	assert.Equal(t, r.Ticks(), uint64(1))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, PhasePostUpdate.String(), "post_update")
	assert.Equal(t, Phase(42).String(), "unknown")
}
