package dispatch

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitDeliversInOrder(t *testing.T) {
	d := New(zerolog.Nop())
	var got []string
	d.On(LandmarksChanged, func(e Event) { got = append(got, "first:"+e.Payload.(string)) })
	d.On(LandmarksChanged, func(e Event) { got = append(got, "second:"+e.Payload.(string)) })
	d.On(SelectionChanged, func(e Event) { got = append(got, "selection") })

	d.Emit(LandmarksChanged, "nose")

	assert.Equal(t, []string{"first:nose", "second:nose"}, got)

	d.Emit(MeshChanged, "ignored")
	assert.Len(t, got, 2)
}

func TestBatchRenderTransitions(t *testing.T) {
	d := New(zerolog.Nop())
	var states []bool
	d.On(BatchRenderChanged, func(e Event) { states = append(states, e.Payload.(bool)) })

	d.EnableBatchRender()
	d.EnableBatchRender()
	assert.True(t, d.IsBatchRenderEnabled())
	d.DisableBatchRender()
	assert.False(t, d.IsBatchRenderEnabled())

	assert.Equal(t, []bool{true, false}, states)
}

func TestBatchDisablesOnPanic(t *testing.T) {
	d := New(zerolog.Nop())

	require.Panics(t, func() {
		d.Batch(func() {
			assert.True(t, d.IsBatchRenderEnabled())
			panic("boom")
		})
	})
	assert.False(t, d.IsBatchRenderEnabled())
}

func TestBatchSuppressesDuringCallback(t *testing.T) {
	d := New(zerolog.Nop())
	var seen []bool
	d.On(LandmarksChanged, func(Event) { seen = append(seen, d.IsBatchRenderEnabled()) })

	d.Batch(func() {
		d.Emit(LandmarksChanged, nil)
		d.Emit(LandmarksChanged, nil)
	})
	d.Emit(LandmarksChanged, nil)

	assert.Equal(t, []bool{true, true, false}, seen)
}
