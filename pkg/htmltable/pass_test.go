package htmltable_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/postwing/postwing/pkg/htmltable"
)

func TestPass_RunsOnce(t *testing.T) {
	t.Parallel()

	runs := 0
	p := htmltable.NewPass(func() { runs++ })
	require.False(t, p.Done())

	p.Run()
	p.Run()
	p.Run()

	require.True(t, p.Done())
	require.Equal(t, 1, runs)
}

func TestWhenReady_Immediate(t *testing.T) {
	t.Parallel()

	runs := 0
	p := htmltable.WhenReady(true, nil, func() { runs++ })

	// Ready documents are processed synchronously at registration time.
	require.True(t, p.Done())
	require.Equal(t, 1, runs)
}

func TestWhenReady_Deferred(t *testing.T) {
	t.Parallel()

	loaded := make(chan struct{})
	ran := make(chan struct{})
	p := htmltable.WhenReady(false, loaded, func() { close(ran) })

	require.False(t, p.Done())

	close(loaded)
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("transform did not run after readiness signal")
	}
	require.True(t, p.Done())
}

func TestWhenReady_SignalAfterManualRun(t *testing.T) {
	t.Parallel()

	loaded := make(chan struct{})
	runs := make(chan struct{}, 2)
	p := htmltable.WhenReady(false, loaded, func() { runs <- struct{}{} })

	p.Run()
	close(loaded)

	<-runs
	select {
	case <-runs:
		t.Fatal("transform ran twice")
	case <-time.After(100 * time.Millisecond):
	}
	require.True(t, p.Done())
}
