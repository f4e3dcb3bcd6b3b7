package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/circuit_breaker"
)

func Test_circuitBreaker_Call(t *testing.T) {
	var (
		okService   = func() error { return nil }
		failService = func() error { return errors.New("service error") }
	)

	cb := circuit_breaker.New(10, 50*time.Millisecond, 0.5, 2)

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Call(okService))
	}

	// push the failure share over the percentile: the breaker opens and
	// short-circuits the next call
	for i := 0; i < 5; i++ {
		require.Error(t, cb.Call(failService))
	}
	require.ErrorIs(t, cb.Call(okService), circuit_breaker.ErrOpenCB)

	// after the timeout it half-opens and recovers on consecutive successes
	time.Sleep(60 * time.Millisecond)
	for i := 0; i < 4; i++ {
		require.NoError(t, cb.Call(okService))
	}

	// closed again: failures below the percentile pass through
	require.Error(t, cb.Call(failService))
	require.NoError(t, cb.Call(okService))
}

func Test_circuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	failService := func() error { return errors.New("service error") }

	cb := circuit_breaker.New(4, 20*time.Millisecond, 0.5, 2)

	for i := 0; i < 4; i++ {
		require.Error(t, cb.Call(failService))
	}
	require.ErrorIs(t, cb.Call(failService), circuit_breaker.ErrOpenCB)

	time.Sleep(30 * time.Millisecond)

	// the probe fails, so the breaker snaps back open
	require.Error(t, cb.Call(failService))
	require.ErrorIs(t, cb.Call(failService), circuit_breaker.ErrOpenCB)
}
