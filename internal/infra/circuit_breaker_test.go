package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_Lifecycle(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("smtp", CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 2, OpenTimeout: time.Minute})
	cb.now = func() time.Time { return now }
	boom := errors.New("relay down")
	fail := func() error { return boom }
	ok := func() error { return nil }

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Execute(fail), boom)
	}
	assert.Equal(t, CBClosed, cb.State())
	assert.NoError(t, cb.Execute(ok), "success resets the failure count")
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	assert.Equal(t, CBOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	now = now.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(fail), boom)
	assert.Equal(t, CBOpen, cb.State(), "a failed probe reopens")

	now = now.Add(time.Minute)
	assert.NoError(t, cb.Execute(ok))
	assert.Equal(t, CBHalfOpen, cb.State())
	assert.NoError(t, cb.Execute(ok))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCBState_String(t *testing.T) {
	assert.Equal(t, "half-open", CBHalfOpen.String())
	assert.Equal(t, "unknown", CBState(9).String())
}
