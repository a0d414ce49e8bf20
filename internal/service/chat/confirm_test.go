package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearConfirmationConfirm(t *testing.T) {
	store := NewStore()
	store.CreateSession()
	flow := NewClearConfirmation(store)

	assert.Equal(t, ConfirmIdle, flow.State())
	assert.Equal(t, ConfirmPending, flow.Request())
	assert.True(t, flow.Pending())
	assert.Equal(t, 1, store.Len(), "requesting must not clear")

	require.NoError(t, flow.Confirm())
	assert.Equal(t, ConfirmExecuted, flow.State())
	assert.Equal(t, 0, store.Len())
}

func TestClearConfirmationCancel(t *testing.T) {
	store := NewStore()
	store.CreateSession()
	flow := NewClearConfirmation(store)

	flow.Request()
	require.NoError(t, flow.Cancel())

	assert.Equal(t, ConfirmCancelled, flow.State())
	assert.Equal(t, 1, store.Len())
}

func TestClearConfirmationRejectsAnswersWithoutRequest(t *testing.T) {
	store := NewStore()
	store.CreateSession()
	flow := NewClearConfirmation(store)

	assert.ErrorIs(t, flow.Confirm(), ErrNotConfirming)
	assert.ErrorIs(t, flow.Cancel(), ErrNotConfirming)
	assert.Equal(t, ConfirmIdle, flow.State())
	assert.Equal(t, 1, store.Len())

	flow.Request()
	require.NoError(t, flow.Cancel())
	assert.ErrorIs(t, flow.Confirm(), ErrNotConfirming, "a cancelled request cannot be confirmed")
	assert.Equal(t, 1, store.Len())
}

func TestClearConfirmationCanRestart(t *testing.T) {
	store := NewStore()
	flow := NewClearConfirmation(store)

	flow.Request()
	require.NoError(t, flow.Confirm())

	store.CreateSession()
	assert.Equal(t, ConfirmPending, flow.Request())
	require.NoError(t, flow.Confirm())
	assert.Equal(t, 0, store.Len())
}

func TestClearConfirmationSettle(t *testing.T) {
	flow := NewClearConfirmation(NewStore())

	flow.Settle()
	assert.Equal(t, ConfirmIdle, flow.State())

	flow.Request()
	flow.Settle()
	assert.Equal(t, ConfirmPending, flow.State())

	require.NoError(t, flow.Confirm())
	flow.Settle()
	assert.Equal(t, ConfirmIdle, flow.State())
}
