package gateway

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallTracker_Lifecycle(t *testing.T) {
	tracker := NewCallTracker()

	tracker.Track(1, "CompanyDataRequest")
	call, ok := tracker.Get(1)
	require.True(t, ok)
	assert.Equal(t, StateIdle, call.State)
	assert.Equal(t, "CompanyDataRequest", call.Class)

	require.NoError(t, tracker.MarkSent(1))
	require.NoError(t, tracker.RecordSuccess(1, 200))

	call, _ = tracker.Get(1)
	assert.Equal(t, StateSucceeded, call.State)
	assert.True(t, call.State.Terminal())
	assert.False(t, call.FinishedAt.IsZero())
}

func TestCallTracker_Failures(t *testing.T) {
	tracker := NewCallTracker()
	cause := errors.New("boom")

	tracker.Track(1, "Accounts")
	require.NoError(t, tracker.MarkSent(1))
	require.NoError(t, tracker.RecordTransportFailure(1, 0, cause))

	tracker.Track(2, "Accounts")
	require.NoError(t, tracker.MarkSent(2))
	require.NoError(t, tracker.RecordApplicationFailure(2, 200, cause))

	first, _ := tracker.Get(1)
	second, _ := tracker.Get(2)
	assert.Equal(t, StateTransportFailed, first.State)
	assert.Equal(t, StateApplicationFailed, second.State)
	assert.Equal(t, cause, second.Err)
}

func TestCallTracker_InvalidTransitions(t *testing.T) {
	tracker := NewCallTracker()

	assert.Error(t, tracker.MarkSent(9), "untracked")

	tracker.Track(1, "Accounts")
	assert.Error(t, tracker.RecordSuccess(1, 200), "not yet sent")

	require.NoError(t, tracker.MarkSent(1))
	require.NoError(t, tracker.RecordSuccess(1, 200))
	assert.Error(t, tracker.RecordTransportFailure(1, 0, errors.New("late")), "already terminal")
}

func TestCallTracker_Remove(t *testing.T) {
	tracker := NewCallTracker()
	tracker.Track(1, "Accounts")
	assert.Equal(t, 1, tracker.Len())

	tracker.Remove(1)
	_, ok := tracker.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, tracker.Len())
}

func TestCallState_String(t *testing.T) {
	assert.Equal(t, "transport-failed", StateTransportFailed.String())
	assert.Equal(t, "CallState(99)", CallState(99).String())
}

func TestCallTracker_RetentionKeepsCallsInFlight(t *testing.T) {
	tracker := NewCallTrackerWithRetention(2)

	tracker.Track(1, "Accounts")
	require.NoError(t, tracker.MarkSent(1))

	for id := 2; id <= 6; id++ {
		tracker.Track(id, "Accounts")
		require.NoError(t, tracker.MarkSent(id))
		require.NoError(t, tracker.RecordSuccess(id, 200))
	}

	assert.Equal(t, 3, tracker.Len())
	inFlight, ok := tracker.Get(1)
	require.True(t, ok)
	assert.Equal(t, StateSent, inFlight.State)
	for _, id := range []int{5, 6} {
		_, ok := tracker.Get(id)
		assert.True(t, ok, "call %d", id)
	}
	for _, id := range []int{2, 3, 4} {
		_, ok := tracker.Get(id)
		assert.False(t, ok, "call %d", id)
	}
}

func TestCallTracker_ReusedIDSurvivesEviction(t *testing.T) {
	tracker := NewCallTrackerWithRetention(1)

	tracker.Track(1, "Accounts")
	require.NoError(t, tracker.MarkSent(1))
	require.NoError(t, tracker.RecordSuccess(1, 200))

	// A new call with the same id replaces the finished record
	tracker.Track(1, "GetSubmissionStatus")
	require.NoError(t, tracker.MarkSent(1))

	tracker.Track(2, "Accounts")
	require.NoError(t, tracker.MarkSent(2))
	require.NoError(t, tracker.RecordSuccess(2, 200))

	call, ok := tracker.Get(1)
	require.True(t, ok)
	assert.Equal(t, StateSent, call.State)
	assert.Equal(t, "GetSubmissionStatus", call.Class)
}

func TestCallTracker_Prune(t *testing.T) {
	tracker := NewCallTracker()

	for id := 1; id <= 3; id++ {
		tracker.Track(id, "Accounts")
		require.NoError(t, tracker.MarkSent(id))
		require.NoError(t, tracker.RecordSuccess(id, 200))
	}
	tracker.Track(4, "Accounts")

	assert.Equal(t, 3, tracker.Prune(time.Now().Add(time.Second)))
	assert.Equal(t, 1, tracker.Len())
	_, ok := tracker.Get(4)
	assert.True(t, ok)

	assert.Equal(t, 0, tracker.Prune(time.Now().Add(time.Second)))
}
