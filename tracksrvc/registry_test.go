package tracksrvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistryPutGetRemove(t *testing.T) {
	reg := NewRegistry()
	require.True(t, reg.Empty())

	entry := TrackEntry{
		JobId:        "job-1",
		RemoteId:     "r-1",
		LastProgress: time.Now(),
	}
	reg.Put(entry)

	got, ok := reg.Get("job-1")
	require.True(t, ok)
	require.Equal(t, entry, got)
	require.False(t, reg.Empty())
	require.Equal(t, []string{"job-1"}, reg.Ids())

	_, ok = reg.Get("job-2")
	require.False(t, ok)

	reg.Remove("job-1")
	_, ok = reg.Get("job-1")
	require.False(t, ok)
	require.True(t, reg.Empty())
}

func TestRegistryTouchRefreshesLastProgress(t *testing.T) {
	reg := NewRegistry()
	past := time.Now().Add(-time.Hour)
	reg.Put(TrackEntry{JobId: "job-1", RemoteId: "r-1", LastProgress: past})

	reg.Touch("job-1")

	got, ok := reg.Get("job-1")
	require.True(t, ok)
	require.True(t, got.LastProgress.After(past))

	// touching an unknown id must not create an entry
	reg.Touch("job-2")
	_, ok = reg.Get("job-2")
	require.False(t, ok)
}
