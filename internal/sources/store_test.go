package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := NewStore()
	assert.Equal(t, map[string]bool{"rss": true, "twitter": true, "reddit": false}, s.Snapshot())
	assert.Equal(t, []string{"rss", "twitter"}, s.Enabled())
}

func TestToggle(t *testing.T) {
	s := NewStore()

	on, ok := s.Toggle("reddit")
	require.True(t, ok)
	assert.True(t, on)
	assert.Equal(t, []string{"rss", "twitter", "reddit"}, s.Enabled())

	on, ok = s.Toggle("reddit")
	require.True(t, ok)
	assert.False(t, on)
}

func TestToggleUnknownKeyIsNoop(t *testing.T) {
	s := NewStore()
	before := s.Snapshot()

	_, ok := s.Toggle("hackernews")
	assert.False(t, ok)
	assert.Equal(t, before, s.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	snap := s.Snapshot()
	snap["rss"] = false
	assert.Equal(t, []string{"rss", "twitter"}, s.Enabled())
}

func TestAllDisabled(t *testing.T) {
	s := NewStore()
	s.Set("rss", false)
	s.Set("twitter", false)
	assert.Empty(t, s.Enabled())
}
