package store

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/domain"
)

func init() {
	// Keep key derivation fast in tests.
	scryptN = 1 << 10
}

func newTestStore(t *testing.T) *JournalFileStore {
	t.Helper()
	s := NewJournalFileStore(t.TempDir())
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return s
}

func TestJournal_AppendList_Plain(t *testing.T) {
	s := newTestStore(t)

	entries, err := s.List("")
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, s.Append("", domain.JournalEntry{ClusterID: "1", Name: "first", Source: domain.SourceManual}))
	require.NoError(t, s.Append("", domain.JournalEntry{ClusterID: "2", Name: "second", Source: domain.SourceCSV}))

	entries, err = s.List("")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Name)
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestJournal_Find(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append("", domain.JournalEntry{ClusterID: "1", Name: "old"}))
	require.NoError(t, s.Append("", domain.JournalEntry{ClusterID: "1", Name: "new"}))

	e, ok, err := s.Find("", "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", e.Name)

	_, ok, err = s.Find("", "404")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJournal_Sealed(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append("pass", domain.JournalEntry{ClusterID: "1", IMEIs: []string{"490154203237518"}}))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "490154203237518")

	entries, err := s.List("pass")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"490154203237518"}, entries[0].IMEIs)

	_, err = s.List("wrong")
	assert.ErrorIs(t, err, ErrWrongPassphrase)

	_, err = s.List("")
	assert.ErrorIs(t, err, ErrPassphraseRequired)
}

func TestJournal_PlainUpgradesToSealed(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append("", domain.JournalEntry{ClusterID: "1"}))
	require.NoError(t, s.Append("pass", domain.JournalEntry{ClusterID: "2"}))

	entries, err := s.List("pass")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = s.List("")
	assert.ErrorIs(t, err, ErrPassphraseRequired)
}
