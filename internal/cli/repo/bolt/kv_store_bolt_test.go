package bolt

import (
	"CardWallet/internal/cli/repo"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStoreBolt_SetGetRemove(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "sub", "cwcli.bolt"))
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get(repo.UnauthCardsKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(repo.UnauthCardsKey, []byte(`[{"id":7}]`)))
	v, ok, err := s.Get(repo.UnauthCardsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":7}]`, string(v))

	require.NoError(t, s.Remove(repo.UnauthCardsKey))
	_, ok, _ = s.Get(repo.UnauthCardsKey)
	assert.False(t, ok)
	assert.NoError(t, s.Remove(repo.UnauthCardsKey))
}

func TestKVStoreBolt_Overwrite(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "cwcli.bolt"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(repo.UserCacheKey(3), []byte("old")))
	require.NoError(t, s.Set(repo.UserCacheKey(3), []byte("new")))
	v, ok, err := s.Get(repo.UserCacheKey(3))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", string(v))
	assert.Error(t, s.Set("", []byte("x")))
}

func TestOpen_LockedByAnotherHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cwcli.bolt")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	start := time.Now()
	_, err = Open(path)
	assert.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
