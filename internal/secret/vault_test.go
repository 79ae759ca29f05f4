package secret

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	blob, err := Seal("correct horse", []byte("AV-KEY-123"))
	require.NoError(t, err)
	assert.NotContains(t, string(blob), "AV-KEY-123")

	pt, err := Open("correct horse", blob)
	require.NoError(t, err)
	assert.Equal(t, "AV-KEY-123", string(pt))

	_, err = Open("wrong", blob)
	assert.ErrorIs(t, err, ErrWrongPassphrase)

	_, err = Open("correct horse", []byte("{}"))
	assert.ErrorIs(t, err, ErrWrongPassphrase)

	_, err = Seal("", []byte("x"))
	assert.ErrorIs(t, err, ErrEmptyPassphrase)
}

func TestSeal_FreshSaltEachTime(t *testing.T) {
	a, err := Seal("pw", []byte("same"))
	require.NoError(t, err)
	b, err := Seal("pw", []byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVault(t *testing.T) {
	v := NewVault(filepath.Join(t.TempDir(), "nested", "apikey.sealed"))

	_, err := v.Load("pw")
	assert.ErrorIs(t, err, ErrNoSecret)
	assert.False(t, v.Exists())

	require.NoError(t, v.Store("pw", "KEY-1"))
	info, err := os.Stat(v.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := v.Load("pw")
	require.NoError(t, err)
	assert.Equal(t, "KEY-1", got)

	require.NoError(t, v.Store("pw2", "KEY-2"))
	_, err = v.Load("pw")
	assert.ErrorIs(t, err, ErrWrongPassphrase)

	require.NoError(t, v.Clear())
	require.NoError(t, v.Clear())
	assert.False(t, v.Exists())
}
