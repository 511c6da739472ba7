package qrstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteAndRemove(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	name, err := s.Write("alice", "otpauth://totp/rollcall:alice?secret=JBSWY3DPEHPK3PXP")
	require.NoError(t, err)
	require.Equal(t, "alice.png", name)

	_, err = os.Stat(filepath.Join(s.Dir, name))
	require.NoError(t, err)

	names, err := s.List()
	require.NoError(t, err)
	require.Equal(t, []string{"alice"}, names)

	require.NoError(t, s.Remove("alice"))
	_, err = os.Stat(filepath.Join(s.Dir, name))
	require.True(t, os.IsNotExist(err))

	// Removing again is fine.
	require.NoError(t, s.Remove("alice"))
}

func TestUnsafeNames(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../etc/passwd", "a/b", "name with spaces"} {
		_, err := s.Write(name, "otpauth://totp/x")
		require.ErrorIs(t, err, ErrUnsafeName)
		require.ErrorIs(t, s.Remove(name), ErrUnsafeName)
	}
}
