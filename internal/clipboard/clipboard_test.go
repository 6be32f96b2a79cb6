package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend remplace le presse-papier système le temps d'un test.
func fakeBackend(t *testing.T, supported bool) *string {
	t.Helper()
	content := new(string)
	oldU, oldR, oldW := unsupported, readAll, writeAll
	unsupported = func() bool { return !supported }
	readAll = func() (string, error) { return *content, nil }
	writeAll = func(s string) error { *content = s; return nil }
	t.Cleanup(func() { unsupported, readAll, writeAll = oldU, oldR, oldW })
	return content
}

func TestWriteAll_EmptyTextClearsClipboard(t *testing.T) {
	content := fakeBackend(t, true)
	*content = "previous"

	require.NoError(t, WriteAll(""))
	assert.Equal(t, "", *content)
}

func TestWriteReadRoundTrip(t *testing.T) {
	fakeBackend(t, true)

	require.NoError(t, WriteAll("  https://youtu.be/abc123\n"))
	got, err := ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/abc123", got)
}

func TestUnsupported(t *testing.T) {
	fakeBackend(t, false)

	assert.ErrorIs(t, WriteAll("x"), ErrUnsupported)
	_, err := ReadAll()
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestWriteAll_BackendError(t *testing.T) {
	fakeBackend(t, true)
	writeAll = func(string) error { return errors.New("xclip failed") }

	err := WriteAll("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xclip failed")
}
