package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "a", "b", "out.txt")
	require.NoError(t, WriteFileAtomic(dst, []byte("hello"), 0o644))
	require.NoError(t, WriteFileAtomic(dst, []byte("world"), 0o644))

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "world", string(b))

	// aucun fichier temporaire restant
	tmps, _ := filepath.Glob(filepath.Join(filepath.Dir(dst), ".tmp-*"))
	assert.Empty(t, tmps)
}

func TestSaveFileAtomic(t *testing.T) {
	dir := t.TempDir()

	p, err := SaveFileAtomic(dir, "abc_transcript.srt", []byte("1"), false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc_transcript.srt"), p)

	p, err = SaveFileAtomic(dir, "abc_transcript.srt", []byte("2"), false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc_transcript_1.srt"), p)

	p, err = SaveFileAtomic(dir, "abc_transcript.srt", []byte("3"), true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc_transcript.srt"), p)
	b, _ := os.ReadFile(p)
	assert.Equal(t, "3", string(b))

	_, err = SaveFileAtomic(dir, "", nil, true)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc123_transcript.txt", "abc123_transcript.txt"},
		{"dQw4w9WgXcQ_transcript_timestamped.txt", "dQw4w9WgXcQ_transcript_timestamped.txt"},
		{"a/b:c_transcript.srt", "a_b_c_transcript.srt"},
		{"  spaced   name.txt ", "spaced_name.txt"},
		{"../evil", "_evil"},
		{"", "untitled"},
		{"...", "untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}
