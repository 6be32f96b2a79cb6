package subtitles

import (
	"testing"

	"github.com/patrickprogramme/ytranscript/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNewExport(t *testing.T) {
	tr := NewTranscript("abc123", sample(), nil)

	tests := []struct {
		format   model.Format
		filename string
		mime     string
	}{
		{model.FormatPlain, "abc123_transcript.txt", "text/plain"},
		{model.FormatTimestamped, "abc123_transcript_timestamped.txt", "text/plain"},
		{model.FormatSRT, "abc123_transcript.srt", "application/x-subrip"},
	}
	for _, tc := range tests {
		t.Run(string(tc.format), func(t *testing.T) {
			ex, err := NewExport(tr, tc.format)
			require.NoError(t, err)
			assert.Equal(t, tc.filename, ex.Filename)
			assert.Equal(t, tc.mime, ex.MimeType)
			assert.Equal(t, Render(tr.Segments, tc.format), ex.Text)
		})
	}
}

func TestNewExport_Errors(t *testing.T) {
	_, err := NewExport(Transcript{}, model.FormatPlain)
	assert.ErrorIs(t, err, ErrNoTranscript)

	_, err = NewExport(NewTranscript("abc", sample(), nil), model.Format("vtt"))
	assert.Error(t, err)
}

func TestDetectLanguage(t *testing.T) {
	segs := []Segment{
		{Text: "Bonjour à tous et bienvenue dans cette nouvelle vidéo sur la programmation"},
		{Text: "Aujourd'hui nous allons parler des transcriptions et des sous-titres"},
		{Text: "Hello everyone and welcome to this video"},
	}
	assert.Equal(t, language.French, DetectLanguage(segs))
	assert.Equal(t, language.Und, DetectLanguage(nil))
	assert.Equal(t, language.Und, DetectLanguage([]Segment{{Text: "   "}}))
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "French", LanguageName("fr"))
	assert.Equal(t, "!!", LanguageName("!!"))
}
