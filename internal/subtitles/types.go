package subtitles

import (
	"errors"
	"fmt"

	"github.com/patrickprogramme/ytranscript/pkg/model"
)

var ErrNoTranscript = errors.New("no transcript loaded")

// Export regroupe ce qu'on remet au sink de copie/sauvegarde :
// le texte déjà rendu, le nom de fichier et l'indication MIME.
type Export struct {
	Format   model.Format
	Text     string
	Filename string
	MimeType string
}

// NewExport rend t dans le format f et compose le nom de fichier
// "<video_id>_transcript[...].<ext>".
func NewExport(t Transcript, f model.Format) (Export, error) {
	if t.VideoID == "" {
		return Export{}, fmt.Errorf("NewExport: %w", ErrNoTranscript)
	}
	switch f {
	case model.FormatPlain, model.FormatTimestamped, model.FormatSRT:
	default:
		return Export{}, fmt.Errorf("NewExport: format inconnu %q", f)
	}
	return Export{
		Format:   f,
		Text:     Render(t.Segments, f),
		Filename: f.FilenameFor(t.VideoID),
		MimeType: f.MimeType(),
	}, nil
}

// String implémente fmt.Stringer sans afficher tout le texte.
func (e Export) String() string {
	return fmt.Sprintf("Export{Format:%s, Filename:%q, MimeType:%q, TextLen:%d}",
		e.Format, e.Filename, e.MimeType, len(e.Text))
}
