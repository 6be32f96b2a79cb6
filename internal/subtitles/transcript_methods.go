package subtitles

import (
	"strconv"
	"strings"

	"github.com/patrickprogramme/ytranscript/pkg/model"
)

// Render convertit les segments dans le format demandé.
// Fonction pure : mêmes entrées -> même chaîne. Zéro segment -> "".
// Un format inconnu est rendu comme du texte brut.
func Render(segments []Segment, format model.Format) string {
	if len(segments) == 0 {
		return ""
	}
	switch format {
	case model.FormatSRT:
		return renderSRT(segments)
	case model.FormatTimestamped:
		return renderTimestamped(segments)
	default:
		return renderPlain(segments)
	}
}

// Plain retourne le transcript en un seul paragraphe, segments séparés par un espace.
func (t Transcript) Plain() string {
	return Render(t.Segments, model.FormatPlain)
}

// Timestamped retourne une ligne "[HH:MM:SS,mmm] texte" par segment.
func (t Transcript) Timestamped() string {
	return Render(t.Segments, model.FormatTimestamped)
}

// SRT retourne le transcript au format SubRip.
func (t Transcript) SRT() string {
	return Render(t.Segments, model.FormatSRT)
}

func renderPlain(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}

func renderTimestamped(segments []Segment) string {
	var b strings.Builder
	for i, s := range segments {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteByte('[')
		b.WriteString(s.StartTime().Timecode())
		b.WriteString("] ")
		b.WriteString(s.Text)
	}
	return b.String()
}

// renderSRT écrit un bloc par segment :
//
//	<index>
//	<début> --> <fin>
//	<texte>
//
// les blocs sont séparés par une ligne vide.
func renderSRT(segments []Segment) string {
	var b strings.Builder
	for i, s := range segments {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('\n')
		b.WriteString(s.StartTime().Timecode())
		b.WriteString(" --> ")
		b.WriteString(s.EndTime().Timecode())
		b.WriteByte('\n')
		b.WriteString(s.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
