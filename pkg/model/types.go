package model

import (
	"fmt"
	"math"
	"strings"
)

// Seconds représente un décalage en secondes (fractionnaires) depuis le début de la vidéo.
type Seconds float64

// Timecode formate Seconds en "HH:MM:SS,mmm" (format SubRip).
// Les heures ne bouclent pas à 24 : 90000 -> "25:00:00,000".
// Une valeur négative, NaN ou infinie est ramenée à 0.
func (s Seconds) Timecode() string {
	v := float64(s)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		v = 0
	}
	h := int64(math.Floor(v / 3600))
	m := int64(math.Floor(math.Mod(v, 3600) / 60))
	sec := int64(math.Floor(math.Mod(v, 60)))
	ms := int64(math.Floor(math.Mod(v, 1) * 1000))
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, sec, ms)
}

// Add retourne s + d (fin d'un segment = début + durée).
func (s Seconds) Add(d Seconds) Seconds {
	return s + d
}

// Format est l'encodage texte demandé pour un transcript.
type Format string

const (
	FormatPlain       Format = "plain"
	FormatTimestamped Format = "timestamped"
	FormatSRT         Format = "srt"
)

// Formats liste les formats supportés, dans l'ordre d'affichage.
var Formats = []Format{FormatPlain, FormatTimestamped, FormatSRT}

// ParseFormat convertit une chaîne en Format, retourne une erreur si format inconnu.
// "txt" est accepté comme alias de "plain".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "txt":
		return FormatPlain, nil
	case "timestamped":
		return FormatTimestamped, nil
	case "srt":
		return FormatSRT, nil
	default:
		return "", fmt.Errorf("format demandé inconnu: %s", s)
	}
}

// Extension retourne l'extension de fichier (avec le point).
func (f Format) Extension() string {
	if f == FormatSRT {
		return ".srt"
	}
	return ".txt"
}

// MimeType retourne l'indication de type MIME passée au sink de sauvegarde.
func (f Format) MimeType() string {
	if f == FormatSRT {
		return "application/x-subrip"
	}
	return "text/plain"
}

// FilenameFor compose le nom de fichier d'export pour videoID.
//   - plain       -> <id>_transcript.txt
//   - timestamped -> <id>_transcript_timestamped.txt
//   - srt         -> <id>_transcript.srt
func (f Format) FilenameFor(videoID string) string {
	if f == FormatTimestamped {
		return videoID + "_transcript_timestamped.txt"
	}
	return videoID + "_transcript" + f.Extension()
}

func (f Format) String() string {
	return string(f)
}
