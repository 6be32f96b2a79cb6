package subtitles

import (
	"fmt"
	"slices"

	"github.com/patrickprogramme/ytranscript/pkg/model"
)

// Segment représente un énoncé minuté du transcript, tel que renvoyé par l'API.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`    // secondes depuis le début de la vidéo
	Duration float64 `json:"duration"` // secondes
}

// StartTime retourne le début du segment.
func (s Segment) StartTime() model.Seconds {
	return model.Seconds(s.Start)
}

// EndTime retourne la fin du segment (début + durée).
func (s Segment) EndTime() model.Seconds {
	return model.Seconds(s.Start).Add(model.Seconds(s.Duration))
}

// LanguageOption décrit une piste de transcript disponible pour la vidéo.
type LanguageOption struct {
	Code      string `json:"language_code"`
	Name      string `json:"language"`
	Generated bool   `json:"is_generated"`
}

// Label retourne le libellé affiché dans le sélecteur de langue.
// Exemple : "English (Auto)", "Français (Manual)".
func (l LanguageOption) Label() string {
	name := l.Name
	if name == "" {
		name = l.Code
	}
	return fmt.Sprintf("%s (%s)", name, model.SourceOf(l.Generated).Label())
}

// Transcript est le résultat d'une récupération réussie.
// Sur changement de langue, seuls les Segments sont remplacés.
type Transcript struct {
	VideoID   string           `json:"video_id"`
	Segments  []Segment        `json:"transcript"`
	Languages []LanguageOption `json:"available_languages"`
}

// NewTranscript construit un Transcript à partir de données déjà prêtes.
// - pure function, pas d'I/O.
func NewTranscript(videoID string, segments []Segment, languages []LanguageOption) Transcript {
	return Transcript{
		VideoID:   videoID,
		Segments:  segments,
		Languages: languages,
	}
}

// Clone retourne une copie profonde : les slices ne sont pas partagées.
func (t Transcript) Clone() Transcript {
	return Transcript{
		VideoID:   t.VideoID,
		Segments:  slices.Clone(t.Segments),
		Languages: slices.Clone(t.Languages),
	}
}

// WithSegments retourne une copie de t dont seuls les segments changent.
func (t Transcript) WithSegments(segments []Segment) Transcript {
	out := t.Clone()
	out.Segments = slices.Clone(segments)
	return out
}

// HasLanguage indique si code figure parmi les langues disponibles.
func (t Transcript) HasLanguage(code string) bool {
	for _, l := range t.Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}
