package model

// SubSource représente la provenance d'une piste de transcript.
// automatic = généré automatiquement par Youtube
// manual = fourni par l'auteur de la vidéo
type SubSource string

const (
	SubSourceAutomatic SubSource = "automatic"
	SubSourceManual    SubSource = "manual"
)

// SourceOf convertit le champ is_generated de l'API.
func SourceOf(generated bool) SubSource {
	if generated {
		return SubSourceAutomatic
	}
	return SubSourceManual
}

// Label est le suffixe affiché dans la liste des langues.
func (s SubSource) Label() string {
	if s == SubSourceAutomatic {
		return "Auto"
	}
	return "Manual"
}

func (s SubSource) String() string {
	switch s {
	case SubSourceAutomatic:
		return "auto captions"
	case SubSourceManual:
		return "manual subtitles"
	default:
		return "unknown subtitles"
	}
}
