package session

import (
	"github.com/patrickprogramme/ytranscript/internal/subtitles"
)

// State est l'état de la session.
//
//	Idle -> Loading -> Ready | Error
//	Ready -> Loading -> Ready | Error   (changement de langue)
//	Error -> Loading                    (nouvelle soumission)
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot est une copie de l'état de la session à un instant donné.
// Les observateurs peuvent la conserver : rien n'est partagé avec la session.
type Snapshot struct {
	State            State
	Transcript       *subtitles.Transcript // nil si aucun transcript
	SelectedLanguage string                // "" = langue par défaut
	Err              *Error                // dernière erreur, nil si aucune
	Notice           string                // message informatif (ex: copie réussie)
	Seq              uint64                // numéro de la dernière requête émise
}

// HasTranscript indique si un transcript peut être rendu.
func (s Snapshot) HasTranscript() bool {
	return s.Transcript != nil
}

// VideoID retourne l'id de la vidéo chargée, ou "".
func (s Snapshot) VideoID() string {
	if s.Transcript == nil {
		return ""
	}
	return s.Transcript.VideoID
}

// Segments retourne les segments affichés (nil si aucun transcript).
func (s Snapshot) Segments() []subtitles.Segment {
	if s.Transcript == nil {
		return nil
	}
	return s.Transcript.Segments
}
