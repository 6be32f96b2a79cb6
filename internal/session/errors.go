package session

import (
	"errors"
	"fmt"

	"github.com/patrickprogramme/ytranscript/internal/subtitles"
)

// Kind classe les erreurs présentées à l'utilisateur.
type Kind int

const (
	KindInvalidURL          Kind = iota + 1 // aucun id extrait : l'utilisateur ressaisit l'URL
	KindFetchFailed                         // échec de la récupération initiale : transcript supprimé
	KindLanguageFetchFailed                 // échec du changement de langue : transcript conservé
	KindClipboardFailed                     // échec de copie : état inchangé
	KindSaveFailed                          // échec de sauvegarde : état inchangé
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "InvalidUrl"
	case KindFetchFailed:
		return "FetchFailed"
	case KindLanguageFetchFailed:
		return "LanguageFetchFailed"
	case KindClipboardFailed:
		return "ClipboardFailed"
	case KindSaveFailed:
		return "SaveFailed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Messages affichés quand aucune source plus précise n'existe.
const (
	MsgInvalidURL          = "Could not extract Video ID from the URL. Please enter a valid YouTube URL."
	MsgFetchFailed         = "An unknown error occurred."
	MsgLanguageFetchFailed = "Failed to fetch transcript in selected language."
	MsgClipboardFailed     = "Failed to copy text. Please try selecting and copying manually."
	MsgSaveFailed          = "Failed to save the transcript file."
	MsgCopied              = "Copied to clipboard!"
)

// Sentinelles pour les appels refusés (aucune transition n'a lieu).
var (
	ErrBusy         = errors.New("a request is already in flight")
	ErrNotReady     = errors.New("session has no transcript ready")
	ErrNoTranscript = subtitles.ErrNoTranscript
)

// Error est l'erreur enregistrée dans le Snapshot et retournée à l'appelant.
type Error struct {
	Kind    Kind
	Message string // message utilisateur
	Err     error  // cause, peut être nil
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is permet errors.Is(err, &Error{Kind: KindFetchFailed}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// messageFrom retourne le message à afficher pour une cause d'échec :
// le texte de la cause si elle en a un, sinon le message générique.
func messageFrom(cause error, generic string) string {
	if cause == nil {
		return generic
	}
	if msg := cause.Error(); msg != "" {
		return msg
	}
	return generic
}
