package transcriptapi

import (
	"errors"
	"fmt"

	"github.com/patrickprogramme/ytranscript/internal/subtitles"
)

// Messages génériques utilisés quand l'API ne fournit pas de champ "error".
const (
	MsgUnknownError        = "An unknown error occurred."
	MsgLanguageFetchFailed = "Failed to fetch transcript in selected language."
)

var ErrEmptyVideoID = errors.New("video id is required")

// APIError est une erreur rapportée par l'API (réponse hors 2xx).
// Message est le champ "error" du corps tel quel, ou un message générique.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// transcriptResponse est le corps JSON de GET /api/transcript.
type transcriptResponse struct {
	VideoID            string                     `json:"video_id"`
	Transcript         []subtitles.Segment        `json:"transcript"`
	AvailableLanguages []subtitles.LanguageOption `json:"available_languages"`
}

// languageResponse est le corps JSON de GET /api/transcript/<code>.
// video_id et language_code peuvent être présents, le client ne s'en sert pas.
type languageResponse struct {
	Transcript []subtitles.Segment `json:"transcript"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health est le corps JSON de GET /api/health.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h Health) String() string {
	return fmt.Sprintf("%s: %s", h.Status, h.Message)
}
