// Package session orchestre la récupération d'un transcript : extraction de l'id,
// appel de l'API, changement de langue, puis rendu vers le presse-papier ou un fichier.
package session

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/patrickprogramme/ytranscript/internal/subtitles"
	"github.com/patrickprogramme/ytranscript/internal/yt"
	"github.com/patrickprogramme/ytranscript/pkg/model"
)

// ErrStale est retournée quand le résultat d'une requête arrive après un Reset :
// il est ignoré et n'est jamais appliqué.
var ErrStale = errors.New("request result discarded")

// Fetcher est l'API de transcripts externe.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) (subtitles.Transcript, error)
	FetchLanguage(ctx context.Context, videoID, code string) ([]subtitles.Segment, error)
}

// Sink reçoit le texte déjà rendu (presse-papier, fichier...).
type Sink interface {
	Copy(text string) error
	Save(text, filename, mimeType string) error
}

// Option configure une Session.
type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Session détient le transcript courant et la langue sélectionnée.
// Une seule requête peut être en cours : un appel concurrent reçoit ErrBusy.
type Session struct {
	fetcher Fetcher
	sink    Sink
	log     *slog.Logger
	gate    *semaphore.Weighted

	mu         sync.Mutex
	state      State
	transcript *subtitles.Transcript
	original   []subtitles.Segment // segments de la langue par défaut
	selected   string
	err        *Error
	notice     string
	seq        uint64

	observers map[int]func(Snapshot)
	nextObsID int
	pending   []Snapshot // snapshots publiés, pas encore remis
	draining  bool       // un appelant remet déjà les snapshots en attente
}

// New construit une session inactive. sink peut être nil si Copy/Save ne sont pas utilisés.
func New(fetcher Fetcher, sink Sink, opts ...Option) *Session {
	s := &Session{
		fetcher:   fetcher,
		sink:      sink,
		log:       slog.Default(),
		gate:      semaphore.NewWeighted(1),
		state:     StateIdle,
		observers: make(map[int]func(Snapshot)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Subscribe enregistre fn, appelée après chaque transition avec le nouvel état.
// Les snapshots sont remis un par un, dans l'ordre des transitions, hors du verrou
// de la session. Si une autre goroutine est déjà en train de remettre des snapshots,
// c'est elle qui remet le nouveau. Retourne la fonction de désabonnement.
func (s *Session) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Snapshot retourne une copie de l'état courant.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// State retourne l'état courant.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit lance la récupération du transcript pour rawURL.
// Le transcript précédent est abandonné dès la soumission. Retourne l'*Error
// enregistrée en cas d'échec, ErrBusy si une requête est déjà en cours.
func (s *Session) Submit(ctx context.Context, rawURL string) error {
	if !s.gate.TryAcquire(1) {
		return ErrBusy
	}
	defer s.gate.Release(1)

	id, ok := yt.ExtractVideoID(rawURL)

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.transcript = nil
	s.original = nil
	s.selected = ""
	s.notice = ""
	if !ok {
		e := newError(KindInvalidURL, MsgInvalidURL, nil)
		s.state = StateError
		s.err = e
		s.commitLocked()
		return e
	}
	s.state = StateLoading
	s.err = nil
	s.commitLocked()

	s.log.Info("fetching transcript", slog.String("video_id", id), slog.Uint64("seq", seq))
	tr, err := s.fetcher.Fetch(ctx, id)

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return ErrStale
	}
	if err != nil {
		// échec initial : rien n'est conservé
		e := newError(KindFetchFailed, messageFrom(err, MsgFetchFailed), err)
		s.state = StateError
		s.err = e
		s.log.Warn("transcript fetch failed", slog.String("video_id", id), slog.Any("error", err))
		s.commitLocked()
		return e
	}

	if tr.VideoID == "" {
		tr.VideoID = id
	}
	loaded := tr.Clone()
	s.transcript = &loaded
	s.original = slices.Clone(loaded.Segments)
	s.selected = ""
	s.state = StateReady
	s.log.Info("transcript ready",
		slog.String("video_id", loaded.VideoID),
		slog.Int("segments", len(loaded.Segments)),
		slog.Int("languages", len(loaded.Languages)))
	s.commitLocked()
	return nil
}

// SelectLanguage change la langue du transcript. Valide uniquement depuis Ready.
//   - code == "" : retour à la langue par défaut, sans requête
//   - sinon : requête de la langue ; en cas d'échec le transcript affiché est conservé
func (s *Session) SelectLanguage(ctx context.Context, code string) error {
	if !s.gate.TryAcquire(1) {
		return ErrBusy
	}
	defer s.gate.Release(1)

	s.mu.Lock()
	if s.state != StateReady || s.transcript == nil {
		s.mu.Unlock()
		return ErrNotReady
	}
	if code == "" {
		restored := s.transcript.WithSegments(s.original)
		s.transcript = &restored
		s.selected = ""
		s.err = nil
		s.notice = ""
		s.commitLocked()
		return nil
	}

	s.seq++
	seq := s.seq
	videoID := s.transcript.VideoID
	s.state = StateLoading
	s.err = nil
	s.notice = ""
	s.commitLocked()

	s.log.Info("fetching transcript language", slog.String("video_id", videoID), slog.String("language", code))
	segs, err := s.fetcher.FetchLanguage(ctx, videoID, code)

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return ErrStale
	}
	if err != nil {
		// échec non destructif : transcript et sélection précédents inchangés
		e := newError(KindLanguageFetchFailed, messageFrom(err, MsgLanguageFetchFailed), err)
		s.state = StateError
		s.err = e
		s.log.Warn("language fetch failed", slog.String("video_id", videoID), slog.String("language", code), slog.Any("error", err))
		s.commitLocked()
		return e
	}

	switched := s.transcript.WithSegments(segs)
	s.transcript = &switched
	s.selected = code
	s.state = StateReady
	s.commitLocked()
	return nil
}

// Reset ramène la session à Idle et abandonne le transcript.
// Le résultat d'une requête encore en cours sera ignoré.
func (s *Session) Reset() {
	s.mu.Lock()
	s.seq++
	s.state = StateIdle
	s.transcript = nil
	s.original = nil
	s.selected = ""
	s.err = nil
	s.notice = ""
	s.commitLocked()
}

// Render rend le transcript courant dans le format f ; "" si aucun transcript.
func (s *Session) Render(f model.Format) string {
	s.mu.Lock()
	var segs []subtitles.Segment
	if s.transcript != nil {
		segs = s.transcript.Segments
	}
	s.mu.Unlock()
	return subtitles.Render(segs, f)
}

// Copy envoie le texte brut du transcript au presse-papier.
// Un échec est enregistré (ClipboardFailed) sans toucher au transcript ni à l'état.
func (s *Session) Copy() error {
	s.mu.Lock()
	if s.transcript == nil {
		s.mu.Unlock()
		return ErrNoTranscript
	}
	text := subtitles.Render(s.transcript.Segments, model.FormatPlain)
	s.mu.Unlock()

	err := s.sinkCopy(text)

	s.mu.Lock()
	if err != nil {
		e := newError(KindClipboardFailed, MsgClipboardFailed, err)
		s.err = e
		s.notice = ""
		s.log.Warn("clipboard copy failed", slog.Any("error", err))
		s.commitLocked()
		return e
	}
	s.clearSinkErrorLocked()
	s.notice = MsgCopied
	s.commitLocked()
	return nil
}

// Save rend le transcript dans le format f et le remet au sink avec le nom de
// fichier et le type MIME correspondants. Retourne l'export remis.
func (s *Session) Save(f model.Format) (subtitles.Export, error) {
	s.mu.Lock()
	if s.transcript == nil {
		s.mu.Unlock()
		return subtitles.Export{}, ErrNoTranscript
	}
	ex, err := subtitles.NewExport(*s.transcript, f)
	s.mu.Unlock()
	if err != nil {
		return subtitles.Export{}, err
	}

	err = s.sinkSave(ex)

	s.mu.Lock()
	if err != nil {
		e := newError(KindSaveFailed, MsgSaveFailed, err)
		s.err = e
		s.notice = ""
		s.log.Warn("save failed", slog.String("filename", ex.Filename), slog.Any("error", err))
		s.commitLocked()
		return ex, e
	}
	s.clearSinkErrorLocked()
	s.notice = "Saved " + ex.Filename
	s.commitLocked()
	return ex, nil
}

func (s *Session) sinkCopy(text string) error {
	if s.sink == nil {
		return errors.New("no sink configured")
	}
	return s.sink.Copy(text)
}

func (s *Session) sinkSave(ex subtitles.Export) error {
	if s.sink == nil {
		return errors.New("no sink configured")
	}
	return s.sink.Save(ex.Text, ex.Filename, ex.MimeType)
}

// clearSinkErrorLocked efface une erreur de copie/sauvegarde précédente,
// les erreurs de récupération restent affichées.
func (s *Session) clearSinkErrorLocked() {
	if s.err != nil && (s.err.Kind == KindClipboardFailed || s.err.Kind == KindSaveFailed) {
		s.err = nil
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:            s.state,
		SelectedLanguage: s.selected,
		Err:              s.err,
		Notice:           s.notice,
		Seq:              s.seq,
	}
	if s.transcript != nil {
		tr := s.transcript.Clone()
		snap.Transcript = &tr
	}
	return snap
}

// commitLocked publie l'état courant puis libère le verrou.
// Doit être appelée verrou tenu ; le verrou est relâché au retour.
// Un seul appelant à la fois remet la file aux observateurs, ce qui garantit
// l'ordre ; un commit fait pendant la remise (autre goroutine ou observateur)
// est ajouté à la file et remis par cet appelant.
func (s *Session) commitLocked() {
	s.pending = append(s.pending, s.snapshotLocked())
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	defer func() {
		s.draining = false
		s.mu.Unlock()
	}()

	for len(s.pending) > 0 {
		snap := s.pending[0]
		s.pending = s.pending[1:]
		obs := make([]func(Snapshot), 0, len(s.observers))
		for _, id := range slices.Sorted(maps.Keys(s.observers)) {
			obs = append(obs, s.observers[id])
		}
		s.mu.Unlock()

		s.log.Debug("session state", slog.String("state", snap.State.String()), slog.Uint64("seq", snap.Seq))
		for _, fn := range obs {
			fn(snap)
		}
		s.mu.Lock()
	}
}
