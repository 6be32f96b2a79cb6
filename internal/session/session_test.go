package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/ytranscript/internal/subtitles"
	"github.com/patrickprogramme/ytranscript/pkg/model"
)

const watchURL = "https://www.youtube.com/watch?v=abc123"

var (
	enSegments = []subtitles.Segment{
		{Text: "Hi", Start: 0, Duration: 1},
		{Text: "there", Start: 1, Duration: 2},
	}
	frSegments = []subtitles.Segment{
		{Text: "Salut", Start: 0, Duration: 1.5},
	}
)

// fakeFetcher renvoie des réponses préparées et compte les appels.
type fakeFetcher struct {
	mu        sync.Mutex
	calls     int
	langCalls []string

	fetchErr error
	langErr  error

	// si non nil, Fetch / FetchLanguage attendent sur release
	started chan struct{}
	release chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, videoID string) (subtitles.Transcript, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	f.wait()
	if f.fetchErr != nil {
		return subtitles.Transcript{}, f.fetchErr
	}
	return subtitles.NewTranscript(videoID, enSegments, []subtitles.LanguageOption{
		{Code: "en", Name: "English"},
		{Code: "fr", Name: "French", Generated: true},
	}), nil
}

func (f *fakeFetcher) FetchLanguage(ctx context.Context, videoID, code string) ([]subtitles.Segment, error) {
	f.mu.Lock()
	f.langCalls = append(f.langCalls, code)
	f.mu.Unlock()
	f.wait()
	if f.langErr != nil {
		return nil, f.langErr
	}
	return frSegments, nil
}

func (f *fakeFetcher) wait() {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
}

func (f *fakeFetcher) fetchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type saved struct {
	text, filename, mime string
}

type fakeSink struct {
	copied  []string
	saved   []saved
	copyErr error
	saveErr error
}

func (s *fakeSink) Copy(text string) error {
	if s.copyErr != nil {
		return s.copyErr
	}
	s.copied = append(s.copied, text)
	return nil
}

func (s *fakeSink) Save(text, filename, mimeType string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, saved{text, filename, mimeType})
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSession(f *fakeFetcher, sink Sink) *Session {
	return New(f, sink, WithLogger(quietLogger()))
}

func readySession(t *testing.T, f *fakeFetcher, sink Sink) *Session {
	t.Helper()
	s := newSession(f, sink)
	require.NoError(t, s.Submit(context.Background(), watchURL))
	require.Equal(t, StateReady, s.State())
	return s
}

func TestNewSessionIsIdle(t *testing.T) {
	s := newSession(&fakeFetcher{}, nil)
	snap := s.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.False(t, snap.HasTranscript())
	assert.Nil(t, snap.Err)
	assert.Equal(t, "", s.Render(model.FormatPlain))
}

func TestSubmitInvalidURL(t *testing.T) {
	f := &fakeFetcher{}
	s := newSession(f, nil)

	for _, raw := range []string{"", "not a url", "https://example.com/watch?v=abc", "https://www.youtube.com/watch"} {
		err := s.Submit(context.Background(), raw)
		var se *Error
		require.True(t, errors.As(err, &se), raw)
		assert.Equal(t, KindInvalidURL, se.Kind)
		assert.Equal(t, MsgInvalidURL, se.Message)

		snap := s.Snapshot()
		assert.Equal(t, StateError, snap.State)
		assert.False(t, snap.HasTranscript())
	}
	assert.Equal(t, 0, f.fetchCalls(), "aucune requête pour une URL invalide")
}

func TestSubmitSuccess(t *testing.T) {
	f := &fakeFetcher{}
	s := readySession(t, f, nil)

	snap := s.Snapshot()
	assert.Equal(t, "abc123", snap.VideoID())
	assert.Equal(t, enSegments, snap.Segments())
	assert.Equal(t, "", snap.SelectedLanguage)
	assert.Nil(t, snap.Err)
	assert.Len(t, snap.Transcript.Languages, 2)
	assert.Equal(t, "Hi there", s.Render(model.FormatPlain))
}

func TestSubmitFetchFailedDropsTranscript(t *testing.T) {
	f := &fakeFetcher{}
	s := readySession(t, f, nil)

	f.fetchErr = errors.New("Transcripts are disabled for this video.")
	err := s.Submit(context.Background(), "https://youtu.be/other")
	require.Error(t, err)
	assert.ErrorIs(t, err, &Error{Kind: KindFetchFailed})

	snap := s.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.False(t, snap.HasTranscript())
	assert.Equal(t, "Transcripts are disabled for this video.", snap.Err.Message)
	assert.Equal(t, "", s.Render(model.FormatSRT))
}

func TestSubmitFetchFailedGenericMessage(t *testing.T) {
	f := &fakeFetcher{fetchErr: errors.New("")}
	s := newSession(f, nil)

	err := s.Submit(context.Background(), watchURL)
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, MsgFetchFailed, se.Message)
}

func TestSelectLanguage(t *testing.T) {
	f := &fakeFetcher{}
	s := readySession(t, f, nil)

	require.NoError(t, s.SelectLanguage(context.Background(), "fr"))
	snap := s.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, "fr", snap.SelectedLanguage)
	assert.Equal(t, frSegments, snap.Segments())
	assert.Equal(t, "abc123", snap.VideoID())
	assert.Len(t, snap.Transcript.Languages, 2, "la liste des langues est conservée")
	assert.Equal(t, []string{"fr"}, f.langCalls)
}

func TestSelectLanguageFailurePreservesTranscript(t *testing.T) {
	f := &fakeFetcher{}
	s := readySession(t, f, nil)
	before := s.Snapshot()

	f.langErr = errors.New("No transcript found in language 'de' for this video.")
	err := s.SelectLanguage(context.Background(), "de")
	assert.ErrorIs(t, err, &Error{Kind: KindLanguageFetchFailed})

	after := s.Snapshot()
	assert.Equal(t, StateError, after.State)
	require.True(t, after.HasTranscript())
	assert.Equal(t, before.Segments(), after.Segments())
	assert.Equal(t, before.SelectedLanguage, after.SelectedLanguage)
	assert.Equal(t, "No transcript found in language 'de' for this video.", after.Err.Message)
	assert.Equal(t, "Hi there", s.Render(model.FormatPlain))
}

func TestSelectLanguageEmptyRestoresDefault(t *testing.T) {
	f := &fakeFetcher{}
	s := readySession(t, f, nil)
	require.NoError(t, s.SelectLanguage(context.Background(), "fr"))

	require.NoError(t, s.SelectLanguage(context.Background(), ""))
	snap := s.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, "", snap.SelectedLanguage)
	assert.Equal(t, enSegments, snap.Segments())
	assert.Equal(t, []string{"fr"}, f.langCalls, "aucune requête pour la langue par défaut")
}

func TestSelectLanguageRequiresReady(t *testing.T) {
	s := newSession(&fakeFetcher{}, nil)
	assert.ErrorIs(t, s.SelectLanguage(context.Background(), "fr"), ErrNotReady)

	f := &fakeFetcher{fetchErr: errors.New("boom")}
	s = newSession(f, nil)
	require.Error(t, s.Submit(context.Background(), watchURL))
	assert.ErrorIs(t, s.SelectLanguage(context.Background(), "fr"), ErrNotReady)
}

func TestBusyWhileFetching(t *testing.T) {
	f := &fakeFetcher{started: make(chan struct{}), release: make(chan struct{})}
	s := newSession(f, nil)

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), watchURL) }()
	<-f.started

	assert.Equal(t, StateLoading, s.State())
	assert.ErrorIs(t, s.Submit(context.Background(), watchURL), ErrBusy)
	assert.ErrorIs(t, s.SelectLanguage(context.Background(), "fr"), ErrBusy)

	close(f.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, 1, f.fetchCalls())
}

func TestResetDiscardsInFlightResult(t *testing.T) {
	f := &fakeFetcher{started: make(chan struct{}), release: make(chan struct{})}
	s := newSession(f, nil)

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), watchURL) }()
	<-f.started

	s.Reset()
	close(f.release)
	assert.ErrorIs(t, <-done, ErrStale)

	snap := s.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.False(t, snap.HasTranscript())
}

func TestObserversSeeTransitions(t *testing.T) {
	s := newSession(&fakeFetcher{}, nil)

	var states []State
	cancel := s.Subscribe(func(snap Snapshot) { states = append(states, snap.State) })

	require.NoError(t, s.Submit(context.Background(), watchURL))
	assert.Equal(t, []State{StateLoading, StateReady}, states)

	cancel()
	s.Reset()
	assert.Len(t, states, 2, "plus de notification après désabonnement")
}

func TestObserverSnapshotIsACopy(t *testing.T) {
	s := newSession(&fakeFetcher{}, nil)

	var last Snapshot
	s.Subscribe(func(snap Snapshot) { last = snap })
	require.NoError(t, s.Submit(context.Background(), watchURL))

	last.Transcript.Segments[0].Text = "changed"
	assert.Equal(t, "Hi", s.Snapshot().Segments()[0].Text)
}

func TestObserversSeeConcurrentResetInOrder(t *testing.T) {
	s := newSession(&fakeFetcher{}, nil)

	var (
		mu     sync.Mutex
		states []State
	)
	s.Subscribe(func(snap Snapshot) {
		if snap.State == StateReady {
			// Reset concurrent pendant la remise de Ready
			done := make(chan struct{})
			go func() {
				s.Reset()
				close(done)
			}()
			<-done
		}
		mu.Lock()
		states = append(states, snap.State)
		mu.Unlock()
	})

	require.NoError(t, s.Submit(context.Background(), watchURL))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []State{StateLoading, StateReady, StateIdle}, states)
	assert.Equal(t, s.State(), states[len(states)-1], "le dernier état remis est l'état courant")
}

func TestObserverCanCallBackIntoSession(t *testing.T) {
	s := newSession(&fakeFetcher{}, nil)

	var states []State
	s.Subscribe(func(snap Snapshot) {
		states = append(states, snap.State)
		if snap.State == StateReady {
			s.Reset()
		}
	})

	require.NoError(t, s.Submit(context.Background(), watchURL))
	assert.Equal(t, []State{StateLoading, StateReady, StateIdle}, states)
	assert.Equal(t, StateIdle, s.State())
}

func TestCopyUsesPlainText(t *testing.T) {
	sink := &fakeSink{}
	s := readySession(t, &fakeFetcher{}, sink)

	require.NoError(t, s.Copy())
	assert.Equal(t, []string{"Hi there"}, sink.copied)
	assert.Equal(t, MsgCopied, s.Snapshot().Notice)
}

func TestCopyFailureKeepsState(t *testing.T) {
	sink := &fakeSink{copyErr: errors.New("no clipboard")}
	s := readySession(t, &fakeFetcher{}, sink)

	err := s.Copy()
	assert.ErrorIs(t, err, &Error{Kind: KindClipboardFailed})

	snap := s.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.True(t, snap.HasTranscript())
	assert.Equal(t, MsgClipboardFailed, snap.Err.Message)

	// une copie réussie efface l'erreur de copie
	sink.copyErr = nil
	require.NoError(t, s.Copy())
	assert.Nil(t, s.Snapshot().Err)
}

func TestCopyWithoutTranscript(t *testing.T) {
	s := newSession(&fakeFetcher{}, &fakeSink{})
	assert.ErrorIs(t, s.Copy(), ErrNoTranscript)
	assert.ErrorIs(t, s.Copy(), subtitles.ErrNoTranscript)

	_, err := s.Save(model.FormatSRT)
	assert.ErrorIs(t, err, subtitles.ErrNoTranscript)
}

func TestSave(t *testing.T) {
	sink := &fakeSink{}
	s := readySession(t, &fakeFetcher{}, sink)

	ex, err := s.Save(model.FormatSRT)
	require.NoError(t, err)
	assert.Equal(t, "abc123_transcript.srt", ex.Filename)
	require.Len(t, sink.saved, 1)
	assert.Equal(t, saved{
		text:     "1\n00:00:00,000 --> 00:00:01,000\nHi\n\n2\n00:00:01,000 --> 00:00:03,000\nthere\n",
		filename: "abc123_transcript.srt",
		mime:     "application/x-subrip",
	}, sink.saved[0])

	ex, err = s.Save(model.FormatTimestamped)
	require.NoError(t, err)
	assert.Equal(t, "abc123_transcript_timestamped.txt", ex.Filename)
	assert.Equal(t, "text/plain", ex.MimeType)
	assert.Equal(t, "Saved abc123_transcript_timestamped.txt", s.Snapshot().Notice)
}

func TestSaveFailureKeepsState(t *testing.T) {
	sink := &fakeSink{saveErr: errors.New("disk full")}
	s := readySession(t, &fakeFetcher{}, sink)

	_, err := s.Save(model.FormatPlain)
	assert.ErrorIs(t, err, &Error{Kind: KindSaveFailed})
	assert.Equal(t, StateReady, s.State())
	assert.True(t, s.Snapshot().HasTranscript())
}

func TestNilSink(t *testing.T) {
	s := readySession(t, &fakeFetcher{}, nil)
	assert.ErrorIs(t, s.Copy(), &Error{Kind: KindClipboardFailed})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "InvalidUrl", KindInvalidURL.String())
	assert.Equal(t, "FetchFailed", KindFetchFailed.String())
	assert.Equal(t, "LanguageFetchFailed", KindLanguageFetchFailed.String())
	assert.Equal(t, "ClipboardFailed", KindClipboardFailed.String())
	assert.Equal(t, "loading", StateLoading.String())
}
