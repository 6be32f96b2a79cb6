package transcriptapi

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/patrickprogramme/ytranscript/internal/cache"
	"github.com/patrickprogramme/ytranscript/internal/subtitles"
)

// Fetcher est le contrat implémenté par Client et Cached.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) (subtitles.Transcript, error)
	FetchLanguage(ctx context.Context, videoID, code string) ([]subtitles.Segment, error)
}

// types d'entrées du cache, séparés pour que deux requêtes différentes ne partagent jamais une clé
const (
	keyTranscript = "transcript"
	keyLanguage   = "language"
)

// Cached enveloppe un Fetcher : seules les réponses réussies sont mises en cache.
// Une erreur du cache n'empêche jamais la requête réseau.
type Cached struct {
	next  Fetcher
	store *cache.Store
	log   *slog.Logger
}

func NewCached(next Fetcher, store *cache.Store, log *slog.Logger) *Cached {
	if log == nil {
		log = slog.Default()
	}
	return &Cached{next: next, store: store, log: log}
}

func (c *Cached) Fetch(ctx context.Context, videoID string) (subtitles.Transcript, error) {
	key := cache.Key(keyTranscript, videoID)
	var tr subtitles.Transcript
	if c.load(ctx, key, &tr) {
		c.log.Debug("transcript cache hit", slog.String("video_id", videoID))
		return tr, nil
	}

	tr, err := c.next.Fetch(ctx, videoID)
	if err != nil {
		return tr, err
	}
	c.save(ctx, key, tr)
	return tr, nil
}

func (c *Cached) FetchLanguage(ctx context.Context, videoID, code string) ([]subtitles.Segment, error) {
	key := cache.Key(keyLanguage, videoID, code)
	var segs []subtitles.Segment
	if c.load(ctx, key, &segs) {
		c.log.Debug("language cache hit", slog.String("video_id", videoID), slog.String("language", code))
		return segs, nil
	}

	segs, err := c.next.FetchLanguage(ctx, videoID, code)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, segs)
	return segs, nil
}

func (c *Cached) load(ctx context.Context, key string, dst any) bool {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("cache read failed", slog.String("key", key), slog.Any("error", err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.log.Warn("cache entry unreadable", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return true
}

func (c *Cached) save(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache encode failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := c.store.Put(ctx, key, data); err != nil {
		c.log.Warn("cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}
