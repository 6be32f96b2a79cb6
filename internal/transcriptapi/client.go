// Package transcriptapi est le client HTTP de l'API de transcripts externe.
package transcriptapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickprogramme/ytranscript/internal/fetch"
	"github.com/patrickprogramme/ytranscript/internal/subtitles"
)

// Client interroge l'API :
//   - GET {base}/api/transcript?video_id=<id>
//   - GET {base}/api/transcript/<code>?video_id=<id>
//   - GET {base}/api/health
type Client struct {
	baseURL *url.URL
	opts    fetch.Options
	log     *slog.Logger
}

// Option configure un Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.opts.Client = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.opts.Timeout = d }
}

func WithMaxBytes(n int64) Option {
	return func(c *Client) { c.opts.MaxBytes = n }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.opts.UserAgent = ua }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New construit un client pour baseURL (ex: "http://localhost:5000").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("transcriptapi: invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("transcriptapi: base url %q must be http(s)", baseURL)
	}
	c := &Client{baseURL: u, log: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Fetch récupère le transcript par défaut et la liste des langues pour videoID.
func (c *Client) Fetch(ctx context.Context, videoID string) (subtitles.Transcript, error) {
	if videoID == "" {
		return subtitles.Transcript{}, ErrEmptyVideoID
	}
	endpoint := c.endpoint([]string{"api", "transcript"}, videoID)

	start := time.Now()
	var resp transcriptResponse
	if err := fetch.FetchJSONInto(ctx, endpoint, c.opts, &resp); err != nil {
		return subtitles.Transcript{}, c.wrap(err, MsgUnknownError)
	}
	c.log.Debug("transcript fetched",
		slog.String("video_id", videoID),
		slog.Int("segments", len(resp.Transcript)),
		slog.Int("languages", len(resp.AvailableLanguages)),
		slog.Duration("elapsed", time.Since(start)))

	id := resp.VideoID
	if id == "" {
		id = videoID
	}
	return subtitles.NewTranscript(id, resp.Transcript, resp.AvailableLanguages), nil
}

// FetchLanguage récupère uniquement les segments de videoID dans la langue code.
func (c *Client) FetchLanguage(ctx context.Context, videoID, code string) ([]subtitles.Segment, error) {
	if videoID == "" {
		return nil, ErrEmptyVideoID
	}
	if code == "" {
		return nil, errors.New("language code is required")
	}
	endpoint := c.endpoint([]string{"api", "transcript", code}, videoID)

	start := time.Now()
	var resp languageResponse
	if err := fetch.FetchJSONInto(ctx, endpoint, c.opts, &resp); err != nil {
		return nil, c.wrap(err, MsgLanguageFetchFailed)
	}
	c.log.Debug("language transcript fetched",
		slog.String("video_id", videoID),
		slog.String("language", code),
		slog.Int("segments", len(resp.Transcript)),
		slog.Duration("elapsed", time.Since(start)))
	return resp.Transcript, nil
}

// Health interroge /api/health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	h, err := fetch.FetchJSON[Health](ctx, c.endpoint([]string{"api", "health"}, ""), c.opts)
	if err != nil {
		return Health{}, c.wrap(err, MsgUnknownError)
	}
	return h, nil
}

// endpoint compose base + segments de chemin (échappés) + ?video_id=.
func (c *Client) endpoint(segments []string, videoID string) string {
	u := *c.baseURL
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	u = *u.JoinPath(escaped...)
	if videoID != "" {
		q := url.Values{}
		q.Set("video_id", videoID)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// wrap convertit une erreur HTTP en *APIError en reprenant le champ "error" du corps
// si présent, sinon le message générique.
func (c *Client) wrap(err error, generic string) error {
	var se *fetch.StatusError
	if errors.As(err, &se) {
		msg := generic
		var body errorResponse
		if json.Unmarshal(se.Body, &body) == nil && body.Error != "" {
			msg = body.Error
		}
		c.log.Warn("transcript api error", slog.Int("status", se.StatusCode), slog.String("message", msg))
		return &APIError{StatusCode: se.StatusCode, Message: msg}
	}
	return fmt.Errorf("transcriptapi: %w", err)
}
