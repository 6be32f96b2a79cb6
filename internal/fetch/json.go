// Package fetch fournit des utilitaires légers et testables pour interroger
// des API HTTP qui répondent en JSON.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultMaxBytes  = 10_000_000
	DefaultUserAgent = "ytranscript/1.0"
)

// Erreurs exportées
var (
	ErrStatus   = errors.New("unexpected HTTP status")
	ErrTooLarge = errors.New("response body too large")
)

// StatusError est retournée quand le serveur répond hors 2xx.
// Body contient le corps (borné) pour que l'appelant puisse en extraire un message.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", ErrStatus, e.Status)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Options regroupe les paramètres d'une requête. Les valeurs nulles prennent les défauts.
type Options struct {
	Client    *http.Client
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

func (o Options) withDefaults() Options {
	if o.Client == nil {
		o.Client = http.DefaultClient
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return o
}

// countingReader compte le nombre d'octets lus via Read.
type countingReader struct {
	R io.Reader
	N int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.R.Read(p)
	if n > 0 {
		c.N += int64(n)
	}
	return n, err
}

// FetchJSONInto fait un GET sur rawURL et décode le JSON directement dans dst (dst doit être un pointeur).
// - ctx peut être nil.
// - hors 2xx : retourne *StatusError avec le corps (limité à MaxBytes).
// Utilise un json.Decoder sur un reader limité et détecte si le decode a nécessité
// plus de MaxBytes en vérifiant le compteur.
func FetchJSONInto(ctx context.Context, rawURL string, opts Options, dst any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts = opts.withDefaults()

	// valider l'URL tôt
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return fmt.Errorf("fetch json: invalid url %q: %w", rawURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("fetch json: new request: %w", err)
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := opts.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch json: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBytes))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       bytes.TrimSpace(body),
		}
	}

	if resp.ContentLength > 0 && resp.ContentLength > opts.MaxBytes {
		return fmt.Errorf("fetch json: content-length %d exceeds limit %d: %w", resp.ContentLength, opts.MaxBytes, ErrTooLarge)
	}

	// reader qui limite et qui compte les octets lus
	limitReader := io.LimitReader(resp.Body, opts.MaxBytes+1) // +1 pour détecter dépassement
	cr := &countingReader{R: limitReader}
	dec := json.NewDecoder(cr)

	if err := dec.Decode(dst); err != nil {
		if cr.N > opts.MaxBytes {
			return ErrTooLarge
		}
		return fmt.Errorf("fetch json: decode: %w", err)
	}

	// si on a lu plus que MaxBytes, le decode a consommé MaxBytes+1 => overflow
	if cr.N > opts.MaxBytes {
		return ErrTooLarge
	}
	return nil
}

// FetchJSON générique : fetch + unmarshal dans une valeur typée.
func FetchJSON[T any](ctx context.Context, rawURL string, opts Options) (T, error) {
	var zero T
	var v T
	if err := FetchJSONInto(ctx, rawURL, opts, &v); err != nil {
		return zero, err
	}
	return v, nil
}
