package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/patrickprogramme/ytranscript/pkg/model"
)

// Validate vérifie la cohérence de la config.
// Retourne warnings (non-fataux) et une erreur si c'est critique.
func (c *Config) Validate() (warnings []string, err error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}

	u, perr := url.Parse(c.APIBaseURL)
	if perr != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return warnings, fmt.Errorf("api_base_url invalide : %q", c.APIBaseURL)
	}

	if _, ferr := model.ParseFormat(c.DefaultFormat); ferr != nil {
		return warnings, fmt.Errorf("default_format : %w", ferr)
	}

	if c.RequestTimeoutSec > 300 {
		return warnings, fmt.Errorf("request_timeout_sec trop grand : %d (max 300)", c.RequestTimeoutSec)
	}

	if c.PreferredLanguage != "" {
		if _, lerr := language.Parse(c.PreferredLanguage); lerr != nil {
			warnings = append(warnings, fmt.Sprintf("preferred_language %q n'est pas un code de langue reconnu", c.PreferredLanguage))
		}
	}

	if _, lerr := ParseLogLevel(c.LogLevel); lerr != nil {
		warnings = append(warnings, lerr.Error())
	}

	if st, serr := os.Stat(c.OutputDir); serr != nil {
		if os.IsNotExist(serr) {
			warnings = append(warnings, fmt.Sprintf("le dossier de sortie n'existe pas encore : %s", c.OutputDir))
		} else {
			return warnings, fmt.Errorf("impossible d'accéder au dossier de sortie %s : %w", c.OutputDir, serr)
		}
	} else if !st.IsDir() {
		return warnings, fmt.Errorf("output_dir n'est pas un répertoire : %s", c.OutputDir)
	}

	if c.Cache.Enabled && c.Cache.Path == "" {
		warnings = append(warnings, "cache activé sans chemin : cache désactivé")
		c.Cache.Enabled = false
	}

	return warnings, nil
}

// ParseLogLevel convertit log_level en slog.Level ; "info" en cas d'erreur.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level inconnu : %q", s)
	}
}
