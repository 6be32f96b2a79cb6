package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickprogramme/ytranscript/internal/assets"
	"github.com/patrickprogramme/ytranscript/internal/bootstrap"
	"gopkg.in/yaml.v3"
)

const (
	CurrentConfigVersion = 2
	DefaultPath          = "ytranscript.yaml"
	DefaultAPIBaseURL    = "http://localhost:3000"
)

// Variables d'environnement prioritaires sur le fichier.
const (
	EnvAPIURL    = "YTRANSCRIPT_API_URL"
	EnvLogLevel  = "YTRANSCRIPT_LOG_LEVEL"
	EnvOutputDir = "YTRANSCRIPT_OUTPUT_DIR"
)

// struct pour les paramètres de configuration
type Config struct {
	// API de transcripts
	APIBaseURL        string `yaml:"api_base_url"`
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	MaxResponseBytes  int64  `yaml:"max_response_bytes"`
	UserAgent         string `yaml:"user_agent"`

	// Sortie
	OutputDir         string `yaml:"output_dir"`
	DefaultFormat     string `yaml:"default_format"`
	PreferredLanguage string `yaml:"preferred_language"`
	CopyToClipboard   bool   `yaml:"copy_to_clipboard"`
	SaveToFile        bool   `yaml:"save_to_file"`
	OverwriteFiles    bool   `yaml:"overwrite_files"`

	// Cache des réponses de l'API
	Cache struct {
		Enabled    bool   `yaml:"enabled"`
		Path       string `yaml:"path"`
		TTLMinutes int    `yaml:"ttl_minutes"`
	} `yaml:"cache"`

	LogLevel string `yaml:"log_level"`

	ConfigVersion int `yaml:"config_version"`

	configFilePath string
}

// Configuration par défaut (fallback si l'asset embarqué est manquant)
func defaultConfig() *Config {
	c := &Config{}

	c.APIBaseURL = DefaultAPIBaseURL
	c.RequestTimeoutSec = 15
	c.MaxResponseBytes = 8 << 20
	c.UserAgent = "ytranscript/1.0"

	c.OutputDir = "."
	c.DefaultFormat = "plain"
	c.PreferredLanguage = ""
	c.CopyToClipboard = true
	c.SaveToFile = false
	c.OverwriteFiles = true

	c.Cache.Enabled = true
	c.Cache.Path = filepath.Join(".cache", "ytranscript.db")
	c.Cache.TTLMinutes = 24 * 60

	c.LogLevel = "info"

	c.ConfigVersion = CurrentConfigVersion

	return c
}

// Default retourne la configuration par défaut, sans lire de fichier.
func Default() *Config {
	c := defaultConfig()
	c.normalizeConfig()
	return c
}

// Load lit la config; si le fichier n'existe pas, on copie l'exemple embarqué depuis internal/assets
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	// si le fichier n'existe pas -> le créer à partir de l'asset embarqué
	created, err := bootstrap.EnsureConfigPresent(path, assets.Embedded, assets.DefaultConfigAsset)
	if err != nil {
		return nil, fmt.Errorf("échec de création du fichier de configuration par défaut : %w", err)
	}
	if created {
		slog.Info("fichier de configuration par défaut créé", slog.String("path", path))
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lecture du fichier de configuration %s impossible : %w", path, err)
	}

	// corriger les chemins Windows avec des backslashes
	data = bytes.ReplaceAll(data, []byte(`\`), []byte(`/`))

	// les champs absents conservent les valeurs par défaut
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("analyse du fichier de configuration %s impossible : %w", path, err)
	}
	cfg.configFilePath = path

	cfg.normalizeConfig()

	if cfg.ConfigVersion < CurrentConfigVersion {
		if err := orchestrateConfigUpgrade(cfg, cfg.ConfigVersion); err != nil {
			return nil, fmt.Errorf("échec de mise à niveau de la configuration : %w", err)
		}
		cfg.normalizeConfig()
	}

	return cfg, nil
}

// ApplyEnv applique les variables d'environnement non vides par-dessus la config.
// getenv est os.Getenv en production.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvAPIURL)); v != "" {
		c.APIBaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(getenv(EnvOutputDir)); v != "" {
		c.OutputDir = v
	}
	c.normalizeConfig()
}

// Path retourne le chemin du fichier lu, "" si la config ne vient pas d'un fichier.
func (c *Config) Path() string {
	return c.configFilePath
}

// RequestTimeout retourne le délai par requête.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// CacheTTL retourne la durée de vie des entrées du cache.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

func (c *Config) normalizeConfig() {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}

	c.OutputDir = strings.TrimSpace(c.OutputDir)
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	c.OutputDir = filepath.Clean(c.OutputDir)

	c.DefaultFormat = strings.TrimSpace(strings.ToLower(c.DefaultFormat))
	if c.DefaultFormat == "" {
		c.DefaultFormat = "plain"
	}

	c.PreferredLanguage = strings.TrimSpace(c.PreferredLanguage)
	c.UserAgent = strings.TrimSpace(c.UserAgent)

	if c.RequestTimeoutSec <= 0 {
		c.RequestTimeoutSec = 15
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = 8 << 20
	}

	c.Cache.Path = strings.TrimSpace(c.Cache.Path)
	if c.Cache.Path != "" {
		c.Cache.Path = filepath.Clean(c.Cache.Path)
	}
	if c.Cache.TTLMinutes <= 0 {
		c.Cache.TTLMinutes = 24 * 60
	}

	c.LogLevel = strings.TrimSpace(strings.ToLower(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
