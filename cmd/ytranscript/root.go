package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/patrickprogramme/ytranscript/internal/app"
	"github.com/patrickprogramme/ytranscript/internal/assets"
	"github.com/patrickprogramme/ytranscript/internal/bootstrap"
	"github.com/patrickprogramme/ytranscript/internal/cache"
	"github.com/patrickprogramme/ytranscript/internal/config"
	"github.com/patrickprogramme/ytranscript/internal/session"
	"github.com/patrickprogramme/ytranscript/internal/transcriptapi"
	"github.com/patrickprogramme/ytranscript/internal/ui"
)

func newRootCmd() *cobra.Command {
	flags := &app.CLIFlags{}

	root := &cobra.Command{
		Use:   "ytranscript [url]",
		Short: "Fetch a YouTube transcript as plain text, timestamped text or SRT",
		Long: "Fetch a YouTube transcript through the transcript API.\n" +
			"Without a URL argument, the clipboard is used if it holds a YouTube URL, otherwise the URL is prompted.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.URL = args[0]
			}
			flags.CopySet = cmd.Flags().Changed("copy")
			flags.SaveSet = cmd.Flags().Changed("save")
			return runTranscript(cmd, flags)
		},
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, "config", "", "path to config file (default: ytranscript.yaml next to the executable)")
	pf.StringVar(&flags.APIURL, "api-url", "", "transcript API base URL (overrides config and "+config.EnvAPIURL+")")

	f := root.Flags()
	f.StringVarP(&flags.Language, "lang", "l", "", "language code to fetch instead of the default track")
	f.StringVarP(&flags.Format, "format", "f", "", "output format: plain | timestamped | srt")
	f.BoolVar(&flags.Copy, "copy", false, "copy the plain transcript to the clipboard")
	f.BoolVar(&flags.Save, "save", false, "save the transcript to the output directory")
	f.StringVarP(&flags.OutDir, "out", "o", "", "output directory for saved files")
	f.BoolVar(&flags.ListLanguages, "list-languages", false, "list the available languages and exit")

	root.AddCommand(newHealthCmd(flags), newInitCmd(flags))
	return root
}

func runTranscript(cmd *cobra.Command, flags *app.CLIFlags) error {
	cfg, log, err := loadConfig(flags)
	if err != nil {
		return err
	}

	fetcher, closeFn, err := buildFetcher(cmd, cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	sink := app.NewHostSink(cfg.OutputDir, cfg.OverwriteFiles, log)
	a := app.New(cfg, ui.NewTerminal(), flags, fetcher, sink, log)
	if err := a.Run(cmd.Context()); err != nil {
		return err
	}
	if p := sink.LastPath(); p != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Transcript written to:\n%s\n", p)
	}
	return nil
}

// loadConfig charge la config, applique .env/env puis les flags, et installe le logger.
func loadConfig(flags *app.CLIFlags) (*config.Config, *slog.Logger, error) {
	path := flags.ConfigPath
	if path == "" {
		path = defaultConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("config load: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)
	flags.Apply(cfg)

	level, lerr := config.ParseLogLevel(cfg.LogLevel)
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	if lerr != nil {
		log.Warn("config", slog.Any("error", lerr))
	}

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		log.Warn("config", slog.String("warning", w))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("config %s: %w", cfg.Path(), err)
	}
	log.Debug("config loaded", slog.String("path", cfg.Path()), slog.String("api", cfg.APIBaseURL))
	return cfg, log, nil
}

func newClient(cfg *config.Config, log *slog.Logger) (*transcriptapi.Client, error) {
	return transcriptapi.New(cfg.APIBaseURL,
		transcriptapi.WithTimeout(cfg.RequestTimeout()),
		transcriptapi.WithMaxBytes(cfg.MaxResponseBytes),
		transcriptapi.WithUserAgent(cfg.UserAgent),
		transcriptapi.WithLogger(log),
	)
}

// buildFetcher construit le client de l'API, enveloppé par le cache SQLite si activé.
// Un cache inutilisable est ignoré avec un warning.
func buildFetcher(cmd *cobra.Command, cfg *config.Config, log *slog.Logger) (session.Fetcher, func(), error) {
	client, err := newClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	noop := func() {}
	if !cfg.Cache.Enabled {
		return client, noop, nil
	}

	path := cfg.Cache.Path
	if !filepath.IsAbs(path) && cfg.Path() != "" {
		path = filepath.Join(filepath.Dir(cfg.Path()), path)
	}
	store, err := cache.Open(path, cfg.CacheTTL())
	if err != nil {
		log.Warn("cache disabled", slog.String("path", path), slog.Any("error", err))
		return client, noop, nil
	}
	if n, err := store.Prune(cmd.Context()); err != nil {
		log.Warn("cache prune failed", slog.Any("error", err))
	} else if n > 0 {
		log.Debug("cache pruned", slog.Int64("entries", n))
	}
	return transcriptapi.NewCached(client, store, log), func() { _ = store.Close() }, nil
}

func newHealthCmd(flags *app.CLIFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the transcript API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(flags)
			if err != nil {
				return err
			}
			client, err := newClient(cfg, log)
			if err != nil {
				return err
			}
			h, err := client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health %s: %w", cfg.APIBaseURL, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), h.String())
			return nil
		},
	}
}

func newInitCmd(flags *app.CLIFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.ConfigPath
			if path == "" {
				path = defaultConfigPath()
			}
			status, err := bootstrap.WriteDefaultConfig(path, assets.Embedded, assets.DefaultConfigAsset, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite a modified config (a .bak copy is kept)")
	return cmd
}

// defaultConfigPath : ytranscript.yaml à côté de l'exécutable, sinon dans le dossier courant.
func defaultConfigPath() string {
	exePath, err := os.Executable()
	if err != nil {
		return config.DefaultPath
	}
	return filepath.Join(filepath.Dir(exePath), config.DefaultPath)
}

// silent indique si l'erreur a déjà été affichée par l'application.
func silent(err error) bool {
	return app.Displayed(err)
}
