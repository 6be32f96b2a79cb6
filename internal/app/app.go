package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/patrickprogramme/ytranscript/internal/config"
	"github.com/patrickprogramme/ytranscript/internal/session"
	"github.com/patrickprogramme/ytranscript/internal/subtitles"
	"github.com/patrickprogramme/ytranscript/internal/ui"
	"github.com/patrickprogramme/ytranscript/pkg/model"
	"golang.org/x/text/language"
)

// CLIFlags contient les informations venant des flags de l'app.
// Les champs *Set indiquent qu'un flag a été passé explicitement.
type CLIFlags struct {
	ConfigPath    string
	URL           string
	Language      string
	Format        string
	Copy          bool
	CopySet       bool
	Save          bool
	SaveSet       bool
	OutDir        string
	APIURL        string
	ListLanguages bool
}

// Apply reporte les flags explicites sur la config.
func (f *CLIFlags) Apply(cfg *config.Config) {
	if f.Language != "" {
		cfg.PreferredLanguage = f.Language
	}
	if f.Format != "" {
		cfg.DefaultFormat = f.Format
	}
	if f.CopySet {
		cfg.CopyToClipboard = f.Copy
	}
	if f.SaveSet {
		cfg.SaveToFile = f.Save
	}
	if f.OutDir != "" {
		cfg.OutputDir = f.OutDir
	}
	if f.APIURL != "" {
		cfg.APIBaseURL = f.APIURL
	}
}

// App orchestre les différentes dépendances (UI, session, sink...)
type App struct {
	cfg   *config.Config
	ui    ui.Interface
	flags *CLIFlags
	sess  *session.Session
	log   *slog.Logger
}

// New construit l'application. fetcher et sink sont injectés pour les tests.
func New(cfg *config.Config, uiClient ui.Interface, flags *CLIFlags, fetcher session.Fetcher, sink session.Sink, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	if flags == nil {
		flags = &CLIFlags{}
	}
	return &App{
		cfg:   cfg,
		ui:    uiClient,
		flags: flags,
		sess:  session.New(fetcher, sink, session.WithLogger(log)),
		log:   log,
	}
}

// Session expose la session sous-jacente.
func (a *App) Session() *session.Session {
	return a.sess
}

// Run exécute le flux principal :
// URL -> transcript -> langue préférée -> liste des langues | copie / sauvegarde / affichage.
func (a *App) Run(ctx context.Context) error {
	format, err := model.ParseFormat(a.cfg.DefaultFormat)
	if err != nil {
		return err
	}

	// Récupération de l'URL : priorité flag > clipboard > prompt
	url := a.flags.URL
	if url == "" {
		u, err := a.ui.GetYtURL(ctx)
		if err != nil {
			return fmt.Errorf("get url: %w", err)
		}
		url = u
	}

	cancel := a.sess.Subscribe(a.report(ctx))
	defer cancel()

	if err := a.sess.Submit(ctx, url); err != nil {
		return err
	}

	snap := a.sess.Snapshot()
	a.ui.PrintInfo(ctx, fmt.Sprintf("Video %s: %d segments", snap.VideoID(), len(snap.Segments())))

	if a.flags.ListLanguages {
		a.printLanguages(ctx, snap.Transcript)
		return nil
	}

	if lang := a.cfg.PreferredLanguage; lang != "" {
		a.switchLanguage(ctx, snap.Transcript, lang)
	}

	if tag := subtitles.DetectLanguage(a.sess.Snapshot().Segments()); tag != language.Und {
		a.log.Info("detected transcript language", slog.String("language", tag.String()))
		a.ui.PrintInfo(ctx, "Detected language: "+subtitles.LanguageName(tag.String()))
	}

	var errs []error
	if a.cfg.CopyToClipboard {
		if err := a.sess.Copy(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.cfg.SaveToFile {
		if _, err := a.sess.Save(format); err != nil {
			errs = append(errs, err)
		}
	}
	if !a.cfg.CopyToClipboard && !a.cfg.SaveToFile {
		a.ui.Print(ctx, a.sess.Render(format))
	}
	return errors.Join(errs...)
}

// switchLanguage demande la langue lang. Un échec laisse le transcript par défaut en place.
func (a *App) switchLanguage(ctx context.Context, tr *subtitles.Transcript, lang string) {
	if tr != nil && len(tr.Languages) > 0 && !tr.HasLanguage(lang) {
		a.ui.PrintError(ctx, fmt.Sprintf("Language %q is not listed for this video, trying anyway.", lang))
	}
	err := a.sess.SelectLanguage(ctx, lang)
	if err == nil {
		return
	}
	var se *session.Error
	if errors.As(err, &se) {
		// déjà signalé par report ; on continue avec la langue par défaut
		a.log.Warn("keeping default language", slog.String("language", lang))
		return
	}
	a.ui.PrintError(ctx, err.Error())
}

func (a *App) printLanguages(ctx context.Context, tr *subtitles.Transcript) {
	if tr == nil || len(tr.Languages) == 0 {
		a.ui.PrintInfo(ctx, "No other languages available.")
		return
	}
	var b strings.Builder
	b.WriteString("Available languages:\n")
	for _, l := range tr.Languages {
		fmt.Fprintf(&b, "  %-8s %s\n", l.Code, l.Label())
	}
	a.ui.Print(ctx, b.String())
}

// report affiche les erreurs et messages de la session au fil des transitions.
func (a *App) report(ctx context.Context) func(session.Snapshot) {
	var lastErr *session.Error
	var lastNotice string
	return func(snap session.Snapshot) {
		if snap.State == session.StateLoading {
			a.ui.PrintInfo(ctx, "Loading...")
		}
		if snap.Err != nil && snap.Err != lastErr {
			a.ui.PrintError(ctx, "Error: "+snap.Err.Message)
		}
		lastErr = snap.Err
		if snap.Notice != "" && snap.Notice != lastNotice {
			a.ui.PrintInfo(ctx, snap.Notice)
		}
		lastNotice = snap.Notice
	}
}

// Displayed indique si err a déjà été présentée à l'utilisateur par l'application.
func Displayed(err error) bool {
	var se *session.Error
	return errors.As(err, &se)
}
