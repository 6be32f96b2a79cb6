package app

import (
	"fmt"
	"log/slog"

	"github.com/patrickprogramme/ytranscript/internal/clipboard"
	"github.com/patrickprogramme/ytranscript/internal/fsutil"
)

// HostSink remet le texte rendu au système : presse-papier et fichiers dans OutDir.
type HostSink struct {
	OutDir    string
	Overwrite bool

	writeClipboard func(string) error
	log            *slog.Logger
	lastPath       string
}

func NewHostSink(outDir string, overwrite bool, log *slog.Logger) *HostSink {
	if log == nil {
		log = slog.Default()
	}
	return &HostSink{
		OutDir:         outDir,
		Overwrite:      overwrite,
		writeClipboard: clipboard.WriteAll,
		log:            log,
	}
}

func (h *HostSink) Copy(text string) error {
	return h.writeClipboard(text)
}

// Save écrit text dans OutDir/filename. mimeType n'est utilisé que pour le log,
// l'extension du nom de fichier suffit sur disque.
func (h *HostSink) Save(text, filename, mimeType string) error {
	path, err := fsutil.SaveFileAtomic(h.OutDir, fsutil.SanitizeFilename(filename), []byte(text), h.Overwrite)
	if err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	h.lastPath = path
	h.log.Info("transcript saved",
		slog.String("path", path),
		slog.String("mime", mimeType),
		slog.Int("bytes", len(text)))
	return nil
}

// LastPath retourne le chemin du dernier fichier écrit.
func (h *HostSink) LastPath() string {
	return h.lastPath
}
