package clipboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrUnsupported : aucun utilitaire de presse-papier n'est disponible (xclip, xsel, wl-copy...).
var ErrUnsupported = errors.New("presse-papier non disponible sur ce système")

// backend du presse-papier, remplacé dans les tests
var (
	unsupported = func() bool { return clipboard.Unsupported }
	readAll     = clipboard.ReadAll
	writeAll    = clipboard.WriteAll
)

// ReadAll lit le contenu texte du presse-papier, sans espaces autour.
func ReadAll() (string, error) {
	if unsupported() {
		return "", ErrUnsupported
	}
	text, err := readAll()
	if err != nil {
		return "", fmt.Errorf("lecture du presse-papier : %w", err)
	}
	return strings.TrimSpace(text), nil
}

// WriteAll écrit une chaîne de caractères dans le presse-papier.
// Une chaîne vide est valide : le presse-papier est vidé.
func WriteAll(text string) error {
	if unsupported() {
		return ErrUnsupported
	}
	if err := writeAll(text); err != nil {
		return fmt.Errorf("écriture dans le presse-papier : %w", err)
	}
	return nil
}
