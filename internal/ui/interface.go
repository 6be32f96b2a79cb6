package ui

import (
	"context"
)

type Interface interface {
	// GetYtURL doit renvoyer une URL YouTube dont on sait extraire l'id.
	// Implémentation terminale : priorité clipboard -> prompt
	GetYtURL(ctx context.Context) (string, error)

	// Print écrit le texte tel quel sur la sortie standard (transcript rendu).
	Print(ctx context.Context, s string)

	PrintInfo(ctx context.Context, s string)
	PrintError(ctx context.Context, s string)
}
