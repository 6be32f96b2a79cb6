package fsutil

import (
	"regexp"
	"strings"
)

// limite de longueur de la chaine
const max = 200

// invalidFileRunes définit les caractères interdits dans les noms de fichiers
// \x00-\x1F sont les caractères de contrôle
var invalidFileRunes = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

// multiSpace détecte les séquences d'espaces pour les réduire à un seul "_".
var multiSpace = regexp.MustCompile(`\s+`)

// SanitizeFilename nettoie une chaîne de caractères pour en faire un nom de fichier valide.
// Étapes :
// - Remplace les caractères interdits par "_"
// - Remplace les espaces par "_"
// - Supprime les points terminaux
// - Limite la longueur du nom
// - Fournit un nom par défaut si la chaîne est vide
//
// Un nom déjà valide (ex: "abc123_transcript.srt") est retourné tel quel.
func SanitizeFilename(name string) string {
	clean := strings.TrimSpace(name)
	clean = invalidFileRunes.ReplaceAllString(clean, "_")
	clean = multiSpace.ReplaceAllString(clean, "_")
	clean = strings.TrimRight(clean, ".")
	clean = strings.TrimLeft(clean, ".")

	if clean == "" {
		return "untitled"
	}
	if len(clean) > max {
		clean = clean[:max]
	}
	return clean
}
