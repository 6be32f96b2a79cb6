package yt

import (
	"net/url"
	"strings"
)

const (
	shortHost = "youtu.be"
	longHost  = "youtube.com"
)

// ExtractVideoID extrait l'identifiant vidéo d'une URL YouTube.
//   - youtu.be/<id>            -> premier segment du chemin, tel quel
//   - *youtube.com/...?v=<id>  -> paramètre de requête v
//
// Retourne ("", false) si la chaîne n'est pas une URL absolue, si l'hôte n'est pas
// YouTube ou si aucun id n'est présent. Ne panique jamais.
func ExtractVideoID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	// une URL sans schéma ni hôte ("not a url") n'est pas une URL au sens du navigateur
	if u.Scheme == "" || u.Host == "" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	var id string
	switch {
	case host == shortHost:
		path := strings.TrimPrefix(u.EscapedPath(), "/")
		id, _, _ = strings.Cut(path, "/")
	case strings.Contains(host, longHost):
		id = queryParam(u.RawQuery, "v")
	default:
		return "", false
	}

	if id == "" {
		return "", false
	}
	return id, true
}

// queryParam retourne la première valeur de key dans rawQuery.
// Comme un navigateur, seul "&" sépare les paires : un ";" reste dans la valeur.
// Une valeur mal échappée est retournée telle quelle.
func queryParam(rawQuery, key string) string {
	for pair := range strings.SplitSeq(rawQuery, "&") {
		k, v, _ := strings.Cut(pair, "=")
		if uk, err := url.QueryUnescape(k); err == nil {
			k = uk
		}
		if k != key {
			continue
		}
		if uv, err := url.QueryUnescape(v); err == nil {
			v = uv
		}
		return v
	}
	return ""
}

// IsYouTubeURL indique si s est une URL YouTube dont on sait extraire un id.
func IsYouTubeURL(s string) bool {
	_, ok := ExtractVideoID(s)
	return ok
}
