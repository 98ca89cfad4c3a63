package auth

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

// GravatarURL returns the protocol-relative avatar URL for an email:
// 200px, PG rating, "mystery man" fallback.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")
	return "//www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
