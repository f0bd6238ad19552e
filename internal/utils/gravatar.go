package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL derives the avatar reference for an email the way the Gravatar
// service expects it: the MD5 of the trimmed, lowercased address. The same
// email always yields the same URL.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", hash)
}
