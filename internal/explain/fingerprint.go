package explain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint derives the cache key for a word-in-sentence lookup. The
// sentence is trimmed and lowercased before hashing so trivial whitespace
// or casing differences hit the same entry. A non-empty configID scopes
// the key to that provider/model; the default configuration uses the bare
// key, which keeps entries written by earlier versions valid.
func Fingerprint(sentence, word, configID string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(sentence))))
	h := hex.EncodeToString(sum[:])[:8]
	key := fmt.Sprintf("explain:%s:%s", h, strings.ToLower(word))
	if configID != "" {
		key += ":" + configID
	}
	return key
}
