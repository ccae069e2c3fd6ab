package util

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var ErrInvalidFileName = errors.New("invalid file name")

// OwnerPrefix maps a visitor id to a stable directory-safe prefix so export
// artifacts never carry the raw guest id in their storage key.
func OwnerPrefix(ownerID string) string {
	sum := sha256.Sum256([]byte(ownerID))
	return hex.EncodeToString(sum[:12])
}

// ObjectName flattens a download name into a single key segment.
func ObjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	return strings.NewReplacer("/", "_", `\`, "_").Replace(name), nil
}
