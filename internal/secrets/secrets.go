// Package secrets provides basic obfuscation for Provider credentials so
// they never appear in plaintext in logs, debug dumps, or cached request
// metadata. This is XOR obfuscation, not encryption: it stops casual
// scanning, not a motivated attacker with the source.
package secrets

import (
	"encoding/base64"
	"fmt"
)

const projectKey = "curateur_screenscraper_v1_2026"

// Obfuscate XORs plaintext against the package key and returns it as
// base64 so the result is safe to embed in JSON or log lines.
func Obfuscate(plaintext string) string {
	return ObfuscateWithKey(plaintext, projectKey)
}

// Deobfuscate reverses Obfuscate. An empty input returns an empty string.
func Deobfuscate(encoded string) (string, error) {
	return DeobfuscateWithKey(encoded, projectKey)
}

// ObfuscateWithKey obfuscates using an explicit key, for tests and for
// key-rotation tooling.
func ObfuscateWithKey(plaintext, key string) string {
	if plaintext == "" || key == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString(xorBytes([]byte(plaintext), key))
}

// DeobfuscateWithKey reverses ObfuscateWithKey.
func DeobfuscateWithKey(encoded, key string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode obfuscated credential: %w", err)
	}
	return string(xorBytes(raw, key)), nil
}

// Mask renders a credential for display: the first and last two
// characters survive, the middle is replaced with asterisks. Short values
// are fully masked.
func Mask(plaintext string) string {
	if len(plaintext) <= 4 {
		return "****"
	}
	return plaintext[:2] + "****" + plaintext[len(plaintext)-2:]
}

func xorBytes(data []byte, key string) []byte {
	keyBytes := []byte(key)
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ keyBytes[i%len(keyBytes)]
	}
	return out
}
