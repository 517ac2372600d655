package models

import (
	"crypto/rand"
	"fmt"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ShareTokenLength is the length of generated share tokens.
const ShareTokenLength = 12

// NewShareToken returns a random alphanumeric token for a share link.
func NewShareToken() (string, error) {
	buf := make([]byte, ShareTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating share token: %w", err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}
