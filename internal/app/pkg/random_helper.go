package pkg

import (
	"math/rand"
	"strings"
)

// Ambiguous characters (0/O, 1/I/L) are excluded because codes are read
// aloud or typed from a receipt.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func RandomString(n int) string {
	runes := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	b := make([]rune, n)
	for i := range b {
		b[i] = runes[rand.Intn(len(runes))]
	}
	return string(b)
}

// RandomCode returns a human-typable code of `groups` groups of `size`
// characters joined by dashes, e.g. "M4TK-9QWZ".
func RandomCode(groups, size int) string {
	parts := make([]string, groups)
	for g := range parts {
		b := make([]byte, size)
		for i := range b {
			b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		parts[g] = string(b)
	}
	return strings.Join(parts, "-")
}
