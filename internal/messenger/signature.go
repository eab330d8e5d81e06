package messenger

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the HMAC-SHA256 of the request body keyed by the
// app secret, formatted as "sha256=<hex>".
const SignatureHeader = "X-Hub-Signature-256"

const signaturePrefix = "sha256="

// Sign returns the header value Meta would send for body.
func Sign(appSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches body under appSecret.
func VerifySignature(appSecret string, body []byte, signature string) bool {
	if appSecret == "" {
		return false
	}
	got, ok := strings.CutPrefix(signature, signaturePrefix)
	if !ok || got == "" {
		return false
	}
	want := Sign(appSecret, body)[len(signaturePrefix):]
	return hmac.Equal([]byte(want), []byte(strings.ToLower(got)))
}
