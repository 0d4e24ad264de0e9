package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries "sha256=" + hex(HMAC_SHA256(secret, body)).
const SignatureHeader = "X-Pfy-Signature"

// Verify checks a delivery signature against the shared webhook secret. The
// "sha256=" prefix is exact; the hex digits may be in either case.
func Verify(body []byte, signature string, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	got, ok := strings.CutPrefix(strings.TrimSpace(signature), "sha256=")
	if !ok {
		return false
	}
	return hmac.Equal([]byte(strings.ToLower(got)), []byte(hexMAC(body, secret)))
}

// Sign returns the header value Printify would send for body.
func Sign(body []byte, secret string) string {
	return "sha256=" + hexMAC(body, secret)
}

func hexMAC(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
