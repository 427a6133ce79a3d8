package hub

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// SignatureHeader is the request header carrying the payload digest.
const SignatureHeader = "X-Hub-Signature"

// algorithmToken is the only digest algorithm the signer uses.
const algorithmToken = "sha1"

// Shared secret length bounds, in characters of the textual form.
const (
	MinSecretLen = 16
	MaxSecretLen = 128
)

// VerifySignature checks an X-Hub-Signature header value against the raw
// request body using the receiver's resolved secret.
//
// Returns nil on success, *AuthError otherwise. Every malformed input is a
// rejection; nothing falls through to "authentic".
func (rc *Receiver) VerifySignature(id, header string, body []byte) error {
	secret, err := rc.secrets.Resolve(rc.name, id, MinSecretLen, MaxSecretLen)
	if err != nil {
		return authErr(ReasonSecretUnresolved, err)
	}

	if header == "" {
		return authErr(ReasonHeaderMissing, nil)
	}

	// Exactly "algorithm=hexdigest"; extra '=' is malformed.
	parts := strings.Split(header, "=")
	if len(parts) != 2 {
		return authErr(ReasonMalformedHeader, nil)
	}
	algo := strings.TrimSpace(parts[0])
	digestHex := strings.TrimSpace(parts[1])
	if !strings.EqualFold(algo, algorithmToken) {
		return authErr(ReasonMalformedHeader, nil)
	}

	supplied, err := hex.DecodeString(strings.ToLower(digestHex))
	if err != nil {
		return authErr(ReasonBadEncoding, err)
	}

	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(escapeNonASCII(string(body)))

	// Constant-time; comparing decoded bytes is equivalent to the
	// case-insensitive hex comparison the signer expects.
	if !hmac.Equal(mac.Sum(nil), supplied) {
		return authErr(ReasonSignatureMismatch, nil)
	}

	return nil
}

// Sign computes the signature header value ("sha1=<hex>") a signer would
// attach for the given secret and body. Used by tests and tooling.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(escapeNonASCII(string(body)))
	return algorithmToken + "=" + hex.EncodeToString(mac.Sum(nil))
}
