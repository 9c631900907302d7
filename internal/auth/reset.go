package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"strings"
	"time"
)

// ResetTokenCodec signs and verifies time-boxed opaque tokens for
// password-reset links. Tokens are scoped by a namespace salt so they can
// never be confused with session tokens signed under the same secret, and
// freshness is judged at verification time from the embedded signing
// timestamp rather than a baked-in expiry claim. That lets the max-age
// policy be tuned without changing the semantics of outstanding tokens.
//
// Wire format: base64url(json payload) "." base64url(big-endian unix ts)
// "." base64url(hmac-sha256 signature). Safe for concurrent use.
type ResetTokenCodec struct {
	secret []byte
}

// NewResetTokenCodec builds a codec around the shared signing secret.
func NewResetTokenCodec(secret string) *ResetTokenCodec {
	return &ResetTokenCodec{secret: []byte(secret)}
}

type resetPayload struct {
	Subject string `json:"sub"`
}

// Sign returns a URL-safe token embedding subject and the current timestamp,
// scoped by namespace.
func (c *ResetTokenCodec) Sign(subject, namespace string) (string, error) {
	return c.SignAt(subject, namespace, time.Now())
}

// SignAt signs with an explicit timestamp.
func (c *ResetTokenCodec) SignAt(subject, namespace string, issuedAt time.Time) (string, error) {
	data, err := json.Marshal(resetPayload{Subject: subject})
	if err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(issuedAt.Unix()))

	signed := base64.RawURLEncoding.EncodeToString(data) + "." + base64.RawURLEncoding.EncodeToString(ts)
	sig := c.sign(namespace, signed)
	return signed + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}

// Verify checks the token's signature under namespace and returns the
// embedded subject. It fails with ErrTokenExpired once the signing age
// reaches maxAge, and with ErrInvalidToken for any structural, signature or
// namespace mismatch.
func (c *ResetTokenCodec) Verify(token, namespace string, maxAge time.Duration) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", ErrInvalidToken
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", ErrInvalidToken
	}
	expected := c.sign(namespace, parts[0]+"."+parts[1])
	if subtle.ConstantTimeCompare(sig, expected) != 1 {
		return "", ErrInvalidToken
	}

	tsRaw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil || len(tsRaw) != 8 {
		return "", ErrInvalidToken
	}
	issuedAt := time.Unix(int64(binary.BigEndian.Uint64(tsRaw)), 0)
	if time.Since(issuedAt) >= maxAge {
		return "", ErrTokenExpired
	}

	data, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalidToken
	}
	var payload resetPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Subject == "" {
		return "", ErrInvalidToken
	}
	return payload.Subject, nil
}

// sign derives a per-namespace key from the secret and signs the encoded
// payload, so tokens issued under one salt never verify under another.
func (c *ResetTokenCodec) sign(namespace, signed string) []byte {
	kd := hmac.New(sha256.New, c.secret)
	kd.Write([]byte(namespace))
	key := kd.Sum(nil)

	h := hmac.New(sha256.New, key)
	h.Write([]byte(signed))
	return h.Sum(nil)
}
