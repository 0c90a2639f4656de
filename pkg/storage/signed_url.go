package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DownloadToken is the validated payload carried by a signed download link.
type DownloadToken struct {
	JobID     string
	FilePath  string
	ExpiresAt time.Time
}

// DownloadSigner mints and verifies HMAC-signed download tokens so export
// files can be fetched without any session state.
type DownloadSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewDownloadSigner constructs a signer. A non-positive TTL falls back to 24h.
func NewDownloadSigner(secret string, ttl time.Duration) *DownloadSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DownloadSigner{secret: []byte(secret), ttl: ttl}
}

// Sign returns a token of the form jobID.expiry.path.signature.
func (s *DownloadSigner) Sign(jobID, filePath string) (string, time.Time, error) {
	if jobID == "" || filePath == "" {
		return "", time.Time{}, fmt.Errorf("jobID and filePath required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(filePath))
	expiry := strconv.FormatInt(expiresAt.Unix(), 10)
	token := strings.Join([]string{jobID, expiry, encodedPath, s.signature(jobID, expiry, encodedPath)}, ".")
	return token, expiresAt, nil
}

// Verify checks the token signature and expiry and returns the payload.
func (s *DownloadSigner) Verify(token string) (DownloadToken, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return DownloadToken{}, fmt.Errorf("invalid token format")
	}
	jobID, expiry, encodedPath, signature := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.signature(jobID, expiry, encodedPath)), []byte(signature)) {
		return DownloadToken{}, fmt.Errorf("invalid token signature")
	}
	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return DownloadToken{}, fmt.Errorf("decode path: %w", err)
	}
	expUnix, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return DownloadToken{}, fmt.Errorf("invalid timestamp")
	}
	expiresAt := time.Unix(expUnix, 0)
	if time.Now().After(expiresAt) {
		return DownloadToken{}, fmt.Errorf("token expired")
	}
	return DownloadToken{JobID: jobID, FilePath: string(rawPath), ExpiresAt: expiresAt}, nil
}

func (s *DownloadSigner) signature(jobID, expiry, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(jobID + "|" + expiry + "|" + encodedPath))
	return hex.EncodeToString(mac.Sum(nil))
}
