package storage

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadSignerRoundTrip(t *testing.T) {
	signer := NewDownloadSigner("test-secret", time.Hour)

	token, expiresAt, err := signer.Sign("job-123", "job-123/schedule.ics")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	payload, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "job-123", payload.JobID)
	assert.Equal(t, "job-123/schedule.ics", payload.FilePath)
}

func TestDownloadSignerRejectsTampering(t *testing.T) {
	signer := NewDownloadSigner("test-secret", time.Hour)

	token, _, err := signer.Sign("job-123", "job-123/schedule.ics")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "job-999"
	_, err = signer.Verify(strings.Join(parts, "."))
	assert.Error(t, err)
}

func TestDownloadSignerRejectsExpired(t *testing.T) {
	signer := NewDownloadSigner("test-secret", time.Hour)
	token, _, err := signer.Sign("job-123", "job-123/schedule.ics")
	require.NoError(t, err)

	// Re-sign the payload with an expiry in the past so only the
	// timestamp check can fail.
	parts := strings.Split(token, ".")
	parts[1] = strconv.FormatInt(time.Now().Add(-time.Minute).Unix(), 10)
	parts[3] = signer.signature(parts[0], parts[1], parts[2])
	_, err = signer.Verify(strings.Join(parts, "."))
	assert.ErrorContains(t, err, "expired")
}

func TestDownloadSignerRequiresFields(t *testing.T) {
	signer := NewDownloadSigner("test-secret", time.Hour)
	_, _, err := signer.Sign("", "path")
	assert.Error(t, err)

	_, err = signer.Verify("not-a-token")
	assert.Error(t, err)
}
