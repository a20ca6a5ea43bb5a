package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/pdfvault/pkg/token"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	iss := token.NewIssuer("test-secret")

	raw, err := iss.Issue("file-123", token.ClassDownload, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	fileID, err := iss.Verify(raw, token.ClassDownload)
	require.NoError(t, err)
	assert.Equal(t, "file-123", fileID)
}

func TestVerifyWrongClass(t *testing.T) {
	iss := token.NewIssuer("test-secret")

	raw, err := iss.Issue("file-123", token.ClassDownload, time.Hour)
	require.NoError(t, err)

	_, err = iss.Verify(raw, token.ClassGeneral)
	assert.ErrorIs(t, err, token.ErrWrongClass)
}

func TestVerifyExpired(t *testing.T) {
	iss := token.NewIssuer("test-secret")

	raw, err := iss.Issue("file-123", token.ClassDownload, -time.Second)
	require.NoError(t, err)

	_, err = iss.Verify(raw, token.ClassDownload)
	assert.ErrorIs(t, err, token.ErrExpired)
}

func TestVerifyBadSignature(t *testing.T) {
	iss := token.NewIssuer("test-secret")
	other := token.NewIssuer("other-secret")

	raw, err := iss.Issue("file-123", token.ClassDownload, time.Hour)
	require.NoError(t, err)

	_, err = other.Verify(raw, token.ClassDownload)
	assert.ErrorIs(t, err, token.ErrBadSignature)
}

func TestVerifyMalformed(t *testing.T) {
	iss := token.NewIssuer("test-secret")

	_, err := iss.Verify("not-a-token", token.ClassDownload)
	assert.ErrorIs(t, err, token.ErrMalformed)
}
