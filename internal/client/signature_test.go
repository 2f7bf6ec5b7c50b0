package client

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

func signedHeader(payload []byte, ts time.Time, secret string) string {
	sig := ComputeSignature(payload, ts.Unix(), secret)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))
}

func TestVerifyWebhookSignature_Valid(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	header := signedHeader(payload, time.Now(), testSecret)

	err := VerifyWebhookSignature(payload, header, testSecret, 5*time.Minute)
	assert.NoError(t, err)
}

func TestVerifyWebhookSignature_MissingHeader(t *testing.T) {
	err := VerifyWebhookSignature([]byte(`{}`), "", testSecret, 5*time.Minute)
	assert.ErrorIs(t, err, ErrMissingSignature)
}

func TestVerifyWebhookSignature_TamperedBody(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := signedHeader(payload, time.Now(), testSecret)

	err := VerifyWebhookSignature([]byte(`{"id":"evt_2"}`), header, testSecret, 5*time.Minute)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWebhookSignature_WrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := signedHeader(payload, time.Now(), "whsec_other")

	err := VerifyWebhookSignature(payload, header, testSecret, 5*time.Minute)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWebhookSignature_StaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := signedHeader(payload, time.Now().Add(-10*time.Minute), testSecret)

	err := VerifyWebhookSignature(payload, header, testSecret, 5*time.Minute)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWebhookSignature_MultipleSignatures(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	good := hex.EncodeToString(ComputeSignature(payload, now.Unix(), testSecret))
	bad := hex.EncodeToString(ComputeSignature(payload, now.Unix(), "whsec_old"))

	// rotated secrets send both signatures; one valid match is enough
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", now.Unix(), bad, good)
	err := VerifyWebhookSignature(payload, header, testSecret, 5*time.Minute)
	assert.NoError(t, err)
}
