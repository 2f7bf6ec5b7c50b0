package client

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The gateway signs webhooks with an HMAC-SHA256 over "<timestamp>.<raw body>"
// and sends the result in a header of the form "t=<unix>,v1=<hex>". The
// signature covers the raw bytes, so the body must never be re-serialized
// before verification.

const signatureTolerance = 5 * time.Minute

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("webhook signature verification failed")
)

func VerifyWebhookSignature(payload []byte, sigHeader, secret string, tolerance time.Duration) error {
	if sigHeader == "" || secret == "" {
		return ErrMissingSignature
	}

	var (
		timestamp  int64
		signatures [][]byte
	)
	for _, part := range strings.Split(sigHeader, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
			}
			timestamp = ts
		case "v1":
			sig, err := hex.DecodeString(v)
			if err != nil {
				continue
			}
			signatures = append(signatures, sig)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return ErrInvalidSignature
	}

	if tolerance > 0 {
		age := time.Since(time.Unix(timestamp, 0))
		if age > tolerance || age < -tolerance {
			return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
		}
	}

	expected := ComputeSignature(payload, timestamp, secret)
	for _, sig := range signatures {
		if hmac.Equal(sig, expected) {
			return nil
		}
	}
	return ErrInvalidSignature
}

func ComputeSignature(payload []byte, timestamp int64, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return mac.Sum(nil)
}
