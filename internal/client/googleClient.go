package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"jansan-commerce/internal/config"
)

// GoogleVerifier checks a Google sign-in credential and returns the
// identity claims it carries.
type GoogleVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*GoogleClaims, error)
}

type GoogleClaims struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Aud     string `json:"aud"`
}

type googleVerifierImpl struct {
	httpClient   *http.Client
	clientID     string
	tokenInfoURL string
}

func NewGoogleVerifier(cfg *config.Google) GoogleVerifier {
	return &googleVerifierImpl{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		clientID:     cfg.ClientID,
		tokenInfoURL: cfg.TokenInfoURL,
	}
}

// VerifyIDToken asks Google's tokeninfo endpoint to validate the token
// signature and expiry, then checks the audience against our client id.
func (v *googleVerifierImpl) VerifyIDToken(ctx context.Context, idToken string) (*GoogleClaims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		v.tokenInfoURL+"?id_token="+url.QueryEscape(idToken), nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google tokeninfo error %d: %s", resp.StatusCode, string(b))
	}

	var claims GoogleClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decode tokeninfo response: %w", err)
	}

	if claims.Aud != v.clientID {
		return nil, fmt.Errorf("google token audience mismatch")
	}
	return &claims, nil
}
