package telephony

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const vonageCallsURL = "https://api.nexmo.com/v1/calls"

// Vonage places calls through the Voice API. Authentication is a short-lived
// application JWT signed with the application's RSA private key.
type Vonage struct {
	ApplicationID  string
	PrivateKeyPath string

	HTTPClient *http.Client
}

func NewVonage(applicationID, privateKeyPath string) *Vonage {
	return &Vonage{
		ApplicationID:  applicationID,
		PrivateKeyPath: privateKeyPath,
		HTTPClient:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (v *Vonage) appJWT() (string, error) {
	if v.ApplicationID == "" || v.PrivateKeyPath == "" {
		return "", errors.New("vonage application id / private key not configured")
	}

	pem, err := os.ReadFile(v.PrivateKeyPath)
	if err != nil {
		return "", fmt.Errorf("read private key: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return "", fmt.Errorf("parse private key: %w", err)
	}

	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"application_id": v.ApplicationID,
		"iat":            now.Unix(),
		"exp":            now.Add(5 * time.Minute).Unix(),
		"jti":            uuid.NewString(),
	})
	return tok.SignedString(key)
}

type vonagePhone struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type vonageCallRequest struct {
	To        []vonagePhone `json:"to"`
	From      vonagePhone   `json:"from"`
	AnswerURL []string      `json:"answer_url"`
	EventURL  []string      `json:"event_url"`
}

type vonageCallResponse struct {
	UUID string `json:"uuid"`
}

func (v *Vonage) DispatchCall(ctx context.Context, toE164, fromE164, answerURL, eventURL string) (string, error) {
	token, err := v.appJWT()
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(vonageCallRequest{
		To:        []vonagePhone{{Type: "phone", Number: toE164}},
		From:      vonagePhone{Type: "phone", Number: fromE164},
		AnswerURL: []string{answerURL},
		EventURL:  []string{eventURL},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, vonageCallsURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("vonage call create failed: %d: %s", resp.StatusCode, msg)
	}

	var out vonageCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.UUID == "" {
		return "", errors.New("vonage response missing call uuid")
	}
	return out.UUID, nil
}

// HTTPRecordingFetcher downloads recordings over plain HTTP.
type HTTPRecordingFetcher struct {
	Client   *http.Client
	MaxBytes int64
}

func NewHTTPRecordingFetcher() *HTTPRecordingFetcher {
	return &HTTPRecordingFetcher{
		Client:   &http.Client{Timeout: 60 * time.Second},
		MaxBytes: 25 << 20,
	}
}

func (f *HTTPRecordingFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("recording fetch failed: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New("empty recording")
	}
	return body, nil
}
