package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const verifyAPIBase = "https://verify.twilio.com/v2/Services"

// Twilio implements Provider against the Twilio Verify v2 REST API.
type Twilio struct {
	accountSID string
	authToken  string
	serviceSID string
	client     *http.Client
}

func NewTwilio(accountSID, authToken, serviceSID string) *Twilio {
	return &Twilio{
		accountSID: accountSID,
		authToken:  authToken,
		serviceSID: serviceSID,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *Twilio) Start(ctx context.Context, phoneNumber string) (Verification, error) {
	form := url.Values{}
	form.Set("To", phoneNumber)
	form.Set("Channel", "sms")

	endpoint := fmt.Sprintf("%s/%s/Verifications", verifyAPIBase, t.serviceSID)
	return t.post(ctx, endpoint, form)
}

func (t *Twilio) Check(ctx context.Context, phoneNumber, code string) (Verification, error) {
	form := url.Values{}
	form.Set("To", phoneNumber)
	form.Set("Code", code)

	endpoint := fmt.Sprintf("%s/%s/VerificationCheck", verifyAPIBase, t.serviceSID)
	return t.post(ctx, endpoint, form)
}

func (t *Twilio) post(ctx context.Context, endpoint string, form url.Values) (Verification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Verification{}, err
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := t.client.Do(req)
	if err != nil {
		return Verification{}, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return Verification{}, &apiError{status: res.StatusCode, body: string(body)}
	}

	var payload struct {
		Sid    string `json:"sid"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return Verification{}, err
	}

	return Verification{ID: payload.Sid, Status: payload.Status}, nil
}

type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("twilio verify request failed: status %d", e.status)
}
