package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"vtu/config"

	"github.com/go-resty/resty/v2"
)

// ProviderRequest describes one purchase to the billing provider
type ProviderRequest struct {
	ServiceID   string  // provider service id, e.g. "mtn-data", "dstv", "ikeja-electric"
	PlanCode    string  // variation code; empty for airtime and electricity
	Destination string  // phone, smartcard or meter number
	Amount      float64 // naira
	Reference   string  // our client reference, used for requery
}

// ProviderResult is the single failure shape the orchestrator reasons
// about: timeouts, 5xx and malformed bodies all land here as Success=false.
// Ambiguous marks the failures where we never saw a definitive answer, so
// the provider may in fact have delivered; a refunded row carrying it must
// be flagged for requery rather than treated as settled.
type ProviderResult struct {
	Success   bool
	Ambiguous bool   // transport error, 5xx or undecodable body
	Reference string // provider-side transaction reference
	Message   string
	Token     string // electricity token or exam pin, when the service returns one
	Raw       json.RawMessage
}

// CustomerResult is the outcome of a smartcard/meter lookup
type CustomerResult struct {
	Success bool
	Name    string
	Message string
}

// DeliveryStatus is the requeried state of an earlier purchase
type DeliveryStatus string

const (
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryFailed    DeliveryStatus = "FAILED"
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryUnknown   DeliveryStatus = "UNKNOWN"
)

// StatusResult is the outcome of a requery call
type StatusResult struct {
	Status  DeliveryStatus
	Message string
	Raw     json.RawMessage
}

// BillingProvider abstracts the third-party billing API
type BillingProvider interface {
	IsConfigured() bool
	Purchase(ctx context.Context, req ProviderRequest) ProviderResult
	ValidateCustomer(ctx context.Context, serviceID, identifier string) CustomerResult
	CheckStatus(ctx context.Context, reference string) StatusResult
}

// VTPassClient talks to a VTPass-compatible billing API
type VTPassClient struct {
	client    *resty.Client
	apiKey    string
	secretKey string
}

// NewVTPassClient builds the client from AppConfig
func NewVTPassClient() *VTPassClient {
	cfg := config.AppConfig
	client := resty.New().
		SetBaseURL(cfg.ProviderBaseURL).
		SetTimeout(time.Duration(cfg.ProviderTimeoutMs) * time.Millisecond).
		SetHeader("Content-Type", "application/json")
	return &VTPassClient{
		client:    client,
		apiKey:    cfg.ProviderAPIKey,
		secretKey: cfg.ProviderSecretKey,
	}
}

// IsConfigured reports whether provider credentials are present
func (v *VTPassClient) IsConfigured() bool {
	return v.apiKey != "" && v.secretKey != ""
}

// vtpassResponse is the loose shape the provider returns. Anything that
// does not decode into it, or decodes with an unrecognised code, is a
// failure.
type vtpassResponse struct {
	Code                string `json:"code"`
	ResponseDescription string `json:"response_description"`
	RequestID           string `json:"requestId"`
	PurchasedCode       string `json:"purchased_code"`
	Content             struct {
		Transactions struct {
			Status        string `json:"status"`
			TransactionID string `json:"transactionId"`
		} `json:"transactions"`
		Customer struct {
			Name string `json:"Customer_Name"`
		} `json:"Customer_Name,omitempty"`
	} `json:"content"`
	CustomerName string `json:"Customer_Name"`
	Token        string `json:"Token"`
}

// Purchase sends one purchase to the provider
func (v *VTPassClient) Purchase(ctx context.Context, req ProviderRequest) ProviderResult {
	payload := map[string]interface{}{
		"request_id":  req.Reference,
		"serviceID":   req.ServiceID,
		"billersCode": req.Destination,
		"phone":       req.Destination,
		"amount":      req.Amount,
	}
	if req.PlanCode != "" {
		payload["variation_code"] = req.PlanCode
	}

	resp, err := v.client.R().
		SetContext(ctx).
		SetHeader("api-key", v.apiKey).
		SetHeader("secret-key", v.secretKey).
		SetBody(payload).
		Post("/pay")
	if err != nil {
		log.Printf("[PROVIDER] purchase request error for %s: %v", req.Reference, err)
		return ProviderResult{Success: false, Ambiguous: true, Message: "provider unreachable"}
	}

	raw := json.RawMessage(resp.Body())
	if resp.StatusCode() >= 500 {
		log.Printf("[PROVIDER] purchase %s got status %d", req.Reference, resp.StatusCode())
		return ProviderResult{Success: false, Ambiguous: true, Message: "provider error", Raw: raw}
	}

	var body vtpassResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		log.Printf("[PROVIDER] purchase %s returned undecodable body: %v", req.Reference, err)
		return ProviderResult{Success: false, Ambiguous: true, Message: "unexpected provider response", Raw: raw}
	}

	// code 000 means accepted; delivery status rides in content
	if body.Code != "000" {
		msg := body.ResponseDescription
		if msg == "" {
			msg = "purchase declined by provider"
		}
		return ProviderResult{Success: false, Message: msg, Raw: raw}
	}
	if s := body.Content.Transactions.Status; s != "" && s != "delivered" && s != "completed" {
		return ProviderResult{
			Success: false,
			Message: fmt.Sprintf("provider reported status %q", s),
			Raw:     raw,
		}
	}

	token := body.Token
	if token == "" {
		token = body.PurchasedCode
	}
	return ProviderResult{
		Success:   true,
		Reference: body.Content.Transactions.TransactionID,
		Message:   body.ResponseDescription,
		Token:     token,
		Raw:       raw,
	}
}

// ValidateCustomer resolves a smartcard or meter number to a customer name
func (v *VTPassClient) ValidateCustomer(ctx context.Context, serviceID, identifier string) CustomerResult {
	resp, err := v.client.R().
		SetContext(ctx).
		SetHeader("api-key", v.apiKey).
		SetHeader("secret-key", v.secretKey).
		SetBody(map[string]interface{}{
			"serviceID":   serviceID,
			"billersCode": identifier,
		}).
		Post("/merchant-verify")
	if err != nil {
		log.Printf("[PROVIDER] validate customer error for %s: %v", identifier, err)
		return CustomerResult{Success: false, Message: "provider unreachable"}
	}

	var body vtpassResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Code != "000" {
		return CustomerResult{Success: false, Message: "could not verify customer"}
	}

	name := body.CustomerName
	if name == "" {
		name = body.Content.Customer.Name
	}
	if name == "" {
		return CustomerResult{Success: false, Message: "could not verify customer"}
	}
	return CustomerResult{Success: true, Name: name}
}

// CheckStatus requeries an earlier purchase by our client reference
func (v *VTPassClient) CheckStatus(ctx context.Context, reference string) StatusResult {
	resp, err := v.client.R().
		SetContext(ctx).
		SetHeader("api-key", v.apiKey).
		SetHeader("secret-key", v.secretKey).
		SetBody(map[string]interface{}{"request_id": reference}).
		Post("/requery")
	if err != nil {
		log.Printf("[PROVIDER] requery error for %s: %v", reference, err)
		return StatusResult{Status: DeliveryUnknown, Message: "provider unreachable"}
	}

	raw := json.RawMessage(resp.Body())
	var body vtpassResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return StatusResult{Status: DeliveryUnknown, Message: "unexpected provider response", Raw: raw}
	}

	switch body.Content.Transactions.Status {
	case "delivered", "completed":
		return StatusResult{Status: DeliveryDelivered, Message: body.ResponseDescription, Raw: raw}
	case "failed", "reversed":
		return StatusResult{Status: DeliveryFailed, Message: body.ResponseDescription, Raw: raw}
	case "pending", "initiated":
		return StatusResult{Status: DeliveryPending, Message: body.ResponseDescription, Raw: raw}
	}
	return StatusResult{Status: DeliveryUnknown, Message: body.ResponseDescription, Raw: raw}
}
