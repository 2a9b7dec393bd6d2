// Package esewa talks to the eSewa ePay v2 gateway: it signs payment forms,
// decodes the success callback and asks the status check API whether a
// transaction really completed.
package esewa

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/server/config"
)

// StatusComplete is the only status that counts as a successful payment.
const StatusComplete = "COMPLETE"

const signedFieldNames = "total_amount,transaction_uuid,product_code"

var (
	ErrInvalidCallback  = errors.New("invalid payment callback")
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrStatusCheck      = errors.New("payment status check failed")
)

// Sign returns base64(HMAC-SHA256(secret, message)).
func Sign(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// SignatureMessage builds the string eSewa signs for a payment form.
func SignatureMessage(totalAmount, transactionUUID, productCode string) string {
	return fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s", totalAmount, transactionUUID, productCode)
}

// Amount accepts both JSON numbers and strings and keeps the literal text,
// which is what signatures are computed over.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	if string(b) == "null" {
		*a = ""
		return nil
	}
	*a = Amount(b)
	return nil
}

// Callback is the base64 JSON document eSewa appends to the success URL.
type Callback struct {
	TransactionCode  string `json:"transaction_code"`
	Status           string `json:"status"`
	TotalAmount      Amount `json:"total_amount"`
	TransactionUUID  string `json:"transaction_uuid"`
	ProductCode      string `json:"product_code"`
	SignedFieldNames string `json:"signed_field_names"`
	Signature        string `json:"signature"`
	RefID            string `json:"ref_id"`
}

func DecodeCallback(data string) (*Callback, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCallback, err)
	}
	var c Callback
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCallback, err)
	}
	return &c, nil
}

// VerifySignature recomputes the signature over signed_field_names. A
// callback without a signature is accepted; the status check decides.
func (c *Callback) VerifySignature(secret string) error {
	if c.Signature == "" {
		return nil
	}
	values := map[string]string{
		"transaction_code":   c.TransactionCode,
		"status":             c.Status,
		"total_amount":       string(c.TotalAmount),
		"transaction_uuid":   c.TransactionUUID,
		"product_code":       c.ProductCode,
		"signed_field_names": c.SignedFieldNames,
	}
	var parts []string
	for _, name := range strings.Split(c.SignedFieldNames, ",") {
		v, ok := values[name]
		if !ok {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidSignature, name)
		}
		parts = append(parts, name+"="+v)
	}
	if !hmac.Equal([]byte(Sign(secret, strings.Join(parts, ","))), []byte(c.Signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// UserIDFromTransaction returns the user id prefix of a transaction uuid of
// the form "<user id>_<random uuid>".
func UserIDFromTransaction(transactionUUID string) (string, error) {
	id, _, ok := strings.Cut(transactionUUID, "_")
	if !ok || id == "" {
		return "", fmt.Errorf("%w: malformed transaction uuid", ErrInvalidCallback)
	}
	return id, nil
}

// StatusResult is the answer of the status check API.
type StatusResult struct {
	ProductCode     string  `json:"product_code"`
	TransactionUUID string  `json:"transaction_uuid"`
	TotalAmount     Amount  `json:"total_amount"`
	Status          string  `json:"status"`
	RefID           *string `json:"ref_id"`
}

func (r *StatusResult) Complete() bool {
	return strings.EqualFold(r.Status, StatusComplete)
}

type Gateway struct {
	cfg    config.EsewaConfig
	client *http.Client
}

// New returns a gateway for cfg. A nil client gets a 10 second timeout.
func New(cfg config.EsewaConfig, client *http.Client) *Gateway {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Gateway{cfg: cfg, client: client}
}

func (g *Gateway) ProductCode() string { return g.cfg.ProductCode }

// VerifyCallback checks the callback signature with the merchant secret.
func (g *Gateway) VerifyCallback(c *Callback) error {
	return c.VerifySignature(g.cfg.SecretKey)
}

// FormParameters returns the signed fields the client posts to PaymentURL.
func (g *Gateway) FormParameters(totalAmount, transactionUUID, successURL, failureURL string) map[string]string {
	return map[string]string{
		"amount":                  totalAmount,
		"tax_amount":              "0",
		"total_amount":            totalAmount,
		"transaction_uuid":        transactionUUID,
		"product_code":            g.cfg.ProductCode,
		"product_service_charge":  "0",
		"product_delivery_charge": "0",
		"success_url":             successURL,
		"failure_url":             failureURL,
		"signed_field_names":      signedFieldNames,
		"signature":               Sign(g.cfg.SecretKey, SignatureMessage(totalAmount, transactionUUID, g.cfg.ProductCode)),
	}
}

func (g *Gateway) PaymentURL() string { return g.cfg.PaymentURL }

// CheckStatus queries the status check API for a transaction.
func (g *Gateway) CheckStatus(ctx context.Context, totalAmount, transactionUUID string) (*StatusResult, error) {
	if totalAmount == "" || transactionUUID == "" {
		return nil, fmt.Errorf("%w: amount and transaction uuid are required", ErrStatusCheck)
	}

	u, err := url.Parse(g.cfg.StatusCheckURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatusCheck, err)
	}
	q := u.Query()
	q.Set("product_code", g.cfg.ProductCode)
	q.Set("total_amount", totalAmount)
	q.Set("transaction_uuid", transactionUUID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatusCheck, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatusCheck, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: %s; body: %s", ErrStatusCheck, resp.Status, string(b))
	}

	var out StatusResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatusCheck, err)
	}
	return &out, nil
}
