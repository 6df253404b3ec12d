// Package paynow integrates the Paynow-style hosted payment page: payments
// are initiated with a hashed form POST, and status updates arrive as hashed
// form-encoded messages, either pushed to the result URL or fetched from the
// poll URL.
package paynow

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/payment/paymentgateway"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/money"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/config"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils/logutil"
)

const (
	defaultTimeout = 15 * time.Second
	// Maximum response body size read from the provider (64KB)
	maxResponseSize = 64 << 10

	fieldHash = "hash"
)

// statusFields is the order in which the provider emits status message
// fields. The hash covers values in emission order.
var statusFields = []string{"reference", "paynowreference", "amount", "status", "pollurl"}

// initiateFields is the order of the initiate request fields.
var initiateFields = []string{"id", "reference", "amount", "additionalinfo", "returnurl", "resulturl", "authemail", "status"}

var outcomes = map[string]vo.Outcome{
	"paid":              vo.OutcomeSuccess,
	"awaiting delivery": vo.OutcomeSuccess,
	"delivered":         vo.OutcomeSuccess,
	"cancelled":         vo.OutcomeFailed,
	"failed":            vo.OutcomeFailed,
	"disputed":          vo.OutcomeFailed,
	"refunded":          vo.OutcomeFailed,
}

// MapStatus collapses a provider status. Created, Sent and anything unknown
// are pending.
func MapStatus(status string) vo.Outcome {
	if o, ok := outcomes[strings.ToLower(strings.TrimSpace(status))]; ok {
		return o
	}
	return vo.OutcomePending
}

type Gateway struct {
	cfg        config.PaynowConfig
	httpClient *http.Client
	logger     logger.Interface
}

// NewGateway fails without an integration id and key. An empty key would
// let anyone compute a valid hash for a forged status message.
func NewGateway(cfg config.PaynowConfig, logger logger.Interface) (*Gateway, error) {
	if strings.TrimSpace(cfg.IntegrationID) == "" {
		return nil, fmt.Errorf("paynow: integration_id is required")
	}
	if strings.TrimSpace(cfg.IntegrationKey) == "" {
		return nil, fmt.Errorf("paynow: integration_key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gateway{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

var _ paymentgateway.PaymentGateway = (*Gateway)(nil)

func (g *Gateway) Provider() vo.Provider {
	return vo.ProviderPaynow
}

// Hash is the uppercase hex SHA-512 of the values in order followed by the
// integration key.
func Hash(values []string, integrationKey string) string {
	h := sha512.New()
	for _, v := range values {
		h.Write([]byte(v))
	}
	h.Write([]byte(integrationKey))
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}

// orderedValues returns the non-hash values of a message: the documented
// fields first, then any extra fields by name.
func orderedValues(fields url.Values, order []string) []string {
	known := make(map[string]bool, len(order))
	values := make([]string, 0, len(fields))
	for _, k := range order {
		known[k] = true
		if _, ok := fields[k]; ok {
			values = append(values, fields.Get(k))
		}
	}
	var extra []string
	for k := range fields {
		if !known[k] && k != fieldHash {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		values = append(values, fields.Get(k))
	}
	return values
}

func (g *Gateway) verify(fields url.Values, order []string) error {
	if g.cfg.IntegrationKey == "" {
		return errors.NewInvalidSignatureError("gateway has no integration key")
	}
	got := fields.Get(fieldHash)
	if got == "" {
		return errors.NewInvalidSignatureError("missing message hash")
	}
	want := Hash(orderedValues(fields, order), g.cfg.IntegrationKey)
	if subtle.ConstantTimeCompare([]byte(strings.ToUpper(got)), []byte(want)) != 1 {
		return errors.NewInvalidSignatureError("message hash mismatch")
	}
	return nil
}

func (g *Gateway) ParseCallback(fields url.Values) (*payment.Callback, error) {
	if err := g.verify(fields, statusFields); err != nil {
		return nil, err
	}

	reference := strings.TrimSpace(fields.Get("reference"))
	if reference == "" {
		return nil, errors.NewValidationError("callback reference is required")
	}
	status := strings.TrimSpace(fields.Get("status"))
	if status == "" {
		return nil, errors.NewValidationError("callback status is required")
	}
	var cents int64
	if raw := fields.Get("amount"); raw != "" {
		parsed, err := money.ParseDecimal(raw)
		if err != nil {
			return nil, errors.NewValidationError("invalid callback amount", err.Error())
		}
		cents = parsed
	}

	flat := make(map[string]string, len(fields))
	for k := range fields {
		if k != fieldHash {
			flat[k] = fields.Get(k)
		}
	}
	return &payment.Callback{
		Provider:          vo.ProviderPaynow,
		Reference:         reference,
		ProviderReference: strings.TrimSpace(fields.Get("paynowreference")),
		AmountCents:       cents,
		RawStatus:         status,
		Outcome:           MapStatus(status),
		PollURL:           fields.Get("pollurl"),
		Fields:            flat,
	}, nil
}

func (g *Gateway) CreatePayment(ctx context.Context, req paymentgateway.CreatePaymentRequest) (*paymentgateway.CreatePaymentResponse, error) {
	form := url.Values{}
	form.Set("id", g.cfg.IntegrationID)
	form.Set("reference", req.Reference)
	form.Set("amount", money.New(req.AmountCents, req.Currency).Decimal())
	form.Set("additionalinfo", req.Description)
	form.Set("returnurl", g.cfg.ReturnURL)
	form.Set("resulturl", g.cfg.ResultURL)
	form.Set("authemail", req.PayerEmail)
	form.Set("status", "Message")
	form.Set(fieldHash, Hash(orderedValues(form, initiateFields), g.cfg.IntegrationKey))

	resp, err := g.post(ctx, g.cfg.InitiateURL, form)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(resp.Get("status"), "ok") {
		msg := resp.Get("error")
		g.logger.Warnw("payment initiation refused", "reference", req.Reference, "error", logutil.TruncateForLog(msg, 200))
		return nil, errors.NewProviderError("payment provider refused the payment", msg)
	}
	if err := g.verify(resp, []string{"status", "browserurl", "pollurl"}); err != nil {
		g.logger.Errorw("payment initiation response failed verification", "reference", req.Reference, "error", err)
		return nil, errors.NewProviderError("payment provider response could not be verified")
	}
	return &paymentgateway.CreatePaymentResponse{
		RedirectURL: resp.Get("browserurl"),
		PollURL:     resp.Get("pollurl"),
	}, nil
}

func (g *Gateway) Poll(ctx context.Context, pollURL string) (*payment.Callback, error) {
	if pollURL == "" {
		return nil, errors.NewValidationError("payment has no poll URL")
	}
	fields, err := g.post(ctx, pollURL, url.Values{})
	if err != nil {
		return nil, err
	}
	cb, err := g.ParseCallback(fields)
	if err != nil {
		g.logger.Errorw("poll response failed verification", "poll_url", pollURL, "error", err)
		return nil, err
	}
	return cb, nil
}

// post sends a form and decodes the form-encoded reply. Transport failures are
// provider errors.
func (g *Gateway) post(ctx context.Context, endpoint string, form url.Values) (url.Values, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		g.logger.Warnw("payment provider unreachable", "endpoint", endpoint, "error", err)
		return nil, errors.NewProviderError("payment provider is unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.NewProviderError("failed to read payment provider response")
	}
	if resp.StatusCode != http.StatusOK {
		g.logger.Warnw("payment provider returned an error status",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"body", logutil.TruncateForLog(string(body), 200))
		return nil, errors.NewProviderError(fmt.Sprintf("payment provider returned HTTP %d", resp.StatusCode))
	}

	values, err := url.ParseQuery(strings.TrimSpace(string(body)))
	if err != nil {
		return nil, errors.NewProviderError("payment provider response is malformed")
	}
	return values, nil
}
