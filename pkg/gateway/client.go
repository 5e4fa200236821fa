package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sirosfoundation/go-chfiling/pkg/envelope"
)

// TLS version constants
const (
	TLS12 = tls.VersionTLS12
	TLS13 = tls.VersionTLS13
)

// ContentType is sent with every gateway request
const ContentType = "text/xml"

// DefaultEndpoint is the live Companies House XML Gateway
const DefaultEndpoint = "https://xmlgw.companieshouse.gov.uk/v1-0/xmlgw/Gateway"

// HTTPConfig contains the HTTP transport settings
type HTTPConfig struct {
	MinTLSVersion      uint16
	MaxTLSVersion      uint16
	RootCAs            *x509.CertPool
	InsecureSkipVerify bool
	Timeout            time.Duration
	IdleConnTimeout    time.Duration
}

// DefaultHTTPConfig returns the default transport configuration
func DefaultHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		MinTLSVersion:   TLS12,
		MaxTLSVersion:   TLS13,
		Timeout:         30 * time.Second,
		IdleConnTimeout: 90 * time.Second,
	}
}

// ClientConfig configures a Client
type ClientConfig struct {
	// Endpoint used by Call
	Endpoint string
	// HTTP transport settings, DefaultHTTPConfig when nil
	HTTP *HTTPConfig
	// HTTPClient overrides the client built from HTTP
	HTTPClient *http.Client
	// ErrorCodes used for classification, DefaultErrorCodes when nil
	ErrorCodes *ErrorCodes
	// TrackerRetention bounds the finished calls kept by the tracker.
	// Zero selects DefaultTrackerRetention, negative keeps none.
	TrackerRetention int
	Logger           *slog.Logger
}

// Client posts envelopes to the gateway
type Client struct {
	endpoint string
	client   *http.Client
	codes    ErrorCodes
	tracker  *CallTracker
	logger   *slog.Logger
}

// NewClient creates a gateway client
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = &ClientConfig{}
	}

	httpConfig := config.HTTP
	if httpConfig == nil {
		httpConfig = DefaultHTTPConfig()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(httpConfig)
	}

	codes := DefaultErrorCodes()
	if config.ErrorCodes != nil {
		codes = *config.ErrorCodes
	}

	retention := config.TrackerRetention
	if retention == 0 {
		retention = DefaultTrackerRetention
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoint: config.Endpoint,
		client:   httpClient,
		codes:    codes,
		tracker:  NewCallTrackerWithRetention(retention),
		logger:   logger,
	}
}

func newHTTPClient(config *HTTPConfig) *http.Client {
	tlsConfig := &tls.Config{
		MinVersion:         config.MinTLSVersion,
		MaxVersion:         config.MaxTLSVersion,
		RootCAs:            config.RootCAs,
		InsecureSkipVerify: config.InsecureSkipVerify,
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     tlsConfig,
		IdleConnTimeout:     config.IdleConnTimeout,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}
}

// Endpoint returns the endpoint used by Call
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Tracker returns the call tracker
func (c *Client) Tracker() *CallTracker {
	return c.tracker
}

// Call sends msg to the configured endpoint
func (c *Client) Call(ctx context.Context, msg *envelope.Message) (*Response, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("gateway endpoint not configured")
	}
	return c.Send(ctx, c.endpoint, msg)
}

// Send posts msg to endpoint and returns the parsed response. Failures are
// returned as *Error, except unparseable responses which wrap
// ErrMalformedResponse. Exactly one HTTP request is made.
func (c *Client) Send(ctx context.Context, endpoint string, msg *envelope.Message) (*Response, error) {
	payload, err := envelope.Marshal(msg)
	if err != nil {
		return nil, err
	}

	txID := msg.TransactionID()
	c.tracker.Track(txID, msg.Class())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		c.tracker.Remove(txID)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", ContentType)

	c.logger.Debug("sending envelope",
		"endpoint", endpoint,
		"class", msg.Class(),
		"transaction_id", txID,
		"bytes", len(payload))

	_ = c.tracker.MarkSent(txID)

	resp, err := c.client.Do(req)
	if err != nil {
		gerr := transportError(err)
		_ = c.tracker.RecordTransportFailure(txID, 0, gerr)
		c.logger.Debug("gateway request failed", "transaction_id", txID, "kind", gerr.Kind, "error", err)
		return nil, gerr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		gerr := &Error{
			Kind:       KindGeneric,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Status %d", resp.StatusCode),
		}
		_ = c.tracker.RecordTransportFailure(txID, resp.StatusCode, gerr)
		c.logger.Debug("gateway returned non-200 status", "transaction_id", txID, "status", resp.StatusCode)
		return nil, gerr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		gerr := transportError(err)
		_ = c.tracker.RecordTransportFailure(txID, resp.StatusCode, gerr)
		return nil, gerr
	}

	parsed, err := ParseResponse(body)
	if err != nil {
		_ = c.tracker.RecordTransportFailure(txID, resp.StatusCode, err)
		c.logger.Debug("malformed gateway response", "transaction_id", txID, "error", err)
		return nil, err
	}

	if err := c.codes.Classify(parsed); err != nil {
		_ = c.tracker.RecordApplicationFailure(txID, resp.StatusCode, err)
		c.logger.Debug("gateway reported error", "transaction_id", txID, "error", err)
		return nil, err
	}

	_ = c.tracker.RecordSuccess(txID, resp.StatusCode)
	c.logger.Debug("received response",
		"transaction_id", txID,
		"class", parsed.Class(),
		"bytes", len(body))

	return parsed, nil
}
