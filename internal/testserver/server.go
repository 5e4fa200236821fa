package testserver

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-chfiling/pkg/envelope"
	"github.com/sirosfoundation/go-chfiling/pkg/filing"
)

// GatewayPath is the only path served by the mock gateway
const GatewayPath = "/v1-0/xmlgw/Gateway"

const maxRequestSize = 32 << 20

// Config configures the mock gateway
type Config struct {
	// PresenterID and Authentication are the expected presenter credentials
	PresenterID    string
	Authentication string
	// CompanyAuthCode is the expected company authentication code
	CompanyAuthCode string
	// FailAuth rejects every request with error 502
	FailAuth bool
	// Delay is added before each response
	Delay  time.Duration
	Logger *slog.Logger
}

// DefaultConfig returns the default test credentials
func DefaultConfig() Config {
	return Config{
		PresenterID:     "TEST_PRESENTER",
		Authentication:  "TEST_AUTH",
		CompanyAuthCode: "TEST1234",
	}
}

// Server is the mock XML Gateway
type Server struct {
	config  Config
	data    *Data
	logger  *slog.Logger
	handler http.Handler

	mu       sync.Mutex
	httpSrv  *http.Server
	listener net.Listener
}

// New creates a mock gateway
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: config,
		data:   NewData(),
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+GatewayPath, s.handleGateway)
	s.handler = mux

	return s
}

// Handler returns the HTTP handler, for use with httptest
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Data returns the server's companies and submissions
func (s *Server) Data() *Data {
	return s.data
}

// Start listens on addr and serves in the background. Use "127.0.0.1:0"
// for an ephemeral port.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpSrv != nil {
		return fmt.Errorf("server already started")
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.listener = l
	s.httpSrv = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60*time.Second + s.config.Delay,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("starting mock gateway", "addr", l.Addr().String(), "path", GatewayPath)

	go func(srv *http.Server) {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("mock gateway stopped", "error", err)
		}
	}(s.httpSrv)

	return nil
}

// Addr returns the listening address, or "" before Start
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// URL returns the gateway URL, or "" before Start
func (s *Server) URL() string {
	addr := s.Addr()
	if addr == "" {
		return ""
	}
	return "http://" + addr + GatewayPath
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpSrv
	s.httpSrv = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) handleGateway(w http.ResponseWriter, r *http.Request) {
	if s.config.Delay > 0 {
		select {
		case <-time.After(s.config.Delay):
		case <-r.Context().Done():
			return
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil || doc.Root() == nil {
		s.logger.Warn("rejecting malformed request", "error", err)
		http.Error(w, "Internal Server Error: malformed request", http.StatusInternalServerError)
		return
	}
	root := doc.Root()

	class := childText(root, "Header", "MessageDetails", "Class")
	txID := childText(root, "Header", "MessageDetails", "TransactionID")

	s.logger.Info("received gateway request",
		"class", class,
		"transaction_id", txID,
		"content-length", r.ContentLength,
	)

	if !s.authenticated(root) {
		s.logger.Warn("authentication failed", "class", class, "transaction_id", txID)
		s.write(w, errorEnvelope(class, txID, ErrorAuthentication, "Authentication failure"))
		return
	}

	var resp *etree.Document
	switch class {
	case filing.ClassCompanyData:
		resp = s.companyData(class, txID, root)
	case filing.ClassAccounts:
		resp = s.accounts(class, txID, root)
	case filing.ClassSubmissionStatus:
		resp = s.submissionStatus(class, txID, root)
	case filing.ClassAccountsImage:
		resp = responseEnvelope(class, txID, accountsImageElement())
	default:
		resp = errorEnvelope(class, txID, ErrorValidation, "Unknown message class: "+class)
	}

	s.write(w, resp)
}

func (s *Server) authenticated(root *etree.Element) bool {
	if s.config.FailAuth {
		return false
	}

	senderID := childText(root, "Header", "SenderDetails", "IDAuthentication", "SenderID")
	value := childText(root, "Header", "SenderDetails", "IDAuthentication", "Authentication", "Value")

	return digestEqual(senderID, s.config.PresenterID) &&
		digestEqual(value, s.config.Authentication)
}

func digestEqual(got, secret string) bool {
	want := envelope.Digest(secret)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func (s *Server) companyData(class, txID string, root *etree.Element) *etree.Document {
	req := bodyContent(root)
	if req == nil {
		return errorEnvelope(class, txID, ErrorValidation, "Error processing request: missing CompanyDataRequest")
	}

	number := childText(req, "CompanyNumber")
	authCode := childText(req, "CompanyAuthenticationCode")

	if authCode != s.config.CompanyAuthCode {
		return errorEnvelope(class, txID, ErrorAuthentication, "Invalid company authentication code")
	}

	company, ok := s.data.Company(number)
	if !ok {
		return errorEnvelope(class, txID, ErrorValidation, "Company not found: "+number)
	}

	return responseEnvelope(class, txID, companyDataElement(number, company))
}

func (s *Server) accounts(class, txID string, root *etree.Element) *etree.Document {
	form := bodyContent(root)
	if form == nil {
		return errorEnvelope(class, txID, ErrorAccountsCorruption, "Error processing accounts: missing FormSubmission")
	}

	submissionID := childText(form, "FormHeader", "SubmissionNumber")
	if submissionID == "" {
		return errorEnvelope(class, txID, ErrorAccountsCorruption, "Error processing accounts: missing SubmissionNumber")
	}

	data := childText(form, "Document", "Data")
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return errorEnvelope(class, txID, ErrorAccountsCorruption, "Error processing accounts: "+err.Error())
	}

	companyNumber := childText(form, "FormHeader", "CompanyNumber")
	s.data.AddSubmission(submissionID, StatusAccepted, companyNumber, data)

	s.logger.Info("stored submission", "submission_id", submissionID, "company_number", companyNumber)

	return responseEnvelope(class, txID, acknowledgmentElement(submissionID))
}

func (s *Server) submissionStatus(class, txID string, root *etree.Element) *etree.Document {
	req := bodyContent(root)
	if req == nil {
		return errorEnvelope(class, txID, ErrorValidation, "Error getting status: missing GetSubmissionStatus")
	}

	var submissions []Submission
	if id := childText(req, "SubmissionNumber"); id != "" {
		if sub, ok := s.data.Submission(id); ok {
			submissions = append(submissions, sub)
		}
	} else {
		submissions = s.data.Submissions()
	}

	return responseEnvelope(class, txID, statusElement(submissions))
}

func (s *Server) write(w http.ResponseWriter, doc *etree.Document) {
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		s.logger.Error("failed to serialize response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// bodyContent returns the first element inside Body
func bodyContent(root *etree.Element) *etree.Element {
	body := root.SelectElement("Body")
	if body == nil {
		return nil
	}
	children := body.ChildElements()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// childText follows a path of child elements and returns the trimmed text
// of the last one, or "" when any step is missing
func childText(el *etree.Element, path ...string) string {
	for _, name := range path {
		if el == nil {
			return ""
		}
		el = el.SelectElement(name)
	}
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}
