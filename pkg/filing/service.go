package filing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sirosfoundation/go-chfiling/pkg/envelope"
	"github.com/sirosfoundation/go-chfiling/pkg/gateway"
)

// ErrSubmissionMismatch is returned when the gateway acknowledges a
// different submission number from the one sent
var ErrSubmissionMismatch = errors.New("acknowledged submission number does not match")

// Store supplies configuration, transaction ids and submission ids.
// *state.Store satisfies it.
type Store interface {
	envelope.Source
	NextSubmissionID(ctx context.Context) (string, error)
}

// Caller sends an envelope to the gateway. *gateway.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, msg *envelope.Message) (*gateway.Response, error)
}

// Service performs the filing operations against one gateway
type Service struct {
	store  Store
	caller Caller
	logger *slog.Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a filing service
func NewService(store Store, caller Caller, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		caller: caller,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompanyData fetches the registered details of the configured company.
// It is the cheapest way to check presenter and company credentials.
func (s *Service) CompanyData(ctx context.Context) (*CompanyData, error) {
	req := NewCompanyDataRequest(s.store)

	resp, err := s.call(ctx, req, ClassCompanyData)
	if err != nil {
		return nil, err
	}

	var data CompanyData
	if err := resp.DecodeBody(&data); err != nil {
		return nil, fmt.Errorf("decoding company data: %w", err)
	}
	return &data, nil
}

// SubmitAccounts files the accounts document and returns the submission id
// allocated for it
func (s *Service) SubmitAccounts(ctx context.Context, filename string, data []byte) (string, error) {
	form, err := NewFormSubmission(ctx, s.store, filename, data)
	if err != nil {
		return "", err
	}

	resp, err := s.call(ctx, form, form.FormHeader.FormIdentifier)
	if err != nil {
		return "", err
	}

	// The gateway may answer with an empty body
	if body := resp.Body(); body != nil && body.Tag == "SubmissionAcknowledgment" {
		var ack SubmissionAcknowledgment
		if err := resp.DecodeBody(&ack); err != nil {
			return "", fmt.Errorf("decoding submission acknowledgment: %w", err)
		}
		if ack.SubmissionNumber != "" && ack.SubmissionNumber != form.FormHeader.SubmissionNumber {
			return "", fmt.Errorf("%w: sent %s, acknowledged %s",
				ErrSubmissionMismatch, form.FormHeader.SubmissionNumber, ack.SubmissionNumber)
		}
	}

	s.logger.Info("accounts submitted",
		"submission_id", form.FormHeader.SubmissionNumber,
		"company_number", form.FormHeader.CompanyNumber)

	return form.FormHeader.SubmissionNumber, nil
}

// SubmissionStatus returns the status of submissionID, or of every
// submission by the presenter when submissionID is empty
func (s *Service) SubmissionStatus(ctx context.Context, submissionID string) ([]Status, error) {
	req := NewGetSubmissionStatus(s.store, submissionID)

	resp, err := s.call(ctx, req, ClassSubmissionStatus)
	if err != nil {
		return nil, err
	}

	var status SubmissionStatus
	if err := resp.DecodeBody(&status); err != nil {
		return nil, fmt.Errorf("decoding submission status: %w", err)
	}
	return status.Statuses, nil
}

// AccountsImage requests a rendered image of the accounts document
func (s *Service) AccountsImage(ctx context.Context, filename string, data []byte) (*AccountsImage, error) {
	form, err := NewFormSubmission(ctx, s.store, filename, data)
	if err != nil {
		return nil, err
	}

	resp, err := s.call(ctx, form, ClassAccountsImage)
	if err != nil {
		return nil, err
	}

	var image AccountsImage
	if err := resp.DecodeBody(&image); err != nil {
		return nil, fmt.Errorf("decoding accounts image: %w", err)
	}
	return &image, nil
}

func (s *Service) call(ctx context.Context, content any, class string) (*gateway.Response, error) {
	msg, err := envelope.Build(ctx, s.store, content, class, envelope.QualifierRequest)
	if err != nil {
		return nil, fmt.Errorf("building %s envelope: %w", class, err)
	}

	s.logger.Debug("calling gateway", "class", class, "transaction_id", msg.TransactionID())

	return s.caller.Call(ctx, msg)
}
