package envelope

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Configuration keys read by Build
const (
	keyPresenterID    = "presenter-id"
	keyAuthentication = "authentication"
	keyEmail          = "email"
	keyTestFlag       = "test-flag"
)

var (
	// ErrMissingCredentials is returned when presenter-id or authentication
	// is not configured
	ErrMissingCredentials = errors.New("presenter credentials not configured")
	// ErrInvalidQualifier is returned for qualifiers other than request/response
	ErrInvalidQualifier = errors.New("invalid qualifier")
	// ErrInvalidTestFlag is returned when test-flag is not a boolean or 0/1
	ErrInvalidTestFlag = errors.New("invalid test-flag")
)

// Source supplies transaction ids and configuration to the builder
type Source interface {
	NextTransactionID(ctx context.Context) (int, error)
	GetString(key string) string
}

// Build wraps content in a GovTalk envelope. It consumes one transaction
// id from src on every successful call.
//
// content may be raw XML ([]byte or string) or any value encoding/xml can
// marshal.
func Build(ctx context.Context, src Source, content any, class string, qualifier Qualifier) (*Message, error) {
	if class == "" {
		return nil, fmt.Errorf("message class is required")
	}
	if !qualifier.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidQualifier, qualifier)
	}

	presenterID := src.GetString(keyPresenterID)
	authentication := src.GetString(keyAuthentication)
	if presenterID == "" || authentication == "" {
		return nil, ErrMissingCredentials
	}

	testFlag, err := gatewayTest(src.GetString(keyTestFlag))
	if err != nil {
		return nil, err
	}

	body, err := marshalContent(content)
	if err != nil {
		return nil, err
	}

	txID, err := src.NextTransactionID(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocating transaction id: %w", err)
	}

	return &Message{
		XSI:            NsXSI,
		SchemaLocation: NsEnvelope + " " + EnvelopeSchemaURI,
		Version:        EnvelopeVersion,
		Header: &Header{
			MessageDetails: &MessageDetails{
				Class:         class,
				Qualifier:     qualifier,
				TransactionID: txID,
				GatewayTest:   testFlag,
			},
			SenderDetails: &SenderDetails{
				IDAuthentication: &IDAuthentication{
					SenderID: Digest(presenterID),
					Authentication: &Authentication{
						Method: AuthenticationMethod,
						Value:  Digest(authentication),
					},
				},
				EmailAddress: src.GetString(keyEmail),
			},
		},
		GovTalkDetails: &GovTalkDetails{},
		Body:           &Body{Content: body},
	}, nil
}

// Digest returns the lower-case hex MD5 of s, as used for SenderID and
// Authentication/Value
func Digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Marshal serializes msg to UTF-8 XML with a declaration
func Marshal(msg *Message) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("message is required")
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(msg); err != nil {
		return nil, fmt.Errorf("failed to serialize envelope: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to serialize envelope: %w", err)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// TransactionID returns the transaction id stamped on msg
func (m *Message) TransactionID() int {
	if m == nil || m.Header == nil || m.Header.MessageDetails == nil {
		return 0
	}
	return m.Header.MessageDetails.TransactionID
}

// Class returns the message class of msg
func (m *Message) Class() string {
	if m == nil || m.Header == nil || m.Header.MessageDetails == nil {
		return ""
	}
	return m.Header.MessageDetails.Class
}

// gatewayTest renders the test-flag setting as the wire value "0" or "1".
// Unset means live.
func gatewayTest(flag string) (string, error) {
	if flag == "" {
		return "0", nil
	}
	test, err := strconv.ParseBool(strings.TrimSpace(flag))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTestFlag, flag)
	}
	if test {
		return "1", nil
	}
	return "0", nil
}

func marshalContent(content any) ([]byte, error) {
	switch c := content.(type) {
	case nil:
		return nil, fmt.Errorf("message content is required")
	case []byte:
		return c, nil
	case string:
		return []byte(c), nil
	default:
		data, err := xml.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize content: %w", err)
		}
		return data, nil
	}
}
