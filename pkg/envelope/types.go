// Package envelope provides the GovTalk envelope structure and builder.
package envelope

import (
	"encoding/xml"
)

// Namespace constants for the GovTalk envelope
const (
	NsEnvelope        = "http://www.govtalk.gov.uk/CM/envelope"
	NsXSI             = "http://www.w3.org/2001/XMLSchema-instance"
	EnvelopeSchemaURI = "http://xmlgw.companieshouse.gov.uk/v2-1/schema/Egov_ch-v2-0.xsd"
)

// EnvelopeVersion is the only envelope version spoken by the gateway
const EnvelopeVersion = "1.0"

// AuthenticationMethod is the method name sent with the hashed credential
const AuthenticationMethod = "clear"

// Qualifier distinguishes requests from responses
type Qualifier string

const (
	QualifierRequest  Qualifier = "request"
	QualifierResponse Qualifier = "response"
)

// Valid reports whether q is a qualifier the gateway accepts
func (q Qualifier) Valid() bool {
	switch q {
	case QualifierRequest, QualifierResponse:
		return true
	}
	return false
}

// Message is a GovTalk envelope
type Message struct {
	XMLName        xml.Name        `xml:"http://www.govtalk.gov.uk/CM/envelope GovTalkMessage"`
	XSI            string          `xml:"xmlns:xsi,attr,omitempty"`
	SchemaLocation string          `xml:"xsi:schemaLocation,attr,omitempty"`
	Version        string          `xml:"EnvelopeVersion"`
	Header         *Header         `xml:"Header"`
	GovTalkDetails *GovTalkDetails `xml:"GovTalkDetails"`
	Body           *Body           `xml:"Body"`
}

// Header carries the message routing and sender identity
type Header struct {
	MessageDetails *MessageDetails `xml:"MessageDetails"`
	SenderDetails  *SenderDetails  `xml:"SenderDetails"`
}

// MessageDetails identifies the message class and transaction
type MessageDetails struct {
	Class         string    `xml:"Class"`
	Qualifier     Qualifier `xml:"Qualifier"`
	TransactionID int       `xml:"TransactionID"`
	CorrelationID string    `xml:"CorrelationID,omitempty"`
	GatewayTest   string    `xml:"GatewayTest"`
}

// SenderDetails identifies the presenter
type SenderDetails struct {
	IDAuthentication *IDAuthentication `xml:"IDAuthentication,omitempty"`
	EmailAddress     string            `xml:"EmailAddress,omitempty"`
}

// IDAuthentication carries the hashed presenter credentials
type IDAuthentication struct {
	SenderID       string          `xml:"SenderID"`
	Authentication *Authentication `xml:"Authentication"`
}

// Authentication holds the hashed authentication value
type Authentication struct {
	Method string `xml:"Method"`
	Value  string `xml:"Value"`
}

// GovTalkDetails holds keys and, on responses, application errors
type GovTalkDetails struct {
	Keys          Keys           `xml:"Keys"`
	GovTalkErrors *GovTalkErrors `xml:"GovTalkErrors,omitempty"`
}

// Keys is the (always empty) key list
type Keys struct{}

// GovTalkErrors lists application-level errors reported by the gateway
type GovTalkErrors struct {
	Errors []GovTalkError `xml:"Error"`
}

// GovTalkError is a single application-level error
type GovTalkError struct {
	RaisedBy string `xml:"RaisedBy,omitempty"`
	Number   int    `xml:"Number"`
	Type     string `xml:"Type,omitempty"`
	Text     string `xml:"Text"`
	Location string `xml:"Location,omitempty"`
}

// Body wraps the message-specific content as raw XML
type Body struct {
	Content []byte `xml:",innerxml"`
}
