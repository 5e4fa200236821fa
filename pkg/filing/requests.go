// Package filing provides Companies House message bodies and the filing service.
package filing

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"

	"github.com/sirosfoundation/go-chfiling/pkg/envelope"
	"github.com/sirosfoundation/go-chfiling/pkg/state"
)

// Namespaces and schema locations of the message bodies
const (
	NsGateway    = "http://xmlgw.companieshouse.gov.uk"
	NsFormHeader = "http://xmlgw.companieshouse.gov.uk/Header"

	CompanyDataSchemaURI         = "http://xmlgw.companieshouse.gov.uk/v2-1/schema/CompanyData-v3-3.xsd"
	FormSubmissionSchemaURI      = "http://xmlgw.companieshouse.gov.uk/v1-1/schema/forms/FormSubmission-v2-11.xsd"
	GetSubmissionStatusSchemaURI = "http://xmlgw.companieshouse.gov.uk/v2-1/schema/forms/GetSubmissionStatus-v2-5.xsd"
)

// Message classes
const (
	ClassCompanyData      = "CompanyDataRequest"
	ClassAccounts         = "Accounts"
	ClassAccountsImage    = "AccountsImage"
	ClassSubmissionStatus = "GetSubmissionStatus"
)

// Fixed FormSubmission values
const (
	LanguageEnglish     = "EN"
	FormAccounts        = "Accounts"
	DocumentContentType = "application/xml"
	CategoryAccounts    = "ACCOUNTS"
)

// Values supplies configuration strings
type Values interface {
	GetString(key string) string
}

// SubmissionSource supplies configuration and submission ids
type SubmissionSource interface {
	Values
	NextSubmissionID(ctx context.Context) (string, error)
}

// CompanyDataRequest asks for the registered details of a company
type CompanyDataRequest struct {
	XMLName                   xml.Name `xml:"http://xmlgw.companieshouse.gov.uk CompanyDataRequest"`
	XSI                       string   `xml:"xmlns:xsi,attr,omitempty"`
	SchemaLocation            string   `xml:"xsi:schemaLocation,attr,omitempty"`
	CompanyNumber             string   `xml:"CompanyNumber"`
	CompanyAuthenticationCode string   `xml:"CompanyAuthenticationCode"`
	MadeUpDate                string   `xml:"MadeUpDate"`
}

// NewCompanyDataRequest builds a CompanyDataRequest from configuration
func NewCompanyDataRequest(v Values) *CompanyDataRequest {
	return &CompanyDataRequest{
		XSI:                       envelope.NsXSI,
		SchemaLocation:            NsGateway + " " + CompanyDataSchemaURI,
		CompanyNumber:             v.GetString(state.KeyCompanyNumber),
		CompanyAuthenticationCode: v.GetString(state.KeyCompanyAuthenticationCode),
		MadeUpDate:                v.GetString(state.KeyMadeUpDate),
	}
}

// FormSubmission carries a document filed with Companies House
type FormSubmission struct {
	XMLName        xml.Name   `xml:"http://xmlgw.companieshouse.gov.uk/Header FormSubmission"`
	XSI            string     `xml:"xmlns:xsi,attr,omitempty"`
	SchemaLocation string     `xml:"xsi:schemaLocation,attr,omitempty"`
	FormHeader     FormHeader `xml:"FormHeader"`
	DateSigned     string     `xml:"DateSigned"`
	Form           struct{}   `xml:"Form"`
	Document       Document   `xml:"Document"`
}

// FormHeader identifies the company, the presenter contact and the submission
type FormHeader struct {
	CompanyNumber             string `xml:"CompanyNumber"`
	CompanyType               string `xml:"CompanyType"`
	CompanyName               string `xml:"CompanyName"`
	CompanyAuthenticationCode string `xml:"CompanyAuthenticationCode"`
	PackageReference          string `xml:"PackageReference"`
	Language                  string `xml:"Language"`
	FormIdentifier            string `xml:"FormIdentifier"`
	SubmissionNumber          string `xml:"SubmissionNumber"`
	ContactName               string `xml:"ContactName"`
	ContactNumber             string `xml:"ContactNumber"`
}

// Document is the attached file, base64 encoded
type Document struct {
	Data        string `xml:"Data"`
	Date        string `xml:"Date"`
	Filename    string `xml:"Filename"`
	ContentType string `xml:"ContentType"`
	Category    string `xml:"Category"`
}

// NewFormSubmission builds an accounts FormSubmission for data. It consumes
// one submission id from src.
func NewFormSubmission(ctx context.Context, src SubmissionSource, filename string, data []byte) (*FormSubmission, error) {
	if filename == "" {
		return nil, fmt.Errorf("document filename is required")
	}

	subID, err := src.NextSubmissionID(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocating submission id: %w", err)
	}

	return &FormSubmission{
		XSI:            envelope.NsXSI,
		SchemaLocation: NsFormHeader + " " + FormSubmissionSchemaURI,
		FormHeader: FormHeader{
			CompanyNumber:             src.GetString(state.KeyCompanyNumber),
			CompanyType:               src.GetString(state.KeyCompanyType),
			CompanyName:               src.GetString(state.KeyCompanyName),
			CompanyAuthenticationCode: src.GetString(state.KeyCompanyAuthenticationCode),
			PackageReference:          src.GetString(state.KeyPackageReference),
			Language:                  LanguageEnglish,
			FormIdentifier:            FormAccounts,
			SubmissionNumber:          subID,
			ContactName:               src.GetString(state.KeyContactName),
			ContactNumber:             src.GetString(state.KeyContactNumber),
		},
		DateSigned: src.GetString(state.KeyDateSigned),
		Document: Document{
			Data:        base64.StdEncoding.EncodeToString(data),
			Date:        src.GetString(state.KeyDate),
			Filename:    filename,
			ContentType: DocumentContentType,
			Category:    CategoryAccounts,
		},
	}, nil
}

// GetSubmissionStatus asks for the status of one submission, or of every
// submission by the presenter when SubmissionNumber is empty
type GetSubmissionStatus struct {
	XMLName          xml.Name `xml:"http://xmlgw.companieshouse.gov.uk GetSubmissionStatus"`
	XSI              string   `xml:"xmlns:xsi,attr,omitempty"`
	SchemaLocation   string   `xml:"xsi:schemaLocation,attr,omitempty"`
	SubmissionNumber string   `xml:"SubmissionNumber,omitempty"`
	PresenterID      string   `xml:"PresenterID"`
}

// NewGetSubmissionStatus builds a status query. The gateway schema requires
// the presenter id itself here, not its digest.
func NewGetSubmissionStatus(v Values, submissionID string) *GetSubmissionStatus {
	return &GetSubmissionStatus{
		XSI:              envelope.NsXSI,
		SchemaLocation:   NsGateway + " " + GetSubmissionStatusSchemaURI,
		SubmissionNumber: submissionID,
		PresenterID:      v.GetString(state.KeyPresenterID),
	}
}
