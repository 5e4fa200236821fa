package filing

import (
	"encoding/xml"
	"strings"
)

// CompanyData is the body of a CompanyDataRequest response
type CompanyData struct {
	XMLName                 xml.Name                `xml:"CompanyData"`
	CompanyName             string                  `xml:"CompanyName"`
	CompanyNumber           string                  `xml:"CompanyNumber"`
	CompanyCategory         string                  `xml:"CompanyCategory"`
	Jurisdiction            string                  `xml:"Jurisdiction"`
	TradingOnMarket         string                  `xml:"TradingOnMarket"`
	MadeUpDate              string                  `xml:"MadeUpDate"`
	NextDueDate             string                  `xml:"NextDueDate"`
	RegisteredOfficeAddress RegisteredOfficeAddress `xml:"RegisteredOfficeAddress"`
	SICCodes                []string                `xml:"SICCodes>SICCode"`
}

// Trading reports whether the company's shares trade on a regulated market
func (c *CompanyData) Trading() bool {
	v := strings.TrimSpace(c.TradingOnMarket)
	return strings.EqualFold(v, "true") || v == "1"
}

// RegisteredOfficeAddress is the registered office of a company
type RegisteredOfficeAddress struct {
	Premise      string `xml:"Premise"`
	Street       string `xml:"Street"`
	Thoroughfare string `xml:"Thoroughfare,omitempty"`
	PostTown     string `xml:"PostTown"`
	Postcode     string `xml:"Postcode"`
	Country      string `xml:"Country"`
}

// SubmissionAcknowledgment is the body returned for an accepted submission
type SubmissionAcknowledgment struct {
	XMLName          xml.Name `xml:"SubmissionAcknowledgment"`
	SubmissionNumber string   `xml:"SubmissionNumber"`
	Status           string   `xml:"Status"`
}

// SubmissionStatus is the body of a GetSubmissionStatus response
type SubmissionStatus struct {
	XMLName  xml.Name `xml:"SubmissionStatus"`
	Statuses []Status `xml:"Status"`
}

// Status is the processing state of one submission
type Status struct {
	SubmissionNumber string `xml:"SubmissionNumber"`
	StatusCode       string `xml:"StatusCode"`
}

// AccountsImage is the body of an AccountsImage response
type AccountsImage struct {
	XMLName xml.Name `xml:"AccountsImageResponse"`
	Status  string   `xml:"Status"`
	Message string   `xml:"Message"`
}
