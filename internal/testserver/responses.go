package testserver

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/sirosfoundation/go-chfiling/pkg/envelope"
)

// GovTalk error numbers produced by the mock gateway
const (
	ErrorValidation         = 100
	ErrorAuthentication     = 502
	ErrorAccountsCorruption = 9999
)

// responseEnvelope creates a GovTalk response envelope around body. A nil
// body yields an empty Body element.
func responseEnvelope(class, txID string, body *etree.Element) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	msg := doc.CreateElement("GovTalkMessage")
	msg.CreateAttr("xmlns", envelope.NsEnvelope)
	msg.CreateElement("EnvelopeVersion").SetText(envelope.EnvelopeVersion)

	header := msg.CreateElement("Header")
	details := header.CreateElement("MessageDetails")
	details.CreateElement("Class").SetText(class)
	details.CreateElement("Qualifier").SetText(string(envelope.QualifierResponse))
	details.CreateElement("TransactionID").SetText(txID)
	details.CreateElement("CorrelationID").SetText(uuid.NewString())
	header.CreateElement("SenderDetails")

	govTalk := msg.CreateElement("GovTalkDetails")
	govTalk.CreateElement("Keys")

	bodyEl := msg.CreateElement("Body")
	if body != nil {
		bodyEl.AddChild(body)
	}

	return doc
}

// errorEnvelope creates a response carrying a single GovTalk error
func errorEnvelope(class, txID string, number int, text string) *etree.Document {
	doc := responseEnvelope(class, txID, nil)

	details := doc.Root().SelectElement("GovTalkDetails")
	errs := details.CreateElement("GovTalkErrors")
	e := errs.CreateElement("Error")
	e.CreateElement("RaisedBy").SetText("Companies House")
	e.CreateElement("Number").SetText(strconv.Itoa(number))
	e.CreateElement("Type").SetText("fatal")
	e.CreateElement("Text").SetText(text)

	return doc
}

func companyDataElement(number string, c Company) *etree.Element {
	cd := etree.NewElement("CompanyData")
	cd.CreateElement("CompanyName").SetText(c.Name)
	cd.CreateElement("CompanyNumber").SetText(number)
	cd.CreateElement("CompanyCategory").SetText(c.Category)
	cd.CreateElement("Jurisdiction").SetText(c.Jurisdiction)
	cd.CreateElement("TradingOnMarket").SetText(strconv.FormatBool(c.Trading))
	cd.CreateElement("MadeUpDate").SetText(c.MadeUpDate)
	cd.CreateElement("NextDueDate").SetText(c.NextDueDate)

	addr := cd.CreateElement("RegisteredOfficeAddress")
	addr.CreateElement("Premise").SetText(c.Address.Premise)
	addr.CreateElement("Street").SetText(c.Address.Street)
	addr.CreateElement("Thoroughfare").SetText(c.Address.Thoroughfare)
	addr.CreateElement("PostTown").SetText(c.Address.PostTown)
	addr.CreateElement("Postcode").SetText(c.Address.Postcode)
	addr.CreateElement("Country").SetText(c.Address.Country)

	sic := cd.CreateElement("SICCodes")
	for _, code := range c.SICCodes {
		sic.CreateElement("SICCode").SetText(code)
	}
	return cd
}

func acknowledgmentElement(submissionID string) *etree.Element {
	ack := etree.NewElement("SubmissionAcknowledgment")
	ack.CreateElement("SubmissionNumber").SetText(submissionID)
	ack.CreateElement("Status").SetText(StatusAccepted)
	return ack
}

func statusElement(submissions []Submission) *etree.Element {
	status := etree.NewElement("SubmissionStatus")
	for _, s := range submissions {
		code := s.Status
		if code == "" {
			code = StatusPending
		}
		entry := status.CreateElement("Status")
		entry.CreateElement("SubmissionNumber").SetText(s.ID)
		entry.CreateElement("StatusCode").SetText(code)
	}
	return status
}

func accountsImageElement() *etree.Element {
	image := etree.NewElement("AccountsImageResponse")
	image.CreateElement("Status").SetText("generated")
	image.CreateElement("Message").SetText("Accounts image generated successfully")
	return image
}
