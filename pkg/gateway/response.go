package gateway

import (
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
)

// Response is a parsed GovTalk response envelope
type Response struct {
	// Raw is the response body as received
	Raw []byte
	// Doc is the parsed document
	Doc *etree.Document
}

// ParseResponse parses a GovTalk response body. Errors wrap ErrMalformedResponse.
func ParseResponse(data []byte) (*Response, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedResponse)
	}
	return &Response{Raw: data, Doc: doc}, nil
}

// Root returns the GovTalkMessage element
func (r *Response) Root() *etree.Element {
	return r.Doc.Root()
}

// Class returns Header/MessageDetails/Class, or "" when absent
func (r *Response) Class() string {
	return r.headerField("Class")
}

// Qualifier returns Header/MessageDetails/Qualifier, or "" when absent
func (r *Response) Qualifier() string {
	return r.headerField("Qualifier")
}

// TransactionID returns Header/MessageDetails/TransactionID as text
func (r *Response) TransactionID() string {
	return r.headerField("TransactionID")
}

// CorrelationID returns Header/MessageDetails/CorrelationID as text
func (r *Response) CorrelationID() string {
	return r.headerField("CorrelationID")
}

func (r *Response) headerField(name string) string {
	details := findPath(r.Root(), "Header", "MessageDetails", name)
	if details == nil {
		return ""
	}
	return details.Text()
}

// Body returns the first element inside Body, or nil when the body is empty
func (r *Response) Body() *etree.Element {
	body := findPath(r.Root(), "Body")
	if body == nil {
		return nil
	}
	children := body.ChildElements()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// DecodeBody unmarshals the first body element into v with encoding/xml
func (r *Response) DecodeBody(v any) error {
	el := r.Body()
	if el == nil {
		return fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	data, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("failed to serialize body: %w", err)
	}

	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// findPath walks child elements by local name, ignoring namespace prefixes
func findPath(el *etree.Element, names ...string) *etree.Element {
	for _, name := range names {
		if el == nil {
			return nil
		}
		el = el.SelectElement(name)
	}
	return el
}
