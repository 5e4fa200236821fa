package envelope

import (
	"context"
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is an in-memory Source
type fakeSource struct {
	next   int
	values map[string]string
	err    error
}

func (s *fakeSource) NextTransactionID(ctx context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.next++
	return s.next, nil
}

func (s *fakeSource) GetString(key string) string {
	return s.values[key]
}

func newSource() *fakeSource {
	return &fakeSource{
		values: map[string]string{
			"presenter-id":   "PRESENTER_1234",
			"authentication": "SECRET_AUTH_5678",
			"email":          "filing@example.com",
			"test-flag":      "1",
		},
	}
}

type testContent struct {
	XMLName xml.Name `xml:"http://example.com/test TestContent"`
	Value   string   `xml:"Value"`
}

func TestDigest(t *testing.T) {
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", Digest("hello"))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Digest(""))
}

func TestBuild_Structure(t *testing.T) {
	src := newSource()

	msg, err := Build(context.Background(), src, &testContent{Value: "x"}, "CompanyDataRequest", QualifierRequest)
	require.NoError(t, err)

	assert.Equal(t, EnvelopeVersion, msg.Version)
	require.NotNil(t, msg.Header)
	require.NotNil(t, msg.Header.MessageDetails)
	assert.Equal(t, "CompanyDataRequest", msg.Header.MessageDetails.Class)
	assert.Equal(t, QualifierRequest, msg.Header.MessageDetails.Qualifier)
	assert.Equal(t, 1, msg.Header.MessageDetails.TransactionID)
	assert.Equal(t, "1", msg.Header.MessageDetails.GatewayTest)

	auth := msg.Header.SenderDetails.IDAuthentication
	require.NotNil(t, auth)
	assert.Equal(t, Digest("PRESENTER_1234"), auth.SenderID)
	assert.Equal(t, "clear", auth.Authentication.Method)
	assert.Equal(t, Digest("SECRET_AUTH_5678"), auth.Authentication.Value)
	assert.Equal(t, "filing@example.com", msg.Header.SenderDetails.EmailAddress)

	assert.Equal(t, 1, msg.TransactionID())
	assert.Equal(t, "CompanyDataRequest", msg.Class())
}

func TestBuild_AllocatesFreshTransactionIDs(t *testing.T) {
	src := newSource()
	ctx := context.Background()

	first, err := Build(ctx, src, "<A/>", "Accounts", QualifierRequest)
	require.NoError(t, err)
	second, err := Build(ctx, src, "<A/>", "Accounts", QualifierRequest)
	require.NoError(t, err)

	assert.Equal(t, 1, first.TransactionID())
	assert.Equal(t, 2, second.TransactionID())
}

func TestBuild_DefaultsGatewayTest(t *testing.T) {
	src := newSource()
	delete(src.values, "test-flag")

	msg, err := Build(context.Background(), src, "<A/>", "Accounts", QualifierRequest)
	require.NoError(t, err)
	assert.Equal(t, "0", msg.Header.MessageDetails.GatewayTest)
}

func TestBuild_NormalizesGatewayTest(t *testing.T) {
	for flag, want := range map[string]string{
		"1":     "1",
		"true":  "1",
		"TRUE":  "1",
		"0":     "0",
		"false": "0",
	} {
		t.Run(flag, func(t *testing.T) {
			src := newSource()
			src.values["test-flag"] = flag

			msg, err := Build(context.Background(), src, "<A/>", "Accounts", QualifierRequest)
			require.NoError(t, err)
			assert.Equal(t, want, msg.Header.MessageDetails.GatewayTest)
		})
	}
}

func TestBuild_InvalidTestFlag(t *testing.T) {
	src := newSource()
	src.values["test-flag"] = "maybe"

	_, err := Build(context.Background(), src, "<A/>", "Accounts", QualifierRequest)
	assert.ErrorIs(t, err, ErrInvalidTestFlag)
	assert.Equal(t, 0, src.next)
}

func TestBuild_MissingCredentials(t *testing.T) {
	for _, key := range []string{"presenter-id", "authentication"} {
		t.Run(key, func(t *testing.T) {
			src := newSource()
			delete(src.values, key)

			_, err := Build(context.Background(), src, "<A/>", "Accounts", QualifierRequest)
			assert.ErrorIs(t, err, ErrMissingCredentials)
			assert.Equal(t, 0, src.next, "no transaction id should be consumed")
		})
	}
}

func TestBuild_InvalidQualifier(t *testing.T) {
	src := newSource()

	_, err := Build(context.Background(), src, "<A/>", "Accounts", Qualifier("poll"))
	assert.ErrorIs(t, err, ErrInvalidQualifier)
	assert.Equal(t, 0, src.next)
}

func TestBuild_MissingClassOrContent(t *testing.T) {
	src := newSource()

	_, err := Build(context.Background(), src, "<A/>", "", QualifierRequest)
	assert.Error(t, err)
	_, err = Build(context.Background(), src, nil, "Accounts", QualifierRequest)
	assert.Error(t, err)
	assert.Equal(t, 0, src.next)
}

func TestBuild_SourceError(t *testing.T) {
	src := newSource()
	src.err = errors.New("disk full")

	_, err := Build(context.Background(), src, "<A/>", "Accounts", QualifierRequest)
	assert.ErrorIs(t, err, src.err)
}

func TestMarshal_WireShape(t *testing.T) {
	src := newSource()
	msg, err := Build(context.Background(), src, &testContent{Value: "payload"}, "GetSubmissionStatus", QualifierRequest)
	require.NoError(t, err)

	data, err := Marshal(msg)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<GovTalkMessage xmlns="http://www.govtalk.gov.uk/CM/envelope"`)
	assert.Contains(t, out, `xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"`)
	assert.Contains(t, out, `xsi:schemaLocation="http://www.govtalk.gov.uk/CM/envelope http://xmlgw.companieshouse.gov.uk/v2-1/schema/Egov_ch-v2-0.xsd"`)
	assert.Contains(t, out, "<EnvelopeVersion>1.0</EnvelopeVersion>")
	assert.Contains(t, out, "<Class>GetSubmissionStatus</Class>")
	assert.Contains(t, out, "<Qualifier>request</Qualifier>")
	assert.Contains(t, out, "<TransactionID>1</TransactionID>")
	assert.Contains(t, out, "<GatewayTest>1</GatewayTest>")
	assert.Contains(t, out, "<Method>clear</Method>")
	assert.Contains(t, out, "<EmailAddress>filing@example.com</EmailAddress>")
	assert.Contains(t, out, "<Keys></Keys>")
	assert.Contains(t, out, `<TestContent xmlns="http://example.com/test"><Value>payload</Value></TestContent>`)
}

func TestMarshal_DoesNotLeakCredentials(t *testing.T) {
	src := newSource()
	msg, err := Build(context.Background(), src, "<A/>", "Accounts", QualifierRequest)
	require.NoError(t, err)

	data, err := Marshal(msg)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, Digest("PRESENTER_1234"))
	assert.Contains(t, out, Digest("SECRET_AUTH_5678"))
	assert.NotContains(t, out, "PRESENTER_1234")
	assert.NotContains(t, out, "SECRET_AUTH_5678")
}

func TestMarshal_RoundTrip(t *testing.T) {
	src := newSource()
	msg, err := Build(context.Background(), src, "<Payload>1</Payload>", "Accounts", QualifierRequest)
	require.NoError(t, err)

	data, err := Marshal(msg)
	require.NoError(t, err)

	var parsed Message
	require.NoError(t, xml.Unmarshal(data, &parsed))
	assert.Equal(t, "Accounts", parsed.Class())
	assert.Equal(t, 1, parsed.TransactionID())
	assert.Equal(t, msg.Header.SenderDetails.IDAuthentication.SenderID,
		parsed.Header.SenderDetails.IDAuthentication.SenderID)
	assert.Contains(t, string(parsed.Body.Content), "<Payload>1</Payload>")
}

func TestMarshal_Nil(t *testing.T) {
	_, err := Marshal(nil)
	assert.Error(t, err)
}

func TestQualifier_Valid(t *testing.T) {
	assert.True(t, QualifierRequest.Valid())
	assert.True(t, QualifierResponse.Valid())
	assert.False(t, Qualifier("").Valid())
	assert.False(t, Qualifier("error").Valid())
}
