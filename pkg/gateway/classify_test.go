package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorResponse(errs string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<GovTalkMessage xmlns="http://www.govtalk.gov.uk/CM/envelope">
  <EnvelopeVersion>1.0</EnvelopeVersion>
  <Header>
    <MessageDetails>
      <Class>CompanyDataRequest</Class>
      <Qualifier>error</Qualifier>
      <TransactionID>7</TransactionID>
    </MessageDetails>
  </Header>
  <GovTalkDetails>
    <Keys/>
    <GovTalkErrors>` + errs + `</GovTalkErrors>
  </GovTalkDetails>
  <Body/>
</GovTalkMessage>`
}

func govTalkError(number, text string) string {
	return `<Error><RaisedBy>CH</RaisedBy><Number>` + number + `</Number><Type>fatal</Type><Text>` + text + `</Text></Error>`
}

func classify(t *testing.T, body string) error {
	t.Helper()
	resp, err := ParseResponse([]byte(body))
	require.NoError(t, err)
	return DefaultErrorCodes().Classify(resp)
}

func TestClassify_KnownCodes(t *testing.T) {
	cases := []struct {
		number string
		kind   Kind
	}{
		{"502", KindAuthentication},
		{"9999", KindAccountsCorruption},
		{"100", KindValidation},
		{"42", KindGeneric},
		{"abc", KindGeneric},
	}

	for _, tc := range cases {
		t.Run(tc.number, func(t *testing.T) {
			err := classify(t, errorResponse(govTalkError(tc.number, "something went wrong")))
			require.Error(t, err)

			var gerr *Error
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, tc.kind, gerr.Kind)
			assert.Equal(t, "something went wrong", gerr.Message)
		})
	}
}

func TestClassify_FirstErrorWins(t *testing.T) {
	err := classify(t, errorResponse(
		govTalkError("100", "first")+govTalkError("502", "second")))

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, KindValidation, gerr.Kind)
	assert.Equal(t, 100, gerr.Code)
	assert.Equal(t, "first", gerr.Message)
}

func TestClassify_NoErrors(t *testing.T) {
	body := `<GovTalkMessage xmlns="http://www.govtalk.gov.uk/CM/envelope">
  <GovTalkDetails><Keys/></GovTalkDetails>
  <Body><CompanyData><CompanyName>X</CompanyName></CompanyData></Body>
</GovTalkMessage>`

	assert.NoError(t, classify(t, body))
	assert.NoError(t, classify(t, errorResponse("")))
}

func TestClassify_CustomCodes(t *testing.T) {
	codes := ErrorCodes{Authentication: 1, AccountsCorruption: 2, Validation: 3}

	resp, err := ParseResponse([]byte(errorResponse(govTalkError("502", "auth"))))
	require.NoError(t, err)

	var gerr *Error
	require.ErrorAs(t, codes.Classify(resp), &gerr)
	assert.Equal(t, KindGeneric, gerr.Kind)
	assert.Equal(t, KindAuthentication, codes.Kind(1))
}

func TestClassify_Nil(t *testing.T) {
	assert.NoError(t, DefaultErrorCodes().Classify(nil))
}
