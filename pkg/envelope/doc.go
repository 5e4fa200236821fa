// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package envelope builds GovTalk envelopes for the Companies House XML Gateway.

Every request to the gateway is wrapped in a GovTalkMessage:

	<GovTalkMessage xmlns="http://www.govtalk.gov.uk/CM/envelope">
	  <EnvelopeVersion>1.0</EnvelopeVersion>
	  <Header>
	    <MessageDetails>
	      <Class>CompanyDataRequest</Class>
	      <Qualifier>request</Qualifier>
	      <TransactionID>17</TransactionID>
	      <GatewayTest>1</GatewayTest>
	    </MessageDetails>
	    <SenderDetails>
	      <IDAuthentication>
	        <SenderID>md5(presenter-id)</SenderID>
	        <Authentication><Method>clear</Method><Value>md5(authentication)</Value></Authentication>
	      </IDAuthentication>
	      <EmailAddress>filing@example.com</EmailAddress>
	    </SenderDetails>
	  </Header>
	  <GovTalkDetails><Keys/></GovTalkDetails>
	  <Body>...</Body>
	</GovTalkMessage>

# Building

Build allocates a fresh transaction id from its Source on every call and
hashes the presenter credentials. The plaintext credentials never appear
in the envelope:

	msg, err := envelope.Build(ctx, store, body, "CompanyDataRequest", envelope.QualifierRequest)
	data, err := envelope.Marshal(msg)

The MD5 digests are what the gateway protocol expects. They are not a
security boundary.

# References

  - GovTalk Envelope: http://www.govtalk.gov.uk/CM/envelope
  - XML Gateway schemas: http://xmlgw.companieshouse.gov.uk/v2-1/schema/
*/
package envelope
