// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package gateway sends GovTalk envelopes to the Companies House XML Gateway
and classifies the outcome.

# Sending

A Client performs exactly one HTTP POST per call. There are no retries;
callers decide what to do with a failure:

	client := gateway.NewClient(&gateway.ClientConfig{
	    Endpoint: "https://xmlgw.companieshouse.gov.uk/v1-0/xmlgw/Gateway",
	})

	resp, err := client.Call(ctx, msg)

# Errors

Every failure is reported once as a *gateway.Error with a Kind:

	KindPrivacy            TLS or certificate failure
	KindRequest            connection failure (refused, DNS, reset, timeout)
	KindGeneric            non-200 HTTP status ("Status 503") or an
	                       unrecognised GovTalk error code
	KindAuthentication     GovTalk error 502
	KindAccountsCorruption GovTalk error 9999
	KindValidation         GovTalk error 100

Malformed response XML is returned as an error wrapping
ErrMalformedResponse. Use errors.Is with the Err* sentinels or errors.As
with *gateway.Error:

	var gerr *gateway.Error
	if errors.As(err, &gerr) && gerr.Kind == gateway.KindAuthentication {
	    // check presenter credentials
	}

# Classification

A well-formed response is inspected for
GovTalkDetails/GovTalkErrors/Error. Only the first error is reported.
The numeric codes are not documented by the gateway operator and are
configurable through ErrorCodes.
*/
package gateway
