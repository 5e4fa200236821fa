// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package testserver is an in-process mock of the Companies House XML Gateway.

It speaks the same GovTalk wire protocol as the live gateway on
POST /v1-0/xmlgw/Gateway:

  - presenter credentials are checked against the md5 digests in
    IDAuthentication (error 502 on mismatch)
  - requests are routed by Header/MessageDetails/Class; unknown classes
    get error 100
  - CompanyDataRequest checks the company authentication code (502) and
    looks the company up in canned data (100 when unknown)
  - Accounts submissions are stored in memory and acknowledged; a
    submission without a submission number or with undecodable document
    data gets error 9999
  - GetSubmissionStatus reports one or all stored submissions
  - AccountsImage is acknowledged

Requests that are not XML get HTTP 500. Other paths get 404 and other
methods 405.

	srv := testserver.New(testserver.DefaultConfig())
	if err := srv.Start("127.0.0.1:0"); err != nil {
	    return err
	}
	defer srv.Shutdown(ctx)

	url := srv.URL() // http://127.0.0.1:NNNNN/v1-0/xmlgw/Gateway
*/
package testserver
