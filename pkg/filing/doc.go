// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package filing builds the Companies House message bodies and wraps the
request/response round trips in a Service.

# Message bodies

	CompanyDataRequest   company lookup, used to check credentials
	FormSubmission       accounts submission (class "Accounts") and
	                     accounts image request (class "AccountsImage")
	GetSubmissionStatus  status of one or all earlier submissions

Bodies are populated from the configuration held by a state.Store. A
FormSubmission consumes one submission id.

# Service

	store, _ := state.Open(ctx, "config.json", state.NewFileBackend("state.json"))
	svc := filing.NewService(store, gateway.NewClient(&gateway.ClientConfig{
	    Endpoint: store.GetString(state.KeyURL),
	}))

	company, err := svc.CompanyData(ctx)
	subID, err := svc.SubmitAccounts(ctx, "accounts.html", data)
	statuses, err := svc.SubmissionStatus(ctx, subID)

Errors from the gateway are returned unchanged and can be inspected with
errors.Is and errors.As against the gateway package.
*/
package filing
