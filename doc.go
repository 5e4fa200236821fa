// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package chfiling is a client for the Companies House XML Gateway.

# Overview

go-chfiling builds GovTalk envelopes for company lookups, accounts
submissions and submission status queries, posts them to the gateway over
HTTPS and turns the gateway's answers into typed Go values and errors. A
mock gateway speaking the same wire protocol is included for tests and
local development.

# Package Structure

The library is organized into the following packages:

	github.com/sirosfoundation/go-chfiling/pkg/state    - Configuration and persistent transaction/submission counters
	github.com/sirosfoundation/go-chfiling/pkg/envelope - GovTalk envelope structures and builder
	github.com/sirosfoundation/go-chfiling/pkg/gateway  - HTTP transport, error kinds and response classification
	github.com/sirosfoundation/go-chfiling/pkg/filing   - Message bodies, response decoding and the filing Service

Supporting packages:

	internal/storage            - Counter backends selected by location (file or MongoDB)
	internal/storage/mongodb    - MongoDB counter backend
	internal/testserver         - Mock XML Gateway
	cmd/ch-filing               - Command line client
	cmd/ch-testserver           - Mock gateway server

# Quick Start

To look up a company:

	import (
	    "github.com/sirosfoundation/go-chfiling/pkg/filing"
	    "github.com/sirosfoundation/go-chfiling/pkg/gateway"
	    "github.com/sirosfoundation/go-chfiling/pkg/state"
	)

	store, err := state.Open(ctx, "config.json", state.NewFileBackend("state.json"))
	if err != nil {
	    log.Fatal(err)
	}

	client := gateway.NewClient(&gateway.ClientConfig{
	    Endpoint: store.GetString(state.KeyURL),
	})

	svc := filing.NewService(store, client)
	company, err := svc.CompanyData(ctx)
	if errors.Is(err, gateway.ErrAuthenticationFailure) {
	    // presenter or company credentials rejected
	}

# Configuration

The configuration file is JSON, YAML or TOML and is read once. Required
keys are presenter-id and authentication; url selects the gateway
endpoint and test-flag marks messages as tests. The message bodies read
company-number, company-authentication-code and the other filing keys
documented in package filing.

# Counters

Every envelope consumes one transaction id and every accounts submission
one submission id. Both are persisted before they are returned, so a
crash never causes an id to be reused.

# Error Handling

Failures are reported as *gateway.Error values with a Kind:

  - GenericFailure: unclassified gateway error or non-200 HTTP status
  - AuthenticationFailure: GovTalk error 502
  - SuspectedAccountsCorruption: GovTalk error 9999
  - SuspectedValidationFailure: GovTalk error 100
  - RequestFailure: connection failure
  - PrivacyFailure: TLS or certificate failure

Use errors.Is with the gateway sentinels to test for a kind.
*/
package chfiling
