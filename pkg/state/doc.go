// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package state holds the per-installation configuration and the persistent
counters required by the Companies House XML Gateway.

# Configuration

Configuration is a read-only key/value mapping loaded once at startup. JSON
and YAML files are decoded with gopkg.in/yaml.v3, files ending in .toml
with github.com/BurntSushi/toml. Environment references (${VAR}) are
expanded before decoding.

	cfg, err := state.LoadConfig("config.json")
	url := cfg.GetString("url")

A Config is never mutated after load. Use WithOverride to derive a copy:

	testCfg := cfg.WithOverride("test-flag", "1")

# Counters

The gateway requires a monotonically increasing transaction id on every
message, and every accounts filing carries a submission id. Both are kept
in a Backend and written back before a new value is handed out:

	store, err := state.Open(ctx, "config.json", state.NewFileBackend("state.json"))
	txID, err := store.NextTransactionID(ctx)     // 1, 2, 3, ...
	subID, err := store.NextSubmissionID(ctx)     // "S00001", ...

A missing or unreadable counter file at the configured location starts
both counters at zero. Any other backend failure is returned.

# Concurrency

A Store is safe for concurrent use by multiple goroutines. Two Stores (or
two processes) sharing one backend location are not coordinated; callers
must make sure a location has a single owner.
*/
package state
