// Package testutil provides testing utilities for treekv.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating deterministic random tokens and
// payloads and for verifying binary-search-tree ordering.
//
// # Random Token Generation
//
//	rng := testutil.NewRNG(seed)
//	tokens := rng.UniqueTokens(1000)
//	payload := rng.Payload()
package testutil
