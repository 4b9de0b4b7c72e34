package search

import (
	"MnemonicFinder/internal/derive"
	"MnemonicFinder/pkg/config"
)

// Options configures one search run. Config is required; the remaining
// fields default to the production implementations and exist mainly so
// tests can substitute deterministic fakes.
type Options struct {
	Config *config.SearchConfig

	// Validator filters candidates by checksum. Nil means BIP39
	// wordlist and checksum validation.
	Validator derive.Validator

	// Deriver turns candidates into addresses. Nil means HD derivation
	// with the configured encodings.
	Deriver derive.Deriver

	// Trace receives match and verbose trace records. Nil means a
	// rotating file sink built from Config.Output. An injected trace is
	// owned by the caller and is not closed by Run.
	Trace TraceLog
}
