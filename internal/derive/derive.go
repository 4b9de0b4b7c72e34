// Package derive wraps the external BIP39/BIP32 primitives behind the
// narrow interfaces the search core consumes: checksum validation, seed
// generation and address derivation. Everything here is deterministic
// and side-effect free; a failure is a sign of bad configuration, not a
// transient condition.
package derive

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
	bip39 "github.com/tyler-smith/go-bip39"
)

// Coin selects the BIP44 coin type and its canonical address encoding.
type Coin string

const (
	CoinEthereum Coin = "ethereum"
	CoinBitcoin  Coin = "bitcoin"
)

// ParseCoin validates a configured coin name.
func ParseCoin(s string) (Coin, error) {
	switch Coin(s) {
	case CoinEthereum, CoinBitcoin:
		return Coin(s), nil
	}
	return "", fmt.Errorf("unknown coin %q", s)
}

func (c Coin) typeIndex() uint32 {
	if c == CoinBitcoin {
		return 0
	}
	return 60
}

// Encoder is the coin's canonical address encoding.
func (c Coin) Encoder() AddressEncoder {
	if c == CoinBitcoin {
		return btcEncoder{params: &chaincfg.MainNetParams}
	}
	return ethEncoder{}
}

// Change designates the BIP44 chain: external receive addresses or
// internal change addresses.
type Change string

const (
	ChangeExternal Change = "external"
	ChangeInternal Change = "internal"
)

// ParseChange validates a configured change designation. The empty
// string defaults to external.
func ParseChange(s string) (Change, error) {
	switch Change(s) {
	case "", ChangeExternal:
		return ChangeExternal, nil
	case ChangeInternal:
		return ChangeInternal, nil
	}
	return "", fmt.Errorf("unknown change designation %q", s)
}

func (c Change) chainIndex() uint32 {
	if c == ChangeInternal {
		return 1
	}
	return 0
}

// Validator is the checksum filter. A false result is the expected
// high-frequency outcome for brute-forced phrases, not an error.
type Validator interface {
	Validate(phrase string) bool
}

// ChecksumValidator validates phrases against the BIP39 English
// wordlist and checksum.
type ChecksumValidator struct{}

func NewChecksumValidator() ChecksumValidator { return ChecksumValidator{} }

func (ChecksumValidator) Validate(phrase string) bool {
	return bip39.IsMnemonicValid(phrase)
}

// Deriver produces identifiers from a validated phrase.
type Deriver interface {
	// Seed combines a phrase with a passphrase into seed bytes.
	Seed(phrase, passphrase string) ([]byte, error)
	// AtPath derives the address at basePath/index, encoded with the
	// deriver's configured path encoding.
	AtPath(seed []byte, basePath string, index int) (string, error)
	// Account derives the address at m/44'/coin'/account'/change/index,
	// encoded with the coin's canonical encoding.
	Account(seed []byte, coin Coin, account int, change Change, index int) (string, error)
}

// HDDeriver implements Deriver over BIP32 secp256k1 derivation. Each
// call builds its own wallet from the seed, so instances are safe for
// concurrent use with no shared key material.
type HDDeriver struct {
	pathEncoder AddressEncoder
}

func NewHDDeriver(pathEncoder AddressEncoder) *HDDeriver {
	if pathEncoder == nil {
		pathEncoder = ethEncoder{}
	}
	return &HDDeriver{pathEncoder: pathEncoder}
}

func (d *HDDeriver) Seed(phrase, passphrase string) ([]byte, error) {
	return bip39.NewSeed(phrase, passphrase), nil
}

func (d *HDDeriver) AtPath(seed []byte, basePath string, index int) (string, error) {
	return deriveEncoded(seed, fmt.Sprintf("%s/%d", basePath, index), d.pathEncoder)
}

func (d *HDDeriver) Account(seed []byte, coin Coin, account int, change Change, index int) (string, error) {
	return deriveEncoded(seed, AccountPath(coin, account, change, index), coin.Encoder())
}

// AccountPath formats the full BIP44 derivation path for the given
// coordinates.
func AccountPath(coin Coin, account int, change Change, index int) string {
	return fmt.Sprintf("m/44'/%d'/%d'/%d/%d", coin.typeIndex(), account, change.chainIndex(), index)
}

func deriveEncoded(seed []byte, path string, enc AddressEncoder) (string, error) {
	w, err := hdwallet.NewFromSeed(seed)
	if err != nil {
		return "", fmt.Errorf("wallet from seed: %w", err)
	}
	parsed, err := hdwallet.ParseDerivationPath(path)
	if err != nil {
		return "", fmt.Errorf("parse derivation path %q: %w", path, err)
	}
	account, err := w.Derive(parsed, false)
	if err != nil {
		return "", fmt.Errorf("derive %s: %w", path, err)
	}
	pub, err := w.PublicKey(account)
	if err != nil {
		return "", fmt.Errorf("public key at %s: %w", path, err)
	}
	return enc.Encode(pub)
}

// ValidBasePath reports whether a configured bip32 base path parses.
func ValidBasePath(basePath string) error {
	if _, err := hdwallet.ParseDerivationPath(fmt.Sprintf("%s/0", basePath)); err != nil {
		return fmt.Errorf("parse derivation path %q: %w", basePath, err)
	}
	return nil
}
