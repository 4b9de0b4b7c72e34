package derive

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// AddressEncoder turns a derived public key into the identifier string
// that is compared against the target set.
type AddressEncoder interface {
	Name() string
	Encode(pub *ecdsa.PublicKey) (string, error)
	// ValidTarget reports whether s is a well-formed identifier under
	// this encoding. Used to reject malformed targets at startup.
	ValidTarget(s string) bool
}

const (
	EncodingEth      = "eth"
	EncodingEthLower = "eth-lower"
	EncodingP2PKH    = "btc-p2pkh"
	EncodingP2WPKH   = "btc-p2wpkh"
)

// EncoderByName resolves a configured encoding name. The empty string
// defaults to EIP-55 checksummed hex.
func EncoderByName(name string) (AddressEncoder, error) {
	switch name {
	case "", EncodingEth:
		return ethEncoder{}, nil
	case EncodingEthLower:
		return ethEncoder{lower: true}, nil
	case EncodingP2PKH:
		return btcEncoder{params: &chaincfg.MainNetParams}, nil
	case EncodingP2WPKH:
		return btcEncoder{witness: true, params: &chaincfg.MainNetParams}, nil
	default:
		return nil, fmt.Errorf("unknown address encoding %q", name)
	}
}

type ethEncoder struct {
	lower bool
}

func (e ethEncoder) Name() string {
	if e.lower {
		return EncodingEthLower
	}
	return EncodingEth
}

func (e ethEncoder) Encode(pub *ecdsa.PublicKey) (string, error) {
	addr := gethcrypto.PubkeyToAddress(*pub).Hex()
	if e.lower {
		addr = strings.ToLower(addr)
	}
	return addr, nil
}

func (e ethEncoder) ValidTarget(s string) bool {
	return common.IsHexAddress(s)
}

type btcEncoder struct {
	witness bool
	params  *chaincfg.Params
}

func (e btcEncoder) Name() string {
	if e.witness {
		return EncodingP2WPKH
	}
	return EncodingP2PKH
}

func (e btcEncoder) Encode(pub *ecdsa.PublicKey) (string, error) {
	pkHash := btcutil.Hash160(gethcrypto.CompressPubkey(pub))
	if e.witness {
		addr, err := btcutil.NewAddressWitnessPubKeyHash(pkHash, e.params)
		if err != nil {
			return "", fmt.Errorf("encode p2wpkh: %w", err)
		}
		return addr.EncodeAddress(), nil
	}
	addr, err := btcutil.NewAddressPubKeyHash(pkHash, e.params)
	if err != nil {
		return "", fmt.Errorf("encode p2pkh: %w", err)
	}
	return addr.EncodeAddress(), nil
}

func (e btcEncoder) ValidTarget(s string) bool {
	_, err := btcutil.DecodeAddress(s, e.params)
	return err == nil
}
