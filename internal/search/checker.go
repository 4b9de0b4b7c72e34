package search

import (
	"fmt"
	"strings"
	"sync/atomic"

	"MnemonicFinder/internal/derive"
	"MnemonicFinder/internal/targets"
)

// TraceLog receives pre-formatted result records, one per line.
// *logsink.Sink implements it.
type TraceLog interface {
	Log(msg string)
}

const (
	schemeBip32 = "bip32"
	schemeBip44 = "bip44"
)

// Evidence identifies the first matching address of a run.
type Evidence struct {
	Mnemonic   string
	Passphrase string
	Scheme     string // "bip32" or "bip44"
	Path       string // full derivation path of the match
	Account    int    // bip44 account, 0 for bip32
	Index      int
	Address    string
}

type bip32Plan struct {
	paths     []string
	addresses int
	encoder   derive.AddressEncoder
}

type bip44Plan struct {
	coin      derive.Coin
	change    derive.Change
	accounts  int
	addresses int
}

// checker runs one candidate through the pipeline: checksum filter,
// then address derivation across passphrases and enabled schemes,
// comparing every derived address against the target set. It is
// stateless per call and shared by all workers.
type checker struct {
	passphrases []string
	bip32       *bip32Plan
	bip44       *bip44Plan
	validator   derive.Validator
	deriver     derive.Deriver
	targets     *targets.Set
	verbose     bool
	trace       TraceLog
	derived     *uint64
}

func newChecker(opt Options, tset *targets.Set, trace TraceLog, derived *uint64) (*checker, error) {
	cfg := opt.Config

	validator := opt.Validator
	if validator == nil {
		validator = derive.NewChecksumValidator()
	}

	var p32 *bip32Plan
	if cfg.Bip32.Enabled {
		enc, err := derive.EncoderByName(cfg.Bip32.Encoding)
		if err != nil {
			return nil, fmt.Errorf("bip32.encoding: %w", err)
		}
		for i, base := range cfg.Bip32.Paths {
			if err := derive.ValidBasePath(base); err != nil {
				return nil, fmt.Errorf("bip32.paths[%d]: %w", i, err)
			}
		}
		p32 = &bip32Plan{paths: cfg.Bip32.Paths, addresses: cfg.Bip32.Addresses, encoder: enc}
	}

	var p44 *bip44Plan
	if cfg.Bip44.Enabled {
		coin, err := derive.ParseCoin(cfg.Bip44.Coin)
		if err != nil {
			return nil, fmt.Errorf("bip44.coin: %w", err)
		}
		change, err := derive.ParseChange(cfg.Bip44.Change)
		if err != nil {
			return nil, fmt.Errorf("bip44.change: %w", err)
		}
		p44 = &bip44Plan{coin: coin, change: change, accounts: cfg.Bip44.Accounts, addresses: cfg.Bip44.Addresses}
	}

	deriver := opt.Deriver
	if deriver == nil {
		var pathEnc derive.AddressEncoder
		if p32 != nil {
			pathEnc = p32.encoder
		}
		deriver = derive.NewHDDeriver(pathEnc)
	}

	c := &checker{
		passphrases: cfg.Mnemonic.Passphrases,
		bip32:       p32,
		bip44:       p44,
		validator:   validator,
		deriver:     deriver,
		targets:     tset,
		verbose:     cfg.Run.Verbose,
		trace:       trace,
		derived:     derived,
	}
	if err := c.validateTargets(); err != nil {
		return nil, err
	}
	return c, nil
}

// validateTargets rejects any target that no enabled encoding could
// ever produce, before a single candidate is derived.
func (c *checker) validateTargets() error {
	var encs []derive.AddressEncoder
	names := make([]string, 0, 2)
	add := func(enc derive.AddressEncoder) {
		for _, have := range encs {
			if have.Name() == enc.Name() {
				return
			}
		}
		encs = append(encs, enc)
		names = append(names, enc.Name())
	}
	if c.bip32 != nil {
		add(c.bip32.encoder)
	}
	if c.bip44 != nil {
		add(c.bip44.coin.Encoder())
	}

	for i, t := range c.targets.List() {
		ok := false
		for _, enc := range encs {
			if enc.ValidTarget(t) {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("targets[%d]: %q is not a valid %s address", i, t, strings.Join(names, " or "))
		}
	}
	return nil
}

// Check runs one candidate. Nil evidence with nil error means no
// match; a checksum failure is the expected high-frequency outcome and
// is not an error. A derivation failure aborts the run: paths were
// validated upfront, so it signals a configuration class problem.
func (c *checker) Check(phrase string) (*Evidence, error) {
	if !c.validator.Validate(phrase) {
		return nil, nil
	}
	for _, secret := range c.passphrases {
		seed, err := c.deriver.Seed(phrase, secret)
		if err != nil {
			return nil, fmt.Errorf("derive seed: %w", err)
		}

		var audit []string
		ev, err := c.checkPaths(phrase, secret, seed, &audit)
		if ev != nil || err != nil {
			return ev, err
		}
		ev, err = c.checkAccounts(phrase, secret, seed, &audit)
		if ev != nil || err != nil {
			return ev, err
		}
		if c.verbose && len(audit) > 0 {
			c.trace.Log(formatTrace(phrase, secret, audit))
		}
	}
	return nil, nil
}

func (c *checker) checkPaths(phrase, secret string, seed []byte, audit *[]string) (*Evidence, error) {
	if c.bip32 == nil {
		return nil, nil
	}
	for _, base := range c.bip32.paths {
		for i := 0; i < c.bip32.addresses; i++ {
			addr, err := c.deriver.AtPath(seed, base, i)
			if err != nil {
				return nil, fmt.Errorf("bip32 derive %s/%d: %w", base, i, err)
			}
			atomic.AddUint64(c.derived, 1)
			if c.targets.Contains(addr) {
				return &Evidence{
					Mnemonic:   phrase,
					Passphrase: secret,
					Scheme:     schemeBip32,
					Path:       fmt.Sprintf("%s/%d", base, i),
					Index:      i,
					Address:    addr,
				}, nil
			}
			if c.verbose {
				*audit = append(*audit, fmt.Sprintf("%s/%d=%s", base, i, addr))
			}
		}
	}
	return nil, nil
}

func (c *checker) checkAccounts(phrase, secret string, seed []byte, audit *[]string) (*Evidence, error) {
	if c.bip44 == nil {
		return nil, nil
	}
	for a := 0; a < c.bip44.accounts; a++ {
		for i := 0; i < c.bip44.addresses; i++ {
			path := derive.AccountPath(c.bip44.coin, a, c.bip44.change, i)
			addr, err := c.deriver.Account(seed, c.bip44.coin, a, c.bip44.change, i)
			if err != nil {
				return nil, fmt.Errorf("bip44 derive %s: %w", path, err)
			}
			atomic.AddUint64(c.derived, 1)
			if c.targets.Contains(addr) {
				return &Evidence{
					Mnemonic:   phrase,
					Passphrase: secret,
					Scheme:     schemeBip44,
					Path:       path,
					Account:    a,
					Index:      i,
					Address:    addr,
				}, nil
			}
			if c.verbose {
				*audit = append(*audit, fmt.Sprintf("%s=%s", path, addr))
			}
		}
	}
	return nil, nil
}

func formatTrace(phrase, secret string, addrs []string) string {
	return fmt.Sprintf("checked mnemonic=%q passphrase=%q addresses=%s",
		phrase, secret, strings.Join(addrs, " "))
}

func formatFound(ev *Evidence) string {
	return fmt.Sprintf("found address=%s scheme=%s path=%s account=%d index=%d mnemonic=%q passphrase=%q",
		ev.Address, ev.Scheme, ev.Path, ev.Account, ev.Index, ev.Mnemonic, ev.Passphrase)
}
