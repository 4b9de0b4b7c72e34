package search

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MnemonicFinder/internal/derive"
	"MnemonicFinder/internal/targets"
	"MnemonicFinder/pkg/config"
)

const (
	ethTarget  = "0x0000000000000000000000000000000000000001"
	ethTargetB = "0x0000000000000000000000000000000000000002"
)

// acceptAll passes every candidate through the checksum filter.
type acceptAll struct{}

func (acceptAll) Validate(string) bool { return true }

// rejectAll fails every candidate.
type rejectAll struct{}

func (rejectAll) Validate(string) bool { return false }

// fakeDeriver maps "phrase|secret|path" keys to fixed addresses and
// returns a unique non-matching filler for everything else.
type fakeDeriver struct {
	addrs map[string]string
}

func (f *fakeDeriver) Seed(phrase, passphrase string) ([]byte, error) {
	return []byte(phrase + "|" + passphrase), nil
}

func (f *fakeDeriver) AtPath(seed []byte, basePath string, index int) (string, error) {
	return f.addr(fmt.Sprintf("%s|%s/%d", seed, basePath, index)), nil
}

func (f *fakeDeriver) Account(seed []byte, coin derive.Coin, account int, change derive.Change, index int) (string, error) {
	return f.addr(fmt.Sprintf("%s|%s", seed, derive.AccountPath(coin, account, change, index))), nil
}

func (f *fakeDeriver) addr(key string) string {
	if a, ok := f.addrs[key]; ok {
		return a
	}
	return "unmatched:" + key
}

// failingDeriver simulates a derivation backend fault.
type failingDeriver struct{}

func (failingDeriver) Seed(phrase, _ string) ([]byte, error) { return []byte(phrase), nil }

func (failingDeriver) AtPath([]byte, string, int) (string, error) {
	return "", errors.New("derive failed")
}

func (failingDeriver) Account([]byte, derive.Coin, int, derive.Change, int) (string, error) {
	return "", errors.New("derive failed")
}

// recorder captures sink records in memory.
type recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *recorder) Log(msg string) {
	r.mu.Lock()
	r.lines = append(r.lines, msg)
	r.mu.Unlock()
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func (r *recorder) matching(prefix string) []string {
	var out []string
	for _, l := range r.all() {
		if strings.HasPrefix(l, prefix) {
			out = append(out, l)
		}
	}
	return out
}

func bip32TestConfig() *config.SearchConfig {
	return &config.SearchConfig{
		Mnemonic: config.MnemonicConfig{Passphrases: []string{""}},
		Bip32: config.Bip32Config{
			Enabled:   true,
			Paths:     []string{"m/44'/60'/0'"},
			Addresses: 2,
			Encoding:  "eth",
		},
	}
}

func newTestChecker(t *testing.T, opt Options, targetList []string, derived *uint64) (*checker, *recorder) {
	t.Helper()
	rec := &recorder{}
	chk, err := newChecker(opt, targets.New(targetList), rec, derived)
	require.NoError(t, err)
	return chk, rec
}

func TestCheckerSkipsInvalidChecksum(t *testing.T) {
	var derived uint64
	chk, _ := newTestChecker(t, Options{
		Config:    bip32TestConfig(),
		Validator: rejectAll{},
		Deriver:   &fakeDeriver{},
	}, []string{ethTarget}, &derived)

	ev, err := chk.Check("whatever phrase")
	require.NoError(t, err)
	assert.Nil(t, ev)
	assert.Zero(t, derived, "a rejected candidate must not reach derivation")
}

func TestCheckerFindsPathMatch(t *testing.T) {
	var derived uint64
	chk, rec := newTestChecker(t, Options{
		Config:    bip32TestConfig(),
		Validator: acceptAll{},
		Deriver: &fakeDeriver{addrs: map[string]string{
			"alpha||m/44'/60'/0'/1": ethTarget,
		}},
	}, []string{ethTarget}, &derived)

	ev, err := chk.Check("alpha")
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, "alpha", ev.Mnemonic)
	assert.Equal(t, "", ev.Passphrase)
	assert.Equal(t, "bip32", ev.Scheme)
	assert.Equal(t, "m/44'/60'/0'/1", ev.Path)
	assert.Equal(t, 1, ev.Index)
	assert.Equal(t, ethTarget, ev.Address)
	assert.Equal(t, uint64(2), derived)
	assert.Empty(t, rec.all(), "matches are reported by the engine, not the checker")
}

func TestCheckerStopsAtFirstSecret(t *testing.T) {
	cfg := bip32TestConfig()
	cfg.Mnemonic.Passphrases = []string{"", "test"}

	var derived uint64
	chk, _ := newTestChecker(t, Options{
		Config:    cfg,
		Validator: acceptAll{},
		Deriver: &fakeDeriver{addrs: map[string]string{
			"alpha||m/44'/60'/0'/0":     ethTarget,
			"alpha|test|m/44'/60'/0'/1": ethTargetB,
		}},
	}, []string{ethTarget, ethTargetB}, &derived)

	ev, err := chk.Check("alpha")
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, "", ev.Passphrase, "secrets are scanned in configured order")
	assert.Equal(t, ethTarget, ev.Address)
	assert.Equal(t, uint64(1), derived, "no derivation may happen after the match")
}

func TestCheckerFindsAccountMatch(t *testing.T) {
	cfg := &config.SearchConfig{
		Mnemonic: config.MnemonicConfig{Passphrases: []string{""}},
		Bip44: config.Bip44Config{
			Enabled:   true,
			Coin:      "ethereum",
			Change:    "external",
			Accounts:  2,
			Addresses: 2,
		},
	}

	var derived uint64
	chk, _ := newTestChecker(t, Options{
		Config:    cfg,
		Validator: acceptAll{},
		Deriver: &fakeDeriver{addrs: map[string]string{
			"alpha||m/44'/60'/1'/0/0": ethTarget,
		}},
	}, []string{ethTarget}, &derived)

	ev, err := chk.Check("alpha")
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, "bip44", ev.Scheme)
	assert.Equal(t, "m/44'/60'/1'/0/0", ev.Path)
	assert.Equal(t, 1, ev.Account)
	assert.Equal(t, 0, ev.Index)
	assert.Equal(t, uint64(3), derived, "accounts 0/0, 0/1 and 1/0 derived")
}

func TestCheckerPathsBeforeAccounts(t *testing.T) {
	cfg := bip32TestConfig()
	cfg.Bip44 = config.Bip44Config{
		Enabled:   true,
		Coin:      "ethereum",
		Change:    "external",
		Accounts:  1,
		Addresses: 1,
	}

	var derived uint64
	chk, _ := newTestChecker(t, Options{
		Config:    cfg,
		Validator: acceptAll{},
		Deriver: &fakeDeriver{addrs: map[string]string{
			"alpha||m/44'/60'/0'/0":   ethTarget,
			"alpha||m/44'/60'/0'/0/0": ethTargetB,
		}},
	}, []string{ethTarget, ethTargetB}, &derived)

	ev, err := chk.Check("alpha")
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, "bip32", ev.Scheme, "arbitrary paths are scanned before the standardized scheme")
}

func TestCheckerVerboseTrace(t *testing.T) {
	cfg := bip32TestConfig()
	cfg.Mnemonic.Passphrases = []string{"", "x"}
	cfg.Run.Verbose = true

	var derived uint64
	chk, rec := newTestChecker(t, Options{
		Config:    cfg,
		Validator: acceptAll{},
		Deriver:   &fakeDeriver{},
	}, []string{ethTarget}, &derived)

	ev, err := chk.Check("alpha")
	require.NoError(t, err)
	require.Nil(t, ev)

	lines := rec.all()
	require.Len(t, lines, 2, "one trace record per candidate/secret pair")
	assert.Contains(t, lines[0], `mnemonic="alpha"`)
	assert.Contains(t, lines[0], `passphrase=""`)
	assert.Contains(t, lines[0], "m/44'/60'/0'/0=")
	assert.Contains(t, lines[0], "m/44'/60'/0'/1=")
	assert.Contains(t, lines[1], `passphrase="x"`)
}

func TestCheckerVerboseTraceCoversBothSchemes(t *testing.T) {
	cfg := bip32TestConfig()
	cfg.Bip44 = config.Bip44Config{
		Enabled:   true,
		Coin:      "ethereum",
		Change:    "external",
		Accounts:  1,
		Addresses: 1,
	}
	cfg.Run.Verbose = true

	var derived uint64
	chk, rec := newTestChecker(t, Options{
		Config:    cfg,
		Validator: acceptAll{},
		Deriver:   &fakeDeriver{},
	}, []string{ethTarget}, &derived)

	ev, err := chk.Check("alpha")
	require.NoError(t, err)
	require.Nil(t, ev)

	lines := rec.all()
	require.Len(t, lines, 1, "both schemes share one record per candidate/secret pair")
	assert.Contains(t, lines[0], "m/44'/60'/0'/0=")
	assert.Contains(t, lines[0], "m/44'/60'/0'/1=")
	assert.Contains(t, lines[0], "m/44'/60'/0'/0/0=")
}

func TestCheckerQuietWithoutVerbose(t *testing.T) {
	var derived uint64
	chk, rec := newTestChecker(t, Options{
		Config:    bip32TestConfig(),
		Validator: acceptAll{},
		Deriver:   &fakeDeriver{},
	}, []string{ethTarget}, &derived)

	_, err := chk.Check("alpha")
	require.NoError(t, err)
	assert.Empty(t, rec.all())
}

func TestCheckerDerivationFailureIsFatal(t *testing.T) {
	var derived uint64
	chk, _ := newTestChecker(t, Options{
		Config:    bip32TestConfig(),
		Validator: acceptAll{},
		Deriver:   failingDeriver{},
	}, []string{ethTarget}, &derived)

	_, err := chk.Check("alpha")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "derive")
}

func TestCheckerRejectsMalformedTarget(t *testing.T) {
	var derived uint64
	_, err := newChecker(Options{
		Config:    bip32TestConfig(),
		Validator: acceptAll{},
		Deriver:   &fakeDeriver{},
	}, targets.New([]string{"not-an-address"}), &recorder{}, &derived)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "targets[0]")
}

func TestCheckerRejectsTargetForWrongEncoding(t *testing.T) {
	cfg := bip32TestConfig()
	cfg.Bip32.Encoding = "btc-p2pkh"

	var derived uint64
	_, err := newChecker(Options{
		Config:    cfg,
		Validator: acceptAll{},
		Deriver:   &fakeDeriver{},
	}, targets.New([]string{ethTarget}), &recorder{}, &derived)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "btc-p2pkh")
}

func TestCheckerAcceptsBitcoinTarget(t *testing.T) {
	cfg := bip32TestConfig()
	cfg.Bip32.Encoding = "btc-p2pkh"

	var derived uint64
	_, err := newChecker(Options{
		Config:    cfg,
		Validator: acceptAll{},
		Deriver:   &fakeDeriver{},
	}, targets.New([]string{"1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA"}), &recorder{}, &derived)

	require.NoError(t, err)
}

func TestCheckerRejectsBadBasePath(t *testing.T) {
	cfg := bip32TestConfig()
	cfg.Bip32.Paths = []string{"44/x"}

	var derived uint64
	_, err := newChecker(Options{
		Config:    cfg,
		Validator: acceptAll{},
		Deriver:   &fakeDeriver{},
	}, targets.New([]string{ethTarget}), &recorder{}, &derived)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bip32.paths[0]")
}
