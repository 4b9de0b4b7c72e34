package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	bip39 "github.com/tyler-smith/go-bip39"
	"gopkg.in/yaml.v3"
)

// SearchConfig describes one brute-force search run: the candidate phrase
// space, the derivation schemes to check, the target addresses and the
// runtime/output knobs.
type SearchConfig struct {
	Mnemonic MnemonicConfig `yaml:"mnemonic"`
	Bip32    Bip32Config    `yaml:"bip32"`
	Bip44    Bip44Config    `yaml:"bip44"`
	Targets  []string       `yaml:"targets"`
	Run      RunConfig      `yaml:"run"`
	Output   OutputConfig   `yaml:"output"`
}

type MnemonicConfig struct {
	// Fixed, when set, is checked as the single candidate phrase and the
	// words table is ignored.
	Fixed       string     `yaml:"fixed"`
	Passphrases []string   `yaml:"passphrases"` // empty -> [""]
	Words       [][]string `yaml:"words"`       // one list of variants per phrase position
}

type Bip32Config struct {
	Enabled   bool     `yaml:"enabled"`
	Paths     []string `yaml:"paths"`     // base paths, e.g. "m/44'/60'/0'"
	Addresses int      `yaml:"addresses"` // child indexes checked per base path
	Encoding  string   `yaml:"encoding"`  // eth|eth-lower|btc-p2pkh|btc-p2wpkh ("" -> eth)
}

type Bip44Config struct {
	Enabled   bool   `yaml:"enabled"`
	Coin      string `yaml:"coin"`   // ethereum|bitcoin
	Change    string `yaml:"change"` // external|internal ("" -> external)
	Accounts  int    `yaml:"accounts"`
	Addresses int    `yaml:"addresses"`
}

type RunConfig struct {
	Workers          int      `yaml:"workers"`
	QueueSize        int      `yaml:"queue_size"`        // 0 -> 2048
	LogQueueSize     int      `yaml:"log_queue_size"`    // 0 -> 1024
	PollInterval     Duration `yaml:"poll_interval"`     // 0 -> 1s
	ProgressInterval Duration `yaml:"progress_interval"` // 0 -> 10s
	Verbose          bool     `yaml:"verbose"`
}

type OutputConfig struct {
	Folder     string `yaml:"folder"`      // "" -> "results"
	File       string `yaml:"file"`        // "" -> "results.log"
	MaxSizeMB  int    `yaml:"max_size_mb"` // 0 -> 1024
	MaxBackups int    `yaml:"max_backups"` // 0 -> 10
}

// Duration decodes yaml strings like "1s" or "500ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	if parsed < 0 {
		return fmt.Errorf("duration %q must not be negative", raw)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// phraseLengths are the word counts BIP39 allows for a mnemonic.
var phraseLengths = map[int]struct{}{12: {}, 15: {}, 18: {}, 21: {}, 24: {}}

func Load(path string) (*SearchConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	var cfg SearchConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode yaml %q: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation %q: %w", path, err)
	}

	return &cfg, nil
}

func applyDefaults(c *SearchConfig) {
	c.Mnemonic.Fixed = strings.TrimSpace(c.Mnemonic.Fixed)
	if len(c.Mnemonic.Passphrases) == 0 {
		c.Mnemonic.Passphrases = []string{""}
	}
	if c.Bip32.Encoding == "" {
		c.Bip32.Encoding = "eth"
	}
	if c.Bip44.Change == "" {
		c.Bip44.Change = "external"
	}
	if c.Run.QueueSize == 0 {
		c.Run.QueueSize = 2048
	}
	if c.Run.LogQueueSize == 0 {
		c.Run.LogQueueSize = 1024
	}
	if c.Run.PollInterval == 0 {
		c.Run.PollInterval = Duration(time.Second)
	}
	if c.Run.ProgressInterval == 0 {
		c.Run.ProgressInterval = Duration(10 * time.Second)
	}
	if c.Output.Folder == "" {
		c.Output.Folder = "results"
	}
	if c.Output.File == "" {
		c.Output.File = "results.log"
	}
	if c.Output.MaxSizeMB == 0 {
		c.Output.MaxSizeMB = 1024
	}
	if c.Output.MaxBackups == 0 {
		c.Output.MaxBackups = 10
	}
}

func validate(c *SearchConfig) error {
	if c == nil {
		return errors.New("nil config")
	}

	if c.Mnemonic.Fixed == "" {
		if err := validateWordsTable(c.Mnemonic.Words); err != nil {
			return err
		}
	}

	if !c.Bip32.Enabled && !c.Bip44.Enabled {
		return errors.New("no derivation scheme enabled: set bip32.enabled or bip44.enabled")
	}
	if c.Bip32.Enabled {
		if len(c.Bip32.Paths) == 0 {
			return errors.New("bip32.paths must not be empty when bip32 is enabled")
		}
		for i, p := range c.Bip32.Paths {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("bip32.paths[%d] must not be empty", i)
			}
		}
		if c.Bip32.Addresses <= 0 {
			return errors.New("bip32.addresses must be > 0 when bip32 is enabled")
		}
		switch c.Bip32.Encoding {
		case "eth", "eth-lower", "btc-p2pkh", "btc-p2wpkh":
		default:
			return errors.New("bip32.encoding must be one of: eth, eth-lower, btc-p2pkh, btc-p2wpkh")
		}
	}
	if c.Bip44.Enabled {
		switch c.Bip44.Coin {
		case "ethereum", "bitcoin":
		default:
			return errors.New("bip44.coin must be one of: ethereum, bitcoin")
		}
		switch c.Bip44.Change {
		case "external", "internal":
		default:
			return errors.New("bip44.change must be one of: external, internal")
		}
		if c.Bip44.Accounts <= 0 {
			return errors.New("bip44.accounts must be > 0 when bip44 is enabled")
		}
		if c.Bip44.Addresses <= 0 {
			return errors.New("bip44.addresses must be > 0 when bip44 is enabled")
		}
	}

	if len(c.Targets) == 0 {
		return errors.New("targets must not be empty")
	}
	for i, t := range c.Targets {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("targets[%d] must not be empty", i)
		}
	}

	if c.Run.Workers <= 0 {
		return errors.New("run.workers must be > 0")
	}
	if c.Run.QueueSize < 0 {
		return errors.New("run.queue_size must be >= 0")
	}
	if c.Run.LogQueueSize < 0 {
		return errors.New("run.log_queue_size must be >= 0")
	}
	if c.Output.MaxSizeMB < 0 {
		return errors.New("output.max_size_mb must be >= 0")
	}
	if c.Output.MaxBackups < 0 {
		return errors.New("output.max_backups must be >= 0")
	}

	return nil
}

func validateWordsTable(words [][]string) error {
	if len(words) == 0 {
		return errors.New("mnemonic.words must not be empty when mnemonic.fixed is not set")
	}
	if _, ok := phraseLengths[len(words)]; !ok {
		return fmt.Errorf("mnemonic.words must have 12, 15, 18, 21 or 24 positions, got %d", len(words))
	}
	for i, slot := range words {
		if len(slot) == 0 {
			return fmt.Errorf("mnemonic.words[%d] must not be empty", i)
		}
		seen := make(map[string]struct{}, len(slot))
		for j, w := range slot {
			w = strings.TrimSpace(w)
			if w == "" {
				return fmt.Errorf("mnemonic.words[%d][%d] must not be empty", i, j)
			}
			if _, ok := bip39.GetWordIndex(w); !ok {
				return fmt.Errorf("mnemonic.words[%d][%d]: %q is not in the BIP39 english wordlist", i, j, w)
			}
			if _, dup := seen[w]; dup {
				return fmt.Errorf("mnemonic.words[%d]: duplicate word %q", i, w)
			}
			seen[w] = struct{}{}
			words[i][j] = w
		}
	}
	return nil
}

// TotalCandidates returns the number of phrases the words table spans before
// checksum filtering (1 for a fixed phrase). Counts use big.Int: a full
// 24x2048 table overflows int64.
func (c *SearchConfig) TotalCandidates() *big.Int {
	if c.Mnemonic.Fixed != "" {
		return big.NewInt(1)
	}
	total := big.NewInt(1)
	for _, slot := range c.Mnemonic.Words {
		total.Mul(total, big.NewInt(int64(len(slot))))
	}
	return total
}

// AddressesPerCandidate returns how many addresses are derived and compared
// for one valid candidate, across passphrases and enabled schemes.
func (c *SearchConfig) AddressesPerCandidate() *big.Int {
	perPassphrase := big.NewInt(0)
	if c.Bip32.Enabled {
		n := big.NewInt(int64(len(c.Bip32.Paths)))
		n.Mul(n, big.NewInt(int64(c.Bip32.Addresses)))
		perPassphrase.Add(perPassphrase, n)
	}
	if c.Bip44.Enabled {
		n := big.NewInt(int64(c.Bip44.Accounts))
		n.Mul(n, big.NewInt(int64(c.Bip44.Addresses)))
		perPassphrase.Add(perPassphrase, n)
	}
	return perPassphrase.Mul(perPassphrase, big.NewInt(int64(len(c.Mnemonic.Passphrases))))
}

// TotalAddresses returns the upper bound of address comparisons for the run.
func (c *SearchConfig) TotalAddresses() *big.Int {
	return new(big.Int).Mul(c.TotalCandidates(), c.AddressesPerCandidate())
}
