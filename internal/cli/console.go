package cli

import (
	"fmt"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"

	"MnemonicFinder/internal/search"
	"MnemonicFinder/pkg/config"
)

func printHeader() {
	fmt.Println()
	figure.NewColorFigure("Mnemonic Finder", "", "green", true).Print()
	fmt.Println()
}

func printPlan(cfg *config.SearchConfig, path string) {
	arrow := color.CyanString("→")

	fmt.Printf("%s Config: %s\n", arrow, path)
	if cfg.Mnemonic.Fixed != "" {
		fmt.Printf("%s Mode: fixed phrase (single candidate)\n", arrow)
	} else {
		fmt.Printf("%s Mnemonic combinations: %s\n", arrow, formatBigInt(cfg.TotalCandidates()))
	}
	fmt.Printf("%s Passphrases: %d\n", arrow, len(cfg.Mnemonic.Passphrases))
	if cfg.Bip32.Enabled {
		fmt.Printf("%s BIP32: %d path(s) x %d address(es), encoding %s\n",
			arrow, len(cfg.Bip32.Paths), cfg.Bip32.Addresses, cfg.Bip32.Encoding)
	}
	if cfg.Bip44.Enabled {
		fmt.Printf("%s BIP44: %s, %d account(s) x %d address(es), %s chain\n",
			arrow, cfg.Bip44.Coin, cfg.Bip44.Accounts, cfg.Bip44.Addresses, cfg.Bip44.Change)
	}
	fmt.Printf("%s Total derived addresses: %s\n", arrow, formatBigInt(cfg.TotalAddresses()))
	fmt.Printf("%s Targets: %d\n", arrow, len(cfg.Targets))
	fmt.Printf("%s Workers: %d, queue: %d\n", arrow, cfg.Run.Workers, cfg.Run.QueueSize)
	fmt.Printf("%s Results: %s (rotate at %d MB, keep %d)\n",
		arrow, filepath.Join(cfg.Output.Folder, cfg.Output.File), cfg.Output.MaxSizeMB, cfg.Output.MaxBackups)
}

func printResult(cfg *config.SearchConfig, res *search.Result) {
	fmt.Println()
	if res.Found {
		ev := res.Evidence
		fmt.Printf("%s Found: %s\n", color.GreenString("✓"), color.YellowString(ev.Address))
		fmt.Printf("  scheme: %s, path: %s\n", ev.Scheme, ev.Path)
		if HideSecretsInConsole {
			fmt.Printf("  mnemonic: (hidden, see results file)\n")
		} else {
			fmt.Printf("  mnemonic: %s\n", ev.Mnemonic)
			fmt.Printf("  passphrase: %q\n", ev.Passphrase)
		}
		fmt.Printf("  record: %s\n", filepath.Join(cfg.Output.Folder, cfg.Output.File))
	} else {
		fmt.Printf("%s No match found.\n", color.RedString("✗"))
	}
	fmt.Printf("Candidates produced: %s, checked: %s, addresses derived: %s\n",
		formatUint(res.Produced), formatUint(res.Checked), formatUint(res.Derived))
	fmt.Printf("Elapsed time: %.2f sec\n", res.Elapsed.Seconds())
}

// formatBigInt renders a number with dots between thousands groups,
// e.g. 2654208 -> "2.654.208".
func formatBigInt(n *big.Int) string {
	digits := n.String()
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func formatUint(n uint64) string {
	return formatBigInt(new(big.Int).SetUint64(n))
}
