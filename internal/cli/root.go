package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
)

// HideSecretsInConsole mirrors the app-level setting; when set, found
// phrases are kept out of plain console prints (the results file still
// receives them).
var HideSecretsInConsole bool

var (
	cfgPath string
	yes     bool
)

var rootCmd = &cobra.Command{
	Use:   "mnemonicfinder",
	Short: "Brute-force search for a BIP39 mnemonic matching known addresses",
	Long: `mnemonicfinder enumerates candidate BIP39 phrases from per-position
word lists, filters them by checksum and derives addresses over the
configured BIP32 paths and BIP44 accounts, comparing each one against a
target address set. The first match stops the run and is appended to
the rotating results file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSearch,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"search config path (default $MNEMONICFINDER_CONFIG or configs/search.yaml)")
	rootCmd.Flags().BoolVarP(&yes, "yes", "y", false, "start without the interactive confirmation")
	rootCmd.AddCommand(planCmd)
}

func Execute() error { return rootCmd.Execute() }

func resolveConfigPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	if p := os.Getenv("MNEMONICFINDER_CONFIG"); p != "" {
		return p
	}
	return filepath.Join("configs", "search.yaml")
}

func withInterrupt(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx
}
