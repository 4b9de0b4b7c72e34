package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"MnemonicFinder/internal/search"
	"MnemonicFinder/pkg/config"
	"MnemonicFinder/pkg/logx"
)

func runSearch(cmd *cobra.Command, _ []string) error {
	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	printHeader()
	printPlan(cfg, path)

	if !yes && !confirmStart() {
		fmt.Println("Aborted.")
		return nil
	}
	fmt.Println()

	ctx := withInterrupt(context.Background())
	logx.S().Infow("start search", "config", path)

	res, err := search.Run(ctx, search.Options{Config: cfg})
	if err != nil {
		return err
	}

	printResult(cfg, res)
	return nil
}

// confirmStart waits for enter on a terminal. Non-interactive runs
// (pipes, CI) proceed without the prompt.
func confirmStart() bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return true
	}
	fmt.Print("Press enter to start (Ctrl+C to abort) ")
	_, err := bufio.NewReader(os.Stdin).ReadString('\n')
	return err == nil
}
