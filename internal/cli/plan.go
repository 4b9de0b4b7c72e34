package cli

import (
	"github.com/spf13/cobra"

	"MnemonicFinder/pkg/config"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Validate the config and show the search space without starting",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := resolveConfigPath()
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		printHeader()
		printPlan(cfg, path)
		return nil
	},
}
