package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"MnemonicFinder/internal/cli"
	"MnemonicFinder/pkg/appcfg"
	"MnemonicFinder/pkg/logx"
)

func main() {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "getwd: %v\n", err)
		os.Exit(2)
	}

	appPath := os.Getenv("MNEMONICFINDER_APP_CONFIG")
	if appPath == "" {
		appPath = filepath.Join(cwd, "configs", "app.yaml")
	}
	appConf, err := appcfg.Load(appPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config: %v (using defaults)\n", err)
		appConf = appcfg.Default()
	}

	if err := logx.Init(logx.Config{
		Level:                appConf.LogLevel,
		FilePath:             "",
		ConsoleOnly:          true,
		HideSecretsInConsole: appConf.HideSecretsInConsole,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "log init: %v\n", err)
		os.Exit(1)
	}
	defer logx.Close()

	logx.S().Infow("mnemonicfinder started",
		"cwd", cwd,
		"log_level", appConf.LogLevel,
		"hide_secrets_in_console", appConf.HideSecretsInConsole,
	)

	cli.HideSecretsInConsole = appConf.HideSecretsInConsole
	if err := cli.Execute(); err != nil {
		logx.S().Errorw("run failed", "err", err)
		logx.Close()
		os.Exit(1)
	}
}
