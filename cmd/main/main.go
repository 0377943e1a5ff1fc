package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"brandmatch-service/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "brandmatch",
	Short:         "brandmatch: сопоставление строк заказов со справочником брендов",
	Long:          "Без подкоманды запускает HTTP-сервер (как serve).",
	Args:          cobra.NoArgs,
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml, ./config/config.yaml)")
	rootCmd.AddCommand(serveCmd, matchCmd, keywordsCmd)
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
