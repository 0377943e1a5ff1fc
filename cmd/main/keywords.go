package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"brandmatch-service/internal/brandmatch/keywords"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Список шумовых ключевых слов",
}

var keywordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать ключевые слова",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry(cmd)
		if err != nil {
			return err
		}
		for _, kw := range reg.List() {
			fmt.Fprintln(cmd.OutOrStdout(), kw)
		}
		return nil
	},
}

var keywordsAddCmd = &cobra.Command{
	Use:   "add <keyword>...",
	Short: "Добавить ключевые слова",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry(cmd)
		if err != nil {
			return err
		}
		for _, kw := range args {
			if err := reg.Add(cmd.Context(), kw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %q\n", kw)
		}
		return nil
	},
}

var keywordsRemoveCmd = &cobra.Command{
	Use:   "remove <keyword>...",
	Short: "Удалить ключевые слова",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry(cmd)
		if err != nil {
			return err
		}
		for _, kw := range args {
			if err := reg.Remove(cmd.Context(), kw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %q\n", kw)
		}
		return nil
	},
}

func init() {
	keywordsCmd.AddCommand(keywordsListCmd, keywordsAddCmd, keywordsRemoveCmd)
}

// openRegistry: реестр без справочника и логов в консоль.
func openRegistry(cmd *cobra.Command) (*keywords.Registry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	reg := keywords.NewRegistry(keywords.NewXLSXRepository(cfg.Keywords.File), zerolog.Nop())
	if err := reg.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return reg, nil
}
