package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration after defaults and env overrides",
			RunE: func(_ *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				cfg.LLM.APIKey = redact(cfg.LLM.APIKey)
				cfg.Embedding.APIKey = redact(cfg.Embedding.APIKey)
				cfg.WebSearch.APIKey = redact(cfg.WebSearch.APIKey)
				cfg.VectorDB.Password = redact(cfg.VectorDB.Password)
				cfg.VectorDB.DSN = redact(cfg.VectorDB.DSN)
				return yaml.NewEncoder(os.Stdout).Encode(cfg)
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Validate the configuration and exit",
			RunE: func(_ *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				if err := cfg.Validate(); err != nil {
					return err
				}
				fmt.Println("configuration ok")
				return nil
			},
		},
	)
	return cmd
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "<redacted>"
}
