package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	assistant "github.com/voiceshop/assistant"
	"github.com/voiceshop/assistant/common/logger"
	"github.com/voiceshop/assistant/config"
)

func loadConfig() (*config.Config, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("voiceshop")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/voiceshop")
	}
	v.SetEnvPrefix("VOICESHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine when env vars carry the config.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the assistant as an MCP tool server on stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger.Init(cfg.Log)

			client, err := assistant.NewClient(context.Background(), cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			if cfg.Metrics.Enable {
				go func() {
					mux := http.NewServeMux()
					mux.Handle("/metrics", promhttp.Handler())
					logger.Infof("metrics: listening on %s", cfg.Metrics.Listen)
					if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
						logger.Errorf("metrics: listener stopped: %v", err)
					}
				}()
			}

			return assistant.ServeStdio(client)
		},
	}
}
