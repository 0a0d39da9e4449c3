package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voiceshop/assistant/common/logger"
)

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:   "voiceshop",
		Short: "Shopping assistant pipeline and MCP tool server",
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./voiceshop.yaml)")
	root.AddCommand(serveCmd(), configCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
