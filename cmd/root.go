/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/docsum-be/config"
	"github.com/tieubaoca/docsum-be/utils"
	"go.uber.org/zap"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docsum-be",
	Short: "Document summarization and note-making backend",
	Long: `docsum-be extracts text from PDF, DOCX and TXT documents and asks an
LLM provider for summaries and topic-wise study notes.

Run "docsum-be start" to serve the HTTP API or "docsum-be extract <file>"
to print the text that would be sent upstream.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.yaml", "config file")
	rootCmd.Version = Version
}

// loadRuntime reads configuration and builds the logger shared by every subcommand.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, logger, nil
}
