/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/docsum-be/types"
	"github.com/tieubaoca/docsum-be/utils"
	"go.uber.org/zap"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the text extracted from a document",
	Long: `Runs the same extraction pipeline the server uses (text layer, OCR fallback,
DOCX and TXT decoding) and prints the result. No LLM call is made.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		filePath := args[0]
		f, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", filePath, err)
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}

		text, err := buildExtractor(cfg, logger).ExtractText(cmd.Context(), types.UploadedDocument{
			Filename: filepath.Base(filePath),
			Size:     info.Size(),
			Content:  f,
		})
		if err != nil {
			return err
		}

		if out, _ := cmd.Flags().GetString("output"); out != "" {
			if out == "-" {
				out = utils.GetFileNameWithoutExt(filePath) + ".txt"
			}
			if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			logger.Info("Wrote extracted text", zap.String("file", out), zap.Int("chars", len(text)))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("output", "o", "", `write text to this file ("-" uses <name>.txt)`)
}
