package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"foldertoword/internal/archive"
	"foldertoword/internal/config"
	"foldertoword/internal/gallery"
	"foldertoword/internal/service"
)

func newConvertCmd(cfg *config.AppConfig, log zerolog.Logger) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "convert <archive.zip>",
		Short: "Convert a ZIP archive into <primary folder>.docx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read archive: %w", err)
			}

			conv := service.NewConversionService(
				archive.Options{MaxEntryBytes: int64(cfg.MaxEntryMB) << 20},
				gallery.NewBuilder(gallery.Options{MaxPixels: cfg.MaxImagePixels}),
				nil,
			)
			res, err := conv.Convert(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("error processing ZIP: %w", err)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			out := filepath.Join(outDir, res.FileName)
			if err := os.WriteFile(out, res.Data, 0o644); err != nil {
				return fmt.Errorf("write document: %w", err)
			}

			for _, f := range res.Report.Failed {
				log.Warn().Str("path", f.Path).Str("reason", string(f.Reason)).Str("error", f.Error).Msg("image replaced by placeholder")
			}
			log.Info().
				Str("archive", args[0]).
				Str("document", out).
				Int("folders", res.Report.Folders).
				Int("embedded", res.Report.Embedded).
				Int("failed", len(res.Report.Failed)).
				Msg("gallery generated")

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory for the generated document")
	return cmd
}
