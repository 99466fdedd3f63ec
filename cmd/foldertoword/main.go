// Command foldertoword converts image archives to Word galleries from the shell
// and runs maintenance against the document store.
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"foldertoword/internal/config"
	"foldertoword/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Log)
	if err := newRootCmd(cfg, log).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.AppConfig, log zerolog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "foldertoword",
		Short:         "Turn ZIP archives of image folders into Word documents",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newConvertCmd(cfg, log))
	root.AddCommand(newReapCmd(cfg, log))
	return root
}
