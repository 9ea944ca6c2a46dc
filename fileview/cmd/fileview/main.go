package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"

	"gamepanel.dev/fileview/config"
	"gamepanel.dev/fileview/files"
	"gamepanel.dev/fileview/preview"
)

var (
	configPath string
	cfg        = config.Default()
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	rootCmd := &cobra.Command{
		Use:          "fileview [command]",
		Short:        "Browse, highlight and compare server configuration files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = c
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "fileview.toml", "configuration file, ignored if it doesn't exist")

	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(highlightCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(packCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRenderer() *preview.Renderer {
	return preview.NewRenderer(preview.Limits{
		MaxDiffRows:       cfg.Limits.MaxDiffRows,
		MaxHighlightChars: cfg.Limits.MaxHighlightChars,
	})
}

// readText reads a file given on the command line with the same checks the server applies to
// files below its root.
func readText(ctx context.Context, name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", fmt.Errorf("reading %s: %v", name, err)
	}
	dir, err := files.OpenDir(filepath.Dir(abs), cfg.MaxFileBytes)
	if err != nil {
		return "", err
	}
	return dir.ReadText(ctx, filepath.Base(abs))
}

func writeHTML(b []byte) error {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	b, err := m.Bytes("text/html", b)
	if err != nil {
		return fmt.Errorf("minification failed: %v", err)
	}
	_, err = os.Stdout.Write(b)
	return err
}
