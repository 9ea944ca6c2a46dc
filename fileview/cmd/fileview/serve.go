package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"gamepanel.dev/fileview/files"
	"gamepanel.dev/fileview/pack"
	"gamepanel.dev/fileview/server"
	"gamepanel.dev/fileview/site"
)

var (
	serveAddr string
	rootDir   string
	packMin   bool
)

func loadSite(ctx context.Context, root string) (*site.Site, error) {
	dir, err := files.OpenDir(root, cfg.MaxFileBytes)
	if err != nil {
		return nil, err
	}
	s, err := site.Load(ctx, dir, newRenderer())
	if err != nil {
		return nil, fmt.Errorf("loading site: %v", err)
	}
	return s, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a preview of the files below the root directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Addr = serveAddr
		}
		if cmd.Flags().Changed("root") {
			cfg.Root = rootDir
		}
		dir, err := filepath.Abs(cfg.Root)
		if err != nil {
			return fmt.Errorf("determining root: %v", err)
		}

		s, err := loadSite(cmd.Context(), dir)
		if err != nil {
			return err
		}

		// Start serving.
		srv, err := server.Run(cfg.Addr, s)
		if err != nil {
			return err
		}
		defer srv.Shutdown(context.Background())
		log.Printf("Now serving %s at http://%s, press Ctrl-C to shut down", dir, srv.Addr())

		// Setup file watcher to reload the file index should anything change on disk.
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("starting watcher: %v", err)
		}
		defer watcher.Close()
		if err := watchDir(watcher, dir); err != nil {
			return fmt.Errorf("starting watch: %v", err)
		}
		log.Printf("Watching %d directories", len(watcher.WatchList()))

		// Setup signals to react to Ctrl-C.
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)

		for {
			select {
			case event := <-watcher.Events:
				if event.Has(fsnotify.Chmod) {
					continue
				}

				// Update watch list should new directories be added or removed.
				switch stat, err := os.Stat(event.Name); {
				case os.IsNotExist(err) && (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)):
					if slices.Contains(watcher.WatchList(), event.Name) {
						watcher.Remove(event.Name)
						wd, _ := filepath.Rel(dir, event.Name)
						log.Printf("Removed watch directory: %v", wd)
					}
				case err == nil && event.Has(fsnotify.Create) && stat.IsDir():
					if err := watchDir(watcher, event.Name); err != nil {
						return fmt.Errorf("adding watch: %v", err)
					}
					wd, _ := filepath.Rel(dir, event.Name)
					log.Printf("Added watch directory: %v", wd)
				case err != nil && !os.IsNotExist(err):
					return fmt.Errorf("watching files: %v", err)
				}

				// File contents are read per request, only the index needs reloading.
				start := time.Now()
				s, err := loadSite(cmd.Context(), dir)
				if err != nil {
					log.Printf("failed to update file index: %v", err)
					continue
				}
				srv.ReplaceSite(s)
				log.Printf("File index reloaded (%v)", time.Since(start))
			case err := <-watcher.Errors:
				return fmt.Errorf("watching: %v", err)
			case err := <-srv.Error():
				return fmt.Errorf("serving: %v", err)
			case <-sigint:
				fmt.Print("\r") // remove Ctrl-C output characters
				log.Printf("Received Ctrl-C, shutting down")
				return nil
			}
		}
	},
}

func watchDir(watcher *fsnotify.Watcher, dir string) error {
	walkfn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip hidden directories
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := watcher.Add(path); err != nil {
				return err
			}
		}
		return nil
	}
	return filepath.WalkDir(dir, walkfn)
}

var packCmd = &cobra.Command{
	Use:   "pack OUT.tar",
	Short: "Pack a static preview of the files below the root directory into a .tar file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("root") {
			cfg.Root = rootDir
		}
		if cmd.Flags().Changed("minify") {
			cfg.Pack.Minify = packMin
		}
		s, err := loadSite(cmd.Context(), cfg.Root)
		if err != nil {
			return err
		}
		start := time.Now()
		if err := pack.Pack(cmd.Context(), args[0], s, cfg.Pack.Minify); err != nil {
			return err
		}
		log.Printf("Packed %d files into %s (%v)", len(s.Paths()), args[0], time.Since(start))
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on (default from config)")
	serveCmd.Flags().StringVar(&rootDir, "root", "", "directory to serve (default from config)")
	packCmd.Flags().StringVar(&rootDir, "root", "", "directory to pack (default from config)")
	packCmd.Flags().BoolVar(&packMin, "minify", true, "minify pages")
}
