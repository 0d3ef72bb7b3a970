// file: cmd/watch.go
// version: 1.1.0
// guid: 2d3e4f5a-6b7c-8d9e-0f1a-2b3c4d5e6f70

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/richiekastl/vite-code-monitor/internal/config"
	"github.com/richiekastl/vite-code-monitor/internal/exclude"
	"github.com/richiekastl/vite-code-monitor/internal/metrics"
	"github.com/richiekastl/vite-code-monitor/internal/notify"
	"github.com/richiekastl/vite-code-monitor/internal/server"
	"github.com/richiekastl/vite-code-monitor/internal/watcher"
)

var (
	watchSound       string
	watchDelay       int
	watchVolume      float64
	watchExcludeFile string
	watchExcludeDir  string
	watchListen      string
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch a directory and chime when activity stops",
	Long: `Watch a directory tree recursively and play the notification sound
once no relevant file change has been seen for the configured delay.
Runs until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}
		root, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("cannot resolve watch path: %w", err)
		}

		cfg := config.AppConfig
		if cmd.Flags().Changed("sound") {
			cfg.DefaultSound = watchSound
		}
		if cmd.Flags().Changed("delay") {
			cfg.DefaultDelay = watchDelay
		}
		if cmd.Flags().Changed("volume") {
			cfg.DefaultVolume = watchVolume
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		files := cfg.ExcludedFiles
		if watchExcludeFile != "" {
			extra, err := exclude.LoadList(watchExcludeFile)
			if err != nil {
				return err
			}
			files = append(files, extra...)
		}
		dirs := cfg.ExcludedFolders
		if watchExcludeDir != "" {
			extra, err := exclude.LoadList(watchExcludeDir)
			if err != nil {
				return err
			}
			dirs = append(dirs, extra...)
		}

		metrics.Register()

		player := notify.NewPlayer(cfg.SoundFiles)
		session := watcher.Session{
			Root:   root,
			Delay:  time.Duration(cfg.DefaultDelay) * time.Second,
			Sound:  cfg.DefaultSound,
			Volume: cfg.DefaultVolume,
			Rules:  exclude.New(files, dirs),
		}

		monitor := watcher.NewMonitor(session, player)
		if err := monitor.Start(); err != nil {
			return fmt.Errorf("failed to start watch: %w", err)
		}
		defer monitor.Stop()

		if watchListen != "" {
			srv := server.New(monitor)
			if err := srv.Start(watchListen); err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}()
		}

		fmt.Printf("Monitoring %s for changes...\n", root)
		fmt.Printf("Notification sound: %s\n", cfg.DefaultSound)
		fmt.Printf("Activity timeout: %d seconds\n", cfg.DefaultDelay)
		fmt.Printf("Notification volume: %.0f%%\n", cfg.DefaultVolume*100)
		fmt.Println("Press Ctrl+C to stop monitoring.")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sig:
			fmt.Println("\nStopped monitoring.")
			return nil
		case err := <-monitor.Err():
			return err
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchSound, "sound", "", "sound to play when done (default from config)")
	watchCmd.Flags().IntVar(&watchDelay, "delay", 0, "seconds to wait after the last change before playing the sound")
	watchCmd.Flags().Float64Var(&watchVolume, "volume", 0, "playback volume between 0 and 1")
	watchCmd.Flags().StringVar(&watchExcludeFile, "exclude-file", "", "path to a file listing filename patterns to exclude (one per line)")
	watchCmd.Flags().StringVar(&watchExcludeDir, "exclude-dir", "", "path to a file listing directory names to exclude (one per line)")
	watchCmd.Flags().StringVar(&watchListen, "listen", "", "optional address for the status/metrics endpoint (e.g. 127.0.0.1:9641)")
}
