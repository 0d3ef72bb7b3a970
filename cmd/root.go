// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/richiekastl/vite-code-monitor/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vite-code-monitor",
	Short: "Get notified when file changes stop in a directory",
	Long: `Vite Code Monitor watches a directory tree for file activity and plays
a notification sound once activity has stopped for a configured delay.

Useful for knowing when builds, test runs, or long file operations are
complete without staring at a terminal.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vite-code-monitor/config.json)")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(soundsCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".vite-code-monitor")
		if err := config.EnsureConfigFile(filepath.Join(configDir, "config.json")); err != nil {
			fmt.Printf("Warning: could not create default config: %v\n", err)
		}

		viper.AddConfigPath(configDir)
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	config.InitConfig()
}
