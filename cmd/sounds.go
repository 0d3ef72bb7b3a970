// file: cmd/sounds.go
// version: 1.0.0
// guid: 8e9f0a1b-2c3d-4e5f-6a7b-8c9d0e1f2a3b

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/richiekastl/vite-code-monitor/internal/config"
	"github.com/richiekastl/vite-code-monitor/internal/notify"
)

// soundsCmd represents the sounds command
var soundsCmd = &cobra.Command{
	Use:   "sounds",
	Short: "List configured notification sounds",
	Long:  `List the sound ids available to the watch command and the files they map to.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.AppConfig
		player := notify.NewPlayer(cfg.SoundFiles)

		ids := player.Sounds()
		if len(ids) == 0 {
			fmt.Println("No sounds configured.")
			return nil
		}

		for _, id := range ids {
			path, _ := player.Resolve(id)
			marker := " "
			if id == cfg.DefaultSound {
				marker = "*"
			}
			fmt.Printf("%s %-12s %s\n", marker, id, path)
		}
		fmt.Println("\n* default sound")
		return nil
	},
}
