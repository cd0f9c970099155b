package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the protolens version",
	Long:  `Shows the protolens version and the Go runtime it was built with.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("protolens version %s (%s, %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
