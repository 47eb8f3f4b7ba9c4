package commands

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version and Go version used to build this tool.",
		Run: func(cmd *cobra.Command, _ []string) {
			if v := cmd.Root().Version; v != "" {
				cmd.Println("sunit version\t", v)
			}
			info, ok := debug.ReadBuildInfo()
			if !ok {
				cmd.Println("go version\t unknown")
				return
			}
			cmd.Println("module version\t", info.Main.Version)
			cmd.Println("go version\t", info.GoVersion)
		},
	}
}
