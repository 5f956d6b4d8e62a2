package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build information, set with -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func (c *CLI) createVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "sitelog version %s\n", Version)
			if detailed, _ := cmd.Flags().GetBool("detailed"); detailed {
				fmt.Fprintf(w, "Build time:  %s\n", BuildTime)
				fmt.Fprintf(w, "Go version:  %s\n", runtime.Version())
				fmt.Fprintf(w, "OS/Arch:     %s/%s\n", runtime.GOOS, runtime.GOARCH)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("detailed", "d", false, "Show build and platform details")
	return cmd
}
