package cli

import "github.com/spf13/cobra"

// NewRootCommand builds the fixtures command tree.
func NewRootCommand() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "fixtures [command]",
		Short: "Prepare and serve HTTP test doubles for storage listing tests",
		Example: "  fixtures install\n" +
			"  fixtures install --host mockserver --port 1080 --file extra.yaml\n" +
			"  fixtures mockserver --port 1080\n" +
			"  fixtures greeting --port 8080",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(NewInstallOptions().Command())
	rootCmd.AddCommand(NewServeOptions("greeting", 8080).Command())
	rootCmd.AddCommand(NewServeOptions("mockserver", 1080).Command())

	return rootCmd
}
