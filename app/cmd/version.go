package cmd

import (
	"github.com/spf13/cobra"

	"tarot-agent/pkg/app"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Annotations: map[string]string{annotationSkipBootstrap: "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("Tarot Agent v%s\n", app.Version)
		cmd.Println("A command-line tarot reader with AI interpretations")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
