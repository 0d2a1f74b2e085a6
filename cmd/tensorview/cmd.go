package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/born-ml/tensorview/internal/envconfig"
)

const version = "v0.1.0-dev"

// appendEnvDocs adds the environment variables a command honours to its
// usage text.
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// setupLogging installs the default slog handler on stderr.
func setupLogging(verbose bool) {
	level := envconfig.LogLevel()
	if verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "tensorview",
		Short:         "Render tensor memory blocks as textures",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			setupLogging(verbose)
		},
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Print(cmd.UsageString())
		},
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug information")

	renderCmd := newRenderCmd()
	layoutCmd := newLayoutCmd()

	envVars := envconfig.AsMap()
	appendEnvDocs(renderCmd, []envconfig.EnvVar{
		envVars["TENSORVIEW_DEBUG"],
		envVars["TENSORVIEW_BACKEND"],
		envVars["TENSORVIEW_NUM_PARALLEL"],
		envVars["TENSORVIEW_ZOOM"],
		envVars["TENSORVIEW_NOPARALLEL"],
	})
	appendEnvDocs(layoutCmd, []envconfig.EnvVar{envVars["TENSORVIEW_DEBUG"]})

	rootCmd.AddCommand(
		renderCmd,
		layoutCmd,
		newHintsCmd(),
		newEnvCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tensorview version %s\n", version)
		},
	}
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List configuration environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			envs := envconfig.AsMap()
			names := make([]string, 0, len(envs))
			for name := range envs {
				names = append(names, name)
			}
			slices.Sort(names)

			var data [][]string
			for _, name := range names {
				e := envs[name]
				data = append(data, []string{e.Name, fmt.Sprintf("%v", e.Value), e.Description})
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"NAME", "VALUE", "DESCRIPTION"})
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderLine(false)
			table.SetBorder(false)
			table.SetNoWhiteSpace(true)
			table.SetTablePadding("    ")
			table.AppendBulk(data)
			table.Render()
			return nil
		},
	}
}
