package paldeploy

import (
	"fmt"
	"os"

	"github.com/arthur-debert/paldeploy/internal/version"
	"github.com/arthur-debert/paldeploy/pkg/commands"
	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/logging"
	"github.com/arthur-debert/paldeploy/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "paldeploy",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			style.Setup(cmd.OutOrStdout())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringP("work-dir", "C", ".", MsgFlagWorkDir)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)
	rootCmd.SetHelpCommandGroupID("misc")

	rootCmd.AddCommand(newDeployCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// loadConfig builds the configuration for the --work-dir flag, with the
// command's changed flags layered on top
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	workDir, _ := cmd.Root().PersistentFlags().GetString("work-dir")
	verbosity, _ := cmd.Root().PersistentFlags().GetCount("verbose")

	overrides := flagOverrides(cmd)
	if verbosity > 0 {
		overrides["verbose"] = true
	}
	cfg, err := config.Load(workDir, overrides)
	if err != nil {
		return config.Config{}, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return cfg, nil
}

func newDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deploy",
		Short:   MsgDeployShort,
		Long:    MsgDeployLong,
		Example: MsgDeployExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			log.Info().Str("work_dir", cfg.WorkDir).Msg("Deploying")

			result, err := commands.Deploy(cmd.Context(), commands.DeployOptions{Config: cfg})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, style.Render(MsgRepositories))
			fmt.Fprintln(out, style.RenderRepoStatuses(cfg.WorkDir, repoStatuses(result.Report)))
			fmt.Fprintln(out)
			fmt.Fprintln(out, style.RenderTemplate(MsgDeployDone, map[string]string{"dir": result.OutDir}))
			return nil
		},
	}

	cmd.Flags().String("os", "", MsgFlagOS)
	cmd.Flags().String("device", "", MsgFlagDevice)
	cmd.Flags().String("sdk", "", MsgFlagSDK)
	cmd.Flags().String("toolchain", "", MsgFlagToolchain)
	cmd.Flags().StringArray("mw", nil, MsgFlagMiddleware)
	cmd.Flags().BoolP("force", "f", false, MsgFlagForce)
	cmd.Flags().Bool("skip-update", false, MsgFlagSkipUpdate)
	cmd.Flags().Bool("shallow", false, MsgFlagShallow)
	cmd.Flags().Bool("fetch-mbed-os", false, MsgFlagLargeOS)

	return cmd
}

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clean",
		Short:   MsgCleanShort,
		Long:    MsgCleanLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			keep, _ := cmd.Flags().GetBool("keep-repos")

			log.Info().Str("work_dir", cfg.WorkDir).Bool("keep_repos", keep).Msg("Cleaning")

			result, err := commands.Clean(cmd.Context(), commands.CleanOptions{Config: cfg, KeepRepos: keep})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderClean(cfg.WorkDir, result))
			return nil
		},
	}

	cmd.Flags().BoolP("keep-repos", "k", false, MsgFlagKeepRepos)

	return cmd
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "info",
		Short:   MsgInfoShort,
		Long:    MsgInfoLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if !validFormat(format) {
				return fmt.Errorf(MsgErrUnknownFmt, format)
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			result, err := commands.Info(cmd.Context(), commands.InfoOptions{Config: cfg})
			if err != nil {
				return err
			}
			return writeInfo(cmd.OutOrStdout(), result, format)
		},
	}

	cmd.Flags().String("format", formatText, MsgFlagFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{formatText, formatJSON, formatYAML}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "paldeploy version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return fmt.Errorf(MsgErrUnknownShell, args[0])
		},
	}
}
