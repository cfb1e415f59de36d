package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"smartchat/config"
)

func (a *App) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change where smartchat keeps its settings",
	}
	cmd.AddCommand(a.newConfigPathCmd(), a.newConfigSetDataDirCmd())
	return cmd
}

func (a *App) newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings, config and data locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			dataDir := cfg.DataDir()
			fmt.Fprintf(a.stdout, "settings: %s\n", config.GetSettingsFilePath())
			fmt.Fprintf(a.stdout, "data:     %s\n", dataDir)
			fmt.Fprintf(a.stdout, "config:   %s\n", config.UserConfigPath(dataDir))
			fmt.Fprintf(a.stdout, "charts:   %s\n", config.GetChartsDir(dataDir))
			return nil
		},
	}
}

func (a *App) newConfigSetDataDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-data-dir <dir>",
		Short: "Store a new data directory in settings.toml",
		Long: `Point settings.toml at another data directory. A default config.toml is
created there when missing. SMARTCHAT_DATA_DIR and --data-dir still win.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := config.CreateDefaultUserConfig(config.ExpandPath(dir)); err != nil {
				return err
			}
			if err := config.SaveSystemConfig(&config.SystemConfig{DataDirectory: dir}); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Data directory set to %s\n", dir)
			return nil
		},
	}
}
