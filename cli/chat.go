package cli

import (
	"github.com/spf13/cobra"

	"smartchat/config"
	"smartchat/logger"
	"smartchat/ui"
)

func (a *App) newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Run the terminal shell",
		Long: `Chat in the terminal. Type /help inside the shell for commands.

Charts are written as PNG files under <data_dir>/charts. With --debug, logs
go to <data_dir>/debug.log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			st, err := a.buildStack(cfg, nil, true)
			if err != nil {
				return err
			}
			defer st.close()

			return ui.Run(st.orch.NewSession(), ui.Options{
				ChartsDir: config.GetChartsDir(cfg.DataDir()),
				Version:   Version,
				Model:     modelLabel(st),
				Logger:    logger.Component(st.log, "ui"),
			})
		},
	}
}
