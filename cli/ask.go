package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"smartchat/config"
	"smartchat/dataset"
	"smartchat/model"
	"smartchat/ui"
)

type askOptions struct {
	csv    string
	image  string
	outDir string
}

func (a *App) newAskCmd() *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the answer",
		Long: `Send one question, optionally with an image or a CSV dataset, and print the
answer. The question is read from stdin when no argument is given. Charts are
written as PNG files and their paths printed.

Examples:
  smartchat ask "What is the capital of France?"
  smartchat ask --image photo.jpg "What is in this picture?"
  smartchat ask --csv sales.csv "Show me a histogram of revenue"
  echo "Bar chart of total by region" | smartchat ask --csv https://example.com/sales.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if question == "" && opts.image == "" {
				data, err := io.ReadAll(a.stdin)
				if err != nil {
					return fmt.Errorf("failed to read question: %w", err)
				}
				question = strings.TrimSpace(string(data))
			}
			return a.ask(cmd, question, opts)
		},
	}

	cmd.Flags().StringVar(&opts.csv, "csv", "", "CSV file path or http(s) URL to load first")
	cmd.Flags().StringVar(&opts.image, "image", "", "Image to send with the question")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Directory for charts (default <data_dir>/charts)")
	return cmd
}

func (a *App) ask(cmd *cobra.Command, question string, opts *askOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	st, err := a.buildStack(cfg, nil, false)
	if err != nil {
		return err
	}
	defer st.close()

	ctx := cmd.Context()
	sess := st.orch.NewSession()

	if opts.image != "" {
		path := config.ExpandPath(opts.image)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		if err := sess.AttachImage(data, filepath.Base(path)); err != nil {
			return fmt.Errorf("failed to attach image: %w", err)
		}
	}
	if opts.csv != "" {
		src := dataset.SourceFor(opts.csv)
		if p, ok := src.(dataset.PathSource); ok {
			src = dataset.PathSource{Path: config.ExpandPath(p.Path)}
		}
		if err := sess.LoadDataset(ctx, src); err != nil {
			return err
		}
	}

	before := len(sess.Turns())
	if err := sess.SubmitTurn(ctx, question); err != nil {
		return err
	}

	outDir := opts.outDir
	if outDir == "" {
		outDir = config.GetChartsDir(cfg.DataDir())
	}
	turns := sess.Turns()
	saved, err := ui.SaveCharts(outDir, turns, nil)
	if err != nil {
		return err
	}

	for i := before; i < len(turns); i++ {
		t := turns[i]
		if t.Role != model.RoleAssistant {
			continue
		}
		if t.Error {
			return errors.New(t.Text)
		}
		fmt.Fprintln(a.stdout, t.Text)
		if path, ok := saved[i]; ok {
			fmt.Fprintf(a.stdout, "Chart saved to %s\n", path)
		}
	}
	return nil
}
