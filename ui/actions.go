package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"smartchat/config"
	"smartchat/dataset"
	"smartchat/model"
)

// sessionUpdatedMsg carries a fresh snapshot once a session operation ends.
type sessionUpdatedMsg struct {
	turns  []model.Turn
	saved  map[int]string
	status string
	err    error
}

// snapshot is taken off the UI goroutine since session methods wait for any
// running turn.
func (a AppView) snapshot(status string, err error) sessionUpdatedMsg {
	turns := a.sess.Turns()
	saved, saveErr := SaveCharts(a.chartsDir, turns, a.saved)
	if saveErr != nil && err == nil {
		err = saveErr
	}
	return sessionUpdatedMsg{turns: turns, saved: saved, status: status, err: err}
}

func (a AppView) submitCmd(ctx context.Context, text string) tea.Cmd {
	return func() tea.Msg {
		err := a.sess.SubmitTurn(ctx, text)
		return a.snapshot("", err)
	}
}

func (a AppView) attachImageCmd(path string) tea.Cmd {
	return func() tea.Msg {
		path = config.ExpandPath(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return a.snapshot("", fmt.Errorf("read image: %w", err))
		}
		// Decode errors are reported as a notice in the conversation.
		_ = a.sess.AttachImage(data, filepath.Base(path))
		return a.snapshot("", nil)
	}
}

func (a AppView) loadDatasetCmd(ctx context.Context, arg string) tea.Cmd {
	return func() tea.Msg {
		src := dataset.SourceFor(arg)
		if p, ok := src.(dataset.PathSource); ok {
			src = dataset.PathSource{Path: config.ExpandPath(p.Path)}
		}
		// Load failures are reported as a notice in the conversation.
		_ = a.sess.LoadDataset(ctx, src)
		status := ""
		if sum, ok := a.sess.DatasetSummary(); ok {
			status = fmt.Sprintf("%s: %d rows, %d columns", sum.Name, sum.RowCount, sum.ColumnCount)
		}
		return a.snapshot(status, nil)
	}
}

func (a AppView) clearDatasetCmd() tea.Cmd {
	return func() tea.Msg {
		a.sess.ClearDataset()
		return a.snapshot("", nil)
	}
}

func (a AppView) resetCmd() tea.Cmd {
	return func() tea.Msg {
		a.sess.Reset()
		return sessionUpdatedMsg{turns: a.sess.Turns(), saved: map[int]string{}, status: "Started a new conversation"}
	}
}

// SaveCharts writes every chart turn not yet in saved to dir and returns the
// updated index. The input map is not modified.
func SaveCharts(dir string, turns []model.Turn, saved map[int]string) (map[int]string, error) {
	out := make(map[int]string, len(saved))
	for k, v := range saved {
		out[k] = v
	}
	for i, t := range turns {
		if !t.HasChart() {
			continue
		}
		if _, ok := out[i]; ok {
			continue
		}
		if err := config.EnsureDir(dir); err != nil {
			return out, fmt.Errorf("create charts directory: %w", err)
		}
		name := fmt.Sprintf("chart-%s-%d.png", t.Timestamp.Format("20060102-150405"), i)
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, t.Chart, 0o600); err != nil {
			return out, fmt.Errorf("save chart: %w", err)
		}
		out[i] = path
	}
	return out, nil
}

// lastReply is the text of the most recent successful assistant turn.
func lastReply(turns []model.Turn) (string, bool) {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == model.RoleAssistant && !turns[i].Error {
			return turns[i].Text, true
		}
	}
	return "", false
}
