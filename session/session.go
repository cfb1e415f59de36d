package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"smartchat/dataset"
	"smartchat/media"
	"smartchat/model"
)

// ErrEmptyTurn is returned by SubmitTurn when there is neither text nor an
// attached image.
var ErrEmptyTurn = errors.New("nothing to send: enter a question or attach an image")

// Notices appended to the conversation.
const (
	ChartCaption       = "Here is the plot you requested:"
	ImageUploadedText  = "An image has been uploaded."
	DatasetDeletedText = "CSV data has been deleted."
)

// State is the per-conversation data: history, the image waiting to be sent
// with the next turn, and the loaded dataset.
type State struct {
	turns   []model.Turn
	pending *media.Image
	data    *dataset.Holder
}

func newState(maxBytes int64) State {
	return State{data: dataset.NewHolder(maxBytes)}
}

// Session is one conversation. All methods are safe for concurrent use;
// operations on one session run one at a time.
type Session struct {
	mu    sync.Mutex
	orch  *Orchestrator
	state State
}

func (s *Session) appendTurn(t model.Turn) {
	if t.Timestamp.IsZero() {
		t.Timestamp = s.orch.now()
	}
	s.state.turns = append(s.state.turns, t)
}

func (s *Session) notice(text string, isErr bool) {
	s.appendTurn(model.Turn{Role: model.RoleSystemInfo, Text: text, Error: isErr})
}

// SubmitTurn sends text, together with any pending image, to the model and
// appends the user turn and exactly one assistant turn. Model and chart
// failures become an assistant turn with Error set; the only error returned
// is ErrEmptyTurn, in which case nothing changes.
func (s *Session) SubmitTurn(ctx context.Context, text string) error {
	_, _, err := s.Exchange(ctx, text)
	return err
}

// Exchange is SubmitTurn that also reports the turns it appended and the
// index of the first one. Concurrent submissions on the same session never
// see each other's turns.
func (s *Session) Exchange(ctx context.Context, text string) (int, []model.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	image := s.state.pending
	if strings.TrimSpace(text) == "" && image == nil {
		return 0, nil, ErrEmptyTurn
	}
	// The attachment belongs to this turn only.
	defer func() { s.state.pending = nil }()

	ds := s.state.data.Current()
	prompt := ComposePrompt(text, ds, image != nil)
	first := len(s.state.turns)
	s.appendTurn(model.Turn{Role: model.RoleUser, Text: text, Image: image})

	reply, err := s.orch.generate(ctx, model.Request{Prompt: prompt, Image: image})
	if err != nil {
		me := model.AsModelError(err)
		s.appendTurn(model.Turn{Role: model.RoleAssistant, Text: me.UserMessage(), Error: true})
		s.orch.metrics.RecordTurn("model_error")
		return first, s.since(first), nil
	}

	turn, outcome := s.orch.resolve(reply, ds)
	s.appendTurn(turn)
	s.orch.metrics.RecordTurn(outcome)
	s.orch.log.Info().
		Str("outcome", outcome).
		Bool("dataset", ds != nil).
		Bool("image", image != nil).
		Int("turns", len(s.state.turns)).
		Msg("turn complete")
	return first, s.since(first), nil
}

func (s *Session) since(first int) []model.Turn {
	out := make([]model.Turn, 0, len(s.state.turns)-first)
	for _, t := range s.state.turns[first:] {
		out = append(out, t.Clone())
	}
	return out
}

// AttachImage stages an image for the next turn. Re-attaching the image that
// is already pending does nothing.
func (s *Session) AttachImage(data []byte, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := media.Decode(data, name)
	if err != nil {
		s.notice(fmt.Sprintf("Error reading image: %v", err), true)
		return err
	}
	if img.Equal(s.state.pending) {
		return nil
	}
	s.state.pending = img
	s.appendTurn(model.Turn{Role: model.RoleSystemInfo, Text: ImageUploadedText, Image: img})
	s.orch.log.Debug().
		Str("mime", img.MIMEType).
		Int("bytes", len(img.Data)).
		Msg("image attached")
	return nil
}

// DiscardImage drops the pending image without sending it.
func (s *Session) DiscardImage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.pending = nil
}

// LoadDataset replaces the dataset with the one read from src. On failure
// the previous dataset stays loaded and an error notice is appended.
func (s *Session) LoadDataset(ctx context.Context, src dataset.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.orch.fetchTimeout)
	defer cancel()

	ds, err := s.state.data.Load(ctx, src)
	s.orch.metrics.RecordDatasetLoad(src.Kind(), err)
	if err != nil {
		var le *dataset.DataLoadError
		msg := fmt.Sprintf("Error reading CSV: %v", err)
		if errors.As(err, &le) {
			msg = le.UserMessage()
		}
		s.notice(msg, true)
		s.orch.log.Warn().Err(err).Str("source", src.Kind()).Msg("dataset load failed")
		return err
	}

	s.notice(fmt.Sprintf("Successfully uploaded file '%s' with %d rows and %d columns.",
		ds.Name(), ds.RowCount(), ds.ColumnCount()), false)
	s.orch.log.Info().
		Str("source", src.Kind()).
		Int("rows", ds.RowCount()).
		Int("columns", ds.ColumnCount()).
		Msg("dataset loaded")
	return nil
}

// ClearDataset drops the loaded dataset. With none loaded it does nothing.
func (s *Session) ClearDataset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.data.Current() == nil {
		return
	}
	s.state.data.Clear()
	s.notice(DatasetDeletedText, false)
}

// Reset clears the history, the pending image and the dataset.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.turns = nil
	s.state.pending = nil
	s.state.data.Clear()
}

// Turns returns a copy of the conversation history.
func (s *Session) Turns() []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Turn, len(s.state.turns))
	for i, t := range s.state.turns {
		out[i] = t.Clone()
	}
	return out
}

// Turn returns a copy of turn i.
func (s *Session) Turn(i int) (model.Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.state.turns) {
		return model.Turn{}, false
	}
	return s.state.turns[i].Clone(), true
}

// PendingImage returns a copy of the image waiting for the next turn, or nil.
func (s *Session) PendingImage() *media.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.pending.Clone()
}

// DatasetSummary describes the loaded dataset; ok is false when none is
// loaded.
func (s *Session) DatasetSummary() (dataset.Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.data.Describe()
}

// DatasetPreview returns the loaded dataset's header and first n rows.
func (s *Session) DatasetPreview(n int) (header []string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds := s.state.data.Current()
	if ds == nil {
		return nil, nil
	}
	return ds.Columns(), ds.Head(n)
}
