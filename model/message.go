package model

import (
	"time"

	"smartchat/media"
)

// Role tags who produced a turn.
type Role string

const (
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleSystemInfo Role = "system_info"
)

// Turn is one entry in the conversation history.
//
// Turns are append-only: once a turn is added to a session it is never
// modified. Readers always receive copies.
type Turn struct {
	Role      Role
	Text      string
	Image     *media.Image // image attached by the user or announced by a system notice
	Chart     []byte       // PNG produced by the chart renderer
	Error     bool         // Text is an error message rather than an answer
	Timestamp time.Time
}

// HasChart reports whether the turn carries a rendered chart.
func (t Turn) HasChart() bool {
	return len(t.Chart) > 0
}

// HasImage reports whether the turn carries an attached image.
func (t Turn) HasImage() bool {
	return t.Image != nil && len(t.Image.Data) > 0
}

// Clone returns a copy that shares no mutable byte slices with t.
func (t Turn) Clone() Turn {
	c := t
	if t.Image != nil {
		c.Image = t.Image.Clone()
	}
	if t.Chart != nil {
		c.Chart = append([]byte(nil), t.Chart...)
	}
	return c
}
