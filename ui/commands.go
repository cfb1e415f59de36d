package ui

import (
	"errors"
	"fmt"
	"strings"
)

type commandKind int

const (
	cmdMessage commandKind = iota
	cmdImage
	cmdCSV
	cmdDropCSV
	cmdClear
	cmdCopy
	cmdHelp
	cmdQuit
)

// command is one line of input from the textarea.
type command struct {
	kind commandKind
	arg  string
}

var errNoInput = errors.New("nothing to send")

// parseCommand splits slash commands from chat text. Anything not starting
// with "/" is a message, and "//" escapes a leading slash.
func parseCommand(input string) (command, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return command{}, errNoInput
	}
	if strings.HasPrefix(text, "//") {
		return command{kind: cmdMessage, arg: text[1:]}, nil
	}
	if !strings.HasPrefix(text, "/") {
		return command{kind: cmdMessage, arg: text}, nil
	}

	name, arg, _ := strings.Cut(text[1:], " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(name) {
	case "image", "img":
		if arg == "" {
			return command{}, errors.New("usage: /image <path>")
		}
		return command{kind: cmdImage, arg: arg}, nil
	case "csv":
		switch {
		case arg == "":
			return command{}, errors.New("usage: /csv <path|url> or /csv drop")
		case strings.EqualFold(arg, "drop"):
			return command{kind: cmdDropCSV}, nil
		}
		return command{kind: cmdCSV, arg: arg}, nil
	case "clear", "new":
		return command{kind: cmdClear}, nil
	case "copy":
		return command{kind: cmdCopy}, nil
	case "help", "?":
		return command{kind: cmdHelp}, nil
	case "quit", "exit", "q":
		return command{kind: cmdQuit}, nil
	}
	return command{}, fmt.Errorf("unknown command /%s (try /help)", name)
}
