package main

import (
	"errors"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// errAborted stops an interactive session without writing anything.
var errAborted = errors.New("aborted, nothing written")

// confirmer asks the user to accept or reject a suggestion.
type confirmer interface {
	Confirm(question string) (bool, error)
	Close() error
}

func newPrompt(yes bool) confirmer {
	if yes {
		return acceptAll{}
	}
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &linerPrompt{state: state}
}

// acceptAll answers yes without asking.
type acceptAll struct{}

func (acceptAll) Confirm(string) (bool, error) { return true, nil }
func (acceptAll) Close() error                 { return nil }

type linerPrompt struct {
	state *liner.State
}

// Confirm asks until it gets y, n or q. An empty answer means no.
func (p *linerPrompt) Confirm(question string) (bool, error) {
	for {
		line, err := p.state.Prompt(question + " [y/N/q] ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return false, errAborted
			}
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		case "q", "quit":
			return false, errAborted
		}
	}
}

func (p *linerPrompt) Close() error {
	return p.state.Close()
}
