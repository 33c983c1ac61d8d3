package pipeline

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Phase is the coarse pipeline state shown to the user.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRecognizing
	PhaseResolving
	PhaseEnrolling
	PhaseSynthesizing
	PhasePlaying
)

func (p Phase) String() string {
	switch p {
	case PhaseRecognizing:
		return "recognizing"
	case PhaseResolving:
		return "resolving"
	case PhaseEnrolling:
		return "uploading voice"
	case PhaseSynthesizing:
		return "synthesizing"
	case PhasePlaying:
		return "playing"
	default:
		return "waiting"
	}
}

// StatusReporter receives phase transitions. Failures are silent-to-idle:
// the reporter only ever sees the phase, never an error dialog.
type StatusReporter interface {
	Report(p Phase)
}

// NopStatus discards phase transitions.
type NopStatus struct{}

func (NopStatus) Report(Phase) {}

// ConsoleStatus writes a one-line phase indicator.
type ConsoleStatus struct {
	Out io.Writer
}

func (c ConsoleStatus) Report(p Phase) {
	marker := color.CyanString("●")
	if p == PhaseIdle {
		marker = color.HiBlackString("●")
	}
	fmt.Fprintf(c.Out, "%s %s\n", marker, p)
}
