package recognize

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ExecRecognizer shells out to an external OCR command. The command receives
// the region rectangle as four trailing arguments (x1 y1 x2 y2) and is
// expected to print the recognized text on stdout.
type ExecRecognizer struct {
	command string
	args    []string
}

// NewExecRecognizer parses a command line such as "paddleocr-region --lang ch".
func NewExecRecognizer(commandLine string) (*ExecRecognizer, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty OCR command")
	}
	return &ExecRecognizer{command: fields[0], args: fields[1:]}, nil
}

func (e *ExecRecognizer) Recognize(ctx context.Context, region Region) (string, error) {
	args := append([]string{}, e.args...)
	args = append(args,
		strconv.Itoa(region.Start.X), strconv.Itoa(region.Start.Y),
		strconv.Itoa(region.End.X), strconv.Itoa(region.End.Y),
	)

	out, err := exec.CommandContext(ctx, e.command, args...).Output()
	if err != nil {
		return "", fmt.Errorf("OCR command failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
