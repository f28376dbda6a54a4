package cleanup

import (
	"bufio"
	"io"
	"strings"
)

// Prompter collects interactive responses from the operator.
type Prompter interface {
	PromptLine(prompt string) (string, error)
}

// IOPrompter reads responses line by line from an io.Reader.
type IOPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOPrompter constructs a prompter from the provided reader and writer.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	return &IOPrompter{reader: bufio.NewReader(input), writer: output}
}

// PromptLine writes the prompt and returns the trimmed response line. A final
// line without a trailing newline is still returned; EOF with no data at all
// surfaces as io.EOF so callers stop prompting when input is exhausted.
func (prompter *IOPrompter) PromptLine(prompt string) (string, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt); writeError != nil {
			return "", writeError
		}
	}

	response, readError := prompter.reader.ReadString('\n')
	if readError != nil {
		if readError != io.EOF || len(response) == 0 {
			return "", readError
		}
	}
	return strings.TrimSpace(response), nil
}
