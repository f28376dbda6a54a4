package cleanup_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jiang1756/Rustdesk-builde/internal/cleanup"
)

func TestIOPrompterPromptLine(testInstance *testing.T) {
	testCases := []struct {
		name             string
		input            string
		expectedResponse string
		expectedError    error
	}{
		{
			name:             "TrimsSurroundingWhitespace",
			input:            "  yes  \n",
			expectedResponse: "yes",
		},
		{
			name:             "ReturnsFinalLineWithoutNewline",
			input:            "quit",
			expectedResponse: "quit",
		},
		{
			name:          "ExhaustedInputSurfacesEOF",
			input:         "",
			expectedError: io.EOF,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			output := &bytes.Buffer{}
			prompter := cleanup.NewIOPrompter(strings.NewReader(testCase.input), output)

			response, promptError := prompter.PromptLine("Delete? ")
			if testCase.expectedError != nil {
				require.ErrorIs(subtestInstance, promptError, testCase.expectedError)
			} else {
				require.NoError(subtestInstance, promptError)
				require.Equal(subtestInstance, testCase.expectedResponse, response)
			}
			require.Equal(subtestInstance, "Delete? ", output.String())
		})
	}
}

func TestIOPrompterStopsAfterInputEnds(testInstance *testing.T) {
	output := &bytes.Buffer{}
	prompter := cleanup.NewIOPrompter(strings.NewReader("y\n"), output)

	response, firstError := prompter.PromptLine("> ")
	require.NoError(testInstance, firstError)
	require.Equal(testInstance, "y", response)

	_, secondError := prompter.PromptLine("> ")
	require.ErrorIs(testInstance, secondError, io.EOF)
}
