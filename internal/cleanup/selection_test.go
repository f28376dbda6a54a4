package cleanup_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jiang1756/Rustdesk-builde/internal/cleanup"
)

func TestParseIndexSelection(testInstance *testing.T) {
	testCases := []struct {
		name            string
		selection       string
		maximumIndex    int
		expectedIndices []int
		expectError     bool
	}{
		{name: "single_index", selection: "3", maximumIndex: 5, expectedIndices: []int{3}},
		{name: "comma_separated", selection: "1,3,5", maximumIndex: 5, expectedIndices: []int{1, 3, 5}},
		{name: "range", selection: "1-4", maximumIndex: 5, expectedIndices: []int{1, 2, 3, 4}},
		{name: "mixed_with_duplicates", selection: "1,3-5,4,8", maximumIndex: 8, expectedIndices: []int{1, 3, 4, 5, 8}},
		{name: "whitespace_tolerated", selection: " 2 , 4 - 5 ", maximumIndex: 5, expectedIndices: []int{2, 4, 5}},
		{name: "index_out_of_bounds", selection: "9", maximumIndex: 5, expectError: true},
		{name: "zero_index_rejected", selection: "0", maximumIndex: 5, expectError: true},
		{name: "range_out_of_bounds", selection: "3-9", maximumIndex: 5, expectError: true},
		{name: "inverted_range_rejected", selection: "5-3", maximumIndex: 5, expectError: true},
		{name: "non_numeric_rejected", selection: "two", maximumIndex: 5, expectError: true},
		{name: "empty_selection_rejected", selection: "  ", maximumIndex: 5, expectError: true},
	}
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			parsedIndices, parseError := cleanup.ParseIndexSelection(testCase.selection, testCase.maximumIndex)
			if testCase.expectError {
				var selectionError cleanup.SelectionError
				require.ErrorAs(subtestInstance, parseError, &selectionError)
				return
			}
			require.NoError(subtestInstance, parseError)
			require.Equal(subtestInstance, testCase.expectedIndices, parsedIndices)
		})
	}
}
