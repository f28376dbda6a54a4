package cleanup

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	selectionSeparatorConstant          = ","
	selectionRangeSeparatorConstant     = "-"
	emptySelectionMessageConstant       = "empty selection"
	invalidIndexTemplateConstant        = "index %q is not a number"
	indexOutOfRangeTemplateConstant     = "index %d is outside 1-%d"
	invalidRangeTemplateConstant        = "range %d-%d is invalid for 1-%d"
	malformedRangeTemplateConstant      = "range %q is malformed"
	selectionErrorMessageTemplateConstr = "selection: %s"
)

// SelectionError reports an unusable index selection string.
type SelectionError struct {
	Message string
}

// Error describes the selection failure.
func (selectionError SelectionError) Error() string {
	return fmt.Sprintf(selectionErrorMessageTemplateConstr, selectionError.Message)
}

// ParseIndexSelection parses a one-based selection such as "1", "1,3,5",
// "1-5", or "1,3-5,8" against the given upper bound. The result is sorted and
// deduplicated. Every index must fall within 1..maximumIndex.
func ParseIndexSelection(selection string, maximumIndex int) ([]int, error) {
	trimmedSelection := strings.TrimSpace(selection)
	if len(trimmedSelection) == 0 {
		return nil, SelectionError{Message: emptySelectionMessageConstant}
	}

	selectedIndices := map[int]struct{}{}
	for _, selectionPart := range strings.Split(trimmedSelection, selectionSeparatorConstant) {
		trimmedPart := strings.TrimSpace(selectionPart)
		if strings.Contains(trimmedPart, selectionRangeSeparatorConstant) {
			rangeStart, rangeEnd, rangeError := parseIndexRange(trimmedPart, maximumIndex)
			if rangeError != nil {
				return nil, rangeError
			}
			for index := rangeStart; index <= rangeEnd; index++ {
				selectedIndices[index] = struct{}{}
			}
			continue
		}

		index, indexError := parseSingleIndex(trimmedPart, maximumIndex)
		if indexError != nil {
			return nil, indexError
		}
		selectedIndices[index] = struct{}{}
	}

	sortedIndices := make([]int, 0, len(selectedIndices))
	for index := range selectedIndices {
		sortedIndices = append(sortedIndices, index)
	}
	sort.Ints(sortedIndices)
	return sortedIndices, nil
}

func parseIndexRange(rangePart string, maximumIndex int) (int, int, error) {
	rangeBounds := strings.SplitN(rangePart, selectionRangeSeparatorConstant, 2)
	if len(rangeBounds) != 2 {
		return 0, 0, SelectionError{Message: fmt.Sprintf(malformedRangeTemplateConstant, rangePart)}
	}
	rangeStart, startError := strconv.Atoi(strings.TrimSpace(rangeBounds[0]))
	if startError != nil {
		return 0, 0, SelectionError{Message: fmt.Sprintf(malformedRangeTemplateConstant, rangePart)}
	}
	rangeEnd, endError := strconv.Atoi(strings.TrimSpace(rangeBounds[1]))
	if endError != nil {
		return 0, 0, SelectionError{Message: fmt.Sprintf(malformedRangeTemplateConstant, rangePart)}
	}
	if rangeStart < 1 || rangeEnd > maximumIndex || rangeStart > rangeEnd {
		return 0, 0, SelectionError{Message: fmt.Sprintf(invalidRangeTemplateConstant, rangeStart, rangeEnd, maximumIndex)}
	}
	return rangeStart, rangeEnd, nil
}

func parseSingleIndex(indexPart string, maximumIndex int) (int, error) {
	index, parseError := strconv.Atoi(indexPart)
	if parseError != nil {
		return 0, SelectionError{Message: fmt.Sprintf(invalidIndexTemplateConstant, indexPart)}
	}
	if index < 1 || index > maximumIndex {
		return 0, SelectionError{Message: fmt.Sprintf(indexOutOfRangeTemplateConstant, index, maximumIndex)}
	}
	return index, nil
}
