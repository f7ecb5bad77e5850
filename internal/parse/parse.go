package parse

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// UnitSelection parses the user input for unit numbers, ranges and lists,
// e.g. "3", "1-5" or "1-5,8,12". The returned numbers are unique and sorted.
func UnitSelection(input string) ([]int, error) {
	parts := strings.Split(input, ",")
	unique := make(map[int]struct{})

	for _, part := range parts {
		if strings.Contains(part, "-") {
			rangeParts := strings.Split(part, "-")
			if len(rangeParts) != 2 {
				return nil, fmt.Errorf("invalid range format: %s", part)
			}

			start, end, err := getRange(rangeParts)
			if err != nil {
				return nil, err
			}

			for number := start; number <= end; number++ {
				unique[number] = struct{}{}
			}
		} else {
			number, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("invalid unit number: %s", part)
			}
			unique[number] = struct{}{}
		}
	}

	selected := make([]int, 0, len(unique))
	for number := range unique {
		selected = append(selected, number)
	}
	slices.Sort(selected)

	return selected, nil
}

// getRange parses the user input for unit ranges
func getRange(rangeParts []string) (int, int, error) {
	start, err := strconv.Atoi(strings.TrimSpace(rangeParts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start of range: %s", rangeParts[0])
	}
	end, err := strconv.Atoi(strings.TrimSpace(rangeParts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end of range: %s", rangeParts[1])
	}

	if start > end {
		return 0, 0, fmt.Errorf("start of range should not be greater than end: %s-%s", rangeParts[0], rangeParts[1])
	}

	return start, end, nil
}
