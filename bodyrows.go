package tablerender

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// parseBodyRows parses a comma-separated list of row indices into a sorted
// set. A blank list yields an empty set.
func parseBodyRows(list string) ([]int, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var rows []int
	for _, tok := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a row index", ErrMalformedBodyRows, tok)
		}
		rows = append(rows, n)
	}
	slices.Sort(rows)
	return slices.Compact(rows), nil
}

func isBodyRow(rows []int, index int) bool {
	_, found := slices.BinarySearch(rows, index)
	return found
}
