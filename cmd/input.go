package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pgxplain/xplain/internal/model"
)

// readSource reads raw EXPLAIN output from path, or from stdin when path
// is empty or "-".
func readSource(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// countNodes walks n and its descendants, returning the total node count.
func countNodes(n *model.Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, child := range n.Plans {
		count += countNodes(child)
	}
	return count
}
