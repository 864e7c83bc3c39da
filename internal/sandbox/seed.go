package sandbox

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/five82/bookshelf/internal/books"
)

// LoadSeed reads a JSON array of book drafts.
func LoadSeed(path string) ([]books.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var drafts []books.Draft
	if err := json.Unmarshal(data, &drafts); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return drafts, nil
}
