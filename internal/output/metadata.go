package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docsink/docsink/internal/model"
)

// MetadataFile is the name of the index file written at the output root.
const MetadataFile = "metadata.json"

// WriteMetadata serializes the page records to metadata.json at the
// output root. Records are written in completion order, as accumulated.
func (s *Store) WriteMetadata(records []model.PageRecord) error {
	if records == nil {
		// A crawl that extracted nothing still gets a valid index.
		records = []model.PageRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(s.root, MetadataFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
