package readers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"catalog-manager/feature/catalog/ingest"
)

// readFile reads descriptor files from the local filesystem. The target
// is either a single descriptor file or a directory, in which case
// every .yaml/.yml file under it (recursively) becomes one item.
func (r *Reader) readFile(ctx context.Context, target string) (<-chan ingest.ReadItem, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", target, err)
	}

	var paths []string
	if info.IsDir() {
		err := filepath.WalkDir(target, func(path string, entry os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && isDescriptorFile(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %q: %w", target, err)
		}
	} else {
		paths = []string{target}
	}

	items := make(chan ingest.ReadItem)
	go func() {
		defer close(items)
		for _, path := range paths {
			data, err := os.ReadFile(path)
			item := ingest.ReadItem{Data: data}
			if err != nil {
				// One unreadable file must not abort its siblings.
				item = ingest.ReadItem{Err: fmt.Errorf("failed to read %q: %w", path, err)}
			}
			select {
			case items <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	return items, nil
}

func isDescriptorFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
