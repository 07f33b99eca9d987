package documents

import (
	"context"
	"fmt"
)

// Seed copies the named documents from src into dst. It is used at startup
// to populate a database-backed source from the files the analysis step
// wrote to disk.
func Seed(ctx context.Context, dst Writer, src Source, names ...string) error {
	for _, name := range names {
		body, err := src.Fetch(ctx, name)
		if err != nil {
			return err
		}
		if err := dst.Put(ctx, name, body); err != nil {
			return fmt.Errorf("store %s: %w", name, err)
		}
	}
	return nil
}
