package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSource reads documents from a directory on local disk.
type FileSource struct {
	dir string
}

// NewFileSource returns a source rooted at dir. Relative directories are
// resolved against the process working directory at fetch time.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Kind() string { return KindFile }

// Dir returns the directory the source reads from.
func (s *FileSource) Dir() string { return s.dir }

func (s *FileSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &AcquisitionError{Document: name, Source: KindFile, Err: err}
	}
	if name == "" || filepath.Base(name) != name {
		return nil, &AcquisitionError{Document: name, Source: KindFile, Err: errors.New("invalid document name")}
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(KindFile, name, err)
	}
	if err != nil {
		return nil, &AcquisitionError{Document: name, Source: KindFile, Err: err}
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, maxDocumentBytes+1))
	if err != nil {
		return nil, &AcquisitionError{Document: name, Source: KindFile, Err: err}
	}
	if len(b) > maxDocumentBytes {
		return nil, &AcquisitionError{Document: name, Source: KindFile, Err: fmt.Errorf("document exceeds %d bytes", maxDocumentBytes)}
	}
	return b, nil
}

func (s *FileSource) Ping(ctx context.Context) error {
	fi, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}
