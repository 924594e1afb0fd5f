package download

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mwantia/bingwall/pkg/errs"
)

// writeFile stores data at path through a temporary sibling and a rename, so
// path either keeps its previous content or holds all of data. An existing
// file at path is replaced.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errs.NewFilesystem("create save directory", err)
	}

	tempFile := filepath.Join(dir, fmt.Sprintf(".%s.part", uuid.New()))
	f, err := os.Create(tempFile)
	if err != nil {
		return errs.NewFilesystem("create temporary file", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return errs.NewFilesystem("write "+path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return errs.NewFilesystem("write "+path, err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return errs.NewFilesystem("rename into "+path, err)
	}
	return nil
}
