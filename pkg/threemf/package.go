package threemf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/philipparndt/convertto3mf/pkg/model"
)

// Entry names inside the package
const (
	ContentTypesPath  = "[Content_Types].xml"
	RelationshipsPath = "_rels/.rels"
	ModelPath         = "3D/3dmodel.model"
)

// EntryWriter stores named parts in a package container
type EntryWriter interface {
	AddEntry(name string, data []byte) error
}

// entryTime is stamped on every zip entry so identical models produce
// identical packages.
var entryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// ZipWriter writes package entries as deflated zip files
type ZipWriter struct {
	zw *zip.Writer
}

// NewZipWriter creates a zip backed entry writer
func NewZipWriter(w io.Writer) *ZipWriter {
	return &ZipWriter{zw: zip.NewWriter(w)}
}

// AddEntry adds one file to the archive
func (z *ZipWriter) AddEntry(name string, data []byte) error {
	w, err := z.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: entryTime,
	})
	if err != nil {
		return fmt.Errorf("failed to create entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write entry %s: %w", name, err)
	}
	return nil
}

// Close finishes the archive
func (z *ZipWriter) Close() error {
	return z.zw.Close()
}

// WritePackage adds the content types, relationships and model parts
func (d *Document) WritePackage(w EntryWriter) error {
	contentTypes, err := ContentTypes()
	if err != nil {
		return fmt.Errorf("failed to encode content types: %w", err)
	}
	if err := w.AddEntry(ContentTypesPath, contentTypes); err != nil {
		return err
	}

	rels, err := Relationships()
	if err != nil {
		return fmt.Errorf("failed to encode relationships: %w", err)
	}
	if err := w.AddEntry(RelationshipsPath, rels); err != nil {
		return err
	}

	var modelPart bytes.Buffer
	if err := d.EncodeModel(&modelPart); err != nil {
		return err
	}
	return w.AddEntry(ModelPath, modelPart.Bytes())
}

// Write encodes the document as a 3MF zip archive
func (d *Document) Write(w io.Writer) error {
	zw := NewZipWriter(w)
	if err := d.WritePackage(zw); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

// Export returns the 3MF package for m
func Export(m model.Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := FromModel(m).Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFile writes the 3MF package for m to path, replacing any existing
// file. The package is assembled in a temporary file next to path and only
// moved into place once complete. It returns the size of the written file.
func ExportFile(path string, m model.Model) (int64, error) {
	return FromModel(m).WriteFile(path)
}

// WriteFile writes the document to path as ExportFile does
func (d *Document) WriteFile(path string) (size int64, err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = d.Write(bw); err != nil {
		return 0, err
	}
	if err = bw.Flush(); err != nil {
		return 0, fmt.Errorf("failed to write output file: %w", err)
	}

	if err = tmp.Chmod(0o644); err != nil {
		return 0, fmt.Errorf("failed to set output file mode: %w", err)
	}

	info, err := tmp.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat output file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close output file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return info.Size(), nil
}
