// Package archive reads stylesheets packed into zip archives.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

var signatures = [][]byte{
	[]byte("PK\x03\x04"),
	[]byte("PK\x05\x06"), // empty archive
}

// IsArchive checks if file at path starts with zip signature.
func IsArchive(name string) (bool, error) {
	f, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 4)
	if _, err := io.ReadFull(f, head); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	for _, sig := range signatures {
		if bytes.Equal(head, sig) {
			return true, nil
		}
	}
	return false, nil
}

// Entry is a single file inside archive selected by Walk. Entry content is
// only available from inside VisitFunc, archive is closed when Walk returns.
type Entry struct {
	Archive string
	Name    string
	// NonUTF8 is set when archive does not declare name as UTF-8.
	NonUTF8 bool
	file    *zip.File
}

// Read returns uncompressed entry content.
func (e Entry) Read() ([]byte, error) {
	r, err := e.file.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Size reports uncompressed entry size as recorded in archive directory.
func (e Entry) Size() uint64 {
	return e.file.UncompressedSize64
}

// VisitFunc is called by Walk for every selected entry. Returning error stops
// the walk.
type VisitFunc func(e Entry) error

// Walk visits regular files in archive whose names start with prefix and end
// with ext (case insensitive, empty ext selects everything). Archives with
// absolute names or ".." components are rejected as a whole.
func Walk(archive, prefix, ext string, visit VisitFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	prefix = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(prefix, `\`, "/")), "/")

	for _, f := range r.File {
		name := f.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !underPrefix(name, prefix) {
			continue
		}
		if len(ext) > 0 && !strings.EqualFold(path.Ext(name), ext) {
			continue
		}
		if err := visit(Entry{Archive: archive, Name: name, NonUTF8: f.NonUTF8, file: f}); err != nil {
			return err
		}
	}
	return nil
}

// underPrefix matches whole path segments, so "css" selects "css/site.css"
// and "css" itself but not "cssx/site.css".
func underPrefix(name, prefix string) bool {
	if len(prefix) == 0 {
		return true
	}
	if name == prefix {
		return true
	}
	return strings.HasPrefix(name, strings.TrimSuffix(prefix, "/")+"/")
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
