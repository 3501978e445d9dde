package internal

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc"

	"github.com/cayleygraph/shacl/clog"
	"github.com/cayleygraph/shacl/internal/metrics"
)

// namespaced is implemented by writers that accept prefix bindings.
type namespaced interface {
	SetNamespaces(ns *voc.Namespaces)
}

// WriteOptions tunes WriteGraph.
type WriteOptions struct {
	// Format overrides the format detected from the file extension.
	Format string
	// Namespaces are prefix bindings for formats that support them.
	Namespaces *voc.Namespaces
}

// WriteGraph writes quads to a file in a format detected from its name, or
// to stdout if path is "-". See WriteFile.
func WriteGraph(path string, quads []quad.Quad, opts WriteOptions) error {
	f, err := Format(path, opts.Format)
	if err != nil {
		return err
	} else if f.Writer == nil {
		return fmt.Errorf("encoding in %s format is not supported", f.Name)
	}
	return WriteFile(path, func(w io.Writer) error {
		return encode(w, f, quads, opts)
	})
}

// WriteFile creates a file, or uses stdout if path is "-", and passes it to
// write. Files ending with ".gz" are compressed. Parent directories are
// created. The file is closed even when write fails.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	var w io.Writer
	if path == "-" {
		w = os.Stdout
	} else {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("could not create directory %q: %w", dir, err)
			}
		}
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("could not create file %q: %w", path, err)
		}
		defer func() {
			if cerr := file.Close(); err == nil && cerr != nil {
				err = cerr
			}
		}()
		w = file
	}
	if filepath.Ext(path) == ".gz" {
		gz := gzip.NewWriter(w)
		defer func() {
			if cerr := gz.Close(); err == nil && cerr != nil {
				err = cerr
			}
		}()
		w = gz
	}
	return write(w)
}

// Encode writes quads to w in the named format.
func Encode(w io.Writer, format string, quads []quad.Quad, opts WriteOptions) error {
	f, err := Format("", format)
	if err != nil {
		return err
	} else if f.Writer == nil {
		return fmt.Errorf("encoding in %s format is not supported", f.Name)
	}
	return encode(w, f, quads, opts)
}

func encode(w io.Writer, f *quad.Format, quads []quad.Quad, opts WriteOptions) error {
	qw := writerFor(f, w)
	defer qw.Close()
	if nw, ok := qw.(namespaced); ok && opts.Namespaces != nil {
		nw.SetNamespaces(opts.Namespaces)
	}
	n, err := qw.WriteQuads(quads)
	if err != nil {
		return err
	} else if err = qw.Close(); err != nil {
		return err
	}
	metrics.QuadsWritten(n)
	if clog.V(1) {
		clog.Infof("%d entries were written (%s)", n, f.Name)
	}
	return nil
}
