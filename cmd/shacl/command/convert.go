package command

import (
	"fmt"
	"io"

	"github.com/cayleygraph/quad"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cayleygraph/shacl/clog"
	"github.com/cayleygraph/shacl/graph"
	"github.com/cayleygraph/shacl/internal"
	"github.com/cayleygraph/shacl/voc/core"
)

func newLazyReader(open func() (quad.ReadCloser, error)) quad.ReadCloser {
	return &lazyReader{open: open}
}

type lazyReader struct {
	rc   quad.ReadCloser
	open func() (quad.ReadCloser, error)
}

func (r *lazyReader) ReadQuad() (quad.Quad, error) {
	if r.rc == nil {
		rc, err := r.open()
		if err != nil {
			return quad.Quad{}, err
		}
		r.rc = rc
	}
	return r.rc.ReadQuad()
}
func (r *lazyReader) Close() (err error) {
	if r.rc != nil {
		err = r.rc.Close()
	}
	return
}

// multiReader reads files one after another. Read errors are reported as
// parse errors of the current file.
type multiReader struct {
	rc    []quad.ReadCloser
	paths []string
	i     int
}

func (r *multiReader) add(path string, rc quad.ReadCloser) {
	r.paths = append(r.paths, path)
	r.rc = append(r.rc, rc)
}

func (r *multiReader) ReadQuad() (quad.Quad, error) {
	for {
		if r.i >= len(r.rc) {
			return quad.Quad{}, io.EOF
		}
		rc := r.rc[r.i]
		q, err := rc.ReadQuad()
		if err == io.EOF {
			rc.Close()
			r.i++
			continue
		} else if err != nil && !graph.IsParseError(err) {
			err = &graph.ParseError{Source: r.paths[r.i], Err: err}
		}
		return q, err
	}
}
func (r *multiReader) Close() error {
	var first error
	if r.i < len(r.rc) {
		for _, rc := range r.rc[r.i:] {
			if err := rc.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

func NewConvertCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "convert <in>... <out>",
		Aliases: []string{"conv"},
		Short:   "Convert quad files between supported formats.",
		Args:    minimumArgs(2),
		RunE: run(v, func(cmd *cobra.Command, args []string) error {
			i := len(args) - 1
			dump, files := args[i], args[:i]
			loadf, _ := cmd.Flags().GetString(flagLoadFormat)
			dumpf, _ := cmd.Flags().GetString(flagDumpFormat)

			var multi multiReader
			defer multi.Close()
			for _, path := range files {
				path := path
				multi.add(path, newLazyReader(func() (quad.ReadCloser, error) {
					clog.Infof("reading %q", path)
					return internal.QuadReaderFor(path, loadf)
				}))
			}
			quads, err := quad.ReadAll(&multi)
			if err != nil {
				return err
			}
			var prefixes map[string]string
			if err = v.UnmarshalKey(KeyPrefixes, &prefixes); err != nil {
				return err
			}
			err = internal.WriteGraph(dump, quads, internal.WriteOptions{
				Format:     dumpf,
				Namespaces: core.Namespaces(prefixes),
			})
			if err != nil {
				return err
			}
			if dump != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "%d entries were written to %q\n", len(quads), dump)
			}
			return nil
		}),
	}
	registerLoadFlags(cmd)
	registerDumpFlags(cmd)
	return cmd
}
