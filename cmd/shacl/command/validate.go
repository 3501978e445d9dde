package command

import (
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cayleygraph/shacl/clog"
	"github.com/cayleygraph/shacl/internal"
	"github.com/cayleygraph/shacl/internal/config"
	"github.com/cayleygraph/shacl/validate"
	"github.com/cayleygraph/shacl/voc/core"
)

// expandPaths expands doublestar patterns. A pattern without matches is kept
// as is, so that loading reports the missing file.
func expandPaths(cmd *cobra.Command, patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, usageError(cmd, "bad pattern %q: %v", p, err)
		}
		if len(matches) == 0 {
			out = append(out, p)
			continue
		}
		sort.Strings(matches)
		clog.Debugf("pattern %q matched %d files", p, len(matches))
		out = append(out, matches...)
	}
	return out, nil
}

func reportFormat(path, format string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	switch strings.ToLower(filepath.Ext(strings.TrimSuffix(path, ".gz"))) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".txt", ".log":
		return "text"
	}
	return ""
}

// writeReport writes the report as text, YAML, compacted JSON-LD ("json"),
// or a sh:ValidationReport graph in any registered quad format.
func writeReport(r *validate.Report, path, format string, prefixes map[string]string) error {
	var write func(w io.Writer) error
	switch format = reportFormat(path, format); format {
	case "text":
		write = r.WriteText
	case "yaml":
		write = r.WriteYAML
	case "json":
		write = r.WriteJSONLD
	default:
		return internal.WriteGraph(path, r.Quads(), internal.WriteOptions{
			Format:     format,
			Namespaces: core.Namespaces(prefixes),
		})
	}
	return internal.WriteFile(path, write)
}

func NewValidateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <instance-path>...",
		Short: "Validate RDF data against SHACL shapes.",
		Long: "Validate instance graphs against the shapes file and print a validation report.\n" +
			"Paths may be doublestar patterns; all matched files are merged into one graph.\n" +
			"The command fails when the data does not conform.",
		Args: minimumArgs(1),
		RunE: run(v, func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			opts, err := cfg.ValidateOptions()
			if err != nil {
				return err
			}
			paths, err := expandPaths(cmd, args)
			if err != nil {
				return err
			}
			loadf, _ := cmd.Flags().GetString(flagLoadFormat)
			r, err := validate.ValidateFiles(cfg.Validate.Shapes, paths, validate.FileOptions{
				Options:      opts,
				Format:       loadf,
				OntologyPath: cfg.Validate.Ontology,
			})
			if err != nil {
				return err
			}
			if err = r.WriteText(cmd.OutOrStdout()); err != nil {
				return err
			}
			if path := cfg.Validate.Report; path != "" {
				if err = writeReport(r, path, cfg.Validate.ReportFormat, cfg.Prefixes); err != nil {
					return err
				}
			}
			if !r.Conforms {
				return &validate.ConformanceFailure{Report: r}
			}
			return nil
		}),
	}
	cmd.Flags().StringP("shapes", "s", config.DefaultShapesPath, "SHACL shapes file")
	cmd.Flags().String("inference", config.DefaultInference, `entailment applied to the data ("none" or "rdfs")`)
	cmd.Flags().Bool("abort-on-first", false, "stop at the first violation")
	cmd.Flags().String("ontology", "", "file with rdfs:subClassOf edges used by rdfs inference")
	cmd.Flags().Bool("lexical", false, "check lexical forms of XSD literals")
	cmd.Flags().StringP("report", "o", "", "also write the report to this file")
	cmd.Flags().String("report-format", "", `report file format ("text", "yaml", "json" or a quad format); detected from the file name by default`)
	v.BindPFlag(KeyShapesPath, cmd.Flags().Lookup("shapes"))
	v.BindPFlag(KeyInference, cmd.Flags().Lookup("inference"))
	v.BindPFlag(KeyAbortOnFirst, cmd.Flags().Lookup("abort-on-first"))
	v.BindPFlag(KeyOntology, cmd.Flags().Lookup("ontology"))
	v.BindPFlag(KeyLexical, cmd.Flags().Lookup("lexical"))
	v.BindPFlag(KeyReport, cmd.Flags().Lookup("report"))
	v.BindPFlag(KeyReportFormat, cmd.Flags().Lookup("report-format"))
	registerLoadFlags(cmd)
	return cmd
}
