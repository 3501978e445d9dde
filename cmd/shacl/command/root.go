package command

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cayleygraph/shacl/internal/config"
	"github.com/cayleygraph/shacl/internal/metrics"
)

const (
	KeyRequirePresence    = "generate.require_presence"
	KeyLiteralNodeKind    = "generate.literal_node_kind"
	KeyDomainPolicy       = "generate.domain_policy"
	KeyDatatypeNamespaces = "generate.datatype_namespaces"

	KeyShapesPath   = "validate.shapes"
	KeyInference    = "validate.inference"
	KeyAbortOnFirst = "validate.abort_on_first"
	KeyOntology     = "validate.ontology"
	KeyLexical      = "validate.lexical"
	KeyReport       = "validate.report"
	KeyReportFormat = "validate.report_format"

	KeyPrefixes    = "prefixes"
	KeyMetricsFile = "metrics.file"
)

var envKeys = []string{KeyShapesPath, KeyOntology, KeyReport, KeyMetricsFile}

const (
	flagConfig     = "config"
	flagLoadFormat = "load_format"
	flagDumpFormat = "dump_format"
)

// UsageError is returned when a command is called with wrong arguments.
// The command usage is printed before it is returned.
type UsageError struct {
	Cmd string
	Msg string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Cmd, e.Msg)
}

func usageError(cmd *cobra.Command, format string, args ...interface{}) error {
	cmd.Usage()
	return &UsageError{Cmd: cmd.Name(), Msg: fmt.Sprintf(format, args...)}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError(cmd, "accepts %d arg(s), received %d", n, len(args))
		}
		return nil
	}
}

func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageError(cmd, "requires at least %d arg(s), only received %d", n, len(args))
		}
		return nil
	}
}

// NewRootCmd creates the shacl command with all subcommands. Each root
// command has its own configuration.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)
	v.SetEnvPrefix("SHACL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// only file paths come from the environment
	for _, key := range envKeys {
		v.BindEnv(key)
	}

	root := &cobra.Command{
		Use:           "shacl",
		Short:         "Derive SHACL shapes from RDFS schemas and validate RDF data against them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString(flagConfig)
			return config.ReadFile(v, file)
		},
	}
	root.PersistentFlags().String(flagConfig, "", "path to an explicit configuration file (YAML, JSON or TOML)")
	root.PersistentFlags().String("metrics-file", "", "write run metrics to this file in the Prometheus text format")
	root.PersistentFlags().String("cpuprofile", "", "path to output cpu profile")
	root.PersistentFlags().String("memprofile", "", "path to output memory profile")
	v.BindPFlag(KeyMetricsFile, root.PersistentFlags().Lookup("metrics-file"))

	root.AddCommand(
		NewGenerateCmd(v),
		NewValidateCmd(v),
		NewConvertCmd(v),
		NewStatsCmd(),
		NewVersionCmd(),
	)
	return root
}

// run wraps a command function with profiling and writes run metrics when
// it returns, whatever the outcome.
func run(v *viper.Viper, fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		p, err := setupProfile(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if perr := finishProfile(p); err == nil {
				err = perr
			}
			if merr := metrics.WriteFile(v.GetString(KeyMetricsFile)); err == nil && merr != nil {
				err = fmt.Errorf("could not write metrics: %w", merr)
			}
		}()
		return fn(cmd, args)
	}
}

func formatNames(ok func(f quad.Format) bool) string {
	var names []string
	for _, f := range quad.Formats() {
		if ok(f) {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return `"` + strings.Join(names, `", "`) + `"`
}

func registerLoadFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagLoadFormat, "", `quad file format to use for loading instead of auto-detection (`+
		formatNames(func(f quad.Format) bool { return f.Reader != nil })+`)`)
}

func registerDumpFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagDumpFormat, "", `quad file format to use for writing instead of auto-detection (`+
		formatNames(func(f quad.Format) bool { return f.Writer != nil })+`)`)
}

type profileData struct {
	cpuProfile *os.File
	memPath    string
}

func setupProfile(cmd *cobra.Command) (profileData, error) {
	p := profileData{}
	if f := cmd.Flag("memprofile"); f != nil {
		p.memPath = f.Value.String()
	}
	if f := cmd.Flag("cpuprofile"); f != nil && f.Value.String() != "" {
		out, err := os.Create(f.Value.String())
		if err != nil {
			return p, fmt.Errorf("could not open CPU profile file: %w", err)
		}
		p.cpuProfile = out
		pprof.StartCPUProfile(out)
	}
	return p, nil
}

func finishProfile(p profileData) error {
	if p.cpuProfile != nil {
		pprof.StopCPUProfile()
		p.cpuProfile.Close()
	}
	if p.memPath != "" {
		f, err := os.Create(p.memPath)
		if err != nil {
			return fmt.Errorf("could not open memory profile file: %w", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("could not write memory profile: %w", err)
		}
	}
	return nil
}
