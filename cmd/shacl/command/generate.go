package command

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cayleygraph/shacl"
	"github.com/cayleygraph/shacl/clog"
	"github.com/cayleygraph/shacl/internal/config"
)

func NewGenerateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate-shapes <input-schema-path> <output-shapes-path>",
		Aliases: []string{"generate", "gen"},
		Short:   "Derive SHACL node shapes from an RDFS schema.",
		Long: "Derive one SHACL node shape per class that is the rdfs:domain of a property.\n" +
			"Each property becomes a property shape with sh:datatype for XSD ranges\n" +
			"and sh:class for other ranges.",
		Args: exactArgs(2),
		RunE: run(v, func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			policy, sopts, err := cfg.ShapeOptions()
			if err != nil {
				return err
			}
			loadf, _ := cmd.Flags().GetString(flagLoadFormat)
			dumpf, _ := cmd.Flags().GetString(flagDumpFormat)
			in, out := args[0], args[1]

			start := time.Now()
			set, err := shacl.GenerateFile(in, out, shacl.GenerateOptions{
				Policy:       policy,
				Shape:        sopts,
				Format:       loadf,
				OutputFormat: dumpf,
				Prefixes:     cfg.Prefixes,
			})
			if err != nil {
				return err
			}
			clog.Infof("generated shapes from %q in %v", in, time.Since(start))
			if out != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d shapes to %q\n", set.Len(), out)
			}
			return nil
		}),
	}
	cmd.Flags().Bool("require-presence", false, "add sh:minCount 1 to every property shape")
	cmd.Flags().Bool("literal-node-kind", false, "map an rdfs:Literal range to sh:nodeKind sh:Literal instead of sh:class")
	cmd.Flags().String("domain-policy", "", `how to handle properties with several domains or ranges ("last-wins" or "accumulate")`)
	cmd.Flags().StringSlice("datatype-ns", nil, "extra namespaces whose members are literal datatypes")
	v.BindPFlag(KeyRequirePresence, cmd.Flags().Lookup("require-presence"))
	v.BindPFlag(KeyLiteralNodeKind, cmd.Flags().Lookup("literal-node-kind"))
	v.BindPFlag(KeyDomainPolicy, cmd.Flags().Lookup("domain-policy"))
	v.BindPFlag(KeyDatatypeNamespaces, cmd.Flags().Lookup("datatype-ns"))
	registerLoadFlags(cmd)
	registerDumpFlags(cmd)
	return cmd
}
