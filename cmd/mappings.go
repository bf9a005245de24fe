package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ampliquid.dev/pkg/ampliquid/internal/domain"
	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

// mappingsCmd represents the mappings command.
var mappingsCmd = newMappingsCmd()

func newMappingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mappings",
		Short: "Show the variable mappings inferred from the de-para table",
		Long: `Load the de-para table, run variable inference only, and print which
AMPscript variables acquired a Liquid expression and which are merely
covered (known destination, no clean expression).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Mappings(cmd.Context(), domain.MappingsArgs{
				Mapping: m.Path(viper.GetString(mappingFlagName)),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(mappingsCmd)
}
