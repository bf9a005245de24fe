package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ampliquid.dev/pkg/ampliquid/internal/domain"
	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

var convertOutputFlag string
var convertLogDirFlag string
var convertNoExcelLogFlag bool
var convertParallelFlag int

// convertCmd represents the convert command.
var convertCmd = newConvertCmd()

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert INPUT...",
		Short: "Convert AMPscript HTML documents to Liquid",
		Long:  convertLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Convert(cmd.Context(), domain.ConvertArgs{
				Inputs:   parsePaths(args),
				Mapping:  m.Path(viper.GetString(mappingFlagName)),
				Output:   m.Path(viper.GetString(outputFlagName)),
				LogDir:   m.Path(viper.GetString(logDirConfigKey)),
				ExcelLog: !viper.GetBool(noExcelLogConfigKey),
				Threads:  viper.GetInt(parallelConfigKey),
			})
		},
	}

	configureConvertFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func configureConvertFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&convertOutputFlag, outputFlagName, "o", viper.GetString(outputFlagName),
		"output file (single input) or directory (batch); default: <input>_ajo.html")
	bindFlagToConfig(cmd.Flags().Lookup(outputFlagName), outputFlagName)

	cmd.Flags().StringVar(&convertLogDirFlag, logDirFlagName, viper.GetString(logDirConfigKey),
		"directory for the Excel run log")
	bindFlagToConfig(cmd.Flags().Lookup(logDirFlagName), logDirConfigKey)

	cmd.Flags().BoolVar(&convertNoExcelLogFlag, noExcelLogFlagName, viper.GetBool(noExcelLogConfigKey),
		"skip the Excel run log (console and file log only)")
	bindFlagToConfig(cmd.Flags().Lookup(noExcelLogFlagName), noExcelLogConfigKey)

	cmd.Flags().IntVarP(&convertParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey),
		"number of parallel workers for batch conversion")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)
}
