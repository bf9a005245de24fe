// Package cmd provides the root command and CLI setup for ampliquid.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ampliquid.dev/pkg/ampliquid/internal/adapter"
	"ampliquid.dev/pkg/ampliquid/internal/controller"
	"ampliquid.dev/pkg/ampliquid/internal/domain"
	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

var documentStore adapter.DocumentStore
var mappingStore adapter.MappingStore
var logbookStore adapter.LogbookStore
var workflow domain.Workflow
var ui controller.UI

// mappingPathFlag is a root-level flag shared by commands that read the
// de-para table.
var mappingPathFlag string

// verboseFlag raises the file log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	documentStore = adapter.NewLocalDocumentStore()
	mappingStore = adapter.NewFileMappingStore()
	logbookStore = adapter.NewExcelLogbookStore()
	workflow = domain.NewWorkflow(documentStore, mappingStore, logbookStore, ui)
}

const rootLongDescription = `Ampliquid migrates HTML email templates written with Salesforce Marketing
Cloud AMPscript to Adobe Journey Optimizer Liquid, driven by a de-para
mapping table (xlsx or yaml).

It converts IF/ELSE blocks and variable prints where a mapping is known,
applies the literal de-para replacements, and safely comments out whatever
could not be converted so every leftover is reviewable.`

const convertLongDescription = `Convert one or more AMPscript HTML documents to Liquid.

Each run produces the converted document(s), a styled Excel log with the
substitution counters, learned variable mappings, unmapped variables and
commented AMPScript, plus a console report.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ampliquid",
		Short: "SFMC AMPscript → AJO Liquid migrator",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&mappingPathFlag, mappingFlagName, "m",
			viper.GetString(mappingFlagName),
			"path to the de-para mapping table (.xlsx, .yaml or .yml)",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(mappingFlagName), mappingFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
