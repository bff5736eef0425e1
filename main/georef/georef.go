package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/geodetic-io/georef/logging"
)

func main() {
	cobra.CheckErr(NewCmd().ExecuteContext(context.Background()))
}

func NewCmd() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "georef [command] [flags] [args]",
		Short:         "georef works with coordinate reference system definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := logging.PresetConfigStdout
			if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
				cfg.DefaultLevel = lvl
			}
			logging.Configure(&cfg)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}
	rootCmd.PersistentFlags().StringP("catalog", "c", "", "`<File>` sqlite catalog, the builtin catalog when empty")
	rootCmd.PersistentFlags().StringP("authority", "a", "EPSG", "`<Authority>` implied by bare codes")
	rootCmd.PersistentFlags().String("log-level", "WARN", "`<Level>` TRACE, DEBUG, INFO, WARN, ERROR")

	parseCmd := &cobra.Command{
		Use:   "parse [flags] <definition or code>",
		Short: "Parse a CRS definition and rewrite it",
		RunE:  doParse,
	}
	parseCmd.Args = cobra.ExactArgs(1)
	parseCmd.Flags().StringP("to", "t", "wkt2", "`<Format>` wkt2, wkt2015, wkt1, esri, proj")
	parseCmd.Flags().Bool("single-line", false, "write WKT on one line")

	searchCmd := &cobra.Command{
		Use:   "search [flags] <name>",
		Short: "Search catalog objects by name",
		RunE:  doSearch,
	}
	searchCmd.Args = cobra.ExactArgs(1)
	searchCmd.Flags().String("kind", "any", "`<Kind>` any, unit, ellipsoid, datum, crs, operation")
	searchCmd.Flags().Bool("approximate", false, "allow misspelled names")
	searchCmd.Flags().Int("limit", 10, "`<N>` maximum number of results")

	identifyCmd := &cobra.Command{
		Use:   "identify [flags] <definition>",
		Short: "Match a CRS definition against the catalog",
		RunE:  doIdentify,
	}
	identifyCmd.Args = cobra.ExactArgs(1)
	identifyCmd.Flags().String("filter", "", "`<Authority>` restrict matches to one authority")

	operationsCmd := &cobra.Command{
		Use:   "operations [flags] <source> <target>",
		Short: "List coordinate operations between two CRS",
		RunE:  doOperations,
	}
	operationsCmd.Args = cobra.ExactArgs(2)
	operationsCmd.Flags().Float64("accuracy", 0, "`<Metres>` discard less accurate operations")
	operationsCmd.Flags().String("bbox", "", "`<W,S,E,N>` area of interest in degrees")
	operationsCmd.Flags().Bool("pivot", false, "allow one intermediate CRS")
	operationsCmd.Flags().String("spatial", "intersects", "`<Criterion>` contains or intersects")
	operationsCmd.Flags().String("grid", "ignore", "`<Policy>` ignore, sort, discard")
	operationsCmd.Flags().StringSlice("grids", nil, "`<Files>` grid files available locally")

	transformCmd := &cobra.Command{
		Use:   "transform [flags] <source> <target> <a,b[,c]>",
		Short: "Convert one coordinate tuple numerically",
		RunE:  doTransform,
	}
	transformCmd.Args = cobra.ExactArgs(3)

	exportCmd := &cobra.Command{
		Use:   "export [flags] <file>",
		Short: "Write the builtin catalog to a sqlite file",
		RunE:  doExport,
	}
	exportCmd.Args = cobra.ExactArgs(1)

	rootCmd.AddCommand(
		parseCmd,
		searchCmd,
		identifyCmd,
		operationsCmd,
		transformCmd,
		exportCmd,
	)
	return rootCmd
}
