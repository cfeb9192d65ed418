package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"skein/internal/output"
)

var (
	cfgFile   string
	outputFmt string
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "skein",
	Short: "Skein — structured log-line classifier",
	Long: `Skein parses the comma-separated log grammar (I,ts,msg / W,ts,msg /
E,sev,ts,msg) into structured entries. Lines that do not match the grammar
are kept verbatim as unknown entries instead of being dropped.

It can classify files in one shot, follow files live in the terminal, or
serve a live web dashboard.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.skein.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".skein")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("skein")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// newRenderer picks the renderer for the --output flag.
func newRenderer() output.Renderer {
	switch strings.ToLower(outputFmt) {
	case "json":
		return output.NewJSONRenderer()
	default:
		return output.NewTextRenderer()
	}
}
