// Package cli provides the Cobra command structure for mdpane.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Persistent flag names read back by subcommands.
const (
	flagConfig = "config"
	flagColor  = "color"
	flagLang   = "lang"
	flagDebug  = "debug"
)

// NewRootCommand creates the root mdpane command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string
	var lang string

	rootCmd := &cobra.Command{
		Use:   "mdpane",
		Short: "A Markdown editor core with live preview",
		Long: `mdpane is a Markdown editor core with a debounced live preview.

It renders Markdown to styled HTML, finds and replaces text with the same
engine the editor's find bar uses, exports to HTML, PDF or the clipboard,
and manages the style profiles the preview is drawn with. The watch command
keeps an HTML preview in sync with a file as it is edited.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, flagDebug, false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, flagConfig, "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, flagColor, pretty.ColorAuto,
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&lang, flagLang, "",
		"interface language for status and counter messages (e.g. en, es, auto)")
	// "--help" must be a known boolean before the root strips flags.
	rootCmd.InitDefaultHelpFlag()

	// Add subcommands.
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newFindCommand())
	rootCmd.AddCommand(newReplaceCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newStylesCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newZoomCommand())
	rootCmd.AddCommand(newFreezeCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, nil)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
