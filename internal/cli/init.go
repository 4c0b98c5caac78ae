package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpane/internal/configloader"
	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/pkg/config"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	user   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Initialize a new mdpane configuration file",
		GroupID: groupSetup,
		Long:    `Create a new .mdpane.yml configuration file in the current directory
with sensible defaults. The file can be customized to pick a style,
language, Markdown flavor, preview timing and export tool.`,
		Example: `  mdpane init                      Create minimal .mdpane.yml
  mdpane init --full               Create full config with every option documented
  mdpane init --format json        Create .mdpane.json instead
  mdpane init --user               Write the user config instead
  mdpane init --output custom.yml  Write to a custom file path`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with every option documented")
	cmd.Flags().BoolVar(&flags.user, "user", false, "Write the user configuration file")
	cmd.Flags().StringVar(&flags.format, "format", config.TemplateYAML, "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .mdpane.yml or .mdpane.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewCommandOutput(cmd.OutOrStdout())

	if flags.format != config.TemplateYAML && flags.format != config.TemplateJSON {
		return errors.Join(ErrUsage, fmt.Errorf("invalid format %q: must be yaml or json", flags.format))
	}

	outputPath, err := initOutputPath(flags)
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if flags.full && flags.format == config.TemplateYAML {
		content = append(content, envTemplateSection()...)
	}

	if flags.force {
		if _, statErr := os.Stat(absPath); statErr == nil {
			logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
		}
	}

	err = configloader.WriteConfig(commandContext(cmd), absPath, content, flags.force)
	if errors.Is(err, os.ErrExist) {
		return errors.Join(ErrUsage, fmt.Errorf("file %q already exists; use --force to overwrite", outputPath))
	}
	if err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if flags.full {
		logger.Info("full template documents every option")
	}
	logger.Info("run 'mdpane styles list' to see the installed styles")

	return nil
}

func initOutputPath(flags *initFlags) (string, error) {
	switch {
	case flags.output != "":
		return flags.output, nil
	case flags.user:
		path, err := configloader.UserConfigPath()
		if err != nil {
			return "", fmt.Errorf("resolve user config: %w", err)
		}
		return path, nil
	case flags.format == config.TemplateJSON:
		return ".mdpane.json", nil
	default:
		return ".mdpane.yml", nil
	}
}

// envTemplateSection documents the environment overrides as YAML comments.
func envTemplateSection() []byte {
	vars := configloader.ListEnvVars()
	width := 0
	for _, v := range vars {
		width = max(width, len(v.Name))
	}

	var b strings.Builder
	b.WriteString("\n# Environment variables override the files above:\n")
	for _, v := range vars {
		fmt.Fprintf(&b, "#   %-*s  %s\n", width, v.Name, v.Help)
	}
	return []byte(b.String())
}
