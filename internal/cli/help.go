package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/mdpane/internal/ui/pretty"
)

// Command groups listed in the root help.
const (
	groupDocuments = "documents"
	groupPreview   = "preview"
	groupSetup     = "setup"
)

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command:     plain,
			Heading:     plain,
			Subcommand:  plain,
			Flag:        plain,
			Description: plain,
			Example:     plain,
			Dim:         plain,
		}
	}
	return &HelpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Description: lipgloss.NewStyle(),
		Example:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help and usage for Cobra commands. The
// color mode is taken from the --color flag of the invocation when set.
type HelpFormatter struct {
	colorMode string
	writer    io.Writer
}

// NewHelpFormatter creates a help formatter with a fallback color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode, writer: writer}
}

// ApplyToCommand installs the formatter on cmd and every subcommand, and
// registers the command groups.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.AddGroup(
		&cobra.Group{ID: groupDocuments, Title: "Documents:"},
		&cobra.Group{ID: groupPreview, Title: "Preview:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)
	cmd.SetHelpCommandGroupID(groupSetup)
	cmd.SetCompletionCommandGroupID(groupSetup)

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		fmt.Fprint(command.OutOrStdout(), h.Help(command))
	})
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		_, err := fmt.Fprint(command.OutOrStderr(), h.Usage(command))
		return err
	})
}

// Help renders the full help page of cmd.
func (h *HelpFormatter) Help(cmd *cobra.Command) string {
	st := h.styles(cmd)

	var b strings.Builder
	b.WriteString(st.Command.Render(cmd.CommandPath()))
	if cmd.Version != "" {
		b.WriteString(" " + st.Dim.Render(cmd.Version))
	}
	b.WriteString("\n\n")

	text := cmd.Long
	if text == "" {
		text = cmd.Short
	}
	if text = trimTrailingWhitespaces(strings.TrimSpace(text)); text != "" {
		b.WriteString(st.Description.Render(text) + "\n\n")
	}

	b.WriteString(h.render(cmd, st))
	return b.String()
}

// Usage renders the usage section of cmd.
func (h *HelpFormatter) Usage(cmd *cobra.Command) string {
	return h.render(cmd, h.styles(cmd))
}

func (h *HelpFormatter) styles(cmd *cobra.Command) *HelpStyles {
	mode := h.colorMode
	if f := cmd.Flags().Lookup(flagColor); f != nil && f.Changed {
		mode = f.Value.String()
	}
	w := h.writer
	if w == nil {
		w = cmd.OutOrStdout()
	}
	return NewHelpStyles(pretty.IsColorEnabled(mode, w))
}

func (h *HelpFormatter) render(cmd *cobra.Command, st *HelpStyles) string {
	var b strings.Builder

	b.WriteString(st.Heading.Render("Usage:") + "\n")
	if cmd.Runnable() {
		b.WriteString("  " + st.Command.Render(cmd.UseLine()) + "\n")
	}
	if cmd.HasAvailableSubCommands() {
		b.WriteString("  " + st.Command.Render(cmd.CommandPath()+" [command]") + "\n")
	}

	if len(cmd.Aliases) > 0 {
		b.WriteString("\n" + st.Heading.Render("Aliases:") + "\n")
		b.WriteString("  " + st.Dim.Render(strings.Join(cmd.Aliases, ", ")) + "\n")
	}

	if cmd.HasExample() {
		b.WriteString("\n" + st.Heading.Render("Examples:") + "\n")
		b.WriteString(styleExamples(cmd.Example, st) + "\n")
	}

	if cmd.HasAvailableSubCommands() {
		b.WriteString(commandSections(cmd, st))
	}

	if cmd.HasAvailableLocalFlags() {
		b.WriteString("\n" + st.Heading.Render("Flags:") + "\n")
		b.WriteString(flagLines(cmd.LocalFlags(), st))
	}
	if cmd.HasAvailableInheritedFlags() {
		b.WriteString("\n" + st.Heading.Render("Global Flags:") + "\n")
		b.WriteString(flagLines(cmd.InheritedFlags(), st))
	}

	if cmd.HasAvailableSubCommands() {
		hint := fmt.Sprintf("%s [command] --help", cmd.CommandPath())
		fmt.Fprintf(&b, "\nUse %q for more information about a command.\n", hint)
	}

	return b.String()
}

// commandSections lists subcommands under their group titles, with
// ungrouped ones last.
func commandSections(cmd *cobra.Command, st *HelpStyles) string {
	var b strings.Builder

	section := func(title string, match func(*cobra.Command) bool) {
		var rows []*cobra.Command
		for _, sub := range cmd.Commands() {
			if (sub.IsAvailableCommand() || sub.Name() == "help") && match(sub) {
				rows = append(rows, sub)
			}
		}
		if len(rows) == 0 {
			return
		}
		b.WriteString("\n" + st.Heading.Render(title) + "\n")
		for _, sub := range rows {
			name := rpad(sub.Name(), sub.NamePadding())
			b.WriteString("  " + st.Subcommand.Render(name) + " " + st.Description.Render(sub.Short) + "\n")
		}
	}

	for _, group := range cmd.Groups() {
		section(group.Title, func(sub *cobra.Command) bool { return sub.GroupID == group.ID })
	}
	section("Additional Commands:", func(sub *cobra.Command) bool { return sub.GroupID == "" })

	return b.String()
}

// flagLines renders one line per visible flag: "-o, --output string" then
// the usage, with the default value dimmed.
func flagLines(flags *pflag.FlagSet, st *HelpStyles) string {
	type row struct {
		plain  string
		styled string
		usage  string
	}

	var rows []row
	width := 0
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}

		varname, usage := pflag.UnquoteUsage(f)
		plain, styled := "    --"+f.Name, "    "+st.Flag.Render("--"+f.Name)
		if f.Shorthand != "" {
			plain = "-" + f.Shorthand + ", --" + f.Name
			styled = st.Flag.Render("-"+f.Shorthand) + ", " + st.Flag.Render("--"+f.Name)
		}
		if varname != "" {
			plain += " " + varname
			styled += " " + st.Dim.Render(varname)
		}
		if !isZeroDefault(f) {
			usage += " " + st.Dim.Render(fmt.Sprintf("(default %s)", defaultText(f)))
		}

		rows = append(rows, row{plain: plain, styled: styled, usage: usage})
		width = max(width, len(plain))
	})

	var b strings.Builder
	for _, r := range rows {
		pad := strings.Repeat(" ", width-len(r.plain)+3)
		b.WriteString("  " + r.styled + pad + st.Description.Render(r.usage) + "\n")
	}
	return b.String()
}

func isZeroDefault(f *pflag.Flag) bool {
	switch f.DefValue {
	case "", "false", "0", "[]":
		return true
	}
	return false
}

func defaultText(f *pflag.Flag) string {
	if f.Value.Type() == "string" {
		return fmt.Sprintf("%q", f.DefValue)
	}
	return f.DefValue
}

// styleExamples highlights the command of each example line and dims the
// trailing description.
func styleExamples(example string, st *HelpStyles) string {
	lines := strings.Split(strings.TrimRight(example, "\n"), "\n")
	for i, line := range lines {
		indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
		command, desc, found := strings.Cut(strings.TrimLeft(line, " "), "  ")
		if !found {
			lines[i] = indent + st.Example.Render(command)
			continue
		}
		gap := "  " + desc[:len(desc)-len(strings.TrimLeft(desc, " "))]
		lines[i] = indent + st.Example.Render(command) + gap + st.Dim.Render(strings.TrimSpace(desc))
	}
	return strings.Join(lines, "\n")
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
