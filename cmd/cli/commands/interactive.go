package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jakechorley/parking-admin/pkg/core/services"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (loaded pages are kept between commands)",
		Long: `Start an interactive session where you can run multiple commands against the
same session. Loaded months, alerts and staff stay in memory so edits apply to what
was last shown. The prompt shows the current page.

The session will keep running until you type 'exit' or 'quit'.
Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(app.Out, "\nStarting interactive session...")
			fmt.Fprintln(app.Out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

			return runShell(app, shellCommands(cmd.Parent()))
		},
	}

	return cmd
}

// shellCommands returns the sibling commands the shell can dispatch to
func shellCommands(root *cobra.Command) map[string]*cobra.Command {
	commands := make(map[string]*cobra.Command)
	for _, subCmd := range root.Commands() {
		switch subCmd.Name() {
		case "interactive", "completion", "help":
			continue
		}
		commands[subCmd.Name()] = subCmd
	}
	return commands
}

func runShell(app *AppContext, commands map[string]*cobra.Command) error {
	for {
		fmt.Fprintf(app.Out, "parkadmin [%s]> ", app.Router.Current())

		line, err := app.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(app.Out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading input: %w", err)
		}

		if exit := dispatch(app, commands, line); exit {
			fmt.Fprintln(app.Out, "Goodbye!")
			return nil
		}
	}
}

// dispatch runs one shell line and reports whether the shell should exit
func dispatch(app *AppContext, commands map[string]*cobra.Command, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	// Parse command (respecting quotes)
	parts, err := parseCommandLine(line)
	if err != nil {
		fmt.Fprintf(app.Out, "Error parsing command: %v\n\n", err)
		return false
	}
	if len(parts) == 0 {
		return false
	}
	cmdName := parts[0]
	cmdArgs := parts[1:]

	switch cmdName {
	case "exit", "quit":
		return true
	case "help":
		printInteractiveHelp(app.Out, commands)
		return false
	}

	targetCmd, exists := commands[cmdName]
	if !exists {
		fmt.Fprintf(app.Out, "Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
		return false
	}

	// Flags keep their values between runs otherwise
	targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		flag.Value.Set(flag.DefValue)
	})

	// Execute the command's RunE directly, bypassing the full Execute() flow.
	// This avoids re-running PersistentPreRunE which would call initApp() again.
	if err := targetCmd.ParseFlags(cmdArgs); err != nil {
		fmt.Fprintf(app.Out, "Error parsing flags: %v\n\n", err)
		return false
	}
	cmdArgs = targetCmd.Flags().Args()

	if targetCmd.Args != nil {
		if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
			fmt.Fprintf(app.Out, "Error: %v\n\n", err)
			return false
		}
	}

	if targetCmd.RunE != nil {
		if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil && !services.Notified(err) {
			fmt.Fprintf(app.Out, "Error: %v\n", err)
		}
	} else if targetCmd.Run != nil {
		targetCmd.Run(targetCmd, cmdArgs)
	}
	return false
}

func printInteractiveHelp(out io.Writer, commands map[string]*cobra.Command) {
	fmt.Fprintln(out, "\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(out, "  %-40s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Fprintf(out, "\n  %-40s %s\n", "help", "Show this help message")
	fmt.Fprintf(out, "  %-40s %s\n\n", "exit, quit", "Exit the interactive session")
}

// parseCommandLine splits a command line into arguments, respecting quoted strings
// Supports both single and double quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune // 0 if not in quote, '"' or '\'' if in quote
	quoted := false  // an empty "" still counts as an argument

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
			quoted = true
		case unicode.IsSpace(r):
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(r)
		}
	}

	if inQuote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", inQuote)
	}

	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}

	return args, nil
}
