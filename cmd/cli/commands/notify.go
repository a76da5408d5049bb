package commands

import (
	"fmt"
	"io"
	"sync"

	"github.com/jakechorley/parking-admin/pkg/core/services"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[2m"
)

// ConsoleNotifier prints notifications as single coloured lines.
// Bulk updates notify from several goroutines so writes are serialised.
type ConsoleNotifier struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewConsoleNotifier creates a notifier writing to out
func NewConsoleNotifier(out io.Writer, color bool) *ConsoleNotifier {
	return &ConsoleNotifier{out: out, color: color}
}

func (c *ConsoleNotifier) Notify(level services.Level, message string) {
	symbol, color := "•", colorCyan
	switch level {
	case services.LevelSuccess:
		symbol, color = "✓", colorGreen
	case services.LevelError:
		symbol, color = "✗", colorRed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.color {
		fmt.Fprintf(c.out, "%s%s %s%s\n", color, symbol, message, colorReset)
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", symbol, message)
}
