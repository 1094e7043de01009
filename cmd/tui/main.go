package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"codeberg.org/collabboard/server/internal/config"
	"codeberg.org/collabboard/server/internal/logger"
	"codeberg.org/collabboard/server/internal/tui"
)

func main() {
	if !term.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "collabboard needs an interactive terminal")
		os.Exit(1)
	}

	flags := config.ParseClientFlags()

	// the board owns the screen, so logs go to a file
	logPath := filepath.Join(os.TempDir(), "collabboard-tui.log")

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close() //nolint:errcheck // closed on exit

	logger.SetDefault(logger.New("production", os.Getenv("LOG_LEVEL"), logFile))

	app := tui.NewApp(flags)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())

	if _, err := p.Run(); err != nil {
		fmt.Printf("error running collabboard: %v\n", err)
		os.Exit(1)
	}
}
