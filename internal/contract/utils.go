package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/gridscope/gridscope/schema"
)

// Fit label constants.
const (
	OverfitValue  = "Overfit"
	UnderfitValue = "Underfit"
	WellFitValue  = "Well fit"
	UnknownValue  = "Unknown"
)

// Color variables for console output.
var (
	OverfitColor  = color.New(color.FgRed, color.Bold)     // OverfitColor flags poor generalization.
	UnderfitColor = color.New(color.FgYellow)              // UnderfitColor flags weak signal capture.
	WellFitColor  = color.New(color.FgGreen)               // WellFitColor marks a usable model.
	BestColor     = color.New(color.FgCyan, color.Bold)    // BestColor marks the selected winner.
	AnomalyColor  = color.New(color.FgMagenta, color.Bold) // AnomalyColor marks flagged rows.
)

// GetPlainFitLabel returns a plain text label for a fit classification.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainFitLabel(fit schema.FitClass) string {
	switch fit {
	case schema.Overfit:
		return OverfitValue
	case schema.Underfit:
		return UnderfitValue
	case schema.WellFit:
		return WellFitValue
	default:
		return UnknownValue
	}
}

// GetColorFitLabel returns a colored text label for console output (table).
// It uses GetPlainFitLabel to determine the string, and then applies the
// appropriate color.
func GetColorFitLabel(fit schema.FitClass) string {
	text := GetPlainFitLabel(fit)

	switch text {
	case OverfitValue:
		return OverfitColor.Sprint(text)
	case UnderfitValue:
		return UnderfitColor.Sprint(text)
	case WellFitValue:
		return WellFitColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path and format type. It falls back to os.Stdout on error.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetRunDBFilePath returns the path to the SQLite DB file for run tracking.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gridscope_runs.db"
	}
	return filepath.Join(homeDir, ".gridscope_runs.db")
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}
