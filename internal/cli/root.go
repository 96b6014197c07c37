// Package cli implements the qalam CLI commands.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/analysis"
	"github.com/rcliao/qalam/internal/logging"
	"github.com/rcliao/qalam/internal/store"
)

var (
	dbPath      string
	lexiconPath string
	formatFlag  string
	logLevel    string
	logFormat   string
	longFlag    int
	veryLong    int
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "qalam",
	Short: "Writing assistant for Arabic prose",
	Long: "Flags long sentences, weak phrases, adverbs and passive voice in Arabic text, " +
		"checks grammar through an LLM provider and caches results in SQLite.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		format, err := logging.ParseFormat(logFormat)
		if err != nil {
			return err
		}
		logging.Init(level, format, os.Stderr)
		if formatFlag != "json" && formatFlag != "text" {
			return fmt.Errorf("unknown output format %q (use json or text)", formatFlag)
		}
		return nil
	},
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVarP(&dbPath, "db", "d", "", "Database path (default: $QALAM_DB or ~/.qalam/qalam.db)")
	pf.StringVar(&lexiconPath, "lexicon", "", "Lexicon JSON file (default: $QALAM_LEXICON or built-in)")
	pf.StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	pf.StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	pf.IntVar(&longFlag, "long", analysis.DefaultLongSentence, "Word count above which a sentence is long")
	pf.IntVar(&veryLong, "very-long", analysis.DefaultVeryLongSentence, "Word count above which a sentence is very long")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("QALAM_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".qalam", "qalam.db")
}

func openStore() (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(getDBPath())
	if err != nil {
		return nil, err
	}
	if n, err := envInt("QALAM_CACHE_SIZE"); err != nil {
		s.Close()
		return nil, err
	} else if n > 0 {
		s.SetMaxEntries(n)
	}
	return s, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func printJSON(cmd *cobra.Command, v any) {
	b, err := marshalNoEscape(v)
	if err != nil {
		exitErr("encode output", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

func textOutput() bool {
	return formatFlag == "text"
}

// marshalNoEscape indents like json.MarshalIndent but keeps <, > and &
// intact so rendered HTML stays readable.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
