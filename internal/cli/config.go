package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/analysis"
	"github.com/rcliao/qalam/internal/assist"
	"github.com/rcliao/qalam/internal/grammar"
	"github.com/rcliao/qalam/internal/ingest"
	"github.com/rcliao/qalam/internal/store"
	"github.com/rcliao/qalam/internal/translate"
)

func envInt(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envFloat(key string) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

// parseDuration accepts Go durations plus a day suffix ("10d").
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if strings.HasSuffix(s, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// loadAnalyzer builds the analyzer from --lexicon, --long and --very-long.
func loadAnalyzer() (*analysis.Analyzer, error) {
	cfg := analysis.DefaultConfig()
	path := lexiconPath
	if path == "" {
		path = os.Getenv("QALAM_LEXICON")
	}
	if path != "" {
		lex, err := analysis.LoadLexicon(path)
		if err != nil {
			return nil, err
		}
		cfg.Lexicon = lex
	}
	cfg.LongSentence = longFlag
	cfg.VeryLongSentence = veryLong
	return analysis.NewAnalyzer(cfg)
}

// serviceOptions reads the environment into assist.Options. Providers
// and the store are attached by the caller.
func serviceOptions() (assist.Options, error) {
	var opts assist.Options
	a, err := loadAnalyzer()
	if err != nil {
		return opts, err
	}
	opts.Analyzer = a

	if opts.RequestLimit, err = envInt("QALAM_REQUEST_LIMIT"); err != nil {
		return opts, err
	}
	if opts.SimilarityThreshold, err = envFloat("QALAM_SIMILARITY_THRESHOLD"); err != nil {
		return opts, err
	}
	if opts.SimilarityThreshold > 1 {
		return opts, fmt.Errorf("QALAM_SIMILARITY_THRESHOLD must be within [0, 1]")
	}
	if opts.CacheSize, err = envInt("QALAM_CACHE_SIZE"); err != nil {
		return opts, err
	}
	if opts.QuotaWindow, err = parseDuration(os.Getenv("QALAM_QUOTA_WINDOW")); err != nil {
		return opts, err
	}
	return opts, nil
}

// newService assembles a service with the store and whichever providers
// the environment configures. The returned store must be closed.
func newService(withTranslator bool) (*assist.Service, *store.SQLiteStore, error) {
	opts, err := serviceOptions()
	if err != nil {
		return nil, nil, err
	}
	if opts.Checker, err = grammar.NewFromEnv(); err != nil {
		return nil, nil, err
	}
	if withTranslator {
		tr, err := translate.NewGoogleTranslator()
		if err != nil {
			return nil, nil, err
		}
		opts.Translator = tr
	}

	s, err := openStore()
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	opts.Store = s
	return assist.New(opts), s, nil
}

// readInput returns the text to work on: the --file flag, positional
// args, or piped stdin, in that order.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if f, _ := cmd.Flags().GetString("file"); f != "" {
		doc, err := ingest.ReadFile(f)
		if err != nil {
			return "", err
		}
		return doc.Text, nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", errors.New("text is required (positional arg, --file or stdin)")
		}
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func addFileFlag(cmd *cobra.Command) {
	cmd.Flags().String("file", "", "Read text from a .txt, .md, .docx or .pdf file")
}
