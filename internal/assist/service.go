// Package assist ties the pure analysis core to the grammar and
// translation providers, the result caches and the request quota.
package assist

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rcliao/qalam/internal/analysis"
	"github.com/rcliao/qalam/internal/cache"
	"github.com/rcliao/qalam/internal/chunker"
	"github.com/rcliao/qalam/internal/compose"
	"github.com/rcliao/qalam/internal/grammar"
	"github.com/rcliao/qalam/internal/logging"
	"github.com/rcliao/qalam/internal/model"
	"github.com/rcliao/qalam/internal/store"
	"github.com/rcliao/qalam/internal/translate"
)

var (
	// ErrQuotaExceeded is returned when the provider request limit for
	// the current window is used up.
	ErrQuotaExceeded = errors.New("provider request limit reached")

	// ErrNoChecker is returned when grammar checks are requested without
	// a configured provider.
	ErrNoChecker = errors.New("no grammar provider configured")

	// ErrNoTranslator is returned when translation is requested without
	// a configured translator.
	ErrNoTranslator = errors.New("no translator configured")
)

const (
	DefaultRequestLimit = 300
	DefaultQuotaWindow  = 10 * 24 * time.Hour
)

// Source tells where a grammar or translation result came from.
type Source string

const (
	SourceNone     Source = "none"
	SourceMemory   Source = "memory"
	SourceCache    Source = "cache"
	SourceSimilar  Source = "similar"
	SourceProvider Source = "provider"
)

// Options configures a Service. Only Analyzer has a usable zero value;
// the rest fall back to defaults or disable the feature they back.
type Options struct {
	Analyzer   *analysis.Analyzer
	Checker    grammar.Checker
	Translator translate.Translator
	Store      store.Store

	// RequestLimit caps grammar provider requests per QuotaWindow. Zero
	// means DefaultRequestLimit, negative means unlimited. The quota is
	// only enforced when a Store is set.
	RequestLimit int
	QuotaWindow  time.Duration

	SimilarityThreshold float64
	CacheSize           int
	Chunk               chunker.Options
}

func (o Options) withDefaults() Options {
	if o.Analyzer == nil {
		o.Analyzer = analysis.Default()
	}
	if o.RequestLimit == 0 {
		o.RequestLimit = DefaultRequestLimit
	}
	if o.QuotaWindow <= 0 {
		o.QuotaWindow = DefaultQuotaWindow
	}
	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = store.DefaultSimilarityThreshold
	}
	if o.CacheSize <= 0 {
		o.CacheSize = cache.DefaultSize
	}
	if o.Chunk.TargetSize == 0 {
		o.Chunk = chunker.DefaultOptions()
	}
	return o
}

// Service runs analyses and provider calls. It is safe for concurrent use.
type Service struct {
	opts       Options
	compositor *compose.Compositor

	grammarCache     *cache.LRU[[]model.GrammarSuggestion]
	translationCache *cache.LRU[string]
}

// New creates a Service.
func New(opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		opts:             opts,
		compositor:       compose.New(opts.Analyzer),
		grammarCache:     cache.NewLRU[[]model.GrammarSuggestion](opts.CacheSize),
		translationCache: cache.NewLRU[string](opts.CacheSize),
	}
}

// Analyzer returns the analyzer the service was built with.
func (s *Service) Analyzer() *analysis.Analyzer {
	return s.opts.Analyzer
}

// Report is everything the editor needs to render one text.
type Report struct {
	Analysis model.Analysis  `json:"analysis"`
	Spans    []model.Span    `json:"spans"`
	Segments []model.Segment `json:"segments"`
}

// Analyze runs the rule-based pass and composes its spans. It does no I/O.
func (s *Service) Analyze(text string) Report {
	return s.Highlight(text, nil)
}

// Highlight composes text with previously returned suggestions. Only
// suggestions that still occur in text are counted in GrammarCount.
func (s *Service) Highlight(text string, suggestions []model.GrammarSuggestion) Report {
	res := s.opts.Analyzer.Analyze(text)
	res.GrammarCount = Located(text, suggestions)
	spans := s.compositor.Compose(text, res, suggestions)
	if spans == nil {
		spans = []model.Span{}
	}
	segs := compose.Segments(utf8.RuneCountInString(text), spans)
	if segs == nil {
		segs = []model.Segment{}
	}
	return Report{Analysis: res, Spans: spans, Segments: segs}
}

// Located counts the valid suggestions whose phrase occurs in text.
func Located(text string, suggestions []model.GrammarSuggestion) int {
	n := 0
	for _, sg := range suggestions {
		if sg.Validate() != nil {
			continue
		}
		if phrase, _ := sg.Phrase(); strings.Contains(text, phrase) {
			n++
		}
	}
	return n
}

// GrammarResult is the outcome of a grammar check.
type GrammarResult struct {
	Source      Source                    `json:"source"`
	Score       float64                   `json:"score,omitempty"` // similarity of a reused result
	Suggestions []model.GrammarSuggestion `json:"suggestions"`
	Report      Report                    `json:"report"`
}

// Grammar checks text, reusing an exact or near-duplicate cached result
// when one exists. Long texts are split into chunks that are checked
// concurrently; each chunk counts as one provider request.
func (s *Service) Grammar(ctx context.Context, text string) (GrammarResult, error) {
	log := logging.FromContext(ctx)
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return s.grammarResult(text, SourceNone, 0, []model.GrammarSuggestion{}), nil
	}

	key := cache.Key(trimmed)
	if sg, ok := s.grammarCache.Get(key); ok {
		log.Debug("grammar cache hit", "source", SourceMemory)
		return s.grammarResult(text, SourceMemory, 0, sg), nil
	}

	if st := s.opts.Store; st != nil {
		e, err := st.GetGrammar(ctx, key)
		switch {
		case err == nil:
			s.grammarCache.Add(key, e.Suggestions)
			log.Debug("grammar cache hit", "source", SourceCache, "id", e.ID)
			return s.grammarResult(text, SourceCache, 0, e.Suggestions), nil
		case !errors.Is(err, store.ErrNotFound):
			log.Warn("grammar cache lookup failed", "error", err)
		}

		m, err := st.FindSimilar(ctx, store.SimilarParams{Text: trimmed, Threshold: s.opts.SimilarityThreshold})
		switch {
		case err == nil:
			s.grammarCache.Add(key, m.Entry.Suggestions)
			log.Debug("grammar cache hit", "source", SourceSimilar, "id", m.Entry.ID, "score", m.Score)
			return s.grammarResult(text, SourceSimilar, m.Score, m.Entry.Suggestions), nil
		case !errors.Is(err, store.ErrNotFound):
			log.Warn("similar lookup failed", "error", err)
		}
	}

	if s.opts.Checker == nil {
		return GrammarResult{}, ErrNoChecker
	}

	chunks := chunker.Chunk(trimmed, s.opts.Chunk)
	if err := s.reserve(ctx, len(chunks)); err != nil {
		return GrammarResult{}, err
	}

	start := time.Now()
	sg, err := s.checkChunks(ctx, chunks)
	if err != nil {
		return GrammarResult{}, err
	}
	log.Info("grammar check", "chunks", len(chunks), "suggestions", len(sg), "duration", time.Since(start))

	s.grammarCache.Add(key, sg)
	if st := s.opts.Store; st != nil {
		_, err := st.PutGrammar(context.WithoutCancel(ctx), store.PutGrammarParams{Key: key, Text: trimmed, Suggestions: sg})
		if err != nil {
			log.Warn("grammar cache write failed", "error", err)
		}
	}
	return s.grammarResult(text, SourceProvider, 0, sg), nil
}

func (s *Service) grammarResult(text string, src Source, score float64, sg []model.GrammarSuggestion) GrammarResult {
	if sg == nil {
		sg = []model.GrammarSuggestion{}
	}
	return GrammarResult{
		Source:      src,
		Score:       score,
		Suggestions: sg,
		Report:      s.Highlight(text, sg),
	}
}

// checkChunks runs one provider call per chunk, at most GOMAXPROCS at a
// time. The first failure cancels the remaining calls. Suggestions are
// merged in chunk order with duplicates removed.
func (s *Service) checkChunks(ctx context.Context, chunks []chunker.ChunkResult) ([]model.GrammarSuggestion, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([][]model.GrammarSuggestion, len(chunks))
	errs := make([]error, len(chunks))

	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i, c := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			sg, err := s.opts.Checker.Check(ctx, c.Text)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			results[i] = sg
			s.recordUsage(ctx, model.UsageGrammar)
		}()
	}
	wg.Wait()

	if err := firstError(errs); err != nil {
		return nil, fmt.Errorf("grammar provider: %w", err)
	}

	merged := []model.GrammarSuggestion{}
	seen := make(map[model.GrammarSuggestion]bool)
	for _, sg := range results {
		for _, item := range sg {
			if seen[item] {
				continue
			}
			seen[item] = true
			merged = append(merged, item)
		}
	}
	return merged, nil
}

// firstError prefers a real failure over the cancellations it caused.
func firstError(errs []error) error {
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, context.Canceled) {
			return err
		}
		if first == nil {
			first = err
		}
	}
	return first
}

func (s *Service) recordUsage(ctx context.Context, kind string) {
	if s.opts.Store == nil {
		return
	}
	if err := s.opts.Store.RecordUsage(context.WithoutCancel(ctx), kind); err != nil {
		logging.FromContext(ctx).Warn("record usage failed", "kind", kind, "error", err)
	}
}

// TranslationResult is the outcome of a translation.
type TranslationResult struct {
	Source      Source `json:"source"`
	Target      string `json:"target"`
	Translation string `json:"translation"`
}

// Translate translates text into target, a language name or code.
// Results are cached per text and target language.
func (s *Service) Translate(ctx context.Context, text, target string) (TranslationResult, error) {
	code, err := translate.LanguageCode(target)
	if err != nil {
		return TranslationResult{}, err
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return TranslationResult{Source: SourceNone, Target: code}, nil
	}

	log := logging.FromContext(ctx)
	key := cache.Key(trimmed, code)
	if tr, ok := s.translationCache.Get(key); ok {
		return TranslationResult{Source: SourceMemory, Target: code, Translation: tr}, nil
	}
	if st := s.opts.Store; st != nil {
		e, err := st.GetTranslation(ctx, key)
		switch {
		case err == nil:
			s.translationCache.Add(key, e.Translation)
			return TranslationResult{Source: SourceCache, Target: code, Translation: e.Translation}, nil
		case !errors.Is(err, store.ErrNotFound):
			log.Warn("translation cache lookup failed", "error", err)
		}
	}

	if s.opts.Translator == nil {
		return TranslationResult{}, ErrNoTranslator
	}
	tr, err := s.opts.Translator.Translate(ctx, trimmed, code)
	if err != nil {
		return TranslationResult{}, err
	}
	s.recordUsage(ctx, model.UsageTranslate)

	s.translationCache.Add(key, tr)
	if st := s.opts.Store; st != nil {
		_, err := st.PutTranslation(context.WithoutCancel(ctx), store.PutTranslationParams{
			Key: key, Text: trimmed, Target: code, Translation: tr,
		})
		if err != nil {
			log.Warn("translation cache write failed", "error", err)
		}
	}
	return TranslationResult{Source: SourceProvider, Target: code, Translation: tr}, nil
}
