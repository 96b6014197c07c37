// Package translate fetches translations of Arabic text from the public
// Google Translate endpoint.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// ErrNoTranslation is returned when the service answers without any
// translated segment.
var ErrNoTranslation = errors.New("translate: no translation available")

// ErrUnknownLanguage is returned for a target that is neither a known
// language name nor a well-formed language code.
var ErrUnknownLanguage = errors.New("translate: unknown target language")

// Translator translates Arabic text into a target language.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Doer sends an HTTP request. tls_client.HttpClient satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	DefaultBaseURL  = "https://translate.googleapis.com"
	DefaultTarget   = "English"
	SourceLanguage  = "ar"
	timeoutSeconds  = 15
	userAgentString = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"
)

// languageCodes maps the language names the editor offers to ISO codes.
var languageCodes = map[string]string{
	"english":    "en",
	"french":     "fr",
	"german":     "de",
	"spanish":    "es",
	"italian":    "it",
	"turkish":    "tr",
	"persian":    "fa",
	"urdu":       "ur",
	"indonesian": "id",
	"malay":      "ms",
	"russian":    "ru",
	"chinese":    "zh-CN",
	"japanese":   "ja",
	"korean":     "ko",
	"hindi":      "hi",
	"portuguese": "pt",
	"arabic":     "ar",
	"swedish":    "sv",
	"dutch":      "nl",
	"greek":      "el",
	"hebrew":     "he",
	"bengali":    "bn",
}

// codePattern accepts ISO 639 codes with an optional region ("pt", "zh-CN",
// "haw").
var codePattern = regexp.MustCompile(`^[a-z]{2,3}(-[a-z]{2}|-[a-z]{4})?$`)

// LanguageCode resolves a language name ("English") or code ("en", "sv")
// to the code the service expects. An empty target means DefaultTarget.
// Codes not in the name table pass through with the region upper-cased.
func LanguageCode(target string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(target))
	if t == "" {
		t = strings.ToLower(DefaultTarget)
	}
	if code, ok := languageCodes[t]; ok {
		return code, nil
	}
	for _, code := range languageCodes {
		if strings.EqualFold(code, t) {
			return code, nil
		}
	}
	if !codePattern.MatchString(t) {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, target)
	}
	if lang, region, ok := strings.Cut(t, "-"); ok && len(region) == 2 {
		return lang + "-" + strings.ToUpper(region), nil
	}
	return t, nil
}

// GoogleTranslator calls translate_a/single with the gtx client.
type GoogleTranslator struct {
	baseURL string
	client  Doer
}

// NewGoogleTranslator creates a translator with a browser TLS fingerprint.
func NewGoogleTranslator() (*GoogleTranslator, error) {
	client, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(),
		tls_client.WithTimeoutSeconds(timeoutSeconds),
		tls_client.WithClientProfile(profiles.DefaultClientProfile),
	)
	if err != nil {
		return nil, fmt.Errorf("translate: create client: %w", err)
	}
	return NewGoogleTranslatorWithClient(DefaultBaseURL, client), nil
}

// NewGoogleTranslatorWithClient uses the given base URL and client.
func NewGoogleTranslatorWithClient(baseURL string, client Doer) *GoogleTranslator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &GoogleTranslator{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (g *GoogleTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	code, err := LanguageCode(target)
	if err != nil {
		return "", err
	}

	params := url.Values{
		"client": {"gtx"},
		"sl":     {SourceLanguage},
		"tl":     {code},
		"dt":     {"t"},
		"q":      {text},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/translate_a/single?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header = http.Header{
		"accept":     {"application/json"},
		"user-agent": {userAgentString},
		http.HeaderOrderKey: {
			"accept",
			"user-agent",
		},
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("translate: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate: status %d", resp.StatusCode)
	}
	return parseResponse(raw)
}

// parseResponse joins the first element of every segment in data[0].
func parseResponse(raw []byte) (string, error) {
	var data []json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("translate: decode response: %w", err)
	}
	if len(data) == 0 {
		return "", ErrNoTranslation
	}
	var segments [][]any
	if err := json.Unmarshal(data[0], &segments); err != nil {
		return "", ErrNoTranslation
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", ErrNoTranslation
	}
	return b.String(), nil
}
