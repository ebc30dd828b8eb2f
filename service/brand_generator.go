package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"strings"
	"unicode"

	"brandkit/models"
	"brandkit/tracing"
	"brandkit/utils"
)

const (
	systemInstruction = "You are a brand strategist. Answer with the requested content only."
	placeholderSize   = 512
	maxNames          = 10
)

// BrandGenerator produces names, statements, palettes and logos for a
// business. Every call checks the cache first, retries rate limits, and
// falls back to local defaults when the providers fail.
type BrandGenerator struct {
	text   TextModel
	images []ImageModel
	cache  *ResponseCache
	retry  RetryPolicy
}

// NewBrandGenerator wires the providers. text may be nil and images may be
// empty; the generator then always serves fallbacks.
func NewBrandGenerator(text TextModel, images []ImageModel, cache *ResponseCache, retry RetryPolicy) *BrandGenerator {
	return &BrandGenerator{
		text:   text,
		images: images,
		cache:  cache,
		retry:  retry,
	}
}

func infoKey(info models.BrandInfo) []string {
	return []string{
		strings.TrimSpace(info.BusinessName),
		strings.TrimSpace(info.Industry),
		strings.TrimSpace(info.Description),
		strings.TrimSpace(info.Audience),
		strings.Join(info.Values, ","),
		strings.TrimSpace(info.Style),
	}
}

func describe(info models.BrandInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Business: %s\n", info.BusinessName)
	if info.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", info.Industry)
	}
	if info.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", info.Description)
	}
	if info.Audience != "" {
		fmt.Fprintf(&b, "Audience: %s\n", info.Audience)
	}
	if len(info.Values) > 0 {
		fmt.Fprintf(&b, "Values: %s\n", strings.Join(info.Values, ", "))
	}
	if info.Style != "" {
		fmt.Fprintf(&b, "Style: %s\n", info.Style)
	}
	return b.String()
}

// generateText runs the cache -> retry -> store sequence for one text call
func (g *BrandGenerator) generateText(ctx context.Context, op, prompt string, key string, parse func(string) error) error {
	if cached, ok := g.cache.Get(key); ok {
		if err := parse(string(cached)); err == nil {
			log.Printf("📦 %s served from cache", op)
			return nil
		}
	}
	if g.text == nil {
		return ErrNoProvider
	}

	var text string
	err := Retry(ctx, g.retry, op, func(ctx context.Context) error {
		var err error
		text, err = g.text.GenerateText(ctx, systemInstruction, prompt)
		return err
	})
	if err != nil {
		return err
	}
	if err := parse(text); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", op, err)
	}
	g.cache.Set(key, []byte(text))
	return nil
}

// SuggestNames returns up to n brand name ideas
func (g *BrandGenerator) SuggestNames(ctx context.Context, info models.BrandInfo, n int) ([]string, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	if n <= 0 || n > maxNames {
		n = 5
	}

	prompt := fmt.Sprintf("Suggest %d short, memorable brand names for this business, one per line, no numbering or explanations.\n\n%s", n, describe(info))
	key := CacheKey(append([]string{"names", fmt.Sprint(n)}, infoKey(info)...)...)

	var names []string
	err := g.generateText(ctx, "SuggestNames", prompt, key, func(text string) error {
		names = ParseNames(text, n)
		if len(names) == 0 {
			return fmt.Errorf("no names in response")
		}
		return nil
	})
	if err != nil {
		log.Printf("⚠️  Name generation failed, using fallback names: %v", err)
		return FallbackNames(info, n), nil
	}
	log.Printf("✓ Generated %d brand names", len(names))
	return names, nil
}

// ParseNames reads one name per line, accepting a JSON array as well.
// Bullets, numbering and quotes are stripped; duplicates are dropped.
func ParseNames(text string, n int) []string {
	var candidates []string
	if trimmed := strings.TrimSpace(text); strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &candidates); err != nil {
			candidates = nil
		}
	}
	if candidates == nil {
		candidates = strings.Split(text, "\n")
	}

	var out []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		name := cleanName(c)
		if name == "" || strings.HasPrefix(name, "```") {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
		if len(out) == n {
			break
		}
	}
	return out
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	// preambles like "Here are some ideas:"
	if strings.HasSuffix(s, ":") {
		return ""
	}
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsDigit(r) || r == '.' || r == ')' || r == '-' || r == '*' || r == '•' || unicode.IsSpace(r)
	})
	// "Name - explanation" and "Name: explanation"
	for _, sep := range []string{" - ", ": ", " – "} {
		if i := strings.Index(s, sep); i > 0 {
			s = s[:i]
		}
	}
	s = strings.Trim(s, "\"'`*_ ")
	if len(s) > 60 {
		return ""
	}
	return s
}

// FallbackNames derives names from the business name and industry
func FallbackNames(info models.BrandInfo, n int) []string {
	base := strings.TrimSpace(info.BusinessName)
	word := firstWord(info.Industry)
	if base == "" {
		base = word
	}
	if base == "" {
		base = "Brand"
	}
	candidates := []string{
		base,
		base + " Studio",
		base + " & Co.",
		"The " + base,
		base + " Collective",
	}
	if word != "" && !strings.EqualFold(word, base) {
		candidates = append(candidates, word+" Lab", base+" "+word)
	}
	return ParseNames(strings.Join(candidates, "\n"), n)
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	w := []rune(strings.Trim(fields[0], ",.;:"))
	if len(w) == 0 {
		return ""
	}
	w[0] = unicode.ToUpper(w[0])
	return string(w)
}

// GenerateStatements writes mission, vision, tagline and values
func (g *BrandGenerator) GenerateStatements(ctx context.Context, info models.BrandInfo, name string) (models.Statements, error) {
	if err := info.Validate(); err != nil {
		return models.Statements{}, err
	}
	name = BrandName(info, name)

	prompt := fmt.Sprintf(`Write brand statements for "%s". Reply with JSON only: {"mission": "...", "vision": "...", "tagline": "...", "values": ["...", "..."]}.

%s`, name, describe(info))
	key := CacheKey(append([]string{"statements", name}, infoKey(info)...)...)

	var st models.Statements
	err := g.generateText(ctx, "GenerateStatements", prompt, key, func(text string) error {
		var err error
		st, err = ParseStatements(text)
		return err
	})
	if err != nil {
		log.Printf("⚠️  Statement generation failed, using fallback statements: %v", err)
		return FallbackStatements(info, name), nil
	}
	log.Printf("✓ Generated statements for %s", name)
	return st, nil
}

// ParseStatements reads the statements JSON out of model output
func ParseStatements(text string) (models.Statements, error) {
	obj, err := utils.ExtractJSONObject(text)
	if err != nil {
		return models.Statements{}, err
	}
	var st models.Statements
	if err := json.Unmarshal([]byte(obj), &st); err != nil {
		return models.Statements{}, fmt.Errorf("failed to decode statements: %w", err)
	}
	st.Mission = strings.TrimSpace(st.Mission)
	st.Vision = strings.TrimSpace(st.Vision)
	st.Tagline = strings.TrimSpace(st.Tagline)
	if st.Mission == "" || st.Vision == "" {
		return models.Statements{}, fmt.Errorf("statements need both mission and vision")
	}
	return st, nil
}

// FallbackStatements fills the statement templates with the brand details
func FallbackStatements(info models.BrandInfo, name string) models.Statements {
	industry := strings.TrimSpace(info.Industry)
	if industry == "" {
		industry = "our field"
	}
	audience := strings.TrimSpace(info.Audience)
	if audience == "" {
		audience = "our customers"
	}
	values := info.Values
	if len(values) == 0 {
		values = []string{"Quality", "Honesty", "Care"}
	}
	return models.Statements{
		Mission: fmt.Sprintf("%s exists to serve %s with thoughtful, reliable work in %s.", name, audience, industry),
		Vision:  fmt.Sprintf("To be the name %s trust first in %s.", audience, industry),
		Tagline: fmt.Sprintf("%s, made with care.", name),
		Values:  append([]string(nil), values...),
	}
}

// GeneratePalette asks for a five-color palette
func (g *BrandGenerator) GeneratePalette(ctx context.Context, info models.BrandInfo, name string) (utils.Palette, error) {
	if err := info.Validate(); err != nil {
		return utils.Palette{}, err
	}
	name = BrandName(info, name)

	prompt := fmt.Sprintf(`Design a color palette for "%s". Reply with JSON only, hex colors: {"primary": "#...", "secondary": "#...", "accent": "#...", "neutral": "#...", "background": "#..."}.

%s`, name, describe(info))
	key := CacheKey(append([]string{"palette", name}, infoKey(info)...)...)

	var palette utils.Palette
	err := g.generateText(ctx, "GeneratePalette", prompt, key, func(text string) error {
		var err error
		palette, err = utils.ParsePaletteJSON(text)
		return err
	})
	if err != nil {
		log.Printf("⚠️  Palette generation failed, using default palette: %v", err)
		return utils.DefaultPalette(name), nil
	}
	log.Printf("✓ Generated palette for %s (primary %s)", name, palette.Primary.Hex())
	return palette, nil
}

// LogoResult is a generated logo and where it came from
type LogoResult struct {
	PNG         []byte
	Provider    string
	Placeholder bool
}

// GenerateLogo tries each image provider in order and falls back to the
// monogram placeholder when all of them fail
func (g *BrandGenerator) GenerateLogo(ctx context.Context, info models.BrandInfo, name string, palette utils.Palette) (*LogoResult, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	name = BrandName(info, name)

	prompt := fmt.Sprintf("A flat, minimal vector logo mark for %q, a %s business. Solid shapes, plain white background, no text, primary color %s, accent %s.",
		name, strings.TrimSpace(info.Industry), palette.Primary.Hex(), palette.Accent.Hex())
	key := CacheKey(append([]string{"logo", name, palette.Primary.Hex(), palette.Accent.Hex()}, infoKey(info)...)...)

	if cached, ok := g.cache.Get(key); ok {
		log.Printf("📦 GenerateLogo served from cache")
		return &LogoResult{PNG: cached, Provider: "cache"}, nil
	}

	for _, model := range g.images {
		var data []byte
		err := Retry(ctx, g.retry, "GenerateLogo "+model.Name(), func(ctx context.Context) error {
			var err error
			data, err = model.GenerateImage(ctx, prompt)
			return err
		})
		if err != nil {
			log.Printf("❌ Logo provider %s failed: %v", model.Name(), err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		g.cache.Set(key, data)
		log.Printf("✓ Logo generated by %s (%d bytes)", model.Name(), len(data))
		return &LogoResult{PNG: data, Provider: model.Name()}, nil
	}

	log.Printf("⚠️  No logo provider succeeded, rendering placeholder for %s", name)
	var buf bytes.Buffer
	if err := png.Encode(&buf, tracing.Placeholder(name, palette, placeholderSize)); err != nil {
		return nil, fmt.Errorf("failed to encode placeholder logo: %w", err)
	}
	return &LogoResult{PNG: buf.Bytes(), Provider: "placeholder", Placeholder: true}, nil
}

// BrandName is the name used for prompts and fallbacks: name, else the
// business name, else "Brand"
func BrandName(info models.BrandInfo, name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	if n := strings.TrimSpace(info.BusinessName); n != "" {
		return n
	}
	return "Brand"
}
