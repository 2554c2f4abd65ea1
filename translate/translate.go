// Package translate orchestrates translation of locale-organized content
// pages: it plans (document, target locale) units of work from opt-in
// markers, dispatches them to the translation provider with bounded
// concurrency, and writes translated variants with rewritten headers and
// a provenance block.
//
// Units are independent: each writes a distinct target path, so no
// locking is needed within a run, and one unit's failure never aborts its
// siblings. The batch result is a list of per-unit outcomes.
package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/minios-linux/sitekit/cache"
	"github.com/minios-linux/sitekit/frontmatter"
	"github.com/minios-linux/sitekit/locpath"
	"github.com/minios-linux/sitekit/pagefile"
	"github.com/minios-linux/sitekit/provider"
)

// PrivatePrefix marks header fields that are tool input, never copied
// into generated variants.
const PrivatePrefix = "_"

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Options controls a translation batch.
type Options struct {
	// Provider is the translation backend.
	Provider provider.Provider
	// Model is recorded in the provenance block and keys the cache.
	Model string
	// Fields are the translatable front matter field names, in priority
	// order.
	Fields []string
	// Instruction overrides the provider's default system prompt.
	Instruction string
	// Cache, if non-nil, short-circuits units whose result is cached.
	Cache cache.Cache
	// Force re-translates units whose target is already up to date.
	Force bool
	// DryRun plans and reports but writes nothing and calls no provider.
	DryRun bool
	// MaxConcurrent bounds in-flight units (default 3).
	MaxConcurrent int
	// RequestDelay spaces out unit launches.
	RequestDelay time.Duration
	// Date overrides the provenance translation date; empty means today.
	Date string
	// OnProgress is called after each finished unit.
	OnProgress func(done, total int)
	// OnLog and OnError emit batch progress messages.
	OnLog   func(format string, args ...any)
	OnError func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) effectiveMaxConcurrent() int {
	if o.MaxConcurrent > 0 {
		return o.MaxConcurrent
	}
	return 3
}

func (o *Options) date() string {
	if o.Date != "" {
		return o.Date
	}
	return time.Now().Format("2006-01-02")
}

// ---------------------------------------------------------------------------
// Units and outcomes
// ---------------------------------------------------------------------------

// Unit is one (source document, target locale) work item.
type Unit struct {
	// Source is the loaded source page.
	Source *pagefile.Page
	// TargetLocale is the locale to translate into.
	TargetLocale string
	// TargetPath is the relative path the variant must occupy.
	TargetPath string
}

// Outcome is the per-unit batch result.
type Outcome struct {
	Source  string
	Locale  string
	Target  string
	Skipped bool
	Err     error
}

// Failed returns the outcomes that carry an error.
func Failed(outcomes []Outcome) []Outcome {
	var out []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Planning
// ---------------------------------------------------------------------------

// Plan loads every scanned page and expands opt-in markers into units.
// A page without a marker is not a translation source. The second return
// holds pre-resolved outcomes: units whose target already records the
// source's content hash are skipped unless force is set, and a page that
// cannot be read becomes a failed outcome rather than aborting the batch.
func Plan(root string, res locpath.Resolver, paths []string, opts Options) ([]Unit, []Outcome) {
	var units []Unit
	var resolved []Outcome

	for _, rel := range paths {
		page, err := pagefile.Load(root, rel, res)
		if err != nil {
			opts.logError("plan %s: %v", rel, err)
			resolved = append(resolved, Outcome{Source: rel, Err: err})
			continue
		}
		if !page.HasMarker || page.Marker.None() {
			continue
		}
		base := res.BasePath(rel, page.Locale)
		for _, target := range page.Marker.Resolve(res.Locales, page.Locale) {
			targetPath := res.TargetPath(base, target)
			if !opts.Force && upToDate(root, targetPath, res, page.Hash) {
				resolved = append(resolved, Outcome{
					Source:  rel,
					Locale:  target,
					Target:  targetPath,
					Skipped: true,
				})
				continue
			}
			units = append(units, Unit{Source: page, TargetLocale: target, TargetPath: targetPath})
		}
	}
	return units, resolved
}

// FilterLocales keeps only the units whose target locale is listed.
func FilterLocales(units []Unit, locales []string) []Unit {
	allowed := make(map[string]bool, len(locales))
	for _, l := range locales {
		allowed[l] = true
	}
	var out []Unit
	for _, u := range units {
		if allowed[u.TargetLocale] {
			out = append(out, u)
		}
	}
	return out
}

// upToDate reports whether the existing target variant was generated from
// the exact source bytes we are looking at now.
func upToDate(root, targetPath string, res locpath.Resolver, sourceHash string) bool {
	target, err := pagefile.Load(root, targetPath, res)
	if err != nil {
		return false
	}
	return target.SourceHash() == sourceHash
}

// ---------------------------------------------------------------------------
// Execution
// ---------------------------------------------------------------------------

// Run executes the units with bounded concurrency and returns one outcome
// per unit, in unit order. Failures are isolated; a context cancellation
// stops dispatching further units while in-flight ones finish on their
// own.
func Run(ctx context.Context, root string, units []Unit, opts Options) []Outcome {
	outcomes := make([]Outcome, len(units))
	sem := make(chan struct{}, opts.effectiveMaxConcurrent())
	var wg sync.WaitGroup
	var done int
	var doneMu sync.Mutex

	for i := range units {
		if ctx.Err() != nil {
			for j := i; j < len(units); j++ {
				outcomes[j] = Outcome{
					Source: units[j].Source.Path,
					Locale: units[j].TargetLocale,
					Target: units[j].TargetPath,
					Err:    ctx.Err(),
				}
			}
			break
		}
		if i > 0 && opts.RequestDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(opts.RequestDelay):
			}
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer func() {
				<-sem
				wg.Done()
			}()
			u := units[i]
			err := translateUnit(ctx, root, u, opts)
			outcomes[i] = Outcome{
				Source: u.Source.Path,
				Locale: u.TargetLocale,
				Target: u.TargetPath,
				Err:    err,
			}
			if err != nil {
				opts.logError("translate %s → %s: %v", u.Source.Path, u.TargetLocale, err)
			}

			doneMu.Lock()
			done++
			n := done
			doneMu.Unlock()
			if opts.OnProgress != nil {
				opts.OnProgress(n, len(units))
			}
		}(i)
	}
	wg.Wait()
	return outcomes
}

// translateUnit performs one unit end to end: provider call (or cache
// hit), header rewrite, provenance injection, atomic-enough single write
// to the unit's distinct target path.
func translateUnit(ctx context.Context, root string, u Unit, opts Options) error {
	src := u.Source
	fields := translatableFields(src, opts.Fields)

	if opts.DryRun {
		opts.log("dry-run: would translate %s → %s (%d fields)", src.Path, u.TargetLocale, len(fields))
		return nil
	}

	res, err := translateWithCache(ctx, u, fields, opts)
	if err != nil {
		return err
	}

	lines := frontmatter.Parse(src.Header)
	meta := frontmatter.Metadata{
		Source:     src.Path,
		Hash:       src.Hash,
		Model:      opts.Model,
		Translated: opts.date(),
	}
	header := frontmatter.Rewrite(lines, frontmatter.Replacements{Set: res.Fields},
		PrivatePrefix, pagefile.MarkerKey, &meta)

	body := res.Body
	if body == "" {
		body = src.Body
	}
	doc := frontmatter.JoinDocument(header, body)

	abs := filepath.Join(root, filepath.FromSlash(u.TargetPath))
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", u.TargetPath, err)
	}
	if err := os.WriteFile(abs, []byte(doc), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", u.TargetPath, err)
	}
	opts.log("translated %s → %s", src.Path, u.TargetPath)
	return nil
}

// translateWithCache consults the cache before paying for a provider
// call, and stores fresh results for future runs. Cache failures are
// silent: a broken cache degrades to slower runs, never to failed units.
func translateWithCache(ctx context.Context, u Unit, fields []provider.FieldPair, opts Options) (provider.Result, error) {
	key := cache.Key(u.Source.Hash, u.Source.Locale, u.TargetLocale, opts.Model, requestDigest(fields, opts.Instruction))
	if opts.Cache != nil {
		if raw, ok := opts.Cache.Get(key); ok {
			var res provider.Result
			if err := json.Unmarshal([]byte(raw), &res); err == nil {
				opts.log("cache hit: %s → %s", u.Source.Path, u.TargetLocale)
				return res, nil
			}
		}
	}

	res, err := opts.Provider.Translate(ctx, provider.Request{
		SourceLang:  u.Source.Locale,
		TargetLang:  u.TargetLocale,
		Fields:      fields,
		Body:        u.Source.Body,
		Instruction: opts.Instruction,
	})
	if err != nil {
		return provider.Result{}, err
	}
	res.Fields = restrictToRequested(res.Fields, fields)

	if opts.Cache != nil {
		if raw, err := json.Marshal(res); err == nil {
			_ = opts.Cache.Set(key, string(raw))
		}
	}
	return res, nil
}

// requestDigest folds the non-content inputs of a unit — the requested
// field set and the instruction override — into the cache key, so that
// editing fields or prompt in the configuration never serves stale
// results for unchanged sources.
func requestDigest(fields []provider.FieldPair, instruction string) string {
	h := sha256.New()
	for _, f := range fields {
		h.Write([]byte(f.Key))
		h.Write([]byte{0})
	}
	h.Write([]byte(instruction))
	return hex.EncodeToString(h.Sum(nil))[:12]
}

// translatableFields extracts the configured scalar fields present in the
// source header, in configured order.
func translatableFields(p *pagefile.Page, names []string) []provider.FieldPair {
	var pairs []provider.FieldPair
	for _, name := range names {
		if v, ok := p.Field(name); ok && v != "" {
			pairs = append(pairs, provider.FieldPair{Key: name, Value: v})
		}
	}
	return pairs
}

// restrictToRequested drops any field the provider invented. A key we
// never asked about must not be injected into the header.
func restrictToRequested(got map[string]string, asked []provider.FieldPair) map[string]string {
	out := make(map[string]string, len(got))
	for _, f := range asked {
		if v, ok := got[f.Key]; ok {
			out[f.Key] = v
		}
	}
	return out
}
