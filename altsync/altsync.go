// Package altsync keeps the alternates map consistent across the locale
// siblings of a logical page.
//
// The merge is a bounded, single-round convergent union: one synchronous
// snapshot of all siblings, visited in configured locale order, each
// locale entry taken from the first sibling that declares it. One pass is
// sufficient because there is no partition or concurrent writer to
// reconcile against; re-running on a partially written set converges
// further. A sibling whose header has no alternates field never
// participates — absence means the author did not opt in, and the
// synchronizer must not invent the field.
package altsync

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/minios-linux/sitekit/frontmatter"
	"github.com/minios-linux/sitekit/locpath"
	"github.com/minios-linux/sitekit/pagefile"
)

// Syncer converges alternates maps across sibling sets on disk.
type Syncer struct {
	// Root is the content root directory.
	Root string
	// Resolver supplies the locale convention and iteration order.
	Resolver locpath.Resolver
	// OnLog, if set, receives progress messages.
	OnLog func(format string, args ...any)
}

func (s *Syncer) log(format string, args ...any) {
	if s.OnLog != nil {
		s.OnLog(format, args...)
	}
}

// participant is one sibling that has opted in to alternates.
type participant struct {
	rel  string
	page *pagefile.Page
	alts map[string]string
}

// SyncBase converges the sibling set of one base path and returns the
// relative paths of every document it modified. Siblings are visited in
// configured locale order; missing files and opted-out siblings are
// silently skipped.
func (s *Syncer) SyncBase(base string) ([]string, error) {
	var parts []participant
	for _, sib := range s.Resolver.Siblings(base) {
		page, err := pagefile.Load(s.Root, sib.Path, s.Resolver)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		alts, ok := page.Alternates()
		if !ok {
			continue
		}
		parts = append(parts, participant{rel: sib.Path, page: page, alts: alts})
	}
	if len(parts) == 0 {
		return nil, nil
	}

	// First-seen-wins union in visit order. A later sibling never
	// overwrites an earlier sibling's value for the same locale. Every
	// entry of every participant joins the union, including keys outside
	// the configured locale list (legacy cross-links, external site
	// URLs); dropping those would destroy author-written data.
	merged := make(map[string]string)
	for _, p := range parts {
		for l, v := range p.alts {
			if _, seen := merged[l]; !seen {
				merged[l] = v
			}
		}
	}

	// Canonical render order: configured locales first, unconfigured
	// extras after them sorted, so repeated syncs are byte-stable.
	configured := make(map[string]bool, len(s.Resolver.Locales))
	order := make([]string, 0, len(merged))
	for _, l := range s.Resolver.Locales {
		configured[l] = true
		if _, ok := merged[l]; ok {
			order = append(order, l)
		}
	}
	var extras []string
	for l := range merged {
		if !configured[l] {
			extras = append(extras, l)
		}
	}
	sort.Strings(extras)
	order = append(order, extras...)

	var modified []string
	for _, p := range parts {
		if !missingAny(p.alts, merged) {
			continue
		}
		if err := s.write(p, merged, order); err != nil {
			return nil, err
		}
		modified = append(modified, p.rel)
	}
	return modified, nil
}

// SyncAll groups all scanned pages into sibling sets and converges each.
// Returns every modified path across all sets.
func (s *Syncer) SyncAll(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var modified []string
	for _, rel := range paths {
		locale := s.Resolver.LocaleOf(rel)
		base := s.Resolver.BasePath(rel, locale)
		if seen[base] {
			continue
		}
		seen[base] = true
		m, err := s.SyncBase(base)
		if err != nil {
			return modified, fmt.Errorf("syncing %s: %w", base, err)
		}
		modified = append(modified, m...)
	}
	return modified, nil
}

// write patches the participant's alternates field with the merged map,
// rendered in stable locale order, and persists the document.
func (s *Syncer) write(p participant, merged map[string]string, order []string) error {
	entries := make([]frontmatter.MapEntry, 0, len(order))
	for _, l := range order {
		entries = append(entries, frontmatter.MapEntry{Key: l, Value: merged[l]})
	}
	doc := frontmatter.JoinDocument(p.page.Header, p.page.Body)
	out, changed := frontmatter.Patch(doc, pagefile.AlternatesKey, frontmatter.Map(entries))
	if !changed {
		return nil
	}
	abs := filepath.Join(s.Root, filepath.FromSlash(p.rel))
	if err := os.WriteFile(abs, []byte(out), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", p.rel, err)
	}
	s.log("alternates: updated %s", p.rel)
	return nil
}

// missingAny reports whether merged holds a locale the sibling's own map
// lacks. Own entries are already consistent with first-seen-wins by
// construction; only gaps warrant a write.
func missingAny(own, merged map[string]string) bool {
	for l := range merged {
		if _, ok := own[l]; !ok {
			return true
		}
	}
	return false
}
