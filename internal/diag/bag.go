package diag

import (
	"cmp"
	"slices"

	"flexir/internal/source"
)

// Bag collects diagnostics up to an optional limit. The read methods accept a
// nil *Bag.
type Bag struct {
	items []*Diagnostic
	limit int
}

// NewBag keeps at most limit warnings and infos; limit <= 0 means unbounded.
// Errors are kept past the limit so a full bag never hides a failure.
func NewBag(limit int) *Bag {
	return &Bag{items: make([]*Diagnostic, 0, min(max(limit, 16), 64)), limit: limit}
}

// Add reports whether d was kept.
func (b *Bag) Add(d *Diagnostic) bool {
	if d == nil {
		return false
	}
	if b.limit > 0 && len(b.items) >= b.limit && d.Severity < SevError {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int { return b.limit }

// Count returns how many diagnostics are at least as severe as sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for _, d := range b.Items() {
		if d.Severity >= sev {
			n++
		}
	}
	return n
}

func (b *Bag) HasErrors() bool   { return b.Count(SevError) > 0 }
func (b *Bag) HasWarnings() bool { return b.Count(SevWarning) > 0 }

func (b *Bag) Len() int { return len(b.Items()) }

// Items returns the backing slice; callers must not modify it.
func (b *Bag) Items() []*Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}

// Reset drops every diagnostic and keeps the limit.
func (b *Bag) Reset() {
	clear(b.items)
	b.items = b.items[:0]
}

// Merge appends everything in other. The limit grows to fit.
func (b *Bag) Merge(other *Bag) {
	if other.Len() == 0 {
		return
	}
	if b.limit > 0 {
		b.limit = max(b.limit, len(b.items)+len(other.items))
	}
	b.items = append(b.items, other.items...)
}

// Sort orders by file, start, end, then errors before warnings, then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y *Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup keeps the first diagnostic per code and primary span.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span source.Span
	}
	seen := make(map[key]struct{}, len(b.items))
	kept := b.items[:0]
	for _, d := range b.items {
		k := key{d.Code, d.Primary}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, d)
	}
	clear(b.items[len(kept):])
	b.items = kept
}
