// Package blocklist implements the blocked-domain policy: a denylist of
// domains and domain suffixes matched case-insensitively against candidate
// domains, with exact and subdomain (label-boundary) matching.
package blocklist

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Blocklist holds the denylist. All methods are safe for concurrent use;
// Reload swaps the entry set atomically under the write lock.
type Blocklist struct {
	mu      sync.RWMutex
	set     map[string]struct{}
	entries []string
}

// New builds a Blocklist from the given entries. Entries are normalized the
// same way candidate domains are (lowercased, trailing dot stripped).
func New(entries []string) *Blocklist {
	b := &Blocklist{}
	b.replace(entries)
	return b
}

// Load reads a line-oriented denylist file. Blank lines and lines starting
// with '#' are skipped.
func Load(path string) (*Blocklist, error) {
	entries, err := readEntries(path)
	if err != nil {
		return nil, err
	}
	return New(entries), nil
}

// Reload re-reads the file and swaps the denylist in place.
func (b *Blocklist) Reload(path string) error {
	entries, err := readEntries(path)
	if err != nil {
		return err
	}
	b.replace(entries)
	return nil
}

func readEntries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open blocklist: %w", err)
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read blocklist: %w", err)
	}

	return entries, nil
}

func (b *Blocklist) replace(entries []string) {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if n := Normalize(e); n != "" {
			set[n] = struct{}{}
		}
	}

	normalized := make([]string, 0, len(set))
	for e := range set {
		normalized = append(normalized, e)
	}
	sort.Strings(normalized)

	b.mu.Lock()
	b.set = set
	b.entries = normalized
	b.mu.Unlock()
}

// Normalize lowercases a domain and strips the trailing dot of a
// fully-qualified form.
func Normalize(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	return strings.TrimSuffix(domain, ".")
}

// IsBlocked reports whether the domain equals a denylist entry or is a
// subdomain of one. Matching is done on label boundaries, so
// "evil-facebook.com" does not match the entry "facebook.com" while
// "m.facebook.com" does.
func (b *Blocklist) IsBlocked(domain string) bool {
	domain = Normalize(domain)
	if domain == "" {
		return false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, ok := b.set[domain]; ok {
		return true
	}

	// Walk parent domains: a.b.c -> b.c -> c.
	for {
		i := strings.IndexByte(domain, '.')
		if i < 0 {
			return false
		}
		domain = domain[i+1:]
		if _, ok := b.set[domain]; ok {
			return true
		}
	}
}

// Domains returns the normalized denylist entries in sorted order.
func (b *Blocklist) Domains() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, len(b.entries))
	copy(out, b.entries)
	return out
}
