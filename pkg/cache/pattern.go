package cache

import (
	"regexp"
	"strings"
)

// Pattern selects the entries removed by Invalidate.
type Pattern interface {
	Match(key string, entry *Entry) bool
}

type exactKey string

func (k exactKey) Match(key string, _ *Entry) bool {
	return string(k) == key
}

// ExactKey matches a single cache key.
func ExactKey(key string) Pattern {
	return exactKey(key)
}

type keyRegexp struct {
	re *regexp.Regexp
}

func (p keyRegexp) Match(key string, _ *Entry) bool {
	return p.re.MatchString(key)
}

// KeyRegexp matches every key the expression matches.
func KeyRegexp(re *regexp.Regexp) Pattern {
	return keyRegexp{re: re}
}

// PredicateFunc matches entries for which fn returns true.
type PredicateFunc func(key string, entry *Entry) bool

func (f PredicateFunc) Match(key string, entry *Entry) bool {
	return f(key, entry)
}

type glob string

func (g glob) Match(key string, _ *Entry) bool {
	return matchGlob(key, string(g))
}

// Glob matches keys against a pattern where * stands for any run of
// characters, e.g. "products:*".
func Glob(pattern string) Pattern {
	return glob(pattern)
}

func matchGlob(str, pattern string) bool {
	if pattern == "*" {
		return true
	}

	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return str == pattern
	}

	if !strings.HasPrefix(str, parts[0]) {
		return false
	}
	rest := str[len(parts[0]):]

	for _, part := range parts[1 : len(parts)-1] {
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
	}

	return strings.HasSuffix(rest, parts[len(parts)-1])
}

// Invalidate removes every entry selected by p and returns how many were
// removed. A nil pattern removes nothing.
func (c *ResultCache) Invalidate(p Pattern) int {
	if p == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if k, ok := p.(exactKey); ok {
		if c.entries.Remove(string(k)) {
			c.syncSize()
			return 1
		}
		return 0
	}

	removed := 0
	for _, key := range c.entries.Keys() {
		entry, ok := c.entries.Peek(key)
		if !ok {
			continue
		}
		if p.Match(key, entry) {
			c.entries.Remove(key)
			removed++
		}
	}

	if removed > 0 {
		c.syncSize()
		c.logger.Info("cache entries invalidated", "count", removed)
	}

	return removed
}
