package hostlist

import (
	"regexp"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/fvbommel/sortorder"
)

// numberedHost splits a hostname around its first digit run.
var numberedHost = regexp.MustCompile(`^(\D*)(\d+)(.*)$`)

// Sort orders hosts naturally, so "web2" comes before "web10".
func Sort(hosts []string) {
	sort.Sort(sortorder.Natural(hosts))
}

type hostAffix struct {
	prefix string
	suffix string
}

// Compress folds hosts into a hostlist expression that Expand resolves
// back to the same names. Hosts are grouped around their first digit
// run; consecutive numbers become ranges and stragglers stay single
// items. Hosts without a usable digit run pass through verbatim, as
// does any host whose written form a bracket item cannot reproduce.
// The produced expressions come out in natural order.
func Compress(hosts []string) string {
	grouped := make(map[hostAffix][]NumberToken)
	var plain []string
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, h := range hosts {
		if !seen.Add(h) {
			continue
		}
		m := numberedHost.FindStringSubmatch(h)
		if m == nil || !hostCharsOnly(h) {
			plain = append(plain, h)
			continue
		}
		tok, ok := tokenizeDigits(m[2])
		if !ok || formatValue(tok.Padding, false, tok.Value) != m[2] {
			// the digit run overflows or carries padding a bracket item
			// would not print back
			plain = append(plain, h)
			continue
		}
		key := hostAffix{prefix: m[1], suffix: m[3]}
		grouped[key] = append(grouped[key], tok)
	}

	exprs := append([]string(nil), plain...)
	for key, toks := range grouped {
		exprs = append(exprs, foldTokens(key, toks))
	}
	Sort(exprs)
	return strings.Join(exprs, ",")
}

// foldTokens turns the numbers sharing a prefix and suffix into one
// expression, folding consecutive runs that survive a round trip.
func foldTokens(key hostAffix, toks []NumberToken) string {
	sort.Slice(toks, func(i, j int) bool {
		if toks[i].Value != toks[j].Value {
			return toks[i].Value < toks[j].Value
		}
		return toks[i].Padding < toks[j].Padding
	})

	var items []string
	folded := false
	i := 0
	for i < len(toks) {
		j := i
		for j+1 < len(toks) && toks[j+1].Value == toks[j].Value+1 && rangeRoundTrips(toks[i:j+2]) {
			j++
		}
		if j > i {
			items = append(items, toks[i].text()+"-"+toks[j].text())
			folded = true
		} else {
			items = append(items, toks[i].text())
		}
		i = j + 1
	}
	if len(items) == 1 && !folded {
		return key.prefix + toks[0].text() + key.suffix
	}
	return key.prefix + "[" + strings.Join(items, ",") + "]" + key.suffix
}

// rangeRoundTrips reports whether the range written first-last expands
// to exactly the written form of every run member.
func rangeRoundTrips(run []NumberToken) bool {
	first, last := run[0], run[len(run)-1]
	if last.Padding > first.Padding {
		return false
	}
	sameWidth := first.Padding == last.Padding
	for _, m := range run {
		if formatValue(first.Padding, sameWidth, m.Value) != m.text() {
			return false
		}
	}
	return true
}

func hostCharsOnly(h string) bool {
	for i := 0; i < len(h); i++ {
		if !isHostChar(h[i]) {
			return false
		}
	}
	return true
}
