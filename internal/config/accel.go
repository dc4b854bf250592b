package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAccelString parses a custom acceleration table from the form
// "threshold:multiplier,threshold:multiplier,...", e.g.
// "1:1.0,2:1.3,3:1.7". Empty entries are skipped; any malformed entry,
// or a table that fails Valid, makes the whole parse return ok=false so
// the caller can fall back to the default table rather than hard-fail
// (configuration errors are never fatal).
func ParseAccelString(s string) (AccelTable, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AccelTable{}, false
	}

	parts := strings.Split(s, ",")
	t := AccelTable{
		Thresholds:  make([]int32, 0, len(parts)),
		Multipliers: make([]float64, 0, len(parts)),
	}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kv := strings.SplitN(p, ":", 2)
		if len(kv) != 2 {
			return AccelTable{}, false
		}
		th, err := strconv.ParseInt(strings.TrimSpace(kv[0]), 10, 32)
		if err != nil {
			return AccelTable{}, false
		}
		mult, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			return AccelTable{}, false
		}
		t.Thresholds = append(t.Thresholds, int32(th))
		t.Multipliers = append(t.Multipliers, mult)
	}

	if !t.Valid() {
		return AccelTable{}, false
	}
	return t, true
}

// SerializeAccelString is the inverse of ParseAccelString. Multipliers
// are formatted with strconv's shortest round-trippable representation
// so parse(serialize(parse(s))) == parse(s) for all valid s.
func SerializeAccelString(t AccelTable) string {
	parts := make([]string, len(t.Thresholds))
	for i, th := range t.Thresholds {
		parts[i] = fmt.Sprintf("%d:%s", th, strconv.FormatFloat(t.Multipliers[i], 'g', -1, 64))
	}
	return strings.Join(parts, ",")
}
