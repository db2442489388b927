package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

type writer interface {
	write(w io.Writer) error
}

// series is a set of float samples keyed by rendered label set.
type series struct {
	name   string
	help   string
	kind   string
	labels []string
	mu     sync.Mutex
	values map[string]float64
}

func (s *series) add(v float64, values ...string) {
	key := labelString(s.labels, values)
	s.mu.Lock()
	s.values[key] += v
	s.mu.Unlock()
}

func (s *series) write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", s.name, s.help, s.name, s.kind); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range sortedKeys(s.values) {
		if _, err := fmt.Fprintf(w, "%s%s %g\n", s.name, k, s.values[k]); err != nil {
			return err
		}
	}
	return nil
}

func (s *series) get(values ...string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[labelString(s.labels, values)]
}

type counterVec struct{ series }

func newCounterVec(name, help string, labels ...string) *counterVec {
	return &counterVec{series{name: name, help: help, kind: "counter", labels: labels, values: map[string]float64{}}}
}

type gaugeVec struct{ series }

func newGaugeVec(name, help string, labels ...string) *gaugeVec {
	return &gaugeVec{series{name: name, help: help, kind: "gauge", labels: labels, values: map[string]float64{}}}
}

type histogramVec struct {
	name    string
	help    string
	labels  []string
	buckets []float64
	mu      sync.Mutex
	values  map[string]*histogram
}

type histogram struct {
	counts []uint64 // cumulative per bucket, then +Inf
	sum    float64
	total  uint64
}

func newHistogramVec(name, help string, buckets []float64, labels ...string) *histogramVec {
	return &histogramVec{name: name, help: help, labels: labels, buckets: buckets, values: map[string]*histogram{}}
}

func (h *histogramVec) observe(v float64, values ...string) {
	key := labelString(h.labels, values)
	h.mu.Lock()
	defer h.mu.Unlock()
	hist, ok := h.values[key]
	if !ok {
		hist = &histogram{counts: make([]uint64, len(h.buckets)+1)}
		h.values[key] = hist
	}
	hist.sum += v
	hist.total++
	for i, b := range h.buckets {
		if v <= b {
			hist.counts[i]++
		}
	}
	hist.counts[len(h.buckets)]++
}

func (h *histogramVec) write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	keys := make([]string, 0, len(h.values))
	for k := range h.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		hist := h.values[k]
		for i, b := range h.buckets {
			if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLe(k, fmt.Sprintf("%g", b)), hist.counts[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n%s_sum%s %g\n%s_count%s %d\n",
			h.name, withLe(k, "+Inf"), hist.counts[len(h.buckets)],
			h.name, k, hist.sum,
			h.name, k, hist.total); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func labelString(names, values []string) string {
	if len(names) == 0 {
		return ""
	}
	parts := make([]string, len(names))
	for i, name := range names {
		val := "unknown"
		if i < len(values) && values[i] != "" {
			val = values[i]
		}
		parts[i] = name + `="` + escapeLabel(val) + `"`
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func escapeLabel(v string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(v)
}

func withLe(labels, le string) string {
	if labels == "" {
		return `{le="` + le + `"}`
	}
	return strings.TrimSuffix(labels, "}") + `,le="` + le + `"}`
}
