package splitter

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

var sentenceBoundary = regexp.MustCompile(`(?:[.!?。]|\n)\s*`)

// splitSemantic groups sentences into chunks at embedding-detected topic
// shifts: adjacent sentence pairs whose cosine distance exceeds the
// configured percentile of all pairwise distances become breakpoints. Any
// error propagates so the dispatcher can fail over to recursive splitting.
func (s *Service) splitSemantic(ctx context.Context, text string) ([]string, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("no embedder configured")
	}

	sentences := splitSentences(text)
	if len(sentences) < 3 {
		return nil, fmt.Errorf("too few sentences for semantic splitting: %d", len(sentences))
	}

	vectors, err := s.embedder.Embed(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("embed sentences: %w", err)
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d sentences", len(vectors), len(sentences))
	}

	distances := make([]float64, len(sentences)-1)
	for i := range distances {
		distances[i] = cosineDistance(vectors[i], vectors[i+1])
	}

	threshold := percentile(distances, s.opts.SemanticThreshold)

	var out []string
	var group []string
	for i, sentence := range sentences {
		group = append(group, sentence)
		if i < len(distances) && distances[i] > threshold {
			out = append(out, strings.Join(group, " "))
			group = nil
		}
	}
	if len(group) > 0 {
		out = append(out, strings.Join(group, " "))
	}

	return out, nil
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceBoundary.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func cosineDistance(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		if i >= len(b) {
			break
		}
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

// percentile returns the p-th percentile (nearest rank) of values.
func percentile(values []float64, p int) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := int(math.Ceil(float64(p)/100*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
