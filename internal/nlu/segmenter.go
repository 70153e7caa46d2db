package nlu

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/pedidoz-backend/pkg/logger"
	"github.com/angelmondragon/pedidoz-backend/pkg/metrics"
)

const defaultOracleTimeout = 15 * time.Second

// ItemSplitter is the oracle surface used to break a compound utterance
// into item phrases.
type ItemSplitter interface {
	SplitItems(ctx context.Context, text string) ([]string, error)
}

// Segmenter turns one utterance into an ordered list of item phrases.
// The delimiter strategy is deterministic and always wins when it finds
// structure; the oracle only fills the gap when delimiters found none.
type Segmenter struct {
	oracle  ItemSplitter
	timeout time.Duration
	metrics *metrics.BotMetrics
	logg    *logger.Logger
}

// SegmenterParams wires the segmenter's collaborators; Oracle may be nil.
type SegmenterParams struct {
	Oracle        ItemSplitter
	OracleTimeout time.Duration
	Metrics       *metrics.BotMetrics
	Logger        *logger.Logger
}

// NewSegmenter builds a segmenter. All params are optional; a zero
// segmenter degrades to the pure delimiter strategy.
func NewSegmenter(params SegmenterParams) *Segmenter {
	timeout := params.OracleTimeout
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}
	return &Segmenter{
		oracle:  params.Oracle,
		timeout: timeout,
		metrics: params.Metrics,
		logg:    params.Logger,
	}
}

// Segment never fails: the worst case is the whole input as one segment.
func (s *Segmenter) Segment(ctx context.Context, text string) []string {
	segments := SplitDelimiters(text)
	if len(segments) > 1 || s.oracle == nil {
		return segments
	}

	oracleCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	split, err := s.oracle.SplitItems(oracleCtx, text)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "oracle split failed, using delimiter result: "+err.Error())
		}
		s.metrics.IncOracleFallback("segment")
		return segments
	}
	if len(split) == 0 {
		s.metrics.IncOracleFallback("segment")
		return segments
	}
	return split
}

// SplitDelimiters splits on the conjunction "y", commas, and semicolons,
// trimming and dropping empty segments. Deterministic: never invents or
// drops content.
func SplitDelimiters(text string) []string {
	replaced := strings.NewReplacer(";", "\x00", ",", "\x00", " y ", "\x00").Replace(text)
	parts := strings.Split(replaced, "\x00")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	if len(segments) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}
