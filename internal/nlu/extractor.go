package nlu

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/pedidoz-backend/internal/catalog"
	"github.com/angelmondragon/pedidoz-backend/pkg/logger"
	"github.com/angelmondragon/pedidoz-backend/pkg/metrics"
	"github.com/angelmondragon/pedidoz-backend/pkg/oracle"
)

// quantity candidates are integers; a number glued to a volume suffix is a
// container size ("355ml"), not an order quantity.
var numberRe = regexp.MustCompile(`(\d+)([a-z]*)`)

var volumeSuffixes = map[string]struct{}{
	"ml": {}, "l": {}, "lt": {}, "litro": {}, "litros": {},
	"cc": {}, "oz": {}, "gr": {}, "g": {}, "kg": {},
}

const maxUnitDistance = 2

// Extraction is the partial reading of one item phrase. Callers must handle
// every combination of present/absent fields.
type Extraction struct {
	Qty  *int
	Unit string
}

// Complete reports whether both quantity and unit were resolved.
func (e Extraction) Complete() bool {
	return e.Qty != nil && e.Unit != ""
}

// EntityOracle is the oracle surface used to fill extraction gaps.
type EntityOracle interface {
	ExtractEntities(ctx context.Context, segment string) (oracle.Entities, error)
}

// Extractor reads quantity and unit out of item phrases. Rule-based
// extraction always runs first; the oracle is consulted only for fields the
// rules left empty.
type Extractor struct {
	oracle  EntityOracle
	timeout time.Duration
	metrics *metrics.BotMetrics
	logg    *logger.Logger
}

// ExtractorParams wires the extractor's collaborators; Oracle may be nil.
type ExtractorParams struct {
	Oracle        EntityOracle
	OracleTimeout time.Duration
	Metrics       *metrics.BotMetrics
	Logger        *logger.Logger
}

// NewExtractor builds an extractor. A zero extractor is pure rules.
func NewExtractor(params ExtractorParams) *Extractor {
	timeout := params.OracleTimeout
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}
	return &Extractor{
		oracle:  params.Oracle,
		timeout: timeout,
		metrics: params.Metrics,
		logg:    params.Logger,
	}
}

// Extract pulls quantity and unit from the phrase for a product allowing
// the given units. Pure analysis: no state is mutated.
func (e *Extractor) Extract(ctx context.Context, phrase string, units []string) Extraction {
	result := ExtractRules(phrase, units)
	if result.Complete() || e == nil || e.oracle == nil {
		return result
	}

	oracleCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	entities, err := e.oracle.ExtractEntities(oracleCtx, phrase)
	if err != nil {
		if e.logg != nil {
			e.logg.Warn(ctx, "oracle extract failed, keeping rule result: "+err.Error())
		}
		e.metrics.IncOracleFallback("extract")
		return result
	}

	if result.Qty == nil && entities.Qty != nil && *entities.Qty > 0 {
		qty := *entities.Qty
		result.Qty = &qty
	}
	if result.Unit == "" && entities.Unit != "" {
		if unit, ok := closestUnit(catalog.Normalize(entities.Unit), units); ok {
			result.Unit = unit
		}
	}
	return result
}

// ExtractRules is the deterministic extraction path: first integer literal
// not glued to a volume suffix, and the fuzzily closest allowed unit.
func ExtractRules(phrase string, units []string) Extraction {
	normalized := catalog.Normalize(phrase)
	result := Extraction{}

	for _, m := range numberRe.FindAllStringSubmatch(normalized, -1) {
		if _, isVolume := volumeSuffixes[m[2]]; isVolume {
			continue
		}
		value, err := strconv.Atoi(m[1])
		if err != nil || value <= 0 {
			continue
		}
		result.Qty = &value
		break
	}

	if unit, ok := matchUnit(normalized, units); ok {
		result.Unit = unit
	}
	return result
}

// ResolveUnit maps a free-text answer onto one of the allowed units, with
// the same tolerance the extractor applies to full phrases.
func ResolveUnit(text string, units []string) (string, bool) {
	return matchUnit(catalog.Normalize(text), units)
}

// matchUnit finds the allowed unit globally closest to any word of the
// phrase, accepting distance <= 2. Words of one or two runes only match a
// unit exactly, so "la" cannot fuzz into "caja".
func matchUnit(normalizedPhrase string, units []string) (string, bool) {
	bestDistance := maxUnitDistance + 1
	bestUnit := ""
	for _, word := range strings.Fields(normalizedPhrase) {
		for _, unit := range units {
			normalizedUnit := catalog.Normalize(unit)
			if word == normalizedUnit {
				return unit, true
			}
			if len([]rune(word)) <= 2 {
				continue
			}
			if d := catalog.Levenshtein(word, normalizedUnit); d < bestDistance {
				bestDistance = d
				bestUnit = unit
			}
		}
	}
	if bestDistance <= maxUnitDistance {
		return bestUnit, true
	}
	return "", false
}

func closestUnit(normalizedWord string, units []string) (string, bool) {
	bestDistance := maxUnitDistance + 1
	bestUnit := ""
	for _, unit := range units {
		if d := catalog.Levenshtein(normalizedWord, catalog.Normalize(unit)); d < bestDistance {
			bestDistance = d
			bestUnit = unit
		}
	}
	if bestDistance <= maxUnitDistance {
		return bestUnit, true
	}
	return "", false
}
