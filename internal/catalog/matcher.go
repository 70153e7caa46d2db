package catalog

import (
	"strings"

	"github.com/angelmondragon/pedidoz-backend/pkg/db/models"
)

const (
	exactHitWeight     = 3
	fuzzyHitWeight     = 2
	substringHitWeight = 1

	maxFuzzyDistance = 2
)

// Match scores every product against the user text and returns all products
// sharing the maximum score. An empty result means nothing scored above
// zero; more than one result is a tie the caller must disambiguate, never
// auto-pick from.
func Match(text string, products []models.Product) []models.Product {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	maxScore := 0
	var best []models.Product
	for _, product := range products {
		score := scoreProduct(tokens, product)
		switch {
		case score == 0:
			continue
		case score > maxScore:
			maxScore = score
			best = best[:0]
			best = append(best, product)
		case score == maxScore:
			best = append(best, product)
		}
	}
	return best
}

func scoreProduct(tokens []string, product models.Product) int {
	terms := make([]string, 0, len(product.SearchTerms))
	for _, term := range product.SearchTerms {
		terms = append(terms, Normalize(term))
	}
	name := Normalize(product.Name)

	score := 0
	for _, token := range tokens {
		for _, term := range terms {
			if token == term {
				score += exactHitWeight
			}
		}
		if strings.Contains(name, token) {
			score += substringHitWeight
		}
		for _, term := range terms {
			// distance zero is already rewarded as an exact hit
			if d := Levenshtein(token, term); d > 0 && d <= maxFuzzyDistance {
				score += fuzzyHitWeight
			}
		}
	}
	return score
}
