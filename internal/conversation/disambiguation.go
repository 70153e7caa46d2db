package conversation

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
)

// maxChoiceRows mirrors the Cloud API list-row ceiling; candidate sets
// larger than this are truncated rather than rejected.
const maxChoiceRows = 10

// buildClarification turns a tied candidate set into a user-resolvable
// choice. Candidates missing a SKU or a short name cannot be rendered and
// are dropped first; an empty set after that filter is a resolution failure,
// never an empty menu.
func buildClarification(phrase string, candidates []ProductRef) (*ClarifyContext, Reply, error) {
	presentable := make([]ProductRef, 0, len(candidates))
	for _, c := range candidates {
		if c.SKU == "" || c.ShortName == "" {
			continue
		}
		presentable = append(presentable, c)
	}
	if len(presentable) == 0 {
		return nil, Reply{}, pkgerrors.New(pkgerrors.CodeNotFound, "no presentable candidates for clarification")
	}
	if len(presentable) > maxChoiceRows {
		presentable = presentable[:maxChoiceRows]
	}

	options := make([]Choice, 0, len(presentable))
	for _, c := range presentable {
		options = append(options, Choice{ID: c.SKU, Title: c.ShortName, Description: c.Name})
	}

	body := fmt.Sprintf("Encontré varios productos que coinciden con %q. ¿Cuál deseas?", phrase)
	reply := choiceReply("", body, replyListButton, options)

	return &ClarifyContext{Phrase: phrase, Options: presentable}, reply, nil
}
