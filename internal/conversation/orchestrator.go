package conversation

import (
	"context"

	"github.com/angelmondragon/pedidoz-backend/pkg/db/models"
	"github.com/angelmondragon/pedidoz-backend/pkg/enums"
)

// drainQueue pops segments until the queue is empty or one segment needs the
// user. An explicit loop, not recursion: long multi-item orders cost nothing
// but iterations.
//
// Per segment: match against the catalog, then either push a fully resolved
// line item, suspend on a pending question (quantity, unit, clarification),
// or report "not found" and keep going. When the queue drains with the cart
// still empty the user is asked to describe the order again.
func (s *service) drainQueue(ctx context.Context, sess *Session) ([]Reply, error) {
	var replies []Reply

	for len(sess.Queue) > 0 {
		segment := sess.Queue[0]
		sess.Queue = sess.Queue[1:]

		candidates, err := s.catalog.Match(ctx, segment)
		if err != nil {
			return nil, err
		}

		if len(candidates) == 0 {
			replies = append(replies, notFoundReply(segment))
			continue
		}

		if len(candidates) > 1 {
			refs := make([]ProductRef, 0, len(candidates))
			for i := range candidates {
				refs = append(refs, productRef(&candidates[i]))
			}
			clarify, reply, err := buildClarification(segment, refs)
			if err != nil {
				// every tied candidate was unpresentable: same outcome
				// as zero matches
				replies = append(replies, notFoundReply(segment))
				continue
			}
			sess.Clarify = clarify
			sess.State = enums.StateAwaitingClarification
			return append(replies, reply), nil
		}

		suspended, ask := s.resolveSegment(ctx, sess, productRef(&candidates[0]), segment)
		if suspended {
			return append(replies, ask), nil
		}
	}

	if len(sess.Cart) == 0 {
		sess.State = enums.StateCollectingOrderText
		return append(replies, textReply(replyNothingAdded)), nil
	}

	sess.State = enums.StateReviewingCart
	return append(replies, cartSummaryReply(sess.Cart)), nil
}

// resolveSegment runs entity extraction for one matched product. A complete
// extraction goes straight to the cart; anything partial suspends the loop
// with exactly one pending item and the follow-up question for the first
// missing field.
func (s *service) resolveSegment(ctx context.Context, sess *Session, product ProductRef, phrase string) (suspended bool, ask Reply) {
	extraction := s.extractor.Extract(ctx, phrase, product.Units)
	if extraction.Unit == "" && len(product.Units) == 0 {
		// nothing to ask for: products without configured units sell
		// as loose pieces
		extraction.Unit = defaultUnit
	}

	if extraction.Complete() {
		s.pushLine(sess, product, *extraction.Qty, extraction.Unit)
		return false, Reply{}
	}

	sess.Pending = &PendingItem{
		Product: product,
		Qty:     extraction.Qty,
		Unit:    extraction.Unit,
		Phrase:  phrase,
	}
	if extraction.Qty == nil {
		sess.State = enums.StateAwaitingQuantity
		return true, askQuantityReply(product)
	}
	sess.State = enums.StateAwaitingUnit
	return true, askUnitReply(product)
}

// completePending moves the finished pending item into the cart and resumes
// queue draining.
func (s *service) completePending(ctx context.Context, sess *Session) ([]Reply, error) {
	pending := sess.Pending
	sess.Pending = nil
	s.pushLine(sess, pending.Product, *pending.Qty, pending.Unit)
	return s.drainQueue(ctx, sess)
}

func (s *service) pushLine(sess *Session, product ProductRef, qty int, unit string) {
	line := LineItem{
		SKU:          product.SKU,
		Name:         product.Name,
		ShortName:    product.ShortName,
		Qty:          qty,
		Unit:         unit,
		FacilityCode: product.FacilityCode,
	}
	if code, ok := product.UnitCodes[unit]; ok {
		line.UnitCode = &code
	}
	sess.Cart = append(sess.Cart, line)
}

func productRef(p *models.Product) ProductRef {
	return ProductRef{
		SKU:          p.SKU,
		Name:         p.Name,
		ShortName:    p.ShortName,
		Units:        []string(p.Units),
		UnitCodes:    map[string]string(p.UnitCodes),
		FacilityCode: p.FacilityCode,
	}
}
