package conversation

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/angelmondragon/pedidoz-backend/internal/nlu"
	"github.com/angelmondragon/pedidoz-backend/internal/orders"
	"github.com/angelmondragon/pedidoz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
)

var (
	orderNumberRe = regexp.MustCompile(`\d+`)
	removeLineRe  = regexp.MustCompile(`^(?:eliminar|quitar)\s+(\d+)$`)
)

// dispatch routes one turn to the current state's handler. Input is the
// lowercased message text or the raw interactive reply identifier.
func (s *service) dispatch(ctx context.Context, waID string, sess *Session, input string) ([]Reply, error) {
	switch sess.State {
	case enums.StateIdle:
		return s.handleIdle(sess)
	case enums.StateMainMenu:
		return s.handleMainMenu(sess, input)
	case enums.StateCollectingOrderText:
		return s.handleCollectingOrder(ctx, sess, input)
	case enums.StateAwaitingQuantity:
		return s.handleAwaitingQuantity(ctx, sess, input)
	case enums.StateAwaitingUnit:
		return s.handleAwaitingUnit(ctx, sess, input)
	case enums.StateAwaitingClarification:
		return s.handleAwaitingClarification(ctx, sess, input)
	case enums.StateReviewingCart:
		return s.handleReviewingCart(sess, input)
	case enums.StateAwaitingFinalConfirmation:
		return s.handleFinalConfirmation(ctx, waID, sess, input)
	case enums.StateAwaitingOrderStatusID:
		return s.handleOrderStatus(ctx, sess, input)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "unknown conversation state "+sess.State.String())
	}
}

// handleIdle greets any first contact with the main menu.
func (s *service) handleIdle(sess *Session) ([]Reply, error) {
	sess.State = enums.StateMainMenu
	return []Reply{mainMenuReply()}, nil
}

func (s *service) handleMainMenu(sess *Session, input string) ([]Reply, error) {
	switch {
	case strings.EqualFold(input, MenuPlaceOrderID):
		sess.State = enums.StateCollectingOrderText
		return []Reply{textReply(replyAskProduct)}, nil
	case strings.EqualFold(input, MenuCreditID):
		sess.Reset()
		return []Reply{textReply(replyCreditStub)}, nil
	case strings.EqualFold(input, MenuOrderStatusID):
		sess.State = enums.StateAwaitingOrderStatusID
		return []Reply{textReply(replyAskOrderNumber)}, nil
	default:
		// unrecognized menu input re-prompts without advancing
		return []Reply{mainMenuReply()}, nil
	}
}

// handleCollectingOrder segments the utterance into the queue and hands the
// queue to the orchestrator.
func (s *service) handleCollectingOrder(ctx context.Context, sess *Session, input string) ([]Reply, error) {
	segments := s.segmenter.Segment(ctx, input)
	if len(segments) == 0 {
		return []Reply{textReply(replyAskProduct)}, nil
	}
	sess.Queue = append(sess.Queue, segments...)
	return s.drainQueue(ctx, sess)
}

// handleAwaitingQuantity reads the answer for the pending item's quantity.
// The answer may also carry the unit ("2 cajas"), so both fields are read.
func (s *service) handleAwaitingQuantity(ctx context.Context, sess *Session, input string) ([]Reply, error) {
	pending := sess.Pending
	extraction := nlu.ExtractRules(input, pending.Product.Units)
	if extraction.Qty == nil {
		return []Reply{askQuantityReply(pending.Product)}, nil
	}

	pending.Qty = extraction.Qty
	if pending.Unit == "" && extraction.Unit != "" {
		pending.Unit = extraction.Unit
	}
	if pending.Unit == "" && len(pending.Product.Units) == 0 {
		pending.Unit = defaultUnit
	}
	if pending.Unit == "" {
		sess.State = enums.StateAwaitingUnit
		return []Reply{askUnitReply(pending.Product)}, nil
	}
	return s.completePending(ctx, sess)
}

// handleAwaitingUnit reads the answer for the pending item's unit, whether
// typed or picked from the unit menu.
func (s *service) handleAwaitingUnit(ctx context.Context, sess *Session, input string) ([]Reply, error) {
	pending := sess.Pending
	unit, ok := nlu.ResolveUnit(input, pending.Product.Units)
	if !ok {
		return []Reply{askUnitReply(pending.Product)}, nil
	}
	pending.Unit = unit
	return s.completePending(ctx, sess)
}

// handleAwaitingClarification resolves a tie: the reply identifier names the
// chosen SKU, and entity extraction re-runs against the original phrase
// bound to the chosen product.
func (s *service) handleAwaitingClarification(ctx context.Context, sess *Session, input string) ([]Reply, error) {
	clarify := sess.Clarify

	var chosen *ProductRef
	for i := range clarify.Options {
		if strings.EqualFold(input, clarify.Options[i].SKU) {
			chosen = &clarify.Options[i]
			break
		}
	}
	if chosen == nil {
		_, reply, err := buildClarification(clarify.Phrase, clarify.Options)
		if err != nil {
			return nil, err
		}
		return []Reply{reply}, nil
	}

	sess.Clarify = nil
	suspended, ask := s.resolveSegment(ctx, sess, *chosen, clarify.Phrase)
	if suspended {
		return []Reply{ask}, nil
	}
	return s.drainQueue(ctx, sess)
}

func (s *service) handleReviewingCart(sess *Session, input string) ([]Reply, error) {
	if strings.EqualFold(input, CartConfirmID) || input == "confirmar" {
		sess.State = enums.StateAwaitingFinalConfirmation
		return []Reply{finalConfirmationReply(sess.Cart)}, nil
	}
	if strings.EqualFold(input, CartAddMoreID) || input == "agregar" {
		sess.State = enums.StateCollectingOrderText
		return []Reply{textReply(replyAskProduct)}, nil
	}
	if m := removeLineRe.FindStringSubmatch(input); m != nil {
		index, err := strconv.Atoi(m[1])
		if err != nil || index < 1 || index > len(sess.Cart) {
			return []Reply{cartSummaryReply(sess.Cart)}, nil
		}
		sess.Cart = append(sess.Cart[:index-1], sess.Cart[index:]...)
		if len(sess.Cart) == 0 {
			sess.State = enums.StateCollectingOrderText
			return []Reply{textReply(replyAskProduct)}, nil
		}
		return []Reply{cartSummaryReply(sess.Cart)}, nil
	}
	return []Reply{cartSummaryReply(sess.Cart)}, nil
}

// handleFinalConfirmation places the order exactly once. The session resets
// before this turn's state is persisted, so a duplicate confirmation lands
// in idle and is dispatched as a fresh greeting, never a second order.
func (s *service) handleFinalConfirmation(ctx context.Context, waID string, sess *Session, input string) ([]Reply, error) {
	confirmed := strings.EqualFold(input, ConfirmYesID) ||
		input == "si" || input == "sí" || input == "confirmar"
	declined := strings.EqualFold(input, ConfirmNoID) ||
		input == "no" || input == "volver"

	switch {
	case confirmed:
		lines := make([]orders.LineInput, 0, len(sess.Cart))
		facility := ""
		for _, item := range sess.Cart {
			lines = append(lines, orders.LineInput{
				SKU:          item.SKU,
				Name:         item.Name,
				ShortName:    item.ShortName,
				Qty:          item.Qty,
				Unit:         item.Unit,
				UnitCode:     item.UnitCode,
				FacilityCode: item.FacilityCode,
			})
			if facility == "" {
				facility = item.FacilityCode
			}
		}
		placed, err := s.orders.Place(ctx, orders.PlaceOrderInput{
			WaID:         waID,
			FacilityCode: facility,
			Lines:        lines,
		})
		if err != nil {
			return nil, err
		}
		s.metrics.IncOrderPlaced()
		sess.Reset()
		return []Reply{orderPlacedReply(placed.OrderNumber)}, nil
	case declined:
		sess.State = enums.StateReviewingCart
		return []Reply{cartSummaryReply(sess.Cart)}, nil
	default:
		return []Reply{finalConfirmationReply(sess.Cart)}, nil
	}
}

// handleOrderStatus looks up a previously placed order by its number.
func (s *service) handleOrderStatus(ctx context.Context, sess *Session, input string) ([]Reply, error) {
	raw := orderNumberRe.FindString(input)
	if raw == "" {
		return []Reply{textReply(replyBadOrderNumber)}, nil
	}
	orderNumber, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return []Reply{textReply(replyBadOrderNumber)}, nil
	}

	order, err := s.orders.Status(ctx, orderNumber)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
			sess.Reset()
			return []Reply{orderNotFoundReply(orderNumber)}, nil
		}
		return nil, err
	}
	sess.Reset()
	return []Reply{orderStatusReply(order.OrderNumber, order.Status, len(order.Lines))}, nil
}
