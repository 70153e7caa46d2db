package conversation

import (
	"fmt"

	"github.com/angelmondragon/pedidoz-backend/pkg/enums"
)

// ProductRef is the denormalized catalog snapshot carried by a pending item
// or an offered choice. Catalog changes after the snapshot do not affect an
// in-flight order.
type ProductRef struct {
	SKU          string            `json:"sku"`
	Name         string            `json:"name"`
	ShortName    string            `json:"short_name"`
	Units        []string          `json:"units"`
	UnitCodes    map[string]string `json:"unit_codes,omitempty"`
	FacilityCode string            `json:"facility_code,omitempty"`
}

// LineItem is one resolved cart entry.
type LineItem struct {
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	ShortName    string  `json:"short_name"`
	Qty          int     `json:"qty"`
	Unit         string  `json:"unit"`
	UnitCode     *string `json:"unit_code,omitempty"`
	FacilityCode string  `json:"facility_code,omitempty"`
}

// PendingItem is a line item under construction: the product is known, the
// quantity and unit may not be. The original phrase is kept so follow-up
// answers can be combined with what the phrase already said.
type PendingItem struct {
	Product ProductRef `json:"product"`
	Qty     *int       `json:"qty,omitempty"`
	Unit    string     `json:"unit,omitempty"`
	Phrase  string     `json:"phrase"`
}

// ClarifyContext is the reply-resolution context for a tie: the original
// phrase plus the offered candidates keyed by SKU.
type ClarifyContext struct {
	Phrase  string       `json:"phrase"`
	Options []ProductRef `json:"options"`
}

// Session is one user's conversation record. The State tag decides which of
// the optional fields are live; Validate enforces the combinations so a
// stored session can't mix drivers (queue vs. pending item).
type Session struct {
	State   enums.ConversationState `json:"state"`
	Cart    []LineItem              `json:"cart,omitempty"`
	Queue   []string                `json:"queue,omitempty"`
	Pending *PendingItem            `json:"pending,omitempty"`
	Clarify *ClarifyContext         `json:"clarify,omitempty"`
}

// NewIdleSession returns the default session for a user with no history.
func NewIdleSession() *Session {
	return &Session{State: enums.StateIdle}
}

// Reset discards everything and returns the session to idle.
func (s *Session) Reset() {
	s.State = enums.StateIdle
	s.Cart = nil
	s.Queue = nil
	s.Pending = nil
	s.Clarify = nil
}

// Validate checks that the tagged fields match the state. A session that
// fails validation is treated as corrupted.
func (s *Session) Validate() error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}
	if !s.State.IsValid() {
		return fmt.Errorf("unknown state %q", s.State)
	}

	switch s.State {
	case enums.StateIdle, enums.StateMainMenu, enums.StateAwaitingOrderStatusID:
		if len(s.Cart) > 0 || len(s.Queue) > 0 || s.Pending != nil || s.Clarify != nil {
			return fmt.Errorf("state %s carries order data", s.State)
		}
	case enums.StateCollectingOrderText, enums.StateReviewingCart, enums.StateAwaitingFinalConfirmation:
		if s.Pending != nil || s.Clarify != nil {
			return fmt.Errorf("state %s carries a pending item", s.State)
		}
	case enums.StateAwaitingQuantity, enums.StateAwaitingUnit:
		if s.Pending == nil {
			return fmt.Errorf("state %s requires a pending item", s.State)
		}
		if s.Clarify != nil {
			return fmt.Errorf("state %s carries clarification context", s.State)
		}
	case enums.StateAwaitingClarification:
		if s.Clarify == nil {
			return fmt.Errorf("state %s requires clarification context", s.State)
		}
		if s.Pending != nil {
			return fmt.Errorf("state %s carries a pending item", s.State)
		}
	}

	// the queue and the pending item are mutually exclusive drivers only in
	// the sense that one decision is outstanding at a time; a pending item
	// with a non-empty queue is fine (the queue resumes after resolution)
	return nil
}
