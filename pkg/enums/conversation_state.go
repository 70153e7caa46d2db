package enums

import "fmt"

// ConversationState tags where a user sits in the order-taking flow.
type ConversationState string

const (
	StateIdle                      ConversationState = "IDLE"
	StateMainMenu                  ConversationState = "MAIN_MENU"
	StateCollectingOrderText       ConversationState = "COLLECTING_ORDER_TEXT"
	StateAwaitingQuantity          ConversationState = "AWAITING_QUANTITY"
	StateAwaitingUnit              ConversationState = "AWAITING_UNIT"
	StateAwaitingClarification     ConversationState = "AWAITING_CLARIFICATION"
	StateReviewingCart             ConversationState = "REVIEWING_CART"
	StateAwaitingFinalConfirmation ConversationState = "AWAITING_FINAL_CONFIRMATION"
	StateAwaitingOrderStatusID     ConversationState = "AWAITING_ORDER_STATUS_ID"
)

var validConversationStates = []ConversationState{
	StateIdle,
	StateMainMenu,
	StateCollectingOrderText,
	StateAwaitingQuantity,
	StateAwaitingUnit,
	StateAwaitingClarification,
	StateReviewingCart,
	StateAwaitingFinalConfirmation,
	StateAwaitingOrderStatusID,
}

// String implements fmt.Stringer.
func (s ConversationState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ConversationState.
func (s ConversationState) IsValid() bool {
	for _, candidate := range validConversationStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseConversationState converts raw input into a ConversationState.
func ParseConversationState(value string) (ConversationState, error) {
	for _, candidate := range validConversationStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid conversation state %q", value)
}
