package conversation

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/angelmondragon/pedidoz-backend/internal/catalog"
	"github.com/angelmondragon/pedidoz-backend/internal/nlu"
	"github.com/angelmondragon/pedidoz-backend/internal/orders"
	"github.com/angelmondragon/pedidoz-backend/pkg/config"
	"github.com/angelmondragon/pedidoz-backend/pkg/db/models"
	"github.com/angelmondragon/pedidoz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
	"github.com/angelmondragon/pedidoz-backend/pkg/logger"
	"github.com/angelmondragon/pedidoz-backend/pkg/oracle"
	"github.com/angelmondragon/pedidoz-backend/pkg/types"
	"github.com/angelmondragon/pedidoz-backend/pkg/whatsapp"
)

const testWaID = "521234567890"

func testProducts() []models.Product {
	return []models.Product{
		{
			SKU: "LECHE-001", Name: "Leche Entera 1L", ShortName: "Leche Entera",
			SearchTerms: types.StringList{"leche"},
			Units:       types.StringList{"caja", "unidad"},
			UnitCodes:   types.StringMap{"caja": "CS", "unidad": "EA"},
		},
		{
			SKU: "CERV-001", Name: "Cerveza Clara 355ml", ShortName: "Cerveza Clara",
			SearchTerms: types.StringList{"cerveza"},
			Units:       types.StringList{"caja", "six"},
		},
		{
			SKU: "CERV-002", Name: "Cerveza Oscura 355ml", ShortName: "Cerveza Oscura",
			SearchTerms: types.StringList{"cerveza"},
			Units:       types.StringList{"caja", "six"},
		},
		{
			SKU: "GAS-001", Name: "Gaseosa Cola 2L", ShortName: "Gaseosa Cola",
			SearchTerms: types.StringList{"gaseosa", "gaseosas", "refresco"},
			Units:       types.StringList{"botella", "caja"},
		},
		{
			SKU: "PAN-001", Name: "Pan Blanco Grande", ShortName: "Pan Blanco",
			SearchTerms: types.StringList{"pan"},
		},
	}
}

type stubCatalog struct {
	products []models.Product
	err      error
}

func (s *stubCatalog) Match(ctx context.Context, text string) ([]models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return catalog.Match(text, s.products), nil
}

type stubStore struct {
	sessions    map[string]*Session
	acquireOK   bool
	acquireErr  error
	getErr      error
	setErr      error
	setCalls    int
	clearCalls  int
	released    []string
	lastSetUser string
}

func newStubStore() *stubStore {
	return &stubStore{sessions: map[string]*Session{}, acquireOK: true}
}

func (s *stubStore) Get(ctx context.Context, waID string) (*Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if sess, ok := s.sessions[waID]; ok {
		return sess, nil
	}
	return NewIdleSession(), nil
}

func (s *stubStore) Set(ctx context.Context, waID string, sess *Session) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.setCalls++
	s.lastSetUser = waID
	s.sessions[waID] = sess
	return nil
}

func (s *stubStore) Clear(ctx context.Context, waID string) error {
	s.clearCalls++
	delete(s.sessions, waID)
	return nil
}

func (s *stubStore) Acquire(ctx context.Context, waID string) (string, bool, error) {
	if s.acquireErr != nil {
		return "", false, s.acquireErr
	}
	return "lease-token", s.acquireOK, nil
}

func (s *stubStore) Release(ctx context.Context, waID, token string) error {
	s.released = append(s.released, token)
	return nil
}

type stubOrders struct {
	placed    []orders.PlaceOrderInput
	placeErr  error
	statusDTO *orders.OrderDTO
}

func (s *stubOrders) Place(ctx context.Context, input orders.PlaceOrderInput) (*orders.OrderDTO, error) {
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	s.placed = append(s.placed, input)
	return &orders.OrderDTO{OrderNumber: 1001, WaID: input.WaID, Status: enums.OrderStatusReceived}, nil
}

func (s *stubOrders) Status(ctx context.Context, orderNumber int64) (*orders.OrderDTO, error) {
	if s.statusDTO != nil && s.statusDTO.OrderNumber == orderNumber {
		return s.statusDTO, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

type sentButtons struct {
	header  string
	body    string
	buttons []whatsapp.ReplyButton
}

type sentList struct {
	body string
	rows []whatsapp.ListRow
}

type stubMessenger struct {
	texts      []string
	buttonMsgs []sentButtons
	listMsgs   []sentList
	marked     []string
}

func (s *stubMessenger) MarkRead(ctx context.Context, messageID string) error {
	s.marked = append(s.marked, messageID)
	return nil
}

func (s *stubMessenger) SendText(ctx context.Context, waID, body string) error {
	s.texts = append(s.texts, body)
	return nil
}

func (s *stubMessenger) SendButtons(ctx context.Context, waID, header, body string, buttons []whatsapp.ReplyButton) error {
	s.buttonMsgs = append(s.buttonMsgs, sentButtons{header: header, body: body, buttons: buttons})
	return nil
}

func (s *stubMessenger) SendList(ctx context.Context, waID, body, buttonLabel string, rows []whatsapp.ListRow) error {
	s.listMsgs = append(s.listMsgs, sentList{body: body, rows: rows})
	return nil
}

func (s *stubMessenger) sendCount() int {
	return len(s.texts) + len(s.buttonMsgs) + len(s.listMsgs)
}

type stubRecorder struct {
	entries []*models.ConversationLog
}

func (s *stubRecorder) Record(ctx context.Context, entry *models.ConversationLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

type fakeEntityOracle struct {
	entities oracle.Entities
	err      error
}

func (f *fakeEntityOracle) ExtractEntities(ctx context.Context, segment string) (oracle.Entities, error) {
	if f.err != nil {
		return oracle.Entities{}, f.err
	}
	return f.entities, nil
}

type fixture struct {
	svc       Service
	store     *stubStore
	orders    *stubOrders
	messenger *stubMessenger
	recorder  *stubRecorder
}

func newFixture(t *testing.T, opts ...func(*ServiceParams)) *fixture {
	t.Helper()

	store := newStubStore()
	ordersStub := &stubOrders{}
	messenger := &stubMessenger{}
	recorder := &stubRecorder{}

	params := ServiceParams{
		Catalog:   &stubCatalog{products: testProducts()},
		Sessions:  store,
		Orders:    ordersStub,
		Messenger: messenger,
		Segmenter: nlu.NewSegmenter(nlu.SegmenterParams{}),
		Extractor: nlu.NewExtractor(nlu.ExtractorParams{}),
		Recorder:  recorder,
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Bot:       config.BotConfig{CancelKeyword: "cancelar", ResetKeyword: "reiniciar"},
	}
	for _, opt := range opts {
		opt(&params)
	}

	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, store: store, orders: ordersStub, messenger: messenger, recorder: recorder}
}

func (f *fixture) turn(t *testing.T, text string) {
	t.Helper()
	msg := whatsapp.Inbound{WaID: testWaID, MessageID: "wamid.test", Text: text, Supported: true}
	if err := f.svc.HandleTurn(context.Background(), msg); err != nil {
		t.Fatalf("turn %q: %v", text, err)
	}
}

func (f *fixture) session(t *testing.T) *Session {
	t.Helper()
	sess, ok := f.store.sessions[testWaID]
	if !ok {
		t.Fatal("no session persisted")
	}
	return sess
}

func (f *fixture) startOrder(t *testing.T) {
	t.Helper()
	f.turn(t, "hola")
	f.turn(t, MenuPlaceOrderID)
	if got := f.session(t).State; got != enums.StateCollectingOrderText {
		t.Fatalf("expected collecting state, got %s", got)
	}
}

func TestFirstContactShowsMainMenu(t *testing.T) {
	f := newFixture(t)
	f.turn(t, "hola")

	if len(f.messenger.buttonMsgs) != 1 {
		t.Fatalf("expected one button message, got %d", len(f.messenger.buttonMsgs))
	}
	buttons := f.messenger.buttonMsgs[0].buttons
	if len(buttons) != 3 || buttons[0].ID != MenuPlaceOrderID {
		t.Fatalf("unexpected menu buttons %+v", buttons)
	}
	if got := f.session(t).State; got != enums.StateMainMenu {
		t.Fatalf("expected main menu state, got %s", got)
	}
}

func TestUnrecognizedMenuInputRepromptsWithoutAdvancing(t *testing.T) {
	f := newFixture(t)
	f.turn(t, "hola")
	f.turn(t, "algo que no es una opción")

	if got := f.session(t).State; got != enums.StateMainMenu {
		t.Fatalf("state advanced on unrecognized input: %s", got)
	}
	if len(f.messenger.buttonMsgs) != 2 {
		t.Fatalf("expected menu re-prompt, got %d button messages", len(f.messenger.buttonMsgs))
	}
}

func TestSingleItemResolvedInlineShowsCart(t *testing.T) {
	f := newFixture(t)
	f.startOrder(t)
	f.turn(t, "2 cajas de leche")

	sess := f.session(t)
	if sess.State != enums.StateReviewingCart {
		t.Fatalf("expected reviewing cart, got %s", sess.State)
	}
	if len(sess.Cart) != 1 {
		t.Fatalf("expected one cart line, got %d", len(sess.Cart))
	}
	line := sess.Cart[0]
	if line.SKU != "LECHE-001" || line.Qty != 2 || line.Unit != "caja" {
		t.Fatalf("unexpected line %+v", line)
	}
	if line.UnitCode == nil || *line.UnitCode != "CS" {
		t.Fatalf("expected unit code CS, got %v", line.UnitCode)
	}
	if sess.Pending != nil || len(sess.Queue) != 0 {
		t.Fatal("inline resolution must leave no pending item or queue")
	}
}

func TestProductWithoutUnitsDefaultsToUnidad(t *testing.T) {
	f := newFixture(t)
	f.startOrder(t)
	f.turn(t, "3 pan")

	sess := f.session(t)
	if sess.State != enums.StateReviewingCart {
		t.Fatalf("expected reviewing cart, got %s", sess.State)
	}
	if len(sess.Cart) != 1 {
		t.Fatalf("expected one cart line, got %d", len(sess.Cart))
	}
	line := sess.Cart[0]
	if line.SKU != "PAN-001" || line.Qty != 3 || line.Unit != "unidad" {
		t.Fatalf("unexpected line %+v", line)
	}

	summary := f.messenger.buttonMsgs[len(f.messenger.buttonMsgs)-1].body
	if !strings.Contains(summary, "2 caja de Leche Entera 1L") {
		t.Fatalf("cart summary missing line: %q", summary)
	}
}

func TestMultiItemOrderSuspendsOnMissingUnit(t *testing.T) {
	f := newFixture(t)
	f.startOrder(t)
	f.turn(t, "2 cajas de leche y 3 gaseosas")

	sess := f.session(t)
	if sess.State != enums.StateAwaitingUnit {
		t.Fatalf("expected awaiting unit, got %s", sess.State)
	}
	if len(sess.Cart) != 1 || sess.Cart[0].SKU != "LECHE-001" {
		t.Fatalf("expected leche already in cart, got %+v", sess.Cart)
	}
	if sess.Pending == nil || sess.Pending.Product.SKU != "GAS-001" {
		t.Fatalf("expected pending gaseosa, got %+v", sess.Pending)
	}
	if sess.Pending.Qty == nil || *sess.Pending.Qty != 3 {
		t.Fatalf("expected pending qty 3, got %+v", sess.Pending.Qty)
	}

	f.turn(t, "botella")
	sess = f.session(t)
	if sess.State != enums.StateReviewingCart {
		t.Fatalf("expected reviewing cart after unit answer, got %s", sess.State)
	}
	if len(sess.Cart) != 2 || sess.Cart[1].Unit != "botella" {
		t.Fatalf("unexpected cart %+v", sess.Cart)
	}
}

func TestTieTriggersClarificationButtons(t *testing.T) {
	oracleStub := &fakeEntityOracle{entities: oracle.Entities{Qty: intPtr(1)}}
	f := newFixture(t, func(p *ServiceParams) {
		p.Extractor = nlu.NewExtractor(nlu.ExtractorParams{Oracle: oracleStub})
	})
	f.startOrder(t)
	f.turn(t, "una cerveza")

	sess := f.session(t)
	if sess.State != enums.StateAwaitingClarification {
		t.Fatalf("expected awaiting clarification, got %s", sess.State)
	}
	if sess.Clarify == nil || len(sess.Clarify.Options) != 2 {
		t.Fatalf("expected two clarification options, got %+v", sess.Clarify)
	}

	choice := f.messenger.buttonMsgs[len(f.messenger.buttonMsgs)-1]
	if len(choice.buttons) != 2 {
		t.Fatalf("expected two buttons, got %+v", choice.buttons)
	}
	if choice.buttons[0].ID != "CERV-001" || choice.buttons[1].ID != "CERV-002" {
		t.Fatalf("buttons not keyed by sku: %+v", choice.buttons)
	}

	// the pick re-runs extraction against "una cerveza": the oracle fills
	// quantity 1, no unit resolves, so the unit menu follows
	f.turn(t, "CERV-001")
	sess = f.session(t)
	if sess.State != enums.StateAwaitingUnit {
		t.Fatalf("expected awaiting unit after pick, got %s", sess.State)
	}
	if sess.Pending == nil || sess.Pending.Product.SKU != "CERV-001" {
		t.Fatalf("unexpected pending %+v", sess.Pending)
	}
	if sess.Pending.Qty == nil || *sess.Pending.Qty != 1 {
		t.Fatalf("expected oracle-filled qty 1, got %+v", sess.Pending.Qty)
	}
	if sess.Clarify != nil {
		t.Fatal("clarification context must be cleared after the pick")
	}
}

func TestUnrecognizedClarificationRepromptsSameOptions(t *testing.T) {
	f := newFixture(t)
	f.startOrder(t)
	f.turn(t, "una cerveza")
	before := len(f.messenger.buttonMsgs)

	f.turn(t, "no entiendo")
	sess := f.session(t)
	if sess.State != enums.StateAwaitingClarification {
		t.Fatalf("unrecognized pick advanced state to %s", sess.State)
	}
	if len(f.messenger.buttonMsgs) != before+1 {
		t.Fatal("expected the choice to be re-sent")
	}
}

func TestZeroMatchesNotifiesAndAdvancesQueue(t *testing.T) {
	f := newFixture(t)
	f.startOrder(t)
	f.turn(t, "pizza congelada y 2 cajas de leche")

	sess := f.session(t)
	if sess.State != enums.StateReviewingCart {
		t.Fatalf("expected reviewing cart, got %s", sess.State)
	}
	if len(sess.Cart) != 1 || sess.Cart[0].SKU != "LECHE-001" {
		t.Fatalf("expected only leche in cart, got %+v", sess.Cart)
	}
	foundNotFound := false
	for _, text := range f.messenger.texts {
		if strings.Contains(text, "No encontré") {
			foundNotFound = true
		}
	}
	if !foundNotFound {
		t.Fatal("expected a not-found notice for the unknown segment")
	}
}

func TestMissingQuantityAsksThenCompletes(t *testing.T) {
	f := newFixture(t)
	f.startOrder(t)
	f.turn(t, "leche")

	sess := f.session(t)
	if sess.State != enums.StateAwaitingQuantity {
		t.Fatalf("expected awaiting quantity, got %s", sess.State)
	}

	// a digit-free answer re-prompts without advancing
	f.turn(t, "cinco")
	if got := f.session(t).State; got != enums.StateAwaitingQuantity {
		t.Fatalf("re-prompt advanced state to %s", got)
	}

	// the answer may carry the unit too
	f.turn(t, "2 cajas")
	sess = f.session(t)
	if sess.State != enums.StateReviewingCart {
		t.Fatalf("expected reviewing cart, got %s", sess.State)
	}
	if len(sess.Cart) != 1 || sess.Cart[0].Qty != 2 || sess.Cart[0].Unit != "caja" {
		t.Fatalf("unexpected cart %+v", sess.Cart)
	}
}

func TestConfirmPlacesOrderExactlyOnce(t *testing.T) {
	f := newFixture(t)
	f.startOrder(t)
	f.turn(t, "2 cajas de leche")
	f.turn(t, "confirmar")

	if got := f.session(t).State; got != enums.StateAwaitingFinalConfirmation {
		t.Fatalf("expected final confirmation, got %s", got)
	}

	f.turn(t, "si")
	if len(f.orders.placed) != 1 {
		t.Fatalf("expected one placed order, got %d", len(f.orders.placed))
	}
	placed := f.orders.placed[0]
	if placed.WaID != testWaID || len(placed.Lines) != 1 || placed.Lines[0].SKU != "LECHE-001" {
		t.Fatalf("unexpected order input %+v", placed)
	}
	if got := f.session(t).State; got != enums.StateIdle {
		t.Fatalf("expected idle after confirm, got %s", got)
	}

	// the duplicate confirmation lands in idle: greeted, never re-ordered
	f.turn(t, "si")
	if len(f.orders.placed) != 1 {
		t.Fatalf("duplicate confirmation created a second order: %d", len(f.orders.placed))
	}
}

func TestDeclineReturnsToCartReview(t *testing.T) {
	f := newFixture(t)
	f.startOrder(t)
	f.turn(t, "2 cajas de leche")
	f.turn(t, "confirmar")
	f.turn(t, "no")

	sess := f.session(t)
	if sess.State != enums.StateReviewingCart {
		t.Fatalf("expected reviewing cart after decline, got %s", sess.State)
	}
	if len(sess.Cart) != 1 {
		t.Fatal("decline must keep the cart")
	}
	if len(f.orders.placed) != 0 {
		t.Fatal("decline must not place an order")
	}
}

func TestRemoveLineByIndex(t *testing.T) {
	f := newFixture(t)
	f.startOrder(t)
	f.turn(t, "2 cajas de leche, 3 botellas de gaseosa")

	sess := f.session(t)
	if len(sess.Cart) != 2 {
		t.Fatalf("expected two cart lines, got %d", len(sess.Cart))
	}

	f.turn(t, "eliminar 1")
	sess = f.session(t)
	if len(sess.Cart) != 1 || sess.Cart[0].SKU != "GAS-001" {
		t.Fatalf("expected only gaseosa left, got %+v", sess.Cart)
	}

	f.turn(t, "eliminar 1")
	sess = f.session(t)
	if got := sess.State; got != enums.StateCollectingOrderText {
		t.Fatalf("emptying the cart should ask for products again, got %s", got)
	}
}

func TestCancelFromAnyStateResetsToIdle(t *testing.T) {
	f := newFixture(t)
	f.startOrder(t)
	f.turn(t, "2 cajas de leche y una cerveza")

	// suspended mid-order with cart content
	if got := f.session(t).State; got == enums.StateIdle {
		t.Fatal("fixture should be mid-order")
	}

	f.turn(t, "cancelar")
	sess := f.session(t)
	if sess.State != enums.StateIdle {
		t.Fatalf("expected idle after cancel, got %s", sess.State)
	}
	if len(sess.Cart) != 0 || sess.Pending != nil || sess.Clarify != nil || len(sess.Queue) != 0 {
		t.Fatalf("cancel left order data behind: %+v", sess)
	}
	last := f.messenger.texts[len(f.messenger.texts)-1]
	if !strings.Contains(last, "Operación cancelada") {
		t.Fatalf("expected cancellation notice, got %q", last)
	}

	// a fresh order starts with an empty queue and cart
	f.startOrder(t)
	f.turn(t, "2 cajas de leche")
	sess = f.session(t)
	if len(sess.Cart) != 1 {
		t.Fatalf("fresh order should have exactly the new line, got %+v", sess.Cart)
	}
}

func TestResetClearsStoredSession(t *testing.T) {
	f := newFixture(t)
	f.startOrder(t)
	f.turn(t, "reiniciar")

	if f.store.clearCalls == 0 {
		t.Fatal("reset must clear the stored session")
	}
	if _, ok := f.store.sessions[testWaID]; ok {
		t.Fatal("session key should be gone after reset")
	}
}

func TestDuplicateDeliveryDroppedWhileLeaseHeld(t *testing.T) {
	f := newFixture(t)
	f.store.acquireOK = false

	f.turn(t, "hola")
	if f.messenger.sendCount() != 0 {
		t.Fatal("dropped turn must not send messages")
	}
	if f.store.setCalls != 0 {
		t.Fatal("dropped turn must not write the session")
	}
}

func TestCorruptedSessionForcesIdleWithApology(t *testing.T) {
	f := newFixture(t)
	f.store.getErr = pkgerrors.New(pkgerrors.CodeStateConflict, "bad payload")

	f.turn(t, "hola")
	if len(f.messenger.texts) != 1 || !strings.Contains(f.messenger.texts[0], "Lo siento") {
		t.Fatalf("expected apology, got %+v", f.messenger.texts)
	}

	f.store.getErr = nil
	if got := f.session(t).State; got != enums.StateIdle {
		t.Fatalf("expected idle persisted after corruption, got %s", got)
	}
}

func TestHandlerFailureResetsSessionAndApologizes(t *testing.T) {
	f := newFixture(t, func(p *ServiceParams) {
		p.Catalog = &stubCatalog{err: errors.New("db down")}
	})
	f.startOrder(t)

	msg := whatsapp.Inbound{WaID: testWaID, MessageID: "wamid.err", Text: "2 cajas de leche", Supported: true}
	if err := f.svc.HandleTurn(context.Background(), msg); err == nil {
		t.Fatal("expected the collaborator error to surface")
	}

	if got := f.session(t).State; got != enums.StateIdle {
		t.Fatalf("expected forced idle, got %s", got)
	}
	last := f.messenger.texts[len(f.messenger.texts)-1]
	if !strings.Contains(last, "Lo siento") {
		t.Fatalf("expected apology, got %q", last)
	}
}

func TestUnsupportedMessageGetsPoliteReply(t *testing.T) {
	f := newFixture(t)
	msg := whatsapp.Inbound{WaID: testWaID, MessageID: "wamid.img", Supported: false}
	if err := f.svc.HandleTurn(context.Background(), msg); err != nil {
		t.Fatalf("turn: %v", err)
	}
	if len(f.messenger.texts) != 1 || !strings.Contains(f.messenger.texts[0], "solo puedo procesar") {
		t.Fatalf("expected unsupported notice, got %+v", f.messenger.texts)
	}
	if f.store.setCalls != 0 {
		t.Fatal("unsupported turn must not touch the session")
	}
}

func TestOrderStatusLookup(t *testing.T) {
	f := newFixture(t)
	f.orders.statusDTO = &orders.OrderDTO{
		OrderNumber: 1001,
		WaID:        testWaID,
		Status:      enums.OrderStatusSubmitted,
		Lines:       []orders.OrderLineDTO{{SKU: "LECHE-001", Qty: 2, Unit: "caja"}},
	}

	f.turn(t, "hola")
	f.turn(t, MenuOrderStatusID)
	if got := f.session(t).State; got != enums.StateAwaitingOrderStatusID {
		t.Fatalf("expected awaiting order number, got %s", got)
	}

	// non-numeric input re-prompts
	f.turn(t, "no lo sé")
	if got := f.session(t).State; got != enums.StateAwaitingOrderStatusID {
		t.Fatalf("re-prompt advanced state to %s", got)
	}

	f.turn(t, "es el 1001")
	last := f.messenger.texts[len(f.messenger.texts)-1]
	if !strings.Contains(last, "#1001") || !strings.Contains(last, "submitted") {
		t.Fatalf("unexpected status reply %q", last)
	}
	if got := f.session(t).State; got != enums.StateIdle {
		t.Fatalf("expected idle after lookup, got %s", got)
	}

	f.turn(t, "hola")
	f.turn(t, MenuOrderStatusID)
	f.turn(t, "9999")
	last = f.messenger.texts[len(f.messenger.texts)-1]
	if !strings.Contains(last, "No encontré el pedido #9999") {
		t.Fatalf("expected not-found reply, got %q", last)
	}
}

func TestEveryTurnIsRecorded(t *testing.T) {
	f := newFixture(t)
	f.turn(t, "hola")
	f.turn(t, MenuPlaceOrderID)

	if len(f.recorder.entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(f.recorder.entries))
	}
	entry := f.recorder.entries[0]
	if entry.WaID != testWaID || entry.UserMessage != "hola" || entry.BotResponse == "" {
		t.Fatalf("unexpected log entry %+v", entry)
	}
	if entry.State != enums.StateMainMenu {
		t.Fatalf("log should carry the post-turn state, got %s", entry.State)
	}
}

func intPtr(v int) *int { return &v }
