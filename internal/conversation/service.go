package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/pedidoz-backend/internal/nlu"
	"github.com/angelmondragon/pedidoz-backend/internal/orders"
	"github.com/angelmondragon/pedidoz-backend/pkg/config"
	"github.com/angelmondragon/pedidoz-backend/pkg/db/models"
	"github.com/angelmondragon/pedidoz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
	"github.com/angelmondragon/pedidoz-backend/pkg/logger"
	"github.com/angelmondragon/pedidoz-backend/pkg/metrics"
	"github.com/angelmondragon/pedidoz-backend/pkg/whatsapp"
)

// Service handles one inbound WhatsApp message end to end.
type Service interface {
	HandleTurn(ctx context.Context, msg whatsapp.Inbound) error
}

type catalogReader interface {
	Match(ctx context.Context, text string) ([]models.Product, error)
}

type sessionStore interface {
	Get(ctx context.Context, waID string) (*Session, error)
	Set(ctx context.Context, waID string, session *Session) error
	Clear(ctx context.Context, waID string) error
	Acquire(ctx context.Context, waID string) (token string, ok bool, err error)
	Release(ctx context.Context, waID, token string) error
}

type orderPlacer interface {
	Place(ctx context.Context, input orders.PlaceOrderInput) (*orders.OrderDTO, error)
	Status(ctx context.Context, orderNumber int64) (*orders.OrderDTO, error)
}

type messenger interface {
	MarkRead(ctx context.Context, messageID string) error
	SendText(ctx context.Context, waID, body string) error
	SendButtons(ctx context.Context, waID, header, body string, buttons []whatsapp.ReplyButton) error
	SendList(ctx context.Context, waID, body, buttonLabel string, rows []whatsapp.ListRow) error
}

type itemSegmenter interface {
	Segment(ctx context.Context, text string) []string
}

type entityExtractor interface {
	Extract(ctx context.Context, phrase string, units []string) nlu.Extraction
}

type turnRecorder interface {
	Record(ctx context.Context, entry *models.ConversationLog) error
}

type service struct {
	catalog   catalogReader
	store     sessionStore
	orders    orderPlacer
	messenger messenger
	segmenter itemSegmenter
	extractor entityExtractor
	recorder  turnRecorder
	metrics   *metrics.BotMetrics
	logg      *logger.Logger

	cancelKeyword string
	resetKeyword  string
	maxButtons    int
	maxListRows   int
}

// ServiceParams wires the conversation service dependencies. Recorder and
// Metrics are optional; everything else is required.
type ServiceParams struct {
	Catalog   catalogReader
	Sessions  sessionStore
	Orders    orderPlacer
	Messenger messenger
	Segmenter itemSegmenter
	Extractor entityExtractor
	Recorder  turnRecorder
	Metrics   *metrics.BotMetrics
	Logger    *logger.Logger
	Bot       config.BotConfig
}

// NewService constructs the conversation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order service required")
	}
	if params.Messenger == nil {
		return nil, fmt.Errorf("messenger required")
	}
	if params.Segmenter == nil {
		return nil, fmt.Errorf("segmenter required")
	}
	if params.Extractor == nil {
		return nil, fmt.Errorf("extractor required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	cancelKeyword := strings.TrimSpace(params.Bot.CancelKeyword)
	if cancelKeyword == "" {
		cancelKeyword = "cancelar"
	}
	resetKeyword := strings.TrimSpace(params.Bot.ResetKeyword)
	if resetKeyword == "" {
		resetKeyword = "reiniciar"
	}
	maxButtons := params.Bot.MaxButtonChoices
	if maxButtons <= 0 || maxButtons > whatsapp.MaxReplyButtons {
		maxButtons = whatsapp.MaxReplyButtons
	}
	maxListRows := params.Bot.MaxListChoices
	if maxListRows <= 0 || maxListRows > whatsapp.MaxListRows {
		maxListRows = whatsapp.MaxListRows
	}

	return &service{
		catalog:       params.Catalog,
		store:         params.Sessions,
		orders:        params.Orders,
		messenger:     params.Messenger,
		segmenter:     params.Segmenter,
		extractor:     params.Extractor,
		recorder:      params.Recorder,
		metrics:       params.Metrics,
		logg:          params.Logger,
		cancelKeyword: cancelKeyword,
		resetKeyword:  resetKeyword,
		maxButtons:    maxButtons,
		maxListRows:   maxListRows,
	}, nil
}

// HandleTurn runs the full turn pipeline: take the per-user lease, mark the
// message read, dispatch to the state machine, deliver the replies, persist
// the session last, and append the conversation log. Any handler failure is
// caught here: the session is forced back to idle and the user gets an
// apology instead of silence.
func (s *service) HandleTurn(ctx context.Context, msg whatsapp.Inbound) error {
	ctx = s.logg.WithWaID(ctx, msg.WaID)
	start := time.Now()

	token, ok, err := s.store.Acquire(ctx, msg.WaID)
	if err != nil {
		s.logg.Error(ctx, "acquiring turn lease", err)
		s.deliver(ctx, msg.WaID, []Reply{textReply(replyApology)})
		return err
	}
	if !ok {
		s.logg.Warn(ctx, "turn dropped, another turn for this user is in flight")
		return nil
	}
	defer func() {
		if err := s.store.Release(ctx, msg.WaID, token); err != nil {
			s.logg.Error(ctx, "releasing turn lease", err)
		}
	}()

	if msg.MessageID != "" {
		if err := s.messenger.MarkRead(ctx, msg.MessageID); err != nil {
			s.logg.Warn(ctx, "marking message read failed: "+err.Error())
		}
	}

	if !msg.Supported {
		s.deliver(ctx, msg.WaID, []Reply{textReply(replyUnsupported)})
		return nil
	}

	entryState := enums.StateIdle
	skipPersist := false
	input := strings.TrimSpace(msg.Text)

	var replies []Reply
	var turnErr error

	sess, err := s.store.Get(ctx, msg.WaID)
	switch {
	case err != nil && isStateConflict(err):
		// corrupted session: fatal to the session, not to the user
		s.logg.Error(ctx, "session corrupted, forcing idle", err)
		sess = NewIdleSession()
		replies = []Reply{textReply(replyApology)}
	case err != nil:
		s.logg.Error(ctx, "loading session", err)
		s.deliver(ctx, msg.WaID, []Reply{textReply(replyApology)})
		s.metrics.IncTurnFailure(entryState.String())
		return err
	default:
		entryState = sess.State
		ctx = s.logg.WithState(ctx, entryState.String())

		switch {
		case s.matchesKeyword(input, s.resetKeyword) && sess.State != enums.StateIdle:
			if err := s.store.Clear(ctx, msg.WaID); err != nil {
				s.logg.Error(ctx, "clearing session on reset", err)
			}
			sess.Reset()
			skipPersist = true
			replies = []Reply{textReply(replyCanceled)}
		case s.matchesKeyword(input, s.cancelKeyword) && sess.State != enums.StateIdle:
			sess.Reset()
			replies = []Reply{textReply(replyCanceled)}
		default:
			replies, turnErr = s.dispatch(ctx, msg.WaID, sess, input)
			if turnErr != nil {
				s.logg.Error(ctx, "turn handler failed", turnErr)
				sess.Reset()
				replies = []Reply{textReply(replyApology)}
			}
		}
	}

	s.deliver(ctx, msg.WaID, replies)

	// persist state last: the user never observes a cart the store doesn't
	// have
	if !skipPersist {
		if err := s.store.Set(ctx, msg.WaID, sess); err != nil {
			s.logg.Error(ctx, "persisting session", err)
			s.deliver(ctx, msg.WaID, []Reply{textReply(replyApology)})
			if clearErr := s.store.Clear(ctx, msg.WaID); clearErr != nil {
				s.logg.Error(ctx, "clearing session after failed persist", clearErr)
			}
			turnErr = err
		}
	}

	s.record(ctx, msg, sess.State, replies)

	if turnErr != nil {
		s.metrics.IncTurnFailure(entryState.String())
	}
	s.metrics.ObserveTurn(entryState.String(), time.Since(start))
	return turnErr
}

// matchesKeyword mirrors the loose matching users expect from chat: the
// keyword anywhere in the message counts.
func (s *service) matchesKeyword(input, keyword string) bool {
	return keyword != "" && strings.Contains(input, keyword)
}

// deliver sends the turn's replies. Outbound messaging is fire-and-forget:
// a delivery failure is logged, never fails the turn.
func (s *service) deliver(ctx context.Context, waID string, replies []Reply) {
	for _, reply := range replies {
		var err error
		switch reply.Kind {
		case enums.MessagePayloadChoice:
			if len(reply.Options) <= s.maxButtons {
				buttons := make([]whatsapp.ReplyButton, 0, len(reply.Options))
				for _, opt := range reply.Options {
					buttons = append(buttons, whatsapp.ReplyButton{ID: opt.ID, Title: opt.Title})
				}
				err = s.messenger.SendButtons(ctx, waID, reply.Header, reply.Body, buttons)
			} else {
				options := reply.Options
				if len(options) > s.maxListRows {
					options = options[:s.maxListRows]
				}
				rows := make([]whatsapp.ListRow, 0, len(options))
				for _, opt := range options {
					rows = append(rows, whatsapp.ListRow{ID: opt.ID, Title: opt.Title, Description: opt.Description})
				}
				err = s.messenger.SendList(ctx, waID, reply.Body, reply.ButtonLabel, rows)
			}
		default:
			err = s.messenger.SendText(ctx, waID, reply.Body)
		}
		if err != nil {
			s.logg.Error(ctx, "delivering reply", err)
		}
	}
}

// record appends the turn to the conversation log, best effort.
func (s *service) record(ctx context.Context, msg whatsapp.Inbound, state enums.ConversationState, replies []Reply) {
	if s.recorder == nil {
		return
	}
	bodies := make([]string, 0, len(replies))
	for _, reply := range replies {
		bodies = append(bodies, reply.Body)
	}
	entry := &models.ConversationLog{
		WaID:        msg.WaID,
		MessageID:   msg.MessageID,
		UserMessage: msg.Text,
		BotResponse: strings.Join(bodies, "\n"),
		State:       state,
	}
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.logg.Error(ctx, "recording conversation turn", err)
	}
}

func isStateConflict(err error) bool {
	appErr := pkgerrors.As(err)
	return appErr != nil && appErr.Code() == pkgerrors.CodeStateConflict
}
