package bot

import (
	"context"
	"fmt"
	"strings"

	"messages-bot/internal/storage"

	"go.uber.org/zap"
)

type MessageStore interface {
	ListPage(ctx context.Context, offset, limit int) ([]storage.Message, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type Exporter interface {
	ExportMessages(ctx context.Context) ([]byte, error)
}

type EventKind int

const (
	EventText EventKind = iota
	EventCommand
	EventCallback
)

// Event is one inbound operator action. Text holds the message text, the
// command name without the slash, or the callback data.
type Event struct {
	Kind       EventKind
	OperatorID int64
	Text       string
}

type ReplyKind int

const (
	// ReplyListing is a page of records with navigation buttons.
	ReplyListing ReplyKind = iota
	// ReplyPrompt asks the operator for input.
	ReplyPrompt
	// ReplyAck is a plain informational message.
	ReplyAck
	// ReplyNotice is a short popup answer to a button press.
	ReplyNotice
	// ReplyDocument carries a file.
	ReplyDocument
)

type Button struct {
	Text string
	Data string
}

type Document struct {
	Name    string
	Caption string
	Data    []byte
}

// Reply describes what should be delivered back. The router never talks to
// Telegram itself.
type Reply struct {
	Kind     ReplyKind
	Text     string
	Buttons  []Button
	Menu     bool
	Document *Document
}

type handlerFunc func(ctx context.Context, operatorID int64) (Reply, error)

type Router struct {
	store     MessageStore
	exporter  Exporter
	sessions  *SessionStore
	logger    *zap.Logger
	commands  map[string]handlerFunc
	callbacks map[string]handlerFunc
}

func NewRouter(store MessageStore, exporter Exporter, sessions *SessionStore, logger *zap.Logger) *Router {
	r := &Router{
		store:    store,
		exporter: exporter,
		sessions: sessions,
		logger:   logger,
	}
	r.registerHandlers()
	return r
}

func (r *Router) registerHandlers() {
	r.commands = map[string]handlerFunc{
		CommandStart:  r.handleStart,
		CommandHelp:   r.handleHelp,
		CommandExport: r.handleExport,
	}
	r.callbacks = map[string]handlerFunc{
		CallbackNextPage: r.handleNextPage,
		CallbackPrevPage: r.handlePrevPage,
	}
}

// Handle routes one event. A returned error means the store failed; the
// event is lost and the operator should be told so.
func (r *Router) Handle(ctx context.Context, ev Event) (Reply, error) {
	switch ev.Kind {
	case EventCommand:
		// Any command other than start is the one reply to a delete prompt.
		if r.sessions.TakeStep(ev.OperatorID) == StepAwaitingDeleteID && ev.Text != CommandStart {
			r.logger.Debug("Command received while awaiting delete id",
				zap.Int64("operator_id", ev.OperatorID),
				zap.String("command", ev.Text))
			return Reply{Kind: ReplyAck, Text: msgInvalidID}, nil
		}
		if handler, ok := r.commands[ev.Text]; ok {
			return handler(ctx, ev.OperatorID)
		}
		return Reply{Kind: ReplyAck, Text: msgUnknownCommand}, nil

	case EventCallback:
		if handler, ok := r.callbacks[ev.Text]; ok {
			return handler(ctx, ev.OperatorID)
		}
		return Reply{Kind: ReplyNotice, Text: msgUnknownAction}, nil

	default:
		return r.handleText(ctx, ev.OperatorID, ev.Text)
	}
}

func (r *Router) handleText(ctx context.Context, operatorID int64, text string) (Reply, error) {
	switch strings.TrimSpace(text) {
	case ButtonShowList:
		return r.handleShowList(ctx, operatorID)
	case ButtonDelete:
		return r.handleAskDelete(ctx, operatorID)
	}

	if r.sessions.TakeStep(operatorID) == StepAwaitingDeleteID {
		return r.handleDeleteID(ctx, operatorID, text)
	}
	return Reply{Kind: ReplyAck, Text: msgUseMenu, Menu: true}, nil
}

// handleStart runs after Handle already took the step, so start always
// leaves the operator idle.
func (r *Router) handleStart(_ context.Context, _ int64) (Reply, error) {
	return Reply{Kind: ReplyAck, Text: msgStart, Menu: true}, nil
}

func (r *Router) handleHelp(_ context.Context, _ int64) (Reply, error) {
	return Reply{Kind: ReplyAck, Text: msgHelp}, nil
}

func (r *Router) handleExport(ctx context.Context, _ int64) (Reply, error) {
	data, err := r.exporter.ExportMessages(ctx)
	if err != nil {
		return Reply{}, fmt.Errorf("export messages: %w", err)
	}

	return Reply{
		Kind: ReplyDocument,
		Document: &Document{
			Name:    exportFileName,
			Caption: msgExportCaption,
			Data:    data,
		},
	}, nil
}

func (r *Router) handleShowList(ctx context.Context, operatorID int64) (Reply, error) {
	r.sessions.ClearStep(operatorID)
	r.sessions.Reset(operatorID)

	reply, found, err := r.listing(ctx, 0)
	if err != nil {
		return Reply{}, err
	}
	if !found {
		return Reply{Kind: ReplyAck, Text: msgNoRecords}, nil
	}
	return reply, nil
}

func (r *Router) handleNextPage(ctx context.Context, operatorID int64) (Reply, error) {
	offset := r.sessions.Advance(operatorID)

	reply, found, err := r.listing(ctx, offset)
	if err != nil {
		r.sessions.Retreat(operatorID)
		return Reply{}, err
	}
	if !found {
		// Stay on the last page that had records.
		r.sessions.Retreat(operatorID)
		return Reply{Kind: ReplyNotice, Text: msgNoMoreRecords}, nil
	}
	return reply, nil
}

func (r *Router) handlePrevPage(ctx context.Context, operatorID int64) (Reply, error) {
	offset := r.sessions.Retreat(operatorID)

	reply, found, err := r.listing(ctx, offset)
	if err != nil {
		return Reply{}, err
	}
	if !found {
		return Reply{Kind: ReplyNotice, Text: msgNoRecords}, nil
	}
	return reply, nil
}

func (r *Router) handleAskDelete(ctx context.Context, operatorID int64) (Reply, error) {
	r.sessions.SetStep(operatorID, StepAwaitingDeleteID)
	return Reply{Kind: ReplyPrompt, Text: msgAskDeleteID}, nil
}

// handleDeleteID runs after the step was already reset to idle, so a bad
// id ends the flow instead of asking again.
func (r *Router) handleDeleteID(ctx context.Context, operatorID int64, text string) (Reply, error) {
	id, err := ParseRecordID(text)
	if err != nil {
		r.logger.Debug("Rejected delete id",
			zap.Int64("operator_id", operatorID),
			zap.String("input", text))
		return Reply{Kind: ReplyAck, Text: msgInvalidID}, nil
	}

	deleted, err := r.store.Delete(ctx, id)
	if err != nil {
		return Reply{}, err
	}
	if !deleted {
		return Reply{Kind: ReplyAck, Text: msgNotFound}, nil
	}

	r.logger.Info("Message deleted",
		zap.Int64("operator_id", operatorID),
		zap.Int64("message_id", id))
	return Reply{Kind: ReplyAck, Text: fmt.Sprintf(msgDeleted, id)}, nil
}

// listing loads the page at offset. found is false when the page is empty.
func (r *Router) listing(ctx context.Context, offset int) (Reply, bool, error) {
	messages, err := r.store.ListPage(ctx, offset, PageSize)
	if err != nil {
		return Reply{}, false, err
	}
	if len(messages) == 0 {
		return Reply{}, false, nil
	}

	total, err := r.store.Count(ctx)
	if err != nil {
		return Reply{}, false, err
	}

	return Reply{
		Kind:    ReplyListing,
		Text:    FormatListing(offset, messages),
		Buttons: NavigationButtons(offset, total),
	}, true, nil
}
