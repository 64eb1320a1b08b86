package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// Generic engine replies. Flow-specific wording lives with the flows.
const (
	msgBusy       = "⚠️ You already have another action in progress. Finish it or send /cancel first."
	msgCanceled   = "Action canceled."
	msgNoCancel   = "Nothing to cancel."
	msgTryAgain   = "⚠️ Something went wrong, please try again later."
	msgUnknown    = "I didn't understand that. Please use the menu."
	msgCommitFail = "⚠️ Could not complete the action, please try again later."
)

// CommandFunc handles a recognized command or menu phrase.
type CommandFunc func(ctx context.Context, chatID int64) error

// CallbackFunc handles a button press whose data matched a registered prefix.
// payload is the part after the "prefix:" separator, empty for exact matches.
type CallbackFunc func(ctx context.Context, chatID int64, payload string) error

type commandRoute struct {
	entry  domain.WizardKind // non-empty for wizard entry points
	cancel bool
	fn     CommandFunc
}

// Engine drives registered wizards one step at a time per chat identity and
// routes everything else (commands, menu phrases, button presses) to plain
// handlers. It owns the session store exclusively.
type Engine struct {
	sessions  domain.SessionStore
	gateway   domain.Gateway
	flows     map[domain.WizardKind]*Flow
	commands  map[string]commandRoute
	callbacks map[string]CallbackFunc
	fallback  CommandFunc
	log       *logrus.Entry
}

func New(sessions domain.SessionStore, gateway domain.Gateway, log *logrus.Logger) *Engine {
	return &Engine{
		sessions:  sessions,
		gateway:   gateway,
		flows:     make(map[domain.WizardKind]*Flow),
		commands:  make(map[string]commandRoute),
		callbacks: make(map[string]CallbackFunc),
		log:       log.WithField("component", "engine"),
	}
}

// Register adds a wizard definition. Panics on duplicate kinds: flow setup is
// a wiring error, not a runtime condition.
func (e *Engine) Register(flow *Flow) {
	if _, ok := e.flows[flow.Kind]; ok {
		panic("engine: duplicate flow " + string(flow.Kind))
	}
	if len(flow.Steps) == 0 || flow.Commit == nil {
		panic("engine: flow " + string(flow.Kind) + " needs steps and a commit")
	}
	for i := range flow.Steps {
		if flow.Steps[i].Field == LanguageKey {
			panic("engine: flow " + string(flow.Kind) + " uses the reserved field " + LanguageKey)
		}
	}
	e.flows[flow.Kind] = flow
}

// Entry maps command tokens and menu phrases to a wizard entry point.
func (e *Engine) Entry(kind domain.WizardKind, tokens ...string) {
	for _, t := range tokens {
		e.commands[t] = commandRoute{entry: kind}
	}
}

// Command maps tokens to a plain handler outside any wizard.
func (e *Engine) Command(fn CommandFunc, tokens ...string) {
	for _, t := range tokens {
		e.commands[t] = commandRoute{fn: fn}
	}
}

// CancelCommand maps tokens to wizard cancellation.
func (e *Engine) CancelCommand(tokens ...string) {
	for _, t := range tokens {
		e.commands[t] = commandRoute{cancel: true}
	}
}

// Callback maps a callback-data prefix to a handler.
func (e *Engine) Callback(prefix string, fn CallbackFunc) {
	e.callbacks[prefix] = fn
}

// Fallback sets the handler for unrecognized input outside any session.
func (e *Engine) Fallback(fn CommandFunc) {
	e.fallback = fn
}

// Begin starts a wizard for the chat at its first step.
func (e *Engine) Begin(ctx context.Context, chatID int64, kind domain.WizardKind) error {
	return e.BeginWith(ctx, chatID, kind, nil)
}

// BeginWith starts a wizard with pre-collected values, as entry points
// triggered by button presses carry context (e.g. the course being edited).
//
// A same-kind restart replaces the session; a foreign active wizard fails
// with ErrWizardInProgress after telling the user.
func (e *Engine) BeginWith(ctx context.Context, chatID int64, kind domain.WizardKind, seed map[string]string) error {
	flow, ok := e.flows[kind]
	if !ok {
		return domain.ErrUnknownWizard
	}

	if flow.Guard != nil {
		if err := flow.Guard(ctx, chatID); err != nil {
			var pre *domain.PreconditionError
			if errors.As(err, &pre) {
				e.send(ctx, chatID, pre.Msg, nil)
				return nil
			}
			return err
		}
	}

	existing, err := e.sessions.Get(ctx, chatID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	if existing != nil && existing.Wizard != kind {
		e.send(ctx, chatID, msgBusy, nil)
		return domain.ErrWizardInProgress
	}

	collected := make(map[string]string, len(seed))
	for k, v := range seed {
		collected[k] = v
	}
	session := &domain.Session{
		ChatID:    chatID,
		Wizard:    kind,
		Step:      flow.Steps[0].Field,
		Collected: collected,
		StartedAt: time.Now().UTC(),
	}
	if err := e.sessions.Put(ctx, session); err != nil {
		return err
	}

	e.prompt(ctx, chatID, flow.Steps[0], "")
	return nil
}

// Advance feeds one inbound event into the chat's active wizard.
func (e *Engine) Advance(ctx context.Context, chatID int64, ev domain.Event) error {
	session, err := e.sessions.Get(ctx, chatID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	if session == nil {
		return domain.ErrNoActiveSession
	}

	flow, ok := e.flows[session.Wizard]
	if !ok {
		// Session belongs to a wizard no longer registered; drop it.
		_ = e.sessions.Delete(ctx, chatID)
		return domain.ErrUnknownWizard
	}
	idx := flow.stepIndex(session.Step)
	if idx < 0 {
		_ = e.sessions.Delete(ctx, chatID)
		return domain.ErrUnknownWizard
	}
	step := flow.Steps[idx]

	value, err := step.Validate(ctx, ev, session.Collected)
	if err != nil {
		return e.handleStepFailure(ctx, chatID, step, err)
	}

	if session.Collected == nil {
		session.Collected = make(map[string]string)
	}
	session.Collected[step.Field] = value
	if ev.Language != "" {
		session.Collected[LanguageKey] = ev.Language
	}

	if idx+1 < len(flow.Steps) {
		next := flow.Steps[idx+1]
		session.Step = next.Field
		if err := e.sessions.Put(ctx, session); err != nil {
			return err
		}
		e.prompt(ctx, chatID, next, "")
		return nil
	}

	return e.commit(ctx, chatID, flow, session)
}

// Cancel clears any active session unconditionally.
func (e *Engine) Cancel(ctx context.Context, chatID int64) error {
	session, err := e.sessions.Get(ctx, chatID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	if err := e.sessions.Delete(ctx, chatID); err != nil {
		return err
	}
	if session != nil {
		e.send(ctx, chatID, msgCanceled, nil)
	} else {
		e.send(ctx, chatID, msgNoCancel, nil)
	}
	return nil
}

// Handle dispatches one inbound event: recognized commands first, then the
// active wizard, then callback routes, then the fallback.
//
// A recognized non-wizard command during an active wizard abandons the
// session; a foreign wizard entry point does not (Begin rejects it).
func (e *Engine) Handle(ctx context.Context, chatID int64, ev domain.Event) error {
	token := strings.TrimSpace(ev.Text)
	if route, ok := e.commands[token]; ok && !ev.IsCallback() {
		return e.runCommand(ctx, chatID, route)
	}

	session, err := e.sessions.Get(ctx, chatID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	if session != nil {
		return e.Advance(ctx, chatID, ev)
	}

	if ev.IsCallback() {
		prefix, payload := splitCallback(ev.Callback)
		if fn, ok := e.callbacks[prefix]; ok {
			return fn(ctx, chatID, payload)
		}
	}

	if e.fallback != nil {
		return e.fallback(ctx, chatID)
	}
	e.send(ctx, chatID, msgUnknown, nil)
	return nil
}

func (e *Engine) runCommand(ctx context.Context, chatID int64, route commandRoute) error {
	if route.cancel {
		return e.Cancel(ctx, chatID)
	}
	if route.entry != "" {
		return e.Begin(ctx, chatID, route.entry)
	}
	// Plain command interrupts any wizard in progress.
	if err := e.sessions.Delete(ctx, chatID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	return route.fn(ctx, chatID)
}

func (e *Engine) handleStepFailure(ctx context.Context, chatID int64, step Step, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		e.prompt(ctx, chatID, step, ve.Msg+"\n\n")
		return nil
	}
	if ae, ok := asAbort(err); ok {
		if derr := e.sessions.Delete(ctx, chatID); derr != nil {
			e.log.WithError(derr).Warn("failed to clear session after abort")
		}
		e.send(ctx, chatID, ae.msg, nil)
		e.log.WithError(ae.err).WithField("chat_id", chatID).Info("wizard aborted at step " + step.Field)
		return nil
	}
	e.send(ctx, chatID, msgTryAgain, nil)
	return err
}

func (e *Engine) commit(ctx context.Context, chatID int64, flow *Flow, session *domain.Session) error {
	msg, err := flow.Commit(ctx, chatID, session.Collected)

	// The terminal step always clears the session: success, conflict and
	// not-found all end the wizard.
	if derr := e.sessions.Delete(ctx, chatID); derr != nil {
		e.log.WithError(derr).Warn("failed to clear session after commit")
	}

	if err != nil {
		if ae, ok := asAbort(err); ok {
			e.send(ctx, chatID, ae.msg, nil)
			e.log.WithError(ae.err).WithFields(logrus.Fields{
				"chat_id": chatID,
				"wizard":  flow.Kind,
			}).Info("wizard commit rejected")
			return nil
		}
		e.send(ctx, chatID, msgCommitFail, nil)
		return err
	}

	if msg != "" {
		e.send(ctx, chatID, msg, nil)
	}
	return nil
}

// prompt re-sends a step's prompt, optionally prefixed with a validation
// message, together with the step's keyboard if it has one.
func (e *Engine) prompt(ctx context.Context, chatID int64, step Step, prefix string) {
	var menu *domain.Menu
	if step.Menu != nil {
		menu = step.Menu(ctx, chatID)
	}
	e.send(ctx, chatID, prefix+step.Prompt, menu)
}

// send is best-effort: a delivery failure is logged and never alters state.
func (e *Engine) send(ctx context.Context, chatID int64, text string, menu *domain.Menu) {
	if err := e.gateway.Send(ctx, chatID, text, menu); err != nil {
		e.log.WithError(err).WithField("chat_id", chatID).Warn("send failed")
	}
}

func splitCallback(data string) (prefix, payload string) {
	if i := strings.IndexByte(data, ':'); i >= 0 {
		return data[:i], data[i+1:]
	}
	return data, ""
}
