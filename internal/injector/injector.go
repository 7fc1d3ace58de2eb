// Package injector watches a page for the target product's login form and
// keeps exactly one credential selection control injected into it, driving
// autofill when the user picks an entry.
package injector

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/heyzeeshan/odoo-quick-login/internal/autofill"
	"github.com/heyzeeshan/odoo-quick-login/internal/instance"
	"github.com/heyzeeshan/odoo-quick-login/internal/models"
	"github.com/heyzeeshan/odoo-quick-login/internal/syncsignal"
)

// State is the injector's position in its per-page state machine.
type State int

const (
	// Idle means no render pass has run yet.
	Idle State = iota
	// Checking means the login-page heuristic is being evaluated.
	Checking
	// NotApplicable means the page is not a login page, or has no stored
	// credentials to offer; nothing is rendered for this pass.
	NotApplicable
	// AwaitingFormField means the page looks like the target product but
	// the username field has not appeared in the DOM yet; the next
	// periodic tick retries.
	AwaitingFormField
	// Rendering means a render pass is replacing the injected control.
	Rendering
	// Rendered means exactly one up-to-date control is present.
	Rendered
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Checking:
		return "checking"
	case NotApplicable:
		return "not-applicable"
	case AwaitingFormField:
		return "awaiting-form-field"
	case Rendering:
		return "rendering"
	case Rendered:
		return "rendered"
	}
	return "unknown"
}

// generatorPrefix marks pages served by the target product family even
// when the login form deviates from the standard shape.
const generatorPrefix = "Odoo"

// Default timing for the periodic re-check and the control reset.
const (
	DefaultRefreshInterval = 3 * time.Second
	DefaultResetDelay      = 800 * time.Millisecond
)

// Probe is the page snapshot the DOM collaborator reports to the
// login-page heuristic: form-field presence plus the identification
// signals, captured in a single pass so both concerns see the same DOM.
type Probe struct {
	// HasUserField reports the username-named field inside the login form.
	HasUserField bool
	// HasSecretField reports the secret-named field inside the same form.
	HasSecretField bool
	// FormAction is the submission target of the form holding the fields.
	FormAction string
	// Page carries the instance identification signals.
	Page instance.PageState
}

// DOM is the page-manipulation collaborator the injector renders through.
type DOM interface {
	// Probe captures the current page snapshot.
	Probe(ctx context.Context) (Probe, error)
	// RemoveControl removes the injected control if present. Removing an
	// absent control is not an error.
	RemoveControl(ctx context.Context, id string) error
	// InsertControl inserts the selection control listing one entry per
	// username, in order, preceded by a placeholder option.
	InsertControl(ctx context.Context, id string, usernames []string) error
	// ResetControl returns the control to its placeholder state.
	ResetControl(ctx context.Context, id string) error
}

// CredentialSource is the read side of the credential store.
type CredentialSource interface {
	Get(ctx context.Context, key string) []models.Record
}

// Autofiller applies a selected record to the login form.
type Autofiller interface {
	Apply(ctx context.Context, rec models.Record) error
}

// Injector owns the injected control for one page. Render passes are
// serialized under a mutex so overlapping triggers (ticker, sync signal,
// selection callbacks) can never leave two controls inserted.
type Injector struct {
	dom     DOM
	creds   CredentialSource
	filler  Autofiller
	signals *syncsignal.Broadcaster
	log     *zap.Logger

	controlID  string
	interval   time.Duration
	resetDelay time.Duration

	mu      sync.Mutex
	state   State
	current []models.Record
}

// New constructs an Injector. The control element id carries a per-run
// suffix so a restarted agent never collides with a control left behind
// by a previous run on the same page.
func New(dom DOM, creds CredentialSource, filler Autofiller, signals *syncsignal.Broadcaster, log *zap.Logger) *Injector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Injector{
		dom:        dom,
		creds:      creds,
		filler:     filler,
		signals:    signals,
		log:        log,
		controlID:  "oql-picker-" + uuid.NewString(),
		interval:   DefaultRefreshInterval,
		resetDelay: DefaultResetDelay,
		state:      Idle,
	}
}

// ControlID returns the DOM id of the injected control.
func (inj *Injector) ControlID() string {
	return inj.controlID
}

// SetRefreshInterval overrides the periodic re-check interval.
func (inj *Injector) SetRefreshInterval(d time.Duration) {
	inj.interval = d
}

// SetResetDelay overrides the delay before the control snaps back to its
// placeholder after a selection.
func (inj *Injector) SetResetDelay(d time.Duration) {
	inj.resetDelay = d
}

// State returns the current state machine position.
func (inj *Injector) State() State {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	return inj.state
}

// Run drives the injector until ctx is canceled: one immediate render
// pass, then re-renders on every periodic tick and every sync signal.
// Both triggers share the same serialized render path.
func (inj *Injector) Run(ctx context.Context) {
	signal := inj.signals.Subscribe()
	ticker := time.NewTicker(inj.interval)
	defer ticker.Stop()

	inj.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			inj.Refresh(ctx)
		case <-signal:
			inj.log.Debug("sync signal received")
			inj.Refresh(ctx)
		}
	}
}

// Refresh runs one render pass. Safe to re-enter at any time: the net
// effect is always exactly one up-to-date control for the current
// credential list, never a duplicate or a stale one.
func (inj *Injector) Refresh(ctx context.Context) {
	inj.mu.Lock()
	defer inj.mu.Unlock()

	inj.state = Checking
	probe, err := inj.dom.Probe(ctx)
	if err != nil {
		// Page may be mid-navigation; the next tick retries.
		inj.log.Debug("page probe failed", zap.Error(err))
		return
	}

	if !isLoginPage(probe) {
		inj.retireControl(ctx)
		inj.state = NotApplicable
		return
	}
	if !probe.HasUserField {
		inj.state = AwaitingFormField
		return
	}

	inj.state = Rendering
	if err := inj.dom.RemoveControl(ctx, inj.controlID); err != nil {
		inj.log.Debug("control removal failed", zap.Error(err))
		return
	}

	key := instance.DetectKey(probe.Page)
	records := inj.creds.Get(ctx, key)
	if len(records) == 0 {
		inj.current = nil
		inj.state = NotApplicable
		return
	}

	usernames := make([]string, len(records))
	for i, rec := range records {
		usernames[i] = rec.Username
	}
	if err := inj.dom.InsertControl(ctx, inj.controlID, usernames); err != nil {
		inj.log.Debug("control insertion failed", zap.Error(err))
		inj.current = nil
		return
	}

	inj.current = records
	inj.state = Rendered
	inj.log.Debug("control rendered",
		zap.String("instance", key), zap.Int("entries", len(records)))
}

// retireControl drops a previously rendered control when the page stops
// qualifying. Must be called with the mutex held.
func (inj *Injector) retireControl(ctx context.Context) {
	if inj.current == nil {
		return
	}
	if err := inj.dom.RemoveControl(ctx, inj.controlID); err != nil {
		inj.log.Debug("control removal failed", zap.Error(err))
	}
	inj.current = nil
}

// HandleSelection is invoked by the DOM collaborator when the user picks
// an entry. index addresses the rendered list by position. After autofill
// fires, the control resets to its placeholder so selecting the same
// entry again is observable as a fresh action.
func (inj *Injector) HandleSelection(ctx context.Context, index int) {
	inj.mu.Lock()
	if index < 0 || index >= len(inj.current) {
		inj.mu.Unlock()
		return
	}
	rec := inj.current[index]
	inj.mu.Unlock()

	inj.log.Info("credential selected", zap.String("username", rec.Username))
	if err := inj.filler.Apply(ctx, rec); err != nil {
		inj.log.Warn("autofill failed", zap.Error(err))
	}

	resetDelay := inj.resetDelay
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(resetDelay):
		}
		if err := inj.dom.ResetControl(ctx, inj.controlID); err != nil {
			inj.log.Debug("control reset failed", zap.Error(err))
		}
	}()
}

// isLoginPage evaluates the two independent login-page signals: the
// standard form shape submitting to the login path, or the generator
// metadata naming the target product family. Either alone qualifies, to
// tolerate non-standard deployments.
func isLoginPage(p Probe) bool {
	formSignal := p.HasUserField && p.HasSecretField &&
		strings.Contains(p.FormAction, autofill.LoginPath)
	metaSignal := strings.HasPrefix(p.Page.Generator, generatorPrefix)
	return formSignal || metaSignal
}
