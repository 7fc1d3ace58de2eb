// Package autofill fills the login form of the current page with a stored
// credential record and drives submission.
package autofill

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/heyzeeshan/odoo-quick-login/internal/models"
)

// Form control names and the login path on the target product.
const (
	UserField   = "login"
	SecretField = "password"
	LoginPath   = "/web/login"
)

// DefaultFallbackDelay is how long Apply waits before re-submitting the
// form directly when clicking the visible button did not navigate away.
const DefaultFallbackDelay = 1500 * time.Millisecond

// Form is the DOM collaborator the controller operates on.
type Form interface {
	// HasField reports whether a form control with the given name exists.
	HasField(ctx context.Context, name string) (bool, error)
	// FillField sets the value of the named form control.
	FillField(ctx context.Context, name, value string) error
	// ClickSubmit activates a submit-capable control, preferring a
	// submit-typed button over the primary-action class. It reports
	// whether such a control was found.
	ClickSubmit(ctx context.Context) (bool, error)
	// URL returns the page's current URL.
	URL(ctx context.Context) (string, error)
	// SubmitLoginForm submits the enclosing login form directly.
	SubmitLoginForm(ctx context.Context) error
}

// Controller applies credential records to the page's login form.
type Controller struct {
	form          Form
	log           *zap.Logger
	fallbackDelay time.Duration
}

// New constructs a Controller over the given form collaborator.
func New(form Form, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{form: form, log: log, fallbackDelay: DefaultFallbackDelay}
}

// SetFallbackDelay overrides the delayed re-submit interval.
func (c *Controller) SetFallbackDelay(d time.Duration) {
	c.fallbackDelay = d
}

// Apply locates the username and secret fields by their form-control
// names and fills both from rec, then activates the submit control. If
// either field is absent the page has changed shape and Apply is a no-op,
// not a failure. A delayed fallback re-submits the form directly if the
// page is still on the login path once the fallback delay elapses.
func (c *Controller) Apply(ctx context.Context, rec models.Record) error {
	hasUser, err := c.form.HasField(ctx, UserField)
	if err != nil {
		return err
	}
	hasSecret, err := c.form.HasField(ctx, SecretField)
	if err != nil {
		return err
	}
	if !hasUser || !hasSecret {
		c.log.Debug("login fields absent, skipping autofill",
			zap.Bool("user", hasUser), zap.Bool("secret", hasSecret))
		return nil
	}

	if err := c.form.FillField(ctx, UserField, rec.Username); err != nil {
		return err
	}
	if err := c.form.FillField(ctx, SecretField, rec.Secret); err != nil {
		return err
	}

	clicked, err := c.form.ClickSubmit(ctx)
	if err != nil {
		return err
	}
	if !clicked {
		c.log.Debug("no submit control found")
	}

	go c.fallbackSubmit(ctx)
	return nil
}

// fallbackSubmit covers pages where activating the visible button does
// not itself trigger navigation: after the delay, if the page still sits
// on the login path, the enclosing form is submitted directly.
func (c *Controller) fallbackSubmit(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(c.fallbackDelay):
	}

	url, err := c.form.URL(ctx)
	if err != nil {
		c.log.Debug("fallback submit skipped", zap.Error(err))
		return
	}
	if !strings.Contains(url, LoginPath) {
		return
	}
	if err := c.form.SubmitLoginForm(ctx); err != nil {
		c.log.Debug("fallback submit failed", zap.Error(err))
	}
}
