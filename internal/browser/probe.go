package browser

import (
	"context"
	"fmt"

	"github.com/heyzeeshan/odoo-quick-login/internal/injector"
	"github.com/heyzeeshan/odoo-quick-login/internal/instance"
)

// probeScript captures the login-form shape and the instance
// identification signals in one pass, so the heuristic and the key
// derivation always see the same DOM. Both execution contexts evaluate
// this exact script; the key derivation itself happens in Go.
const probeScript = `(() => {
	const user = document.querySelector('input[name="login"]');
	const form = user ? user.closest('form') : null;
	const pass = form ? form.querySelector('input[name="password"]') : null;
	const db = document.querySelector('form input[name="db"]');
	const gen = document.querySelector('meta[name="generator"]');
	return {
		hasUser: !!user,
		hasSecret: !!pass,
		formAction: form ? (form.getAttribute('action') || '') : '',
		db: db ? (db.value || '') : '',
		generator: gen ? (gen.getAttribute('content') || '') : '',
		origin: window.location.origin,
	};
})()`

// Probe captures the current page snapshot for the injector.
func (s *Session) Probe(ctx context.Context) (injector.Probe, error) {
	if err := ctx.Err(); err != nil {
		return injector.Probe{}, err
	}

	result, err := s.page.Evaluate(probeScript)
	if err != nil {
		return injector.Probe{}, fmt.Errorf("page probe failed: %w", err)
	}

	fields, ok := result.(map[string]interface{})
	if !ok {
		return injector.Probe{}, fmt.Errorf("unexpected probe result %T", result)
	}

	return injector.Probe{
		HasUserField:   asBool(fields["hasUser"]),
		HasSecretField: asBool(fields["hasSecret"]),
		FormAction:     asString(fields["formAction"]),
		Page: instance.PageState{
			DBField:   asString(fields["db"]),
			Generator: asString(fields["generator"]),
			Origin:    asString(fields["origin"]),
		},
	}, nil
}

// PageState captures just the instance identification signals, used by
// the management context to derive the key for a live page.
func (s *Session) PageState(ctx context.Context) (instance.PageState, error) {
	probe, err := s.Probe(ctx)
	if err != nil {
		return instance.PageState{}, err
	}
	return probe.Page, nil
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func asString(v interface{}) string {
	str, _ := v.(string)
	return str
}
