package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Names shared between the injected script and the Go bindings.
const (
	selectBinding  = "__oqlSelect"
	changedBinding = "__oqlCredentialsChanged"
	// CredentialsChangedEvent is the page-scoped custom event carrying
	// the sync signal between script contexts.
	CredentialsChangedEvent = "odooquicklogin:credentials-changed"
)

// OnSelect registers the page binding invoked when the user picks an
// entry in the injected control. handler receives the zero-based position
// of the selected record. Register once per session, before the first
// render.
func (s *Session) OnSelect(handler func(index int)) error {
	return s.page.ExposeFunction(selectBinding, func(args ...interface{}) interface{} {
		if len(args) == 0 {
			return nil
		}
		if index, ok := asIndex(args[0]); ok {
			handler(index)
		}
		return nil
	})
}

// BindCredentialEvents forwards the page's credentials-changed custom
// event into notify, bridging the management context's sync signal to
// this session. The listener is installed on the current document and on
// every future navigation.
func (s *Session) BindCredentialEvents(notify func()) error {
	if err := s.page.ExposeFunction(changedBinding, func(args ...interface{}) interface{} {
		notify()
		return nil
	}); err != nil {
		return fmt.Errorf("failed to expose change binding: %w", err)
	}

	listener := fmt.Sprintf(
		`document.addEventListener(%q, () => window.%s());`,
		CredentialsChangedEvent, changedBinding,
	)
	if err := s.page.AddInitScript(playwright.Script{Content: playwright.String(listener)}); err != nil {
		return fmt.Errorf("failed to install change listener: %w", err)
	}
	// Also cover the page that is already loaded.
	if _, err := s.page.Evaluate(listener); err != nil {
		return fmt.Errorf("failed to attach change listener: %w", err)
	}
	return nil
}

// DispatchCredentialEvent fires the credentials-changed custom event on
// the page's document. Used by the management context after an add so an
// injector attached to the same page re-renders without a reload.
func (s *Session) DispatchCredentialEvent(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	script := fmt.Sprintf(`document.dispatchEvent(new CustomEvent(%q))`, CredentialsChangedEvent)
	if _, err := s.page.Evaluate(script); err != nil {
		return fmt.Errorf("failed to dispatch change event: %w", err)
	}
	return nil
}

// InsertControl renders the selection control above the login form: a
// select element with one placeholder option followed by one option per
// username, in display order. Selecting an entry reports its position
// through the select binding.
func (s *Session) InsertControl(ctx context.Context, id string, usernames []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	names, err := json.Marshal(usernames)
	if err != nil {
		return fmt.Errorf("failed to encode usernames: %w", err)
	}

	script := fmt.Sprintf(`(() => {
	const id = %q;
	document.getElementById(id)?.remove();
	const user = document.querySelector('input[name="login"]');
	const form = user ? user.closest('form') : null;
	if (!form) return false;
	const sel = document.createElement('select');
	sel.id = id;
	sel.style.cssText = 'display:block;width:100%%;margin-bottom:8px;padding:6px;';
	const placeholder = document.createElement('option');
	placeholder.textContent = 'Quick login…';
	placeholder.disabled = true;
	placeholder.selected = true;
	sel.appendChild(placeholder);
	for (const name of %s) {
		const opt = document.createElement('option');
		opt.textContent = name;
		sel.appendChild(opt);
	}
	sel.addEventListener('change', () => window.%s(sel.selectedIndex - 1));
	form.prepend(sel);
	return true;
})()`, id, names, selectBinding)

	result, err := s.page.Evaluate(script)
	if err != nil {
		return fmt.Errorf("control insertion failed: %w", err)
	}
	if inserted, ok := result.(bool); ok && !inserted {
		return fmt.Errorf("login form disappeared before insertion")
	}
	return nil
}

// RemoveControl removes the injected control if present. Removing an
// absent control is not an error.
func (s *Session) RemoveControl(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	script := fmt.Sprintf(`document.getElementById(%q)?.remove()`, id)
	if _, err := s.page.Evaluate(script); err != nil {
		return fmt.Errorf("control removal failed: %w", err)
	}
	return nil
}

// ResetControl snaps the control back to its placeholder option so a
// repeated selection of the same entry fires a fresh change event.
func (s *Session) ResetControl(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	script := fmt.Sprintf(`(() => {
	const sel = document.getElementById(%q);
	if (sel) sel.selectedIndex = 0;
})()`, id)
	if _, err := s.page.Evaluate(script); err != nil {
		return fmt.Errorf("control reset failed: %w", err)
	}
	return nil
}

// asIndex converts a binding argument to a list position. Playwright
// delivers JS numbers as int or float64 depending on their value.
func asIndex(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}
