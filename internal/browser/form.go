package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// submitSelectors are tried in order when activating the login form's
// submit control: a submit-typed button first, then the product's
// primary-action class.
var submitSelectors = []string{
	`button[type="submit"]`,
	`.btn-primary`,
}

// HasField reports whether a form control with the given name exists.
func (s *Session) HasField(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	element, err := s.page.QuerySelector(fmt.Sprintf(`input[name=%q]`, name))
	if err != nil {
		return false, fmt.Errorf("field query failed: %w", err)
	}
	return element != nil, nil
}

// FillField sets the value of the named form control.
func (s *Session) FillField(ctx context.Context, name, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.page.Fill(fmt.Sprintf(`input[name=%q]`, name), value, playwright.PageFillOptions{
		Timeout: playwright.Float(2000),
	})
	if err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

// ClickSubmit activates the first submit-capable control present and
// reports whether one was found.
func (s *Session) ClickSubmit(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	for _, selector := range submitSelectors {
		element, err := s.page.QuerySelector(selector)
		if err != nil {
			return false, fmt.Errorf("submit query failed: %w", err)
		}
		if element == nil {
			continue
		}
		if err := s.page.Click(selector, playwright.PageClickOptions{
			Timeout: playwright.Float(2000),
		}); err != nil {
			return false, fmt.Errorf("submit click failed: %w", err)
		}
		return true, nil
	}
	return false, nil
}

// URL returns the page's current URL.
func (s *Session) URL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.page.URL(), nil
}

// SubmitLoginForm submits the form enclosing the username field
// directly, bypassing the visible button.
func (s *Session) SubmitLoginForm(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	script := `(() => {
	const user = document.querySelector('input[name="login"]');
	const form = user ? user.closest('form') : null;
	if (form) form.submit();
	return !!form;
})()`
	if _, err := s.page.Evaluate(script); err != nil {
		return fmt.Errorf("form submit failed: %w", err)
	}
	return nil
}
