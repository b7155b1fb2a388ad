// Package registration implements the three step sign-up wizard of the store:
// basic information, contact information and e-mail verification.
//
// The wizard owns its draft and state. Account creation and code verification
// are delegated to an injected Identity; the terminal redirect is delegated to
// an injected Navigator.
package registration

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	apperrors "workbuddy-store/pkg/common/errors"
	"workbuddy-store/pkg/common/i18n"
)

// HomePath is where the wizard navigates after a successful verification.
const HomePath = "/"

var (
	// ErrSubmitInProgress is returned while a remote call of the wizard is pending.
	ErrSubmitInProgress = errors.New("registration: submit already in progress")
	// ErrFinished is returned by actions on a verified wizard.
	ErrFinished = errors.New("registration: wizard already finished")
)

// Identity is the account backend.
type Identity interface {
	// RegisterAndLogin creates the account. It must not authenticate the user.
	RegisterAndLogin(ctx context.Context, r Registration) error
	// VerifyEmailCode confirms the account with the code sent by e-mail.
	VerifyEmailCode(ctx context.Context, code string) error
}

// NavigationState is the payload handed to the Navigator on success.
type NavigationState struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Navigator moves the user to another page.
type Navigator interface {
	Navigate(path string, state NavigationState)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string, state NavigationState)

func (f NavigatorFunc) Navigate(path string, state NavigationState) { f(path, state) }

// Viewport is told to return to the top whenever the step changes.
type Viewport interface {
	ScrollToTop()
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithClock overrides the time source used for the age check.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// WithPrinter selects the message locale.
func WithPrinter(p *i18n.Printer) Option {
	return func(w *Wizard) { w.printer = p }
}

// WithViewport registers a viewport to reset on step changes.
func WithViewport(v Viewport) Option {
	return func(w *Wizard) { w.viewport = v }
}

// Wizard drives one registration session. It is safe for concurrent use;
// remote calls run without holding the lock so the view stays readable.
type Wizard struct {
	identity  Identity
	navigator Navigator
	viewport  Viewport
	printer   *i18n.Printer
	now       func() time.Time

	mu                  sync.Mutex
	draft               Draft
	step                Step
	fieldErrors         FieldErrors
	submissionError     string
	submitting          bool
	showPassword        bool
	showConfirmPassword bool
	redirect            *Redirect
}

// New returns a wizard on the first step.
func New(identity Identity, navigator Navigator, opts ...Option) *Wizard {
	w := &Wizard{
		identity:    identity,
		navigator:   navigator,
		printer:     i18n.Default,
		now:         time.Now,
		step:        StepBasicInfo,
		fieldErrors: FieldErrors{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// UpdateField stores value into f and clears f's error. The error only comes
// back on the next validation pass. A verified wizard is read-only.
func (w *Wizard) UpdateField(f Field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepVerified {
		return ErrFinished
	}
	w.draft.Set(f, value)
	delete(w.fieldErrors, f)
	return nil
}

// Advance moves forward with validation. Leaving steps 2 and 3 requires a
// remote success, so there it is the same as Submit.
func (w *Wizard) Advance(ctx context.Context) error {
	return w.Submit(ctx)
}

// Retreat goes back one step without validation.
func (w *Wizard) Retreat() error {
	w.mu.Lock()
	if w.step == StepVerified {
		w.mu.Unlock()
		return ErrFinished
	}
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmitInProgress
	}
	t := next(w.step, EventRetreat, w.draft, w.now(), w.printer)
	moved := w.apply(t)
	w.mu.Unlock()

	if moved {
		w.scrollToTop()
	}
	return nil
}

// Submit validates the current step and, when valid, performs the step's
// remote call. Remote failures are recorded in the view, not returned; only
// ErrSubmitInProgress and ErrFinished are.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.step == StepVerified {
		w.mu.Unlock()
		return ErrFinished
	}
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmitInProgress
	}

	t := next(w.step, EventAdvance, w.draft, w.now(), w.printer)
	w.fieldErrors = t.Errors
	if !t.Errors.Valid() {
		w.submissionError = ""
		w.mu.Unlock()
		return nil
	}
	if t.Remote == RemoteNone {
		w.submissionError = ""
		moved := w.apply(t)
		w.mu.Unlock()
		if moved {
			w.scrollToTop()
		}
		return nil
	}

	w.submitting = true
	w.submissionError = ""
	draft := w.draft
	w.mu.Unlock()

	err := w.callRemote(ctx, t.Remote, draft)
	return w.finishRemote(ctx, t, draft, err)
}

func (w *Wizard) finishRemote(ctx context.Context, t Transition, draft Draft, err error) error {
	w.mu.Lock()
	w.submitting = false

	if err != nil {
		w.submissionError = w.messageFor(t.Remote, err)
		w.mu.Unlock()
		hlog.CtxWarnf(ctx, "registration: %s failed step=%s err=%v", remoteName(t.Remote), t.From, err)
		return nil
	}

	done := next(t.From, EventRemoteSucceeded, draft, w.now(), w.printer)
	w.apply(done)
	var redirect *Redirect
	if done.To == StepVerified {
		redirect = &Redirect{
			Path: HomePath,
			State: NavigationState{
				Email:   draft.Email,
				Message: w.printer.T(i18n.VerifySuccess),
			},
		}
		w.redirect = redirect
	}
	w.mu.Unlock()

	if redirect != nil {
		hlog.CtxInfof(ctx, "registration: account verified email=%s", draft.Email)
		if w.navigator != nil {
			w.navigator.Navigate(redirect.Path, redirect.State)
		}
		return nil
	}
	w.scrollToTop()
	return nil
}

// callRemote runs the collaborator call. A panicking collaborator is turned
// into an error so the wizard is never left submitting.
func (w *Wizard) callRemote(ctx context.Context, call RemoteCall, draft Draft) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("registration: identity panic: %v", r)
		}
	}()

	switch call {
	case RemoteRegister:
		return w.identity.RegisterAndLogin(ctx, draft.Registration())
	case RemoteVerify:
		return w.identity.VerifyEmailCode(ctx, draft.VerificationCode)
	}
	return nil
}

func (w *Wizard) messageFor(call RemoteCall, err error) string {
	if msg, ok := apperrors.PublicMessage(err); ok {
		return msg
	}
	if call == RemoteVerify {
		return w.printer.T(i18n.VerifyFallback)
	}
	return w.printer.T(i18n.RegisterFallback)
}

// apply moves to t.To. The caller holds the lock.
func (w *Wizard) apply(t Transition) bool {
	if !t.Moved() {
		return false
	}
	w.step = t.To
	return true
}

func (w *Wizard) scrollToTop() {
	if w.viewport != nil {
		w.viewport.ScrollToTop()
	}
}

// TogglePasswordVisibility flips whether the password is shown.
func (w *Wizard) TogglePasswordVisibility() {
	w.mu.Lock()
	w.showPassword = !w.showPassword
	w.mu.Unlock()
}

// ToggleConfirmPasswordVisibility flips whether the confirmation is shown.
func (w *Wizard) ToggleConfirmPasswordVisibility() {
	w.mu.Lock()
	w.showConfirmPassword = !w.showConfirmPassword
	w.mu.Unlock()
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a copy of the draft.
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Redirect is the terminal navigation of a verified wizard.
type Redirect struct {
	Path  string          `json:"path"`
	State NavigationState `json:"state"`
}

// View is everything needed to render the wizard.
type View struct {
	Step                Step        `json:"step"`
	StepName            string      `json:"stepName"`
	TotalSteps          int         `json:"totalSteps"`
	Progress            int         `json:"progress"`
	Fields              Draft       `json:"fields"`
	FieldErrors         FieldErrors `json:"fieldErrors"`
	SubmissionError     string      `json:"submissionError"`
	IsSubmitting        bool        `json:"isSubmitting"`
	ShowPassword        bool        `json:"showPassword"`
	ShowConfirmPassword bool        `json:"showConfirmPassword"`
	Redirect            *Redirect   `json:"redirect,omitempty"`
}

// View returns a snapshot of the wizard.
func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	errs := make(FieldErrors, len(w.fieldErrors))
	for f, msg := range w.fieldErrors {
		errs[f] = msg
	}
	shown := w.step
	if shown > TotalSteps {
		shown = TotalSteps
	}
	v := View{
		Step:                w.step,
		StepName:            w.step.String(),
		TotalSteps:          TotalSteps,
		Progress:            int(math.Round(float64(shown) / TotalSteps * 100)),
		Fields:              w.draft,
		FieldErrors:         errs,
		SubmissionError:     w.submissionError,
		IsSubmitting:        w.submitting,
		ShowPassword:        w.showPassword,
		ShowConfirmPassword: w.showConfirmPassword,
	}
	if w.redirect != nil {
		r := *w.redirect
		v.Redirect = &r
	}
	return v
}

func remoteName(call RemoteCall) string {
	switch call {
	case RemoteRegister:
		return "register"
	case RemoteVerify:
		return "verify"
	}
	return "none"
}
