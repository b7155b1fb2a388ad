package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"workbuddy-store/pkg/core/registration"
	"workbuddy-store/pkg/web/model"
	"workbuddy-store/pkg/web/session"
)

type RegistrationHandler struct {
	sessions *session.Store
}

func NewRegistrationHandler(sessions *session.Store) *RegistrationHandler {
	return &RegistrationHandler{sessions: sessions}
}

// Create starts a wizard on its first step.
func (h *RegistrationHandler) Create(ctx context.Context, c *app.RequestContext) {
	sess := h.sessions.Create()
	hlog.CtxInfof(ctx, "registration session started id=%s", sess.ID)
	c.JSON(consts.StatusCreated, model.RegistrationRes{ID: sess.ID, View: sess.Wizard.View()})
}

func (h *RegistrationHandler) Get(ctx context.Context, c *app.RequestContext) {
	h.withSession(ctx, c, func(*session.Session) error { return nil })
}

// UpdateField stores one input of the form.
func (h *RegistrationHandler) UpdateField(ctx context.Context, c *app.RequestContext) {
	var req model.UpdateFieldReq
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, consts.StatusBadRequest, "invalid request body")
		return
	}
	field, err := registration.ParseField(req.Field)
	if err != nil {
		respondError(c, consts.StatusBadRequest, err.Error())
		return
	}
	h.withSession(ctx, c, func(s *session.Session) error {
		return s.Wizard.UpdateField(field, req.Value)
	})
}

// Advance validates the current step and moves forward.
func (h *RegistrationHandler) Advance(ctx context.Context, c *app.RequestContext) {
	h.withSession(ctx, c, func(s *session.Session) error {
		return s.Wizard.Advance(ctx)
	})
}

// Back returns to the previous step without validation.
func (h *RegistrationHandler) Back(ctx context.Context, c *app.RequestContext) {
	h.withSession(ctx, c, func(s *session.Session) error {
		return s.Wizard.Retreat()
	})
}

// Submit runs the current step's submission. Remote failures come back as
// view.submissionError with status 200.
func (h *RegistrationHandler) Submit(ctx context.Context, c *app.RequestContext) {
	h.withSession(ctx, c, func(s *session.Session) error {
		return s.Wizard.Submit(ctx)
	})
}

func (h *RegistrationHandler) ToggleVisibility(ctx context.Context, c *app.RequestContext) {
	var req model.VisibilityReq
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, consts.StatusBadRequest, "target must be password or confirmPassword")
		return
	}
	h.withSession(ctx, c, func(s *session.Session) error {
		if req.Target == string(registration.FieldConfirmPassword) {
			s.Wizard.ToggleConfirmPasswordVisibility()
		} else {
			s.Wizard.TogglePasswordVisibility()
		}
		return nil
	})
}

// ResendCode mails a new verification code. Only valid on the verification step.
func (h *RegistrationHandler) ResendCode(ctx context.Context, c *app.RequestContext) {
	h.withSession(ctx, c, func(s *session.Session) error {
		if s.Wizard.Step() != registration.StepVerification {
			return errNotOnVerification
		}
		return s.ResendCode(ctx)
	})
}

var errNotOnVerification = errors.New("codes can only be resent on the verification step")

// withSession resolves :id, runs action and renders the resulting view.
func (h *RegistrationHandler) withSession(ctx context.Context, c *app.RequestContext, action func(*session.Session) error) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, consts.StatusNotFound, err.Error())
		return
	}

	before := sess.Scrolls()
	if err := action(sess); err != nil {
		switch {
		case errors.Is(err, registration.ErrSubmitInProgress),
			errors.Is(err, registration.ErrFinished),
			errors.Is(err, errNotOnVerification),
			errors.Is(err, session.ErrNotRegistered):
			respondError(c, consts.StatusConflict, err.Error())
		default:
			respondAppError(ctx, c, err)
		}
		return
	}

	c.JSON(consts.StatusOK, model.RegistrationRes{
		ID:          sess.ID,
		View:        sess.Wizard.View(),
		ScrollToTop: sess.Scrolls() != before,
	})
}
