package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	apperrors "workbuddy-store/pkg/common/errors"
	"workbuddy-store/pkg/web/model"
)

// respondError writes the common error body.
func respondError(c *app.RequestContext, status int, msg string) {
	c.JSON(status, model.ErrorRes{Code: status, Message: msg})
}

// respondAppError maps a domain error to its status. Private messages never
// reach the client.
func respondAppError(ctx context.Context, c *app.RequestContext, err error) {
	status := apperrors.HTTPStatus(err)
	msg, ok := apperrors.PublicMessage(err)
	if !ok {
		msg = consts.StatusMessage(status)
	}
	if status >= consts.StatusInternalServerError {
		hlog.CtxErrorf(ctx, "%s %s failed: %v", c.Method(), c.Path(), err)
	}
	respondError(c, status, msg)
}
