package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"workbuddy-store/pkg/core/catalog"
	"workbuddy-store/pkg/web/model"
)

type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: svc}
}

// Products lists the store, filtered by ?q= when present.
func (h *CatalogHandler) Products(ctx context.Context, c *app.RequestContext) {
	q := c.Query("q")
	c.JSON(consts.StatusOK, model.ProductsRes{Listing: h.catalog.Search(ctx, q), Query: q})
}

func (h *CatalogHandler) Sections(ctx context.Context, c *app.RequestContext) {
	sections, notice := h.catalog.Sections(ctx)
	if sections == nil {
		sections = []catalog.Section{}
	}
	c.JSON(consts.StatusOK, model.SectionsRes{Sections: sections, Notice: notice})
}
