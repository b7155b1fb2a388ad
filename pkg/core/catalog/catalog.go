package catalog

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"workbuddy-store/pkg/common/i18n"
)

// Source fetches the live product list.
type Source interface {
	Products(ctx context.Context) ([]Product, error)
}

// Section is one category block of the store page.
type Section struct {
	ID       string    `json:"id"`
	Category string    `json:"category"`
	Title    string    `json:"title"`
	Products []Product `json:"products"`
}

var sectionOrder = []Section{
	{ID: "electronic-products", Category: "electronica", Title: "Electrónica"},
	{ID: "office-supplies", Category: "oficina", Title: "Productos de Oficina"},
	{ID: "tech-products", Category: "tecnologia", Title: "Tecnología"},
	{ID: "stationery", Category: "papeleria", Title: "Papelería"},
	{ID: "furniture", Category: "muebles", Title: "Muebles"},
}

// Listing is a product list plus an optional notice for the page banner.
type Listing struct {
	Products []Product `json:"products"`
	Notice   string    `json:"notice,omitempty"`
	Sample   bool      `json:"sample"`
}

// Service answers catalog queries. It never fails: without a usable
// upstream it serves SampleProducts.
type Service struct {
	source  Source
	printer *i18n.Printer
}

func NewService(source Source, printer *i18n.Printer) *Service {
	if printer == nil {
		printer = i18n.Default
	}
	return &Service{source: source, printer: printer}
}

// List returns the upstream products, or the samples when upstream is empty
// or unreachable. Only the unreachable case carries a notice.
func (s *Service) List(ctx context.Context) Listing {
	if s.source == nil {
		return Listing{Products: SampleProducts(), Sample: true}
	}
	products, err := s.source.Products(ctx)
	if err != nil {
		hlog.CtxWarnf(ctx, "catalog: upstream failed, serving samples err=%v", err)
		return Listing{Products: SampleProducts(), Sample: true, Notice: s.printer.T(i18n.CatalogFallback)}
	}
	if len(products) == 0 {
		hlog.CtxInfof(ctx, "catalog: upstream returned no products, serving samples")
		return Listing{Products: SampleProducts(), Sample: true}
	}
	return Listing{Products: products}
}

// Search lists products and filters them by term.
func (s *Service) Search(ctx context.Context, term string) Listing {
	l := s.List(ctx)
	l.Products = Search(l.Products, term)
	return l
}

// Sections lists products grouped by category.
func (s *Service) Sections(ctx context.Context) ([]Section, string) {
	l := s.List(ctx)
	return Sections(l.Products), l.Notice
}

// Search keeps products whose name or description contains term, or whose
// category equals term, ignoring case. A blank term keeps everything.
func Search(products []Product, term string) []Product {
	if strings.TrimSpace(term) == "" {
		return products
	}
	needle := strings.ToLower(term)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) ||
			strings.ToLower(p.Category) == needle {
			out = append(out, p)
		}
	}
	return out
}

// Sections groups products into the fixed store sections, in page order.
// Empty sections and unknown categories are left out.
func Sections(products []Product) []Section {
	var out []Section
	for _, sec := range sectionOrder {
		for _, p := range products {
			if p.Category == sec.Category {
				sec.Products = append(sec.Products, p)
			}
		}
		if len(sec.Products) > 0 {
			out = append(out, sec)
		}
	}
	return out
}
