package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type getter interface {
	Get(ctx context.Context, dst []byte, url string, requestOptions ...config.RequestOption) (statusCode int, body []byte, err error)
}

// HTTPSource reads products from the upstream product API.
type HTTPSource struct {
	client getter
	url    string
}

// NewHTTPSource builds a hertz client for url bounded by timeout.
func NewHTTPSource(url string, timeout time.Duration) (*HTTPSource, error) {
	c, err := client.NewClient(
		client.WithDialTimeout(timeout),
		client.WithClientReadTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("catalog client: %w", err)
	}
	return &HTTPSource{client: c, url: url}, nil
}

// Products accepts either a bare JSON array or an object with a "data" array.
func (s *HTTPSource) Products(ctx context.Context) ([]Product, error) {
	status, body, err := s.client.Get(ctx, nil, s.url)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.url, err)
	}
	if status != consts.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %d", s.url, status)
	}
	return decodeProducts(body)
}

func decodeProducts(body []byte) ([]Product, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if body[0] == '[' {
		var products []Product
		if err := json.Unmarshal(body, &products); err != nil {
			return nil, fmt.Errorf("decode products: %w", err)
		}
		return products, nil
	}
	var envelope struct {
		Data []Product `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return envelope.Data, nil
}
