package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient 默认 30s 超时的通用客户端
func NewHTTPClient() IClient {
	return &HTTPClient{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// DoHTTPRequest 发起请求
// Body 支持 []byte / io.Reader / 任意可 json 序列化的对象；
// Response 非空时把响应体按 json 解进去
func (c *HTTPClient) DoHTTPRequest(ctx context.Context, p *RequestParam) error {
	var body io.Reader
	switch b := p.Body.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(b)
	case io.Reader:
		body = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, p.Method, p.RequestURI, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	for k, v := range p.Header {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("status code %d: %s", resp.StatusCode, data)
	}

	if p.Response != nil && len(data) > 0 {
		if err := json.Unmarshal(data, p.Response); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
