package server

import (
	"context"
	"strings"

	"github.com/chaos-io/fresnel2STL/config"
	nhttp "github.com/chaos-io/fresnel2STL/util/http"
)

// Client 调用一台已在运行的生成服务（-remote 模式），
// 建网在服务端完成，本地只拿结果
type Client struct {
	base string
	cli  nhttp.IClient
}

func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		cli:  nhttp.NewHTTPClient(),
	}
}

// Generate 提交一组毫米参数，返回服务端的生成结果
func (c *Client) Generate(ctx context.Context, p config.Preset) (*GenerateResponse, error) {
	resp := &GenerateResponse{}
	err := c.cli.DoHTTPRequest(ctx, &nhttp.RequestParam{
		RequestURI: c.base + "/api/lens",
		Method:     "POST",
		Header:     map[string]string{"Content-Type": "application/json"},
		Body:       p,
		Response:   resp,
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// FileURL 拼出结果文件的完整下载地址
func (c *Client) FileURL(resp *GenerateResponse) string {
	return c.base + resp.File
}
