package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNotFound 表示来源站点上不存在该人物（对应 HTTP 404/410）。
// 上层据此重新提示输入，而不是终止运行。
var ErrNotFound = errors.New("subject not found")

// HTTPStatusError 表示站点返回了非 2xx 的 HTTP 状态码。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d location=%s", e.StatusCode, loc)
}

// ParseError 表示页面缺少必须的结构（例如人物信息框里没有出生日期）。
// 这类错误没有降级方案，上层直接终止本次运行。
type ParseError struct {
	URL   string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("page %s: missing or invalid %s: %v", e.URL, e.Field, e.Err)
	}
	return fmt.Sprintf("page %s: missing or invalid %s", e.URL, e.Field)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsMalformed 判断 err 是否为页面结构错误。
func IsMalformed(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}

// FetchURL 发起 GET 并读取 body；404/410 映射为 ErrNotFound，其余非 2xx 返回 *HTTPStatusError。
func FetchURL(ctx context.Context, c *http.Client, u string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("http client 不能为空")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, u)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{URL: u, StatusCode: resp.StatusCode, Location: resp.Header.Get("Location")}
	}
	return io.ReadAll(resp.Body)
}
