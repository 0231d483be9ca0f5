package rottentomatoes

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/RTStats/internal/domain"
	"github.com/John-Robertt/RTStats/internal/provider"
	"github.com/John-Robertt/RTStats/internal/subject"
)

const defaultBaseURL = "https://www.rottentomatoes.com"

// 作品表的行选择器：旧版页面用 celebrity-filmography__tbody，新版用 data-qa 标记。
var rowSelectors = []string{
	"tbody.celebrity-filmography__tbody tr",
	"[data-qa='celebrity-filmography-movies'] tr",
}

// Provider 实现 Rotten Tomatoes 人物页的抓取与作品表解析。
//
// 约束：
// - 人物页 URL 直接由 slug 拼出：/celebrity/<first_last>
// - 404 视为“查无此人”（provider.ErrNotFound），由会话层重新提示
// - Parse 只读取行上的 data-* 属性，不做类型转换（交给 table.Build）
type Provider struct {
	// BaseURL 为空时使用 https://www.rottentomatoes.com。
	BaseURL string
}

func (Provider) Name() string { return "rottentomatoes" }

func (p Provider) baseURL() string {
	u := strings.TrimSpace(p.BaseURL)
	if u == "" {
		return defaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

// PageURL 返回人物页地址。
func (p Provider) PageURL(name subject.Name) string {
	return p.baseURL() + "/celebrity/" + url.PathEscape(name.Slug())
}

func (p Provider) Fetch(ctx context.Context, name subject.Name, c *http.Client) ([]byte, string, error) {
	if len(name.Tokens) == 0 {
		return nil, "", errors.New("name 不能为空")
	}
	pageURL := p.PageURL(name)
	b, err := provider.FetchURL(ctx, c, pageURL)
	return b, pageURL, err
}

// Parse 提取作品表的每一行。页面没有电影作品表时返回空切片（由 table.Build 报告空作品表）。
func (Provider) Parse(html []byte, pageURL string) ([]domain.RawFilm, error) {
	if len(html) == 0 {
		return nil, errors.New("html 为空")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &provider.ParseError{URL: pageURL, Field: "html", Err: err}
	}

	var rows *goquery.Selection
	for _, sel := range rowSelectors {
		rows = doc.Find(sel)
		if rows.Length() > 0 {
			break
		}
	}

	out := make([]domain.RawFilm, 0, rows.Length())
	rows.Each(func(_ int, s *goquery.Selection) {
		title, ok := s.Attr("data-title")
		if !ok {
			// 分组标题/占位行没有 data-title。
			return
		}
		out = append(out, domain.RawFilm{
			Title:     normSpace(title),
			Year:      attr(s, "data-year"),
			Score:     attr(s, "data-audiencescore"),
			BoxOffice: attr(s, "data-boxoffice"),
		})
	})
	return out, nil
}

func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return strings.TrimSpace(v)
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
