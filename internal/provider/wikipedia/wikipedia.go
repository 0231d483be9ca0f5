package wikipedia

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/RTStats/internal/domain"
	"github.com/John-Robertt/RTStats/internal/provider"
	"github.com/John-Robertt/RTStats/internal/subject"
)

const defaultBaseURL = "https://en.wikipedia.org"

var yearRE = regexp.MustCompile(`\b(1[0-9]{3}|20[0-9]{2})\b`)

// Provider 从 Wikipedia 人物信息框（infobox biography vcard）解析人物信息。
//
// 约束：
// - 信息框、出生日期、职业三者任一缺失都视为页面结构错误（*provider.ParseError）
// - 存在 "Died" 行即视为已故，且必须能解析出去世年份
type Provider struct {
	// BaseURL 为空时使用 https://en.wikipedia.org。
	BaseURL string
}

func (Provider) Name() string { return "wikipedia" }

func (p Provider) baseURL() string {
	u := strings.TrimSpace(p.BaseURL)
	if u == "" {
		return defaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

func (p Provider) PageURL(name subject.Name) string {
	return p.baseURL() + "/wiki/" + url.PathEscape(name.WikiSlug())
}

func (p Provider) Fetch(ctx context.Context, name subject.Name, c *http.Client) ([]byte, string, error) {
	if len(name.Tokens) == 0 {
		return nil, "", errors.New("name 不能为空")
	}
	pageURL := p.PageURL(name)
	b, err := provider.FetchURL(ctx, c, pageURL)
	return b, pageURL, err
}

func (Provider) Parse(html []byte, pageURL string) (domain.Profile, error) {
	if len(html) == 0 {
		return domain.Profile{}, errors.New("html 为空")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return domain.Profile{}, &provider.ParseError{URL: pageURL, Field: "html", Err: err}
	}

	box := doc.Find("table.infobox.biography.vcard").First()
	if box.Length() == 0 {
		box = doc.Find("table.infobox.vcard").First()
	}
	if box.Length() == 0 {
		return domain.Profile{}, &provider.ParseError{URL: pageURL, Field: "infobox"}
	}

	var p domain.Profile

	bday := strings.TrimSpace(box.Find("span.bday").First().Text())
	if len(bday) < 4 {
		return domain.Profile{}, &provider.ParseError{URL: pageURL, Field: "birth date"}
	}
	by, err := strconv.Atoi(bday[:4])
	if err != nil {
		return domain.Profile{}, &provider.ParseError{URL: pageURL, Field: "birth date", Err: err}
	}
	p.BirthYear = by

	var (
		died    *goquery.Selection
		deathOK = true
	)
	box.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		if normSpace(tr.Find("th").First().Text()) != "Died" {
			return true
		}
		died = tr.Find("td.infobox-data").First()
		return false
	})
	if died != nil {
		p.Deceased = true
		p.DeathYear, deathOK = deathYear(died)
		if !deathOK {
			return domain.Profile{}, &provider.ParseError{URL: pageURL, Field: "death year"}
		}
	}

	role := strings.ToLower(normSpace(box.Find("td.infobox-data.role").First().Text()))
	switch {
	case role == "":
		return domain.Profile{}, &provider.ParseError{URL: pageURL, Field: "occupation"}
	case strings.Contains(role, "actress"):
		p.Role = domain.RoleActress
	case strings.Contains(role, "actor"):
		p.Role = domain.RoleActor
	default:
		return domain.Profile{}, &provider.ParseError{URL: pageURL, Field: "occupation", Err: errors.New("occupation does not mention acting: " + role)}
	}

	return p, nil
}

// deathYear 优先读取机器可读的 span.dday（YYYY-MM-DD），否则取单元格文本中的第一个年份。
func deathYear(td *goquery.Selection) (int, bool) {
	if dd := strings.TrimSpace(td.Find("span.dday").First().Text()); len(dd) >= 4 {
		if y, err := strconv.Atoi(dd[:4]); err == nil {
			return y, true
		}
	}
	m := yearRE.FindString(td.Text())
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
