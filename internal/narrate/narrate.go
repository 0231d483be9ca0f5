// Package narrate 把统计结果渲染为多段叙述文本。
//
// 约束：只做代词/单复数一致与模板拼接，不做任何统计计算。
package narrate

import (
	"embed"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/John-Robertt/RTStats/internal/domain"
	"github.com/John-Robertt/RTStats/internal/stats"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	tmpl     *template.Template
	tmplOnce sync.Once
	tmplErr  error
)

// Input 是一次叙述所需的全部数据。
type Input struct {
	Name    string // 展示用姓名，例如 "Tom Hanks"
	Profile domain.Profile
	Stats   stats.Aggregates
}

type view struct {
	Name string
	P    domain.Pronouns
	A    stats.Aggregates
}

func templates() (*template.Template, error) {
	tmplOnce.Do(func() {
		funcs := template.FuncMap{
			"cap":         capitalize,
			"plural":      plural,
			"films":       films,
			"filmsScored": filmsScored,
			"years":       years,
			"legible":     stats.Legible,
			"rate":        func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) },
		}
		tmpl, tmplErr = template.New("narrate").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	})
	return tmpl, tmplErr
}

// Render 把报告写入 w。
func Render(w io.Writer, in Input) error {
	t, err := templates()
	if err != nil {
		return fmt.Errorf("解析叙述模板失败：%w", err)
	}
	v := view{Name: in.Name, P: in.Profile.Pronouns(), A: in.Stats}
	return t.ExecuteTemplate(w, "report", v)
}

// Report 与 Render 相同，但返回字符串。
func Report(in Input) (string, error) {
	var b strings.Builder
	if err := Render(&b, in); err != nil {
		return "", err
	}
	return b.String(), nil
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// films 输出 'Title' (Year), 'Title' (Year)。
func films(recs []domain.FilmRecord) string {
	parts := make([]string, 0, len(recs))
	for _, r := range recs {
		parts = append(parts, fmt.Sprintf("'%s' (%d)", r.Title, r.Year))
	}
	return strings.Join(parts, ", ")
}

// filmsScored 输出 'Title' (Year) - 90%, ...
func filmsScored(recs []domain.FilmRecord) string {
	parts := make([]string, 0, len(recs))
	for _, r := range recs {
		parts = append(parts, fmt.Sprintf("'%s' (%d) - %d%%", r.Title, r.Year, r.Score.Value))
	}
	return strings.Join(parts, ", ")
}

func years(ys []int) string {
	parts := make([]string, 0, len(ys))
	for _, y := range ys {
		parts = append(parts, strconv.Itoa(y))
	}
	return strings.Join(parts, ", ")
}
