package subject

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrEmpty 表示输入里没有任何可用的姓名片段。
var ErrEmpty = errors.New("姓名不能为空")

// Name 是规范化后的人物名：按空白切分、统一小写。
//
// 约束：Tokens 非空；各种展示/查询形态都由 Tokens 派生，不保存原始输入。
type Name struct {
	Tokens []string
}

var titleCaser = cases.Title(language.English)

// Parse 规范化用户输入的自由文本，例如 "  tom   HANKS " => [tom hanks]。
func Parse(s string) (Name, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Name{}, ErrEmpty
	}
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, strings.ToLower(f))
	}
	return Name{Tokens: tokens}, nil
}

// Slug 用于 Rotten Tomatoes 路径：tom_hanks。
func (n Name) Slug() string { return strings.Join(n.Tokens, "_") }

// WikiSlug 用于 Wikipedia 路径：Tom_Hanks。
func (n Name) WikiSlug() string {
	return strings.Join(n.titled(), "_")
}

// Display 用于叙述输出：Tom Hanks。
func (n Name) Display() string {
	return strings.Join(n.titled(), " ")
}

// ExportFileName 是导出 CSV 的文件名：tom_hanks_filmography.csv。
func (n Name) ExportFileName() string { return n.Slug() + "_filmography.csv" }

func (n Name) titled() []string {
	out := make([]string, 0, len(n.Tokens))
	for _, t := range n.Tokens {
		out = append(out, titleCaser.String(t))
	}
	return out
}
