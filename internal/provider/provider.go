package provider

import (
	"context"
	"net/http"

	"github.com/John-Robertt/RTStats/internal/domain"
	"github.com/John-Robertt/RTStats/internal/subject"
)

// Source 是统计流程依赖的唯一数据接口（Record Source）。
//
// 约束：
// - LookupFilmography 在人物不存在时返回可被 errors.Is(err, ErrNotFound) 识别的错误
// - 返回的记录保持来源顺序（最新在前）
type Source interface {
	LookupFilmography(ctx context.Context, name subject.Name) ([]domain.RawFilm, error)
	LookupProfile(ctx context.Context, name subject.Name) (domain.Profile, error)
}

// FilmographyProvider 把“站点变化”限制在 provider 子包内部。
//
// 约束：
// - Fetch 不做缓存、不做重试（重试由 httpx 统一实现）
// - Parse 必须是纯函数：相同输入 => 相同输出
type FilmographyProvider interface {
	Name() string
	Fetch(ctx context.Context, name subject.Name, c *http.Client) (html []byte, pageURL string, err error)
	Parse(html []byte, pageURL string) ([]domain.RawFilm, error)
}

// ProfileProvider 与 FilmographyProvider 相同，但解析人物信息。
type ProfileProvider interface {
	Name() string
	Fetch(ctx context.Context, name subject.Name, c *http.Client) (html []byte, pageURL string, err error)
	Parse(html []byte, pageURL string) (domain.Profile, error)
}
