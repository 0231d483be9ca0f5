package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/John-Robertt/RTStats/internal/domain"
	"github.com/John-Robertt/RTStats/internal/subject"
)

var _ Source = Web{}

// Web 用两个站点组合出 Source：作品表来自 Films，人物信息来自 Bio。
type Web struct {
	Films  FilmographyProvider
	Bio    ProfileProvider
	Client *http.Client
	Logger *zap.Logger
}

// Error 是 provider 阶段的可追溯错误。
type Error struct {
	Provider string
	Stage    string // "fetch" 或 "parse"
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider=%s stage=%s: %v", e.Provider, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (w Web) LookupFilmography(ctx context.Context, name subject.Name) ([]domain.RawFilm, error) {
	if w.Films == nil {
		return nil, errors.New("filmography provider 不能为空")
	}
	log := w.logger().With(zap.String("provider", w.Films.Name()), zap.String("subject", name.Slug()))

	html, pageURL, err := w.Films.Fetch(ctx, name, w.Client)
	if err != nil {
		log.Debug("fetch failed", zap.Error(err))
		return nil, &Error{Provider: w.Films.Name(), Stage: "fetch", Err: err}
	}
	films, err := w.Films.Parse(html, pageURL)
	if err != nil {
		log.Debug("parse failed", zap.String("url", pageURL), zap.Error(err))
		return nil, &Error{Provider: w.Films.Name(), Stage: "parse", Err: err}
	}
	log.Info("filmography loaded", zap.String("url", pageURL), zap.Int("rows", len(films)))
	return films, nil
}

func (w Web) LookupProfile(ctx context.Context, name subject.Name) (domain.Profile, error) {
	if w.Bio == nil {
		return domain.Profile{}, errors.New("profile provider 不能为空")
	}
	log := w.logger().With(zap.String("provider", w.Bio.Name()), zap.String("subject", name.WikiSlug()))

	html, pageURL, err := w.Bio.Fetch(ctx, name, w.Client)
	if err != nil {
		log.Debug("fetch failed", zap.Error(err))
		return domain.Profile{}, &Error{Provider: w.Bio.Name(), Stage: "fetch", Err: err}
	}
	p, err := w.Bio.Parse(html, pageURL)
	if err != nil {
		log.Debug("parse failed", zap.String("url", pageURL), zap.Error(err))
		return domain.Profile{}, &Error{Provider: w.Bio.Name(), Stage: "parse", Err: err}
	}
	log.Info("profile loaded",
		zap.String("url", pageURL),
		zap.String("role", string(p.Role)),
		zap.Bool("deceased", p.Deceased),
		zap.Int("death_year", p.DeathYear))
	return p, nil
}

func (w Web) logger() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger
}
