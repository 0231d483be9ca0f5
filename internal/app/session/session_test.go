package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John-Robertt/RTStats/internal/domain"
	"github.com/John-Robertt/RTStats/internal/provider"
	"github.com/John-Robertt/RTStats/internal/subject"
	"github.com/John-Robertt/RTStats/internal/table"
)

type fakeSource struct {
	films      map[string][]domain.RawFilm // key: rt slug
	filmsErr   error
	profile    domain.Profile
	profileErr error

	looked []string
}

func (f *fakeSource) LookupFilmography(ctx context.Context, name subject.Name) ([]domain.RawFilm, error) {
	f.looked = append(f.looked, name.Slug())
	if f.filmsErr != nil {
		return nil, f.filmsErr
	}
	rows, ok := f.films[name.Slug()]
	if !ok {
		return nil, provider.ErrNotFound
	}
	return rows, nil
}

func (f *fakeSource) LookupProfile(ctx context.Context, name subject.Name) (domain.Profile, error) {
	if f.profileErr != nil {
		return domain.Profile{}, f.profileErr
	}
	return f.profile, nil
}

func hanks() *fakeSource {
	return &fakeSource{
		films: map[string][]domain.RawFilm{
			"tom_hanks": {
				{Title: "Movie A", Year: "2020", Score: "90", BoxOffice: "5000000"},
				{Title: "Movie B", Year: "2010", Score: "60", BoxOffice: "500"},
			},
		},
		profile: domain.Profile{Role: domain.RoleActor, BirthYear: 1956},
	}
}

func newSession(src provider.Source, input string, opts Options) (*Session, *strings.Builder) {
	out := &strings.Builder{}
	return &Session{
		Source:  src,
		In:      strings.NewReader(input),
		Out:     out,
		Options: opts,
		Now:     func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) },
	}, out
}

func TestRun_NotFoundRetriesUntilKnownSubject(t *testing.T) {
	src := hanks()
	s, out := newSession(src, "nobody here\n\n  Tom   HANKS \nn\n", Options{})

	res, err := s.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "tom_hanks", res.Subject.Slug())
	assert.Equal(t, []string{"nobody_here", "tom_hanks"}, src.looked)
	assert.Equal(t, 2, strings.Count(out.String(), MsgNotFound))
	assert.Equal(t, 3, strings.Count(out.String(), PromptSubject))
	assert.Contains(t, out.String(), "There are totally 2 movies in Tom Hanks's filmography.")
	assert.True(t, strings.HasSuffix(out.String(), MsgBye+"\n"))
	assert.Empty(t, res.ExportPath)
	assert.Equal(t, 2, res.Table.Len())
	assert.Equal(t, 2010, res.Stats.DebutYear)
}

func TestRun_ExportChoiceLoopsOnWrongInput(t *testing.T) {
	dir := t.TempDir()
	s, out := newSession(hanks(), "tom hanks\nmaybe\n\nY\n", Options{OutDir: dir})

	res, err := s.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out.String(), PromptExport))
	assert.Equal(t, 2, strings.Count(out.String(), PromptWrong))
	assert.Equal(t, filepath.Join(dir, "tom_hanks_filmography.csv"), res.ExportPath)
	assert.Contains(t, out.String(), "Filmography saved to "+res.ExportPath)

	b, err := os.ReadFile(res.ExportPath)
	require.NoError(t, err)
	assert.Equal(t, ",title,year,score,box office\n1,Movie A,2020,90,5000000\n2,Movie B,2010,60,500\n", string(b))
}

func TestRun_PresuppliedSubjectAndExportAnswer(t *testing.T) {
	src := hanks()
	s, out := newSession(src, "", Options{ExportSet: true, Export: false})

	_, err := s.Run(context.Background(), "tom hanks")
	require.NoError(t, err)

	assert.NotContains(t, out.String(), PromptSubject)
	assert.NotContains(t, out.String(), PromptExport)
	assert.Contains(t, out.String(), MsgBye)
}

func TestRun_PresuppliedSubjectNotFoundFallsBackToPrompt(t *testing.T) {
	src := hanks()
	s, out := newSession(src, "tom hanks\n", Options{ExportSet: true})

	res, err := s.Run(context.Background(), "john doe")
	require.NoError(t, err)

	assert.Equal(t, []string{"john_doe", "tom_hanks"}, src.looked)
	assert.Equal(t, 1, strings.Count(out.String(), MsgNotFound))
	assert.Equal(t, "tom_hanks", res.Subject.Slug())
}

func TestRun_ShowTablePrintsPreview(t *testing.T) {
	s, out := newSession(hanks(), "", Options{ExportSet: true, ShowTable: true})

	_, err := s.Run(context.Background(), "tom hanks")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Movie A")
	assert.Contains(t, out.String(), "╭")
}

func TestRun_InputClosed(t *testing.T) {
	t.Run("subject", func(t *testing.T) {
		s, _ := newSession(hanks(), "", Options{})
		_, err := s.Run(context.Background(), "")
		require.ErrorIs(t, err, ErrInputClosed)
		st, ok := StateOf(err)
		require.True(t, ok)
		assert.Equal(t, StateAwaitingSubject, st)
	})

	t.Run("export choice", func(t *testing.T) {
		s, _ := newSession(hanks(), "tom hanks\nx\n", Options{})
		_, err := s.Run(context.Background(), "")
		require.ErrorIs(t, err, ErrInputClosed)
		st, _ := StateOf(err)
		assert.Equal(t, StateAwaitExportChoice, st)
	})
}

func TestRun_EmptyFilmographyStopsBeforeStats(t *testing.T) {
	src := hanks()
	src.films["tom_hanks"] = []domain.RawFilm{}
	s, out := newSession(src, "", Options{})

	_, err := s.Run(context.Background(), "tom hanks")
	require.Error(t, err)
	assert.True(t, table.IsEmpty(err))
	st, _ := StateOf(err)
	assert.Equal(t, StateBuildTable, st)
	assert.NotContains(t, out.String(), "There are totally")
}

func TestRun_FatalSourceErrors(t *testing.T) {
	t.Run("malformed biography", func(t *testing.T) {
		src := hanks()
		src.profileErr = &provider.ParseError{URL: "https://wiki.test/wiki/Tom_Hanks", Field: "birth date"}
		s, _ := newSession(src, "", Options{})

		_, err := s.Run(context.Background(), "tom hanks")
		require.Error(t, err)
		assert.True(t, provider.IsMalformed(err))
		st, _ := StateOf(err)
		assert.Equal(t, StateBuildProfile, st)
	})

	t.Run("network", func(t *testing.T) {
		src := hanks()
		src.filmsErr = &provider.HTTPStatusError{URL: "https://rt.test/celebrity/tom_hanks", StatusCode: 503}
		s, out := newSession(src, "", Options{})

		_, err := s.Run(context.Background(), "tom hanks")
		var he *provider.HTTPStatusError
		require.True(t, errors.As(err, &he))
		assert.Equal(t, 503, he.StatusCode)
		st, _ := StateOf(err)
		assert.Equal(t, StateLookup, st)
		assert.NotContains(t, out.String(), MsgNotFound)
	})

	t.Run("bad row", func(t *testing.T) {
		src := hanks()
		src.films["tom_hanks"] = []domain.RawFilm{{Title: "X", Year: "soon"}}
		s, _ := newSession(src, "", Options{})

		_, err := s.Run(context.Background(), "tom hanks")
		var re *table.RowError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, 1, re.Row)
	})
}

func TestRun_RequiresDependencies(t *testing.T) {
	_, err := (&Session{}).Run(context.Background(), "")
	require.Error(t, err)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "await_export_choice", StateAwaitExportChoice.String())
	assert.Equal(t, "state(42)", State(42).String())
}
