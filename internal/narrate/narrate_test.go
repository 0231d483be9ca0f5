package narrate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John-Robertt/RTStats/internal/domain"
	"github.com/John-Robertt/RTStats/internal/stats"
	"github.com/John-Robertt/RTStats/internal/table"
)

var now = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

func rec(title string, year, score int, box int64) domain.FilmRecord {
	r := domain.FilmRecord{Title: title, Year: year}
	if score > 0 {
		r.Score = domain.KnownScore(score)
	}
	if box > 0 {
		r.BoxOffice = domain.KnownMoney(box)
	}
	return r
}

func render(t *testing.T, name string, p domain.Profile, recs ...domain.FilmRecord) string {
	t.Helper()
	tb, err := table.FromRecords(recs...)
	require.NoError(t, err)
	out, err := Report(Input{Name: name, Profile: p, Stats: stats.Compute(tb, p, now)})
	require.NoError(t, err)
	return out
}

func TestReport_TwoFilmScenario(t *testing.T) {
	got := render(t, "Tom Hanks", domain.Profile{Role: domain.RoleActor},
		rec("Movie A", 2020, 90, 5_000_000),
		rec("Movie B", 2010, 60, 500),
	)

	want := strings.Join([]string{
		"There are totally 2 movies in Tom Hanks's filmography. His debut was in 2010 which means his career lasts for 16 years. He averaged 0.1 movies per year.",
		"The simple average score of all the movies with known score the actor was cast is 75 out of 100. The highest rated movie is 'Movie A' (2020) - 90% of users rated it positively. There are no other movies rated higher than 85% score. Lowest rated movie is 'Movie B' (2010) - only 60% of users rated it positively.",
		"'Movie A' (2020) is the actor's most fiscally fruitful film. It grossed $5M worldwide. On the contrary, 'Movie B' (2010) earned just 500 - 10000 times less!",
		"In 2010, 2020 we could see the actor more often than usual - there was 1 premiere of the movies with Tom Hanks starring.",
	}, "\n\n") + "\n"

	assert.Equal(t, want, got)
}

func TestReport_DeceasedActress(t *testing.T) {
	got := render(t, "Audrey Hepburn", domain.Profile{Role: domain.RoleActress, Deceased: true, DeathYear: 1993, BirthYear: 1929},
		rec("Posthumous", 1995, 0, 0),
		rec("Always", 1989, 70, 0),
		rec("Bloodline", 1989, 30, 0),
		rec("Debut", 1988, 0, 0),
	)

	assert.Contains(t, got, "There are totally 4 movies in Audrey Hepburn's filmography.")
	assert.Contains(t, got, "Her debut was in 1988 and her last lifetime movie was released in 1989 which means her career lasted for 1 year.")
	assert.Contains(t, got, "She was 59 years old at the time.")
	assert.Contains(t, got, "She averaged 4.0 movies per year.")
	assert.Contains(t, got, "Only in 1990, 1991, 1992, 1993 no movies with the actress were released.")
	assert.Contains(t, got, "There is no box-office data for the movies with the actress.")
	assert.Contains(t, got, "In 1989 we could see the actress more often than usual - there were 2 premieres of the movies with Audrey Hepburn starring.")
}

func TestReport_TiesAndHighRatedPlural(t *testing.T) {
	got := render(t, "X", domain.Profile{Role: domain.RoleActor},
		rec("Top2", 2020, 95, 900),
		rec("Great", 2019, 90, 100),
		rec("Fine", 2018, 86, 100),
		rec("Top1", 2017, 95, 900),
	)

	assert.Contains(t, got, "Highest rated movies are 'Top1' (2017), 'Top2' (2020) - 95% of users rated them positively.")
	assert.Contains(t, got, "There are 2 more high-rated (85% or more) movies: 'Great' (2019) - 90%, 'Fine' (2018) - 86%.")
	assert.Contains(t, got, "Lowest rated movie is 'Fine' (2018) - only 86% of users rated it positively.")
	assert.Contains(t, got, "'Top1' (2017), 'Top2' (2020) are the actor's most fiscally fruitful films. They grossed 900 worldwide.")
	assert.Contains(t, got, "On the contrary, 'Fine' (2018), 'Great' (2019) earned just 100 - 9 times less!")
}

func TestReport_SingleHighRated(t *testing.T) {
	got := render(t, "X", domain.Profile{Role: domain.RoleActor},
		rec("Best", 2020, 97, 0),
		rec("Good", 2019, 88, 0),
	)
	assert.Contains(t, got, "There is 1 more high-rated (85% or more) movie: 'Good' (2019) - 88%.")
}

func TestReport_NoScoresAndEqualBoxOffice(t *testing.T) {
	got := render(t, "X", domain.Profile{Role: domain.RoleActress},
		rec("A", 2026, 0, 1000),
		rec("B", 2026, 0, 1000),
	)

	assert.Contains(t, got, "There are no audience scores for the movies with the actress.")
	assert.Contains(t, got, "grossed $1K worldwide.")
	assert.NotContains(t, got, "On the contrary")
	assert.Contains(t, got, "Movies with the actress were released every single year.")
}
