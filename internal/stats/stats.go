// Package stats 从作品表与人物信息计算叙述所需的全部派生统计。
//
// 取整规则在整个包内统一：四舍五入，.5 远离 0（math.Round）。
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/John-Robertt/RTStats/internal/domain"
	"github.com/John-Robertt/RTStats/internal/table"
)

const (
	// HighRatedThreshold 是“高分作品”的下限（含）。
	HighRatedThreshold = 85
	// NoPremiereLimit：空档年份不少于该数量时不再逐个列出。
	NoPremiereLimit = 6
)

// Aggregates 是一次运行的只读统计结果（不持久化）。
type Aggregates struct {
	Count int

	Deceased         bool
	DebutYear        int
	EndYear          int // 在世：当前年份；已故：去世年份
	LastLifetimeYear int // 仅 Deceased=true 时有意义
	CareerLength     int
	DebutAge         int // 出生年份未知时为 0
	AverageRate      float64

	NoPremiereYears []int // 升序
	ShowNoPremiere  bool

	HasScores    bool
	AverageScore int
	Best         []domain.FilmRecord // 最高分并列，按年份升序
	Worst        []domain.FilmRecord // 最低分并列，按年份升序
	HighRated    []domain.FilmRecord // >=85 且低于最高分，按分数降序

	HasBoxOffice   bool
	TopGrossing    []domain.FilmRecord
	LowestGrossing []domain.FilmRecord
	TimesLess      int64
	ShowLowest     bool

	BusiestYears []int // 升序
	BusiestCount int
}

// BestScore 返回叙述中引用的最高分（并列时取年份最早的一条）。
func (a Aggregates) BestScore() int {
	if len(a.Best) == 0 {
		return 0
	}
	return a.Best[0].Score.Value
}

func (a Aggregates) WorstScore() int {
	if len(a.Worst) == 0 {
		return 0
	}
	return a.Worst[0].Score.Value
}

func (a Aggregates) TopGross() int64 {
	if len(a.TopGrossing) == 0 {
		return 0
	}
	return a.TopGrossing[0].BoxOffice.Value
}

func (a Aggregates) LowestGross() int64 {
	if len(a.LowestGrossing) == 0 {
		return 0
	}
	return a.LowestGrossing[0].BoxOffice.Value
}

// Compute 计算全部统计。t 必须非空（table.Build 已保证）；now 只取年份。
func Compute(t table.Table, p domain.Profile, now time.Time) Aggregates {
	rows := t.Rows()
	a := Aggregates{Count: len(rows)}

	career(&a, t, rows, p, now)
	scores(&a, rows)
	boxOffice(&a, rows)
	busiest(&a, rows)
	return a
}

func career(a *Aggregates, t table.Table, rows []domain.FilmRecord, p domain.Profile, now time.Time) {
	// 来源按时间倒序排列：最后一行即出道作品。
	a.DebutYear = t.Last().Year
	a.EndYear = now.Year()

	present := make(map[int]struct{}, len(rows))
	if p.Deceased {
		a.Deceased = true
		a.EndYear = p.DeathYear
		a.LastLifetimeYear = a.DebutYear
		seen := false
		for _, r := range rows {
			if r.Year > p.DeathYear {
				continue
			}
			present[r.Year] = struct{}{}
			if !seen || r.Year > a.LastLifetimeYear {
				a.LastLifetimeYear = r.Year
				seen = true
			}
		}
		a.CareerLength = a.LastLifetimeYear - a.DebutYear
	} else {
		for _, r := range rows {
			present[r.Year] = struct{}{}
		}
		a.CareerLength = a.EndYear - a.DebutYear
	}

	if p.BirthYear > 0 {
		a.DebutAge = a.DebutYear - p.BirthYear
	}

	divisor := a.CareerLength
	if divisor < 1 {
		divisor = 1
	}
	a.AverageRate = math.Round(float64(a.Count)/float64(divisor)*10) / 10

	a.NoPremiereYears = symmetricDiff(a.DebutYear, a.EndYear, present)
	a.ShowNoPremiere = len(a.NoPremiereYears) < NoPremiereLimit
}

// symmetricDiff 返回 [from, to] 与 present 的对称差（升序）。
// present 中落在区间外的年份（例如已公布的未来作品）同样会出现在结果里。
func symmetricDiff(from, to int, present map[int]struct{}) []int {
	out := make([]int, 0)
	for y := from; y <= to; y++ {
		if _, ok := present[y]; !ok {
			out = append(out, y)
		}
	}
	for y := range present {
		if y < from || y > to {
			out = append(out, y)
		}
	}
	sort.Ints(out)
	return out
}

func scores(a *Aggregates, rows []domain.FilmRecord) {
	known := make([]domain.FilmRecord, 0, len(rows))
	sum := 0
	for _, r := range rows {
		sum += r.Score.Int()
		if r.Score.Known {
			known = append(known, r)
		}
	}
	if len(known) == 0 {
		return
	}
	a.HasScores = true
	// 分子是全部评分之和（未知记 0），分母只数已知评分。
	a.AverageScore = sum / len(known)

	hi, lo := known[0].Score.Value, known[0].Score.Value
	for _, r := range known[1:] {
		if r.Score.Value > hi {
			hi = r.Score.Value
		}
		if r.Score.Value < lo {
			lo = r.Score.Value
		}
	}

	for _, r := range known {
		v := r.Score.Value
		if v == hi {
			a.Best = append(a.Best, r)
		}
		if v == lo {
			a.Worst = append(a.Worst, r)
		}
		if v >= HighRatedThreshold && v < hi {
			a.HighRated = append(a.HighRated, r)
		}
	}
	byYear(a.Best)
	byYear(a.Worst)
	sort.SliceStable(a.HighRated, func(i, j int) bool {
		return a.HighRated[i].Score.Value > a.HighRated[j].Score.Value
	})
}

func boxOffice(a *Aggregates, rows []domain.FilmRecord) {
	var hi, lo int64
	earning := make([]domain.FilmRecord, 0, len(rows))
	for _, r := range rows {
		if !r.BoxOffice.Positive() {
			continue
		}
		v := r.BoxOffice.Value
		if len(earning) == 0 || v > hi {
			hi = v
		}
		if len(earning) == 0 || v < lo {
			lo = v
		}
		earning = append(earning, r)
	}
	if len(earning) == 0 {
		return
	}
	a.HasBoxOffice = true

	for _, r := range earning {
		if r.BoxOffice.Value == hi {
			a.TopGrossing = append(a.TopGrossing, r)
		}
		if r.BoxOffice.Value == lo {
			a.LowestGrossing = append(a.LowestGrossing, r)
		}
	}
	byYear(a.TopGrossing)
	byYear(a.LowestGrossing)

	a.TimesLess = int64(math.Round(float64(hi) / float64(lo)))
	a.ShowLowest = a.TimesLess > 1
}

func busiest(a *Aggregates, rows []domain.FilmRecord) {
	counts := make(map[int]int, len(rows))
	for _, r := range rows {
		counts[r.Year]++
	}
	for _, c := range counts {
		if c > a.BusiestCount {
			a.BusiestCount = c
		}
	}
	for y, c := range counts {
		if c == a.BusiestCount {
			a.BusiestYears = append(a.BusiestYears, y)
		}
	}
	sort.Ints(a.BusiestYears)
}

// byYear 按年份升序稳定排序（同年保持表序）。
func byYear(recs []domain.FilmRecord) {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Year < recs[j].Year })
}
