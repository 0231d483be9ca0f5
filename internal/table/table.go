package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/John-Robertt/RTStats/internal/domain"
)

// EmptyFilmographyError 表示来源返回了 0 条作品记录。
// 空表上的统计没有定义（多处比值会除以 0），上层必须在进入统计前终止本次运行。
type EmptyFilmographyError struct{}

func (*EmptyFilmographyError) Error() string { return "filmography is empty" }

func IsEmpty(err error) bool {
	var e *EmptyFilmographyError
	return errors.As(err, &e)
}

// RowError 表示某一行的字段无法转换为目标类型（Row 为 1 起始的行号）。
type RowError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Table 是按来源顺序排列的作品表。
//
// 约束：
// - 行序与来源一致，不做任何排序（来源把最早的作品放在最后，debut 依赖这一点）
// - 对外索引从 1 开始
// - 构造后只读
type Table struct {
	rows []domain.FilmRecord
}

// Build 把原始记录转换为 Table：评分 "0"/缺失 => 未知，票房缺失 => 未知。
func Build(raw []domain.RawFilm) (Table, error) {
	if len(raw) == 0 {
		return Table{}, &EmptyFilmographyError{}
	}
	rows := make([]domain.FilmRecord, 0, len(raw))
	for i, r := range raw {
		rec, err := convert(i+1, r)
		if err != nil {
			return Table{}, err
		}
		rows = append(rows, rec)
	}
	return Table{rows: rows}, nil
}

// FromRecords 直接用已类型化的记录构造 Table（测试与离线数据使用）。
func FromRecords(recs ...domain.FilmRecord) (Table, error) {
	if len(recs) == 0 {
		return Table{}, &EmptyFilmographyError{}
	}
	return Table{rows: append([]domain.FilmRecord(nil), recs...)}, nil
}

func (t Table) Len() int { return len(t.rows) }

// Row 返回第 i 行（1 起始）。越界会 panic，与切片语义一致。
func (t Table) Row(i int) domain.FilmRecord { return t.rows[i-1] }

// Last 返回表中最后一行（来源顺序中最早的作品）。
func (t Table) Last() domain.FilmRecord { return t.rows[len(t.rows)-1] }

// Rows 返回按表序排列的副本。
func (t Table) Rows() []domain.FilmRecord {
	return append([]domain.FilmRecord(nil), t.rows...)
}

// Each 按表序遍历，idx 从 1 开始。
func (t Table) Each(fn func(idx int, r domain.FilmRecord)) {
	for i, r := range t.rows {
		fn(i+1, r)
	}
}

func convert(row int, r domain.RawFilm) (domain.FilmRecord, error) {
	rec := domain.FilmRecord{Title: strings.TrimSpace(r.Title)}

	ys := strings.TrimSpace(r.Year)
	y, err := strconv.Atoi(ys)
	if err != nil {
		return domain.FilmRecord{}, &RowError{Row: row, Field: "year", Value: r.Year, Err: err}
	}
	rec.Year = y

	ss := strings.TrimSpace(r.Score)
	if ss != "" && ss != "0" {
		v, err := strconv.Atoi(ss)
		if err != nil {
			return domain.FilmRecord{}, &RowError{Row: row, Field: "score", Value: r.Score, Err: err}
		}
		if v < 0 || v > 100 {
			return domain.FilmRecord{}, &RowError{Row: row, Field: "score", Value: r.Score, Err: errors.New("out of range [0,100]")}
		}
		// "00" 之类的写法同样视为未知。
		if v > 0 {
			rec.Score = domain.KnownScore(v)
		}
	}

	bs := strings.TrimSpace(r.BoxOffice)
	if bs != "" {
		v, err := strconv.ParseInt(bs, 10, 64)
		if err != nil {
			return domain.FilmRecord{}, &RowError{Row: row, Field: "box office", Value: r.BoxOffice, Err: err}
		}
		if v < 0 {
			return domain.FilmRecord{}, &RowError{Row: row, Field: "box office", Value: r.BoxOffice, Err: errors.New("negative")}
		}
		rec.BoxOffice = domain.KnownMoney(v)
	}

	return rec, nil
}
