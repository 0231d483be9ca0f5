package domain

// Score 是观众评分（0–100）。
//
// 约束：Known=false 表示来源没有给出评分（来源里的 "0" 也按未知处理，
// 该站点的评分体系里不存在真实的 0 分）。
type Score struct {
	Value int
	Known bool
}

func KnownScore(v int) Score { return Score{Value: v, Known: true} }

// Int 返回参与求和时使用的数值；未知评分记为 0。
func (s Score) Int() int {
	if !s.Known {
		return 0
	}
	return s.Value
}

// Money 是票房（美元）。Known=false 表示来源没有票房数据。
type Money struct {
	Value int64
	Known bool
}

func KnownMoney(v int64) Money { return Money{Value: v, Known: true} }

func (m Money) Int() int64 {
	if !m.Known {
		return 0
	}
	return m.Value
}

// Positive 判断该票房能否参与极值/倍数统计（已知且大于 0）。
func (m Money) Positive() bool { return m.Known && m.Value > 0 }

// FilmRecord 是一条规范化后的作品记录（构造后不再修改）。
type FilmRecord struct {
	Title     string
	Year      int
	Score     Score
	BoxOffice Money
}

// RawFilm 是 Record Source 返回的原始记录：字段保持来源里的字符串形态，
// 类型转换统一交给 table.Build。
type RawFilm struct {
	Title     string
	Year      string
	Score     string
	BoxOffice string
}
