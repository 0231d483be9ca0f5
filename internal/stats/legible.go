package stats

import (
	"math"
	"strconv"
)

// Legible 把金额格式化为易读形式：
// - n < 1000：原样输出（无 $）
// - 1000 <= n <= 1_000_000：$<n/1000>K
// - n > 1_000_000：$<n/1_000_000>M
//
// 例如 999 => "999"，1000 => "$1K"，999_999 => "$1000K"，2_500_000 => "$3M"。
func Legible(n int64) string {
	switch {
	case n < 1000:
		return strconv.FormatInt(n, 10)
	case n <= 1_000_000:
		return "$" + strconv.FormatInt(int64(math.Round(float64(n)/1e3)), 10) + "K"
	default:
		return "$" + strconv.FormatInt(int64(math.Round(float64(n)/1e6)), 10) + "M"
	}
}
