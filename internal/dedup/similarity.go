package dedup

import (
	"math"
	"strings"
)

// SimilarText 回傳兩字串共同字元數：先找第一個最長共同子字串，再遞迴比對左右兩側剩餘部分
func SimilarText(a, b string) int {
	return similarChars([]rune(a), []rune(b))
}

func similarChars(a, b []rune) int {
	posA, posB, max := longestCommonSubstring(a, b)
	if max == 0 {
		return 0
	}

	sum := max
	if posA > 0 && posB > 0 {
		sum += similarChars(a[:posA], b[:posB])
	}
	if posA+max < len(a) && posB+max < len(b) {
		sum += similarChars(a[posA+max:], b[posB+max:])
	}
	return sum
}

// longestCommonSubstring 只在長度嚴格變長時才更新，所以回傳的是第一個最長子字串
func longestCommonSubstring(a, b []rune) (posA, posB, max int) {
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > max {
				max = k
				posA = i
				posB = j
			}
		}
	}
	return posA, posB, max
}

// SimilarPercent 依 SimilarText 計算百分比，兩者皆為空字串時為 0
func SimilarPercent(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	return float64(similarChars(ra, rb)) * 2 * 100 / float64(total)
}

// TitleSimilarity 不分大小寫的標題相似度（四捨五入到整數百分比）。
// 第一個最長子字串的選擇與參數順序有關，這裡取兩個方向的較大值讓結果對稱。
func TitleSimilarity(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	forward := SimilarPercent(a, b)
	backward := SimilarPercent(b, a)
	return int(math.Round(math.Max(forward, backward)))
}
