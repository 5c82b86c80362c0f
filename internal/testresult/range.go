package testresult

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	// rangePattern は "4.5-11.0" のような下限-上限の基準範囲
	rangePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)`)
)

// lastNumber は文字列中の最後の数値を返す。"68 U/L" なら68。
func lastNumber(s string) (float64, bool) {
	matches := numberPattern.FindAllString(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(matches[len(matches)-1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// OutOfRange は検査値が基準範囲外かを判定する。
// 基準範囲は "a-b"（a未満またはb超で範囲外）、"<b"（b以上で範囲外）、
// ">a"（a以下で範囲外）の3形式に対応する。数値を含まない結果や
// 解釈できない基準範囲は範囲内として扱う。
func OutOfRange(result, reference string) bool {
	value, ok := lastNumber(result)
	if !ok {
		return false
	}
	ref := strings.TrimSpace(reference)

	switch {
	case strings.HasPrefix(ref, "<"):
		high, ok := firstNumber(ref)
		return ok && value >= high
	case strings.HasPrefix(ref, ">"):
		low, ok := firstNumber(ref)
		return ok && value <= low
	}

	m := rangePattern.FindStringSubmatch(ref)
	if m == nil {
		return false
	}
	low, errLow := strconv.ParseFloat(m[1], 64)
	high, errHigh := strconv.ParseFloat(m[2], 64)
	if errLow != nil || errHigh != nil {
		return false
	}
	return value < low || value > high
}

func firstNumber(s string) (float64, bool) {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	return v, err == nil
}
