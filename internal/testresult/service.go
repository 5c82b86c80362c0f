// Package testresult は検査結果の参照を提供する。
//
// 検査結果は所有者ごとに公開範囲が決まる。開発用の共有結果は全ユーザーに表示し、
// 他ユーザーの結果は表示しない。
package testresult

import (
	"strings"

	"github.com/hitoshi/careportal/internal/model"
)

// Tab は検査結果画面のタブ。
type Tab string

const (
	TabAll      Tab = "all"
	TabAbnormal Tab = "abnormal"
	TabPending  Tab = "pending"
	TabArchived Tab = "archived"
)

// TabCounts はタブごとの件数。
type TabCounts struct {
	All      int `json:"all"`
	Abnormal int `json:"abnormal"`
	Pending  int `json:"pending"`
	Archived int `json:"archived"`
}

// Listing は検査結果画面の表示内容。
type Listing struct {
	Tab     Tab                `json:"tab"`
	Results []model.TestResult `json:"results"`
	Counts  TabCounts          `json:"counts"`
}

// Service は検査結果の参照を提供する。
type Service struct {
	results []model.TestResult
}

// NewService は固定データを持つServiceを生成する。
func NewService() *Service {
	return &Service{results: catalog}
}

// ParseTab はクエリ文字列をタブに変換する。空文字列は全件タブとして扱う。
func ParseTab(s string) (Tab, error) {
	switch t := Tab(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TabAll, nil
	case TabAll, TabAbnormal, TabPending, TabArchived:
		return t, nil
	default:
		return "", model.NewInvalidFilterError(s, "all, abnormal, pending, archived")
	}
}

// Visible はユーザーに表示してよい検査結果かを判定する。
func Visible(r model.TestResult, userID string) bool {
	return r.UserID == DevUserID || r.UserID == userID
}

// Matches は検査結果がタブの条件に一致するかを判定する。
func (t Tab) Matches(r model.TestResult) bool {
	switch t {
	case TabAbnormal:
		return r.Status == model.TestResultStatusAbnormal
	case TabPending:
		return r.Status == model.TestResultStatusPending
	case TabArchived:
		return r.Status == model.TestResultStatusArchived
	default:
		return true
	}
}

// List はユーザーに表示できる検査結果のうちタブに一致するものを返す。
func (s *Service) List(userID string, tab Tab) *Listing {
	l := &Listing{Tab: tab, Results: []model.TestResult{}}
	for _, r := range s.results {
		if !Visible(r, userID) {
			continue
		}
		l.Counts.All++
		switch r.Status {
		case model.TestResultStatusAbnormal:
			l.Counts.Abnormal++
		case model.TestResultStatusPending:
			l.Counts.Pending++
		case model.TestResultStatusArchived:
			l.Counts.Archived++
		}
		if tab.Matches(r) {
			l.Results = append(l.Results, annotate(r))
		}
	}
	return l
}

// Get は指定検査結果を返す。表示できない結果はRESULT_NOT_FOUNDとして扱う。
func (s *Service) Get(userID, resultID string) (*model.TestResult, error) {
	for _, r := range s.results {
		if r.ID == resultID && Visible(r, userID) {
			annotated := annotate(r)
			return &annotated, nil
		}
	}
	return nil, model.NewResultNotFoundError(resultID)
}

// annotate は検査項目に範囲外フラグを付けた複製を返す。
func annotate(r model.TestResult) model.TestResult {
	analytes := make([]model.Analyte, len(r.Analytes))
	for i, a := range r.Analytes {
		a.OutOfRange = OutOfRange(a.Result, a.Reference)
		analytes[i] = a
	}
	r.Analytes = analytes
	return r
}
