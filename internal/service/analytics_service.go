package service

import (
	"context"
	"strings"
	"time"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/policy"
	"bekind-internal/internal/repository"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// AnalyticsService 客户统计（仅管理员）
type AnalyticsService struct {
	guests repository.GuestsRepository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewAnalyticsService 创建统计服务
func NewAnalyticsService(guests repository.GuestsRepository, loc *time.Location, logger *zap.Logger) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{guests: guests, loc: loc, now: time.Now, logger: logger}
}

// AnalyticsRequest 日期范围（yyyy-mm-dd，闭区间）；为空时取本周一到周日
type AnalyticsRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// DateRange 解析后的时间范围
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ResolveRange 开始日 00:00:00，结束日 23:59:59（业务时区）
func (s *AnalyticsService) ResolveRange(req AnalyticsRequest) (DateRange, error) {
	today := s.now().In(s.loc)
	// 周一为一周第一天
	offset := (int(today.Weekday()) + 6) % 7
	monday := time.Date(today.Year(), today.Month(), today.Day()-offset, 0, 0, 0, 0, s.loc)

	start := monday
	end := monday.AddDate(0, 0, 6)
	if v := strings.TrimSpace(req.StartDate); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, s.loc)
		if err != nil {
			return DateRange{}, validationError(MsgInvalidDateRange)
		}
		start = t
	}
	if v := strings.TrimSpace(req.EndDate); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, s.loc)
		if err != nil {
			return DateRange{}, validationError(MsgInvalidDateRange)
		}
		end = t
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, s.loc)
	if end.Before(start) {
		return DateRange{}, validationError(MsgInvalidDateRange)
	}
	return DateRange{Start: start, End: end}, nil
}

// StatusRow 某个经理/营销人员的各状态数量
type StatusRow struct {
	OwnerID   int64          `json:"owner_id"`
	OwnerName string         `json:"owner_name"`
	Counts    map[string]int `json:"counts"`
	Total     int            `json:"total"`
}

// StatusReport 固定状态列的透视表
type StatusReport struct {
	Title     string         `json:"title"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Columns   []string       `json:"columns"`
	Rows      []StatusRow    `json:"rows"`
	Totals    map[string]int `json:"totals"`
	Total     int            `json:"total"`
}

// ByManager 按房源经理统计
func (s *AnalyticsService) ByManager(ctx context.Context, actor domain.Account, req AnalyticsRequest) (*StatusReport, error) {
	return s.report(ctx, actor, req, "Quản lý", s.guests.CountByManagerAndStatus)
}

// ByMarketer 按营销人员统计
func (s *AnalyticsService) ByMarketer(ctx context.Context, actor domain.Account, req AnalyticsRequest) (*StatusReport, error) {
	return s.report(ctx, actor, req, "Marketing", s.guests.CountByMarketerAndStatus)
}

type countFunc func(ctx context.Context, start, end time.Time) ([]domain.StatusCount, error)

func (s *AnalyticsService) report(ctx context.Context, actor domain.Account, req AnalyticsRequest, title string, count countFunc) (*StatusReport, error) {
	if !policy.CanViewAnalytics(actor.Role) {
		return nil, authorizationError(MsgPermissionDenied)
	}
	r, err := s.ResolveRange(req)
	if err != nil {
		return nil, err
	}
	counts, err := count(ctx, r.Start, r.End)
	if err != nil {
		s.logger.Error("Failed to count guests", zap.String("group", title), zap.Error(err))
		return nil, persistenceError(MsgAnalyticsFailed, err)
	}
	return pivot(title, r, counts, s.loc), nil
}

// pivot 原始分组行 → 每个 owner 一行，状态列固定
func pivot(title string, r DateRange, counts []domain.StatusCount, loc *time.Location) *StatusReport {
	columns := make([]string, 0, len(domain.AnalyticsStatuses))
	for _, st := range domain.AnalyticsStatuses {
		columns = append(columns, string(st))
	}
	report := &StatusReport{
		Title:     title,
		StartDate: r.Start.In(loc).Format(dateLayout),
		EndDate:   r.End.In(loc).Format(dateLayout),
		Columns:   columns,
		Rows:      []StatusRow{},
		Totals:    emptyCounts(columns),
	}

	index := map[int64]int{}
	for _, c := range counts {
		i, ok := index[c.OwnerID]
		if !ok {
			i = len(report.Rows)
			index[c.OwnerID] = i
			report.Rows = append(report.Rows, StatusRow{OwnerID: c.OwnerID, OwnerName: c.OwnerName, Counts: emptyCounts(columns)})
		}
		row := &report.Rows[i]
		row.Counts[string(c.Status)] += c.Count
		row.Total += c.Count
		report.Totals[string(c.Status)] += c.Count
		report.Total += c.Count
	}
	return report
}

func emptyCounts(columns []string) map[string]int {
	m := make(map[string]int, len(columns))
	for _, c := range columns {
		m[c] = 0
	}
	return m
}

// Overview 汇总：总数、各状态数量、成交率
type Overview struct {
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ClosedRate float64        `json:"closed_rate"`
	Managers   int            `json:"managers"`
	Marketers  int            `json:"marketers"`
}

// Overview 管理员首页概览
func (s *AnalyticsService) Overview(ctx context.Context, actor domain.Account, req AnalyticsRequest) (*Overview, error) {
	byMarketer, err := s.ByMarketer(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	byManager, err := s.ByManager(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	out := &Overview{
		StartDate: byMarketer.StartDate,
		EndDate:   byMarketer.EndDate,
		Total:     byMarketer.Total,
		ByStatus:  byMarketer.Totals,
		Managers:  len(byManager.Rows),
		Marketers: len(byMarketer.Rows),
	}
	if out.Total > 0 {
		out.ClosedRate = float64(out.ByStatus[string(domain.GuestStatusClosed)]) / float64(out.Total)
	}
	return out, nil
}
