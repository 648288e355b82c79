package service

import (
	"context"
	"fmt"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
)

// ReportService builds per-day period reports.
type ReportService struct {
	repo ProgressRepository
}

// NewReportService creates a ReportService.
func NewReportService(repo ProgressRepository) *ReportService {
	return &ReportService{repo: repo}
}

// PeriodReport breaks a session's progress down per day over [startDate, endDate].
// Both dates are validated before anything is read. A start after the end
// yields an empty report. Range limits are left to the caller.
func (s *ReportService) PeriodReport(ctx context.Context, sessionID, startDate, endDate string) (*entities.PeriodReport, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}

	start, err := entities.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}
	end, err := entities.ParseDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("parse end date: %w", err)
	}

	var records []entities.ProgressRecord
	if !start.After(end) {
		records, err = s.repo.QueryByPrefix(ctx, sessionID, "")
		if err != nil {
			return nil, fmt.Errorf("query session records: %w", err)
		}
	}

	report := entities.BuildPeriodReport(records, start, end)
	return &report, nil
}
