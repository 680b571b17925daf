package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmcrm/internal/models"
)

// ImportRow is one parsed spreadsheet row offered for bulk creation.
// Parsing the sheet itself is the caller's concern.
type ImportRow struct {
	Name           string
	Region         string
	District       string
	Community      string
	Contact        string
	Gender         models.Gender
	Age            *int
	EducationLevel models.EducationLevel
	FarmSize       *float64
	CropsGrown     []string
	Status         models.Status
	JoinDate       *time.Time
}

// ImportFailure is one rejected row. Row uses spreadsheet numbering:
// input index + 2 (1-based rows plus a header row).
type ImportFailure struct {
	Row    int
	Input  ImportRow
	Reason string
}

// ImportReport summarizes a bulk import.
type ImportReport struct {
	Inserted int
	Failures []ImportFailure
}

// ProgressFunc is called after each inserted chunk with running totals.
type ProgressFunc func(inserted, total int)

// Import validates rows independently and inserts the valid ones into the
// local cache in chunks, each with a fresh id, dirty, carrying provisional
// timestamps. Invalid rows go into the failure report and are written
// nowhere. A nil progress is allowed.
func (s *FarmerService) Import(ctx context.Context, rows []ImportRow, progress ProgressFunc) (*ImportReport, error) {
	report := &ImportReport{}
	now := time.Now().UTC()

	var valid []*models.Farmer
	for i, row := range rows {
		f := &models.Farmer{
			Name:           row.Name,
			Region:         row.Region,
			District:       row.District,
			Community:      row.Community,
			Contact:        row.Contact,
			Gender:         row.Gender,
			Age:            row.Age,
			EducationLevel: row.EducationLevel,
			FarmSize:       row.FarmSize,
			CropsGrown:     row.CropsGrown,
			Status:         row.Status,
			JoinDate:       row.JoinDate,
		}

		reason := ""
		switch {
		case row.Name == "":
			reason = "name is required"
		case row.Region == "":
			reason = "region is required"
		default:
			if err := f.Validate(); err != nil {
				reason = err.Error()
			}
		}
		if reason != "" {
			report.Failures = append(report.Failures, ImportFailure{
				Row:    i + 2,
				Input:  row,
				Reason: reason,
			})
			continue
		}

		f.Id = uuid.NewString()
		f.CreatedAt = models.Provisional(now)
		f.UpdatedAt = models.Provisional(now)
		f.Synced = false
		valid = append(valid, f)
	}

	for begin := 0; begin < len(valid); begin += s.chunkSize {
		end := begin + s.chunkSize
		if end > len(valid) {
			end = len(valid)
		}
		if err := s.farmers.BulkUpsert(ctx, valid[begin:end]); err != nil {
			return report, fmt.Errorf("failed to insert import chunk: %w", err)
		}
		report.Inserted = end
		if progress != nil {
			progress(end, len(valid))
		}
	}

	s.log.Info(ctx, "bulk import finished",
		"inserted", report.Inserted, "rejected", len(report.Failures))
	return report, nil
}
