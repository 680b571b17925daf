package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmcrm/internal/models"
)

func importRow(name string) ImportRow {
	return ImportRow{Name: name, Region: "Central", Status: models.StatusActive}
}

func TestImport_AllValid(t *testing.T) {
	svc, fr, _, _ := setupService(t)
	ctx := context.Background()

	rows := []ImportRow{importRow("A"), importRow("B"), importRow("C")}
	report, err := svc.Import(ctx, rows, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Inserted)
	assert.Empty(t, report.Failures)

	// imported records are dirty until the next sync run
	n, err := fr.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestImport_RowNumbersCountFromHeader(t *testing.T) {
	svc, _, _, _ := setupService(t)

	bad := importRow("")
	rows := []ImportRow{importRow("A"), bad, importRow("C")}
	report, err := svc.Import(context.Background(), rows, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Inserted)
	require.Len(t, report.Failures, 1)
	// input index 1, plus the header row and 1-based numbering
	assert.Equal(t, 3, report.Failures[0].Row)
	assert.Equal(t, "name is required", report.Failures[0].Reason)
}

func TestImport_ValidationReasons(t *testing.T) {
	svc, _, _, _ := setupService(t)

	noRegion := ImportRow{Name: "D"}
	badGender := importRow("E")
	badGender.Gender = "Unknown"
	negAge := importRow("F")
	age := -1
	negAge.Age = &age

	report, err := svc.Import(context.Background(), []ImportRow{noRegion, badGender, negAge}, nil)
	require.NoError(t, err)

	assert.Zero(t, report.Inserted)
	require.Len(t, report.Failures, 3)
	assert.Equal(t, "region is required", report.Failures[0].Reason)
	assert.Equal(t, 2, report.Failures[0].Row)
	assert.Contains(t, report.Failures[1].Reason, "gender")
	assert.Contains(t, report.Failures[2].Reason, "age")
}

func TestImport_ChunkedProgress(t *testing.T) {
	svc, fr, _, _ := setupService(t)
	svc.chunkSize = 2
	ctx := context.Background()

	rows := make([]ImportRow, 5)
	for i := range rows {
		rows[i] = importRow("Farmer")
	}

	var calls [][2]int
	report, err := svc.Import(ctx, rows, func(inserted, total int) {
		calls = append(calls, [2]int{inserted, total})
	})
	require.NoError(t, err)

	assert.Equal(t, 5, report.Inserted)
	assert.Equal(t, [][2]int{{2, 5}, {4, 5}, {5, 5}}, calls)

	n, err := fr.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestImport_Empty(t *testing.T) {
	svc, _, _, _ := setupService(t)

	report, err := svc.Import(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, report.Inserted)
	assert.Empty(t, report.Failures)
}
