package cli

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"farmcrm/internal/models"
	"farmcrm/internal/services"
	"farmcrm/internal/syncer"
)

func (a *App) cmdList(ctx context.Context) error {
	offset := 0
	for {
		page, next, err := a.loader.LoadPage(ctx, offset, a.config.PageSize)
		if err != nil {
			return err
		}
		for _, f := range page {
			mark := " "
			if !f.Synced {
				mark = "*"
			}
			fmt.Printf("%s %-36s  %-24s  %-12s  %s\n",
				mark, f.Id, f.Name, f.Region, f.CreatedAt.Time.Format(time.RFC3339))
		}
		if next == syncer.NoMorePages {
			return nil
		}
		offset = next
	}
}

func (a *App) cmdAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	name := fs.String("name", "", "farmer name (required)")
	region := fs.String("region", "", "region")
	district := fs.String("district", "", "district")
	contact := fs.String("contact", "", "contact")
	crops := fs.String("crops", "", "comma-separated crops")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f := &models.Farmer{
		Name:     *name,
		Region:   *region,
		District: *district,
		Contact:  *contact,
	}
	if *crops != "" {
		for _, c := range strings.Split(*crops, ",") {
			if c = strings.TrimSpace(c); c != "" {
				f.CropsGrown = append(f.CropsGrown, c)
			}
		}
	}

	res, err := a.service.Create(ctx, f)
	if err != nil {
		return err
	}
	if res.Mirrored {
		fmt.Printf("added %s (synced)\n", res.Farmer.Id)
	} else {
		fmt.Printf("added %s (saved locally, will sync later)\n", res.Farmer.Id)
	}
	return nil
}

// importColumns is the fixed CSV layout; the first row is a header and
// is skipped. No column sniffing.
var importColumns = []string{
	"name", "region", "district", "community", "contact",
	"gender", "age", "education", "farm_size", "crops", "status", "join_date",
}

func (a *App) cmdImport(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: farmcrm import <file.csv>")
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	rows, err := readImportRows(file)
	if err != nil {
		return err
	}

	report, err := a.service.Import(ctx, rows, func(inserted, total int) {
		fmt.Printf("inserted %d/%d\n", inserted, total)
	})
	if err != nil {
		return err
	}

	for _, f := range report.Failures {
		fmt.Printf("row %d rejected: %s\n", f.Row, f.Reason)
	}
	fmt.Printf("imported %d farmers, %d rows rejected\n", report.Inserted, len(report.Failures))
	return nil
}

func readImportRows(r io.Reader) ([]services.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(importColumns)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	rows := make([]services.ImportRow, 0, len(records)-1)
	for _, rec := range records[1:] { // skip header
		row := services.ImportRow{
			Name:           strings.TrimSpace(rec[0]),
			Region:         strings.TrimSpace(rec[1]),
			District:       strings.TrimSpace(rec[2]),
			Community:      strings.TrimSpace(rec[3]),
			Contact:        strings.TrimSpace(rec[4]),
			Gender:         models.Gender(strings.TrimSpace(rec[5])),
			EducationLevel: models.EducationLevel(strings.TrimSpace(rec[7])),
			Status:         models.Status(strings.TrimSpace(rec[10])),
		}
		if v := strings.TrimSpace(rec[6]); v != "" {
			if age, err := strconv.Atoi(v); err == nil {
				row.Age = &age
			}
		}
		if v := strings.TrimSpace(rec[8]); v != "" {
			if size, err := strconv.ParseFloat(v, 64); err == nil {
				row.FarmSize = &size
			}
		}
		if v := strings.TrimSpace(rec[9]); v != "" {
			for _, c := range strings.Split(v, ";") {
				if c = strings.TrimSpace(c); c != "" {
					row.CropsGrown = append(row.CropsGrown, c)
				}
			}
		}
		if v := strings.TrimSpace(rec[11]); v != "" {
			if d, err := time.ParseInLocation("2006-01-02", v, time.UTC); err == nil {
				row.JoinDate = &d
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (a *App) cmdSync(ctx context.Context) error {
	res, err := a.engine.Run(ctx)
	if err != nil {
		return err
	}
	if res.Skipped {
		fmt.Printf("sync skipped (%s)\n", res.SkipReason)
		return nil
	}
	fmt.Printf("pushed %d farmers in %d chunks\n", res.Pushed, res.Chunks)
	return nil
}

func (a *App) cmdRefresh(ctx context.Context) error {
	if err := a.loader.Refresh(ctx); err != nil {
		return err
	}
	fmt.Println("local cache refreshed")
	return nil
}

func (a *App) cmdReset(ctx context.Context) error {
	if err := a.service.Reset(ctx); err != nil {
		return err
	}
	fmt.Println("local cache cleared")
	return nil
}
