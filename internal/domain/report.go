package domain

import (
	"context"
	"fmt"
	"time"
)

// Report is the output of the fixed report-generation algorithm.
type Report struct {
	Type        string      `json:"report_type"`
	GeneratedAt time.Time   `json:"generated_at"`
	Data        interface{} `json:"data"`
}

// ReportSource supplies the two mandatory extension points of the report
// algorithm: collecting raw data and processing it into the report body.
type ReportSource interface {
	Name() string
	Collect(ctx context.Context) (interface{}, error)
	Process(data interface{}) (interface{}, error)
}

// ReportValidator is an optional hook run before collection.
type ReportValidator interface {
	Validate(ctx context.Context) error
}

// ReportSaver is an optional hook run after formatting.
type ReportSaver interface {
	Save(report *Report) error
}

// GenerateReport runs the fixed algorithm: validate, collect, process,
// format, save. Only Collect and Process are mandatory; sources implement
// ReportValidator or ReportSaver to hook the other steps.
func GenerateReport(ctx context.Context, source ReportSource) (*Report, error) {
	if validator, ok := source.(ReportValidator); ok {
		if err := validator.Validate(ctx); err != nil {
			return nil, fmt.Errorf("report validation failed: %w", err)
		}
	}

	data, err := source.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("report collection failed: %w", err)
	}

	processed, err := source.Process(data)
	if err != nil {
		return nil, fmt.Errorf("report processing failed: %w", err)
	}

	report := &Report{
		Type:        source.Name(),
		GeneratedAt: time.Now(),
		Data:        processed,
	}

	if saver, ok := source.(ReportSaver); ok {
		if err := saver.Save(report); err != nil {
			return nil, fmt.Errorf("report save failed: %w", err)
		}
	}
	return report, nil
}
