// Package export renders a projected task list as CSV, JSON or PDF.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/query"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts csv, json or pdf in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatPDF:
		return f, nil
	default:
		return "", errors.NewInvalidInputError("format", s, "supported formats are csv, json, pdf")
	}
}

// Report is one projected list plus the context it was produced in.
type Report struct {
	Tasks       []query.View
	Counts      query.Counts
	Params      query.Params
	GeneratedAt time.Time
	// DateFormat is a Go time layout for deadline columns. Empty means
	// YYYY-MM-DD.
	DateFormat string
	// FontPath is a TrueType font for PDF output. The built-in fonts only
	// cover Latin-1, so titles in other scripts need one.
	FontPath string
}

// NewReport projects tasks with p as of now.
func NewReport(tasks []domain.Task, p query.Params, now time.Time) Report {
	projected := query.Project(tasks, p, now)
	return Report{
		Tasks:       query.Views(projected, now),
		Counts:      query.Count(projected, tasks),
		Params:      p,
		GeneratedAt: now,
	}
}

// Write renders r to w in format f.
func Write(w io.Writer, f Format, r Report) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, r)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatPDF:
		return writePDF(w, r)
	default:
		return errors.NewInvalidInputError("format", string(f), "supported formats are csv, json, pdf")
	}
}

var csvHeader = []string{"ID", "Title", "Detail", "Deadline", "Completed", "Overdue"}

func writeCSV(w io.Writer, r Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, t := range r.Tasks {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			t.Detail,
			t.Deadline,
			strconv.FormatBool(t.IsCompleted),
			strconv.FormatBool(t.Overdue),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

type jsonReport struct {
	Tasks  []query.View `json:"tasks"`
	Shown  int          `json:"shown"`
	Total  int          `json:"total"`
	Status string       `json:"status"`
	Due    string       `json:"due"`
	Sort   string       `json:"sort"`
	Search string       `json:"search,omitempty"`
}

func writeJSON(w io.Writer, r Report) error {
	tasks := r.Tasks
	if tasks == nil {
		tasks = []query.View{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Tasks:  tasks,
		Shown:  r.Counts.Shown,
		Total:  r.Counts.Total,
		Status: r.Params.Completion.String(),
		Due:    r.Params.Deadline.String(),
		Sort:   r.Params.Sort.String(),
		Search: r.Params.Search,
	})
}

func writePDF(w io.Writer, r Report) error {
	layout := r.DateFormat
	if layout == "" {
		layout = domain.DateLayout
	}
	loc := r.GeneratedAt.Location()

	pdf := gofpdf.New("P", "mm", "A4", "")
	family := "Arial"
	bold, italic := "B", "I"
	// Core fonts are cp1252; translate titles typed in UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if r.FontPath != "" {
		family = "ReportFont"
		bold, italic = "", ""
		pdf.AddUTF8Font(family, "", r.FontPath)
		tr = func(s string) string { return s }
	}
	pdf.AddPage()

	pdf.SetFont(family, bold, 14)
	pdf.Cell(40, 10, "Task List")
	pdf.Ln(10)

	pdf.SetFont(family, "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("%d of %d tasks  |  status=%s due=%s sort=%s  |  %s",
		r.Counts.Shown, r.Counts.Total,
		r.Params.Completion, r.Params.Deadline, r.Params.Sort,
		r.GeneratedAt.Format("2006-01-02 15:04")))
	pdf.Ln(8)

	if len(r.Tasks) == 0 {
		pdf.SetFont(family, italic, 10)
		pdf.Cell(0, 6, "No tasks match.")
	}

	for _, t := range r.Tasks {
		mark := "[ ]"
		if t.IsCompleted {
			mark = "[x]"
		}
		due := t.Deadline
		if d, err := t.DeadlineTime(loc); err == nil {
			due = d.In(loc).Format(layout)
		}
		if t.Overdue {
			due += " (overdue)"
			pdf.SetTextColor(180, 0, 0)
		}

		pdf.SetFont(family, bold, 10)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s #%d %s  due %s", mark, t.ID, t.Title, due)), "0", "L", false)
		pdf.SetTextColor(0, 0, 0)
		if t.Detail != "" {
			pdf.SetFont(family, "", 9)
			pdf.MultiCell(0, 5, tr(t.Detail), "0", "L", false)
		}
		pdf.Ln(2)
	}

	return pdf.Output(w)
}
