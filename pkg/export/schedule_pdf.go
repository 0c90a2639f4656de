package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// GridEvent is one meeting block on the weekly calendar page. Column and
// Columns come from the overlap layout so side-by-side events share the day
// column width; times are minutes since midnight.
type GridEvent struct {
	Label        string
	Detail       string
	StartMinutes int
	EndMinutes   int
	Column       int
	Columns      int
	Color        string
}

// GridDay is one weekday column of the calendar page.
type GridDay struct {
	Name   string
	Events []GridEvent
}

// ScheduleGrid is the input for the weekly calendar PDF.
type ScheduleGrid struct {
	Title string
	Days  []GridDay

	// GridStartMinutes/GridEndMinutes bound the vertical time axis.
	// Defaults cover 8:00 AM through 8:00 PM.
	GridStartMinutes int
	GridEndMinutes   int
}

type rgb struct{ r, g, b int }

// paletteRGB maps the schedule palette tags onto print colors.
var paletteRGB = map[string]rgb{
	"bg-blue-500":   {59, 130, 246},
	"bg-green-500":  {34, 197, 94},
	"bg-yellow-500": {234, 179, 8},
	"bg-purple-500": {168, 85, 247},
	"bg-red-500":    {239, 68, 68},
	"bg-indigo-500": {99, 102, 241},
	"bg-pink-500":   {236, 72, 153},
	"bg-teal-500":   {20, 184, 166},
}

var defaultEventColor = rgb{107, 114, 128}

// SchedulePDFExporter renders a weekly calendar grid in landscape A4.
type SchedulePDFExporter struct{}

// NewSchedulePDFExporter constructs the grid exporter.
func NewSchedulePDFExporter() *SchedulePDFExporter {
	return &SchedulePDFExporter{}
}

// Render draws the weekly grid: one column per day, hour rules down the
// page, and one filled block per meeting placed by its layout slot.
func (e *SchedulePDFExporter) Render(grid ScheduleGrid) ([]byte, error) {
	if len(grid.Days) == 0 {
		return nil, fmt.Errorf("schedule grid requires at least one day")
	}
	if grid.GridStartMinutes == 0 && grid.GridEndMinutes == 0 {
		grid.GridStartMinutes = 8 * 60
		grid.GridEndMinutes = 20 * 60
	}
	if grid.GridEndMinutes <= grid.GridStartMinutes {
		return nil, fmt.Errorf("grid end must be after grid start")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	left, top, right, bottom := 10.0, 12.0, 10.0, 12.0

	if grid.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 8, grid.Title, "", 1, "C", false, 0, "")
		top += 12
	}

	const timeAxisW = 16.0
	const headerH = 7.0

	gridX := left + timeAxisW
	gridY := top + headerH
	gridW := pageW - left - right - timeAxisW
	gridH := pageH - gridY - bottom
	dayW := gridW / float64(len(grid.Days))
	minuteH := gridH / float64(grid.GridEndMinutes-grid.GridStartMinutes)

	// Day headers.
	pdf.SetFont("Arial", "B", 9)
	for i, day := range grid.Days {
		x := gridX + float64(i)*dayW
		pdf.SetXY(x, top)
		pdf.CellFormat(dayW, headerH, day.Name, "1", 0, "C", false, 0, "")
	}

	// Hour rules and labels.
	pdf.SetFont("Arial", "", 7)
	pdf.SetDrawColor(200, 200, 200)
	for m := grid.GridStartMinutes; m <= grid.GridEndMinutes; m += 60 {
		y := gridY + float64(m-grid.GridStartMinutes)*minuteH
		pdf.Line(gridX, y, gridX+gridW, y)
		pdf.SetXY(left, y-2)
		pdf.CellFormat(timeAxisW-2, 4, clockLabel(m), "", 0, "R", false, 0, "")
	}

	// Day separators.
	pdf.SetDrawColor(120, 120, 120)
	for i := 0; i <= len(grid.Days); i++ {
		x := gridX + float64(i)*dayW
		pdf.Line(x, gridY, x, gridY+gridH)
	}

	// Event blocks.
	for i, day := range grid.Days {
		dayX := gridX + float64(i)*dayW
		for _, ev := range day.Events {
			columns := ev.Columns
			if columns < 1 {
				columns = 1
			}
			start := clamp(ev.StartMinutes, grid.GridStartMinutes, grid.GridEndMinutes)
			end := clamp(ev.EndMinutes, grid.GridStartMinutes, grid.GridEndMinutes)
			if end < start {
				// Bad upstream duration renders as a zero-height block.
				end = start
			}

			blockW := dayW / float64(columns)
			x := dayX + float64(ev.Column)*blockW
			y := gridY + float64(start-grid.GridStartMinutes)*minuteH
			h := float64(end-start) * minuteH

			color, ok := paletteRGB[ev.Color]
			if !ok {
				color = defaultEventColor
			}
			pdf.SetFillColor(color.r, color.g, color.b)
			pdf.Rect(x+0.4, y+0.2, blockW-0.8, h-0.4, "F")

			pdf.SetTextColor(255, 255, 255)
			pdf.SetFont("Arial", "B", 6.5)
			pdf.SetXY(x+1, y+1)
			pdf.CellFormat(blockW-2, 3, ev.Label, "", 2, "L", false, 0, "")
			if ev.Detail != "" && h > 7 {
				pdf.SetFont("Arial", "", 6)
				pdf.SetX(x + 1)
				pdf.CellFormat(blockW-2, 3, ev.Detail, "", 0, "L", false, 0, "")
			}
			pdf.SetTextColor(0, 0, 0)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render schedule pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func clockLabel(minutes int) string {
	hour := minutes / 60
	period := "AM"
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour == 12:
		period = "PM"
	case hour > 12:
		display = hour - 12
		period = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, minutes%60, period)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
