package service

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
	"github.com/H7KZ/Kreditozrouti-sub000/pkg/config"
	"github.com/H7KZ/Kreditozrouti-sub000/pkg/export"
)

const icsProductID = "-//Kreditozrouti//Course Timetable//EN"

// weekdayRules maps ISO weekday numbers onto recurrence weekday constants.
var weekdayRules = []rrule.Weekday{rrule.MO, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

// ExportService renders the current selection as iCalendar, CSV or PDF.
// Weekly slots expand over the configured semester window.
type ExportService struct {
	start  time.Time
	end    time.Time
	loc    *time.Location
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.SugaredLogger
}

// NewExportService constructs the export service from the semester window
// configuration. An empty window defaults to fifteen weeks from today.
func NewExportService(cfg config.ExportConfig, logger *zap.SugaredLogger) (*ExportService, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load export timezone %q: %w", cfg.Timezone, err)
	}

	start := time.Now().In(loc).Truncate(24 * time.Hour)
	if cfg.SemesterStart != "" {
		start, err = time.ParseInLocation("2006-01-02", cfg.SemesterStart, loc)
		if err != nil {
			return nil, fmt.Errorf("parse semester start %q: %w", cfg.SemesterStart, err)
		}
	}
	end := start.AddDate(0, 0, 15*7)
	if cfg.SemesterEnd != "" {
		end, err = time.ParseInLocation("2006-01-02", cfg.SemesterEnd, loc)
		if err != nil {
			return nil, fmt.Errorf("parse semester end %q: %w", cfg.SemesterEnd, err)
		}
	}
	if end.Before(start) {
		return nil, fmt.Errorf("semester window ends before it starts")
	}

	return &ExportService{
		start:  start,
		end:    end,
		loc:    loc,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}, nil
}

// RenderICS serializes the selection as an iCalendar document. Weekly slots
// become recurring events anchored at their first occurrence inside the
// semester window; dated slots become single events.
func (s *ExportService) RenderICS(units []models.SelectedUnit) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)

	now := time.Now().UTC()
	for _, unit := range units {
		start, recurring, err := s.firstOccurrence(unit)
		if err != nil {
			if s.logger != nil {
				s.logger.Warnw("skipping slot in calendar export", "slot_id", unit.SlotID, "error", err)
			}
			continue
		}
		if start.IsZero() {
			// Weekly slot whose weekday never occurs inside the window.
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s@kreditozrouti", unit.SlotID))
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(time.Duration(unit.Duration()) * time.Minute))
		event.SetSummary(fmt.Sprintf("%s (%s)", unit.CourseIdent, unit.UnitType))
		if unit.Location != "" {
			event.SetLocation(unit.Location)
		}
		if recurring {
			until := s.end.AddDate(0, 0, 1).UTC()
			event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;UNTIL=%s", until.Format("20060102T150405Z")))
		}
	}

	return []byte(cal.Serialize()), nil
}

// RenderCSV serializes the selection as a flat CSV table.
func (s *ExportService) RenderCSV(units []models.SelectedUnit) ([]byte, error) {
	return s.csv.Render(s.dataset(units))
}

// RenderPDF serializes the selection as a printable timetable table.
func (s *ExportService) RenderPDF(units []models.SelectedUnit) ([]byte, error) {
	return s.pdf.Render(s.dataset(units), "Course Timetable")
}

// firstOccurrence resolves the concrete start of the slot's first event. For
// dated slots that is the date itself; for weekly slots the first matching
// weekday inside the semester window, found via recurrence expansion. The
// second return reports whether the event recurs.
func (s *ExportService) firstOccurrence(unit models.SelectedUnit) (time.Time, bool, error) {
	if unit.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", unit.Date, s.loc)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("parse slot date %q: %w", unit.Date, err)
		}
		return day.Add(time.Duration(unit.TimeFrom) * time.Minute), false, nil
	}

	index := models.DayIndex(unit.Day)
	if index == 0 {
		return time.Time{}, false, fmt.Errorf("unknown day %q", unit.Day)
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   s.start.Add(time.Duration(unit.TimeFrom) * time.Minute),
		Until:     s.end.AddDate(0, 0, 1),
		Byweekday: []rrule.Weekday{weekdayRules[index]},
	})
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build recurrence for %s: %w", unit.Day, err)
	}

	occurrences := rule.All()
	if len(occurrences) == 0 {
		return time.Time{}, false, nil
	}
	return occurrences[0], true, nil
}

func (s *ExportService) dataset(units []models.SelectedUnit) export.Dataset {
	headers := []string{"Course", "Unit Type", "Day", "Date", "From", "To", "Location"}
	rows := make([]map[string]string, 0, len(units))
	for _, unit := range units {
		rows = append(rows, map[string]string{
			"Course":    unit.CourseIdent,
			"Unit Type": unit.UnitType,
			"Day":       unit.EffectiveDay(),
			"Date":      unit.Date,
			"From":      models.FormatMinutes(unit.TimeFrom),
			"To":        models.FormatMinutes(unit.TimeTo),
			"Location":  unit.Location,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
