package service

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
)

// Analyzer thresholds. These are part of the contract, not tunable knobs.
const (
	gapRecordMinutes  = 30
	gapWarningMinutes = 90
	imbalanceHours    = 4.0
	earlyClassMinutes = 9 * 60
	lateClassMinutes  = 18 * 60
	maxEarlySlots     = 3
	maxLateSlots      = 2
	weekdayCount      = 5
)

// ScheduleAnalyzerService produces post-hoc diagnostics over a finished
// schedule: per-day load, idle gaps and workload warnings.
type ScheduleAnalyzerService struct {
	logger *zap.Logger
}

// NewScheduleAnalyzerService constructs the analyzer.
func NewScheduleAnalyzerService(logger *zap.Logger) *ScheduleAnalyzerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleAnalyzerService{logger: logger}
}

// Analyze groups slots by weekday and derives load, gaps and warnings. The
// day set is Monday-Friday, extended to the full week when weekend slots
// appear.
func (s *ScheduleAnalyzerService) Analyze(slots []models.SelectedUnit) models.ScheduleAnalysis {
	byDay := make(map[string][]models.SelectedUnit)
	days := weekdayCount
	for _, slot := range slots {
		day := slot.EffectiveDay()
		if day == "" {
			continue
		}
		if models.DayIndex(day) > weekdayCount {
			days = 7
		}
		byDay[day] = append(byDay[day], slot)
	}

	analysis := models.ScheduleAnalysis{Warnings: []string{}}
	var earlySlots, lateSlots int

	for i := 1; i <= days; i++ {
		day := models.DayName(i)
		daySlots := byDay[day]
		sort.Slice(daySlots, func(a, b int) bool { return daySlots[a].TimeFrom < daySlots[b].TimeFrom })

		minutes := 0
		for _, slot := range daySlots {
			minutes += slot.Duration()
			if slot.TimeFrom < earlyClassMinutes {
				earlySlots++
			}
			if slot.TimeTo > lateClassMinutes {
				lateSlots++
			}
		}
		analysis.Days = append(analysis.Days, models.DayLoad{
			Day:   day,
			Count: len(daySlots),
			Hours: roundHours(minutes),
		})

		for j := 0; j+1 < len(daySlots); j++ {
			gap := daySlots[j+1].TimeFrom - daySlots[j].TimeTo
			if gap > gapRecordMinutes {
				analysis.Gaps = append(analysis.Gaps, models.ScheduleGap{
					Day:        day,
					AfterSlot:  daySlots[j].SlotID,
					BeforeSlot: daySlots[j+1].SlotID,
					Minutes:    gap,
				})
			}
		}
	}

	analysis.Warnings = append(analysis.Warnings, s.loadWarnings(analysis, earlySlots, lateSlots)...)
	return analysis
}

func (s *ScheduleAnalyzerService) loadWarnings(analysis models.ScheduleAnalysis, earlySlots, lateSlots int) []string {
	var warnings []string

	maxHours := 0.0
	minHours := math.MaxFloat64
	busyDays := 0
	for _, day := range analysis.Days {
		if day.Hours <= 0 {
			continue
		}
		busyDays++
		if day.Hours > maxHours {
			maxHours = day.Hours
		}
		if day.Hours < minHours {
			minHours = day.Hours
		}
	}
	if busyDays > 1 && maxHours-minHours > imbalanceHours {
		warnings = append(warnings, fmt.Sprintf("Schedule is unbalanced: %.1f hours difference between the fullest and lightest day", maxHours-minHours))
	}

	longGaps := 0
	for _, gap := range analysis.Gaps {
		if gap.Minutes > gapWarningMinutes {
			longGaps++
		}
	}
	if longGaps > 0 {
		warnings = append(warnings, fmt.Sprintf("Schedule contains %d long gaps of more than %d minutes", longGaps, gapWarningMinutes))
	}

	if earlySlots > maxEarlySlots {
		warnings = append(warnings, fmt.Sprintf("%d classes start before %s", earlySlots, models.FormatMinutes(earlyClassMinutes)))
	}
	if lateSlots > maxLateSlots {
		warnings = append(warnings, fmt.Sprintf("%d classes end after %s", lateSlots, models.FormatMinutes(lateClassMinutes)))
	}
	return warnings
}

func roundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*10) / 10
}
