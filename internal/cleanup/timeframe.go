package cleanup

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	timeFrameMonthSuffixConstant     = "m"
	timeFrameDaySuffixConstant       = "d"
	timeFrameHourSuffixConstant      = "h"
	hoursPerDayConstant              = 24
	timeFrameInvalidTemplateConstant = "invalid time frame %q: use formats like 1m, 30d, or 24h"
)

// TimeFrameUnit enumerates supported compact duration units.
type TimeFrameUnit string

// Time frame unit enumerations.
const (
	TimeFrameUnitMonths TimeFrameUnit = TimeFrameUnit(timeFrameMonthSuffixConstant)
	TimeFrameUnitDays   TimeFrameUnit = TimeFrameUnit(timeFrameDaySuffixConstant)
	TimeFrameUnitHours  TimeFrameUnit = TimeFrameUnit(timeFrameHourSuffixConstant)
)

// TimeFrame represents a compact duration such as 1m, 30d, or 24h.
type TimeFrame struct {
	Quantity int
	Unit     TimeFrameUnit
}

// ParseTimeFrame interprets compact duration strings. Months are calendar
// months; days and hours are fixed-length intervals.
func ParseTimeFrame(value string) (TimeFrame, error) {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) < 2 {
		return TimeFrame{}, fmt.Errorf(timeFrameInvalidTemplateConstant, value)
	}

	unitSuffix := strings.ToLower(trimmedValue[len(trimmedValue)-1:])
	quantityText := trimmedValue[:len(trimmedValue)-1]

	quantity, parseError := strconv.Atoi(quantityText)
	if parseError != nil || quantity <= 0 {
		return TimeFrame{}, fmt.Errorf(timeFrameInvalidTemplateConstant, value)
	}

	switch TimeFrameUnit(unitSuffix) {
	case TimeFrameUnitMonths, TimeFrameUnitDays, TimeFrameUnitHours:
		return TimeFrame{Quantity: quantity, Unit: TimeFrameUnit(unitSuffix)}, nil
	default:
		return TimeFrame{}, fmt.Errorf(timeFrameInvalidTemplateConstant, value)
	}
}

// CutoffFrom computes the instant separating retained items from stale ones.
func (timeFrame TimeFrame) CutoffFrom(referenceTime time.Time) time.Time {
	switch timeFrame.Unit {
	case TimeFrameUnitMonths:
		return referenceTime.AddDate(0, -timeFrame.Quantity, 0)
	case TimeFrameUnitDays:
		return referenceTime.Add(-time.Duration(timeFrame.Quantity) * hoursPerDayConstant * time.Hour)
	case TimeFrameUnitHours:
		return referenceTime.Add(-time.Duration(timeFrame.Quantity) * time.Hour)
	default:
		return referenceTime
	}
}

// String renders the compact representation.
func (timeFrame TimeFrame) String() string {
	return strconv.Itoa(timeFrame.Quantity) + string(timeFrame.Unit)
}
