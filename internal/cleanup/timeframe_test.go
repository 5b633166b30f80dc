package cleanup_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ghops/internal/cleanup"
)

const (
	validMonthsValueConstant     = "1m"
	validDaysValueConstant       = "30d"
	validHoursValueConstant      = "24h"
	uppercaseSuffixConstant      = "12H"
	paddedValueConstant          = " 5d "
	emptyValueConstant           = ""
	bareSuffixValueConstant      = "d"
	bareQuantityValueConstant    = "30"
	zeroQuantityValueConstant    = "0d"
	negativeQuantityConstant     = "-3h"
	unknownSuffixValueConstant   = "2w"
	fractionalQuantityConstant   = "1.5d"
	invalidErrorFragmentConstant = "invalid time frame"
)

func TestParseTimeFrame(testInstance *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expected      cleanup.TimeFrame
		expectFailure bool
	}{
		{name: "months", input: validMonthsValueConstant, expected: cleanup.TimeFrame{Quantity: 1, Unit: cleanup.TimeFrameUnitMonths}},
		{name: "days", input: validDaysValueConstant, expected: cleanup.TimeFrame{Quantity: 30, Unit: cleanup.TimeFrameUnitDays}},
		{name: "hours", input: validHoursValueConstant, expected: cleanup.TimeFrame{Quantity: 24, Unit: cleanup.TimeFrameUnitHours}},
		{name: "uppercase_suffix", input: uppercaseSuffixConstant, expected: cleanup.TimeFrame{Quantity: 12, Unit: cleanup.TimeFrameUnitHours}},
		{name: "surrounding_whitespace", input: paddedValueConstant, expected: cleanup.TimeFrame{Quantity: 5, Unit: cleanup.TimeFrameUnitDays}},
		{name: "empty", input: emptyValueConstant, expectFailure: true},
		{name: "suffix_only", input: bareSuffixValueConstant, expectFailure: true},
		{name: "quantity_only", input: bareQuantityValueConstant, expectFailure: true},
		{name: "zero_quantity", input: zeroQuantityValueConstant, expectFailure: true},
		{name: "negative_quantity", input: negativeQuantityConstant, expectFailure: true},
		{name: "unknown_suffix", input: unknownSuffixValueConstant, expectFailure: true},
		{name: "fractional_quantity", input: fractionalQuantityConstant, expectFailure: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			parsedTimeFrame, parseError := cleanup.ParseTimeFrame(testCase.input)
			if testCase.expectFailure {
				require.Error(subTest, parseError)
				require.Contains(subTest, parseError.Error(), invalidErrorFragmentConstant)
				return
			}

			require.NoError(subTest, parseError)
			require.Equal(subTest, testCase.expected, parsedTimeFrame)
		})
	}
}

func TestCutoffFrom(testInstance *testing.T) {
	referenceTime := time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		timeFrame      cleanup.TimeFrame
		expectedCutoff time.Time
	}{
		{
			name:           "one_calendar_month",
			timeFrame:      cleanup.TimeFrame{Quantity: 1, Unit: cleanup.TimeFrameUnitMonths},
			expectedCutoff: time.Date(2024, time.March, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			name:           "thirty_fixed_days",
			timeFrame:      cleanup.TimeFrame{Quantity: 30, Unit: cleanup.TimeFrameUnitDays},
			expectedCutoff: referenceTime.Add(-30 * 24 * time.Hour),
		},
		{
			name:           "six_hours",
			timeFrame:      cleanup.TimeFrame{Quantity: 6, Unit: cleanup.TimeFrameUnitHours},
			expectedCutoff: time.Date(2024, time.March, 31, 6, 0, 0, 0, time.UTC),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expectedCutoff, testCase.timeFrame.CutoffFrom(referenceTime))
		})
	}
}

func TestTimeFrameString(testInstance *testing.T) {
	require.Equal(testInstance, validDaysValueConstant, cleanup.TimeFrame{Quantity: 30, Unit: cleanup.TimeFrameUnitDays}.String())
}
