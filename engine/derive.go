package engine

import (
	"math"
	"time"
)

// ProjectEndDate computes the contract end date from the start date, the
// month count and the first-day convention. The projection is calendar-month
// arithmetic: the same day-of-month N months later, clamped to the last
// valid day of the target month. When the first day is not counted (the
// usual civil-law convention) one calendar day is subtracted.
func ProjectEndDate(start time.Time, months int, includeFirstDay bool) time.Time {
	end := addMonthsClamped(start, months)
	if !includeFirstDay {
		end = end.AddDate(0, 0, -1)
	}
	return end
}

// addMonthsClamped adds months without the day-overflow normalization of
// time.AddDate: Jan 31 plus one month is Feb 28/29, not Mar 2/3.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	m := int(month) - 1 + months
	year += m / 12
	m %= 12
	if m < 0 {
		// Go integer division truncates toward zero; renormalize for
		// negative month offsets.
		m += 12
		year--
	}
	month = time.Month(m + 1)
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BrokerageAmount computes the brokerage fee from the deposit, the monthly
// rent and the rate in percent. The monthly rent is first converted into a
// jeonse-equivalent lump sum at the fixed x100 multiplier, then the rate is
// applied and the result floored to the won.
func BrokerageAmount(deposit, monthlyRent int64, ratePercent float64) int64 {
	transaction := deposit + monthlyRent*100
	return int64(math.Floor(float64(transaction) * ratePercent / 100))
}
