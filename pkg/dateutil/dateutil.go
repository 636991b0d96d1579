package dateutil

import (
	"time"
)

// Bangkok is Indochina Time (UTC+7), the zone Thai filing deadlines are set in.
var Bangkok = time.FixedZone("ICT", 7*60*60)

// TaxYearFor returns the tax year normally filed at the given date. Thai personal income
// tax follows the calendar year and is filed during the following year.
func TaxYearFor(now time.Time) int {
	return now.In(Bangkok).Year() - 1
}

// FilingDeadline returns the end of 31 March of the year after taxYear, the deadline for
// the annual personal income tax return.
func FilingDeadline(taxYear int) time.Time {
	return EndOfDay(time.Date(taxYear+1, time.March, 31, 0, 0, 0, 0, Bangkok))
}

// IsPastDeadline reports whether the filing deadline for taxYear has passed at now.
func IsPastDeadline(taxYear int, now time.Time) bool {
	return now.After(FilingDeadline(taxYear))
}

// EndOfDay returns the last instant of the day for a given date
func EndOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 999999999, date.Location())
}
