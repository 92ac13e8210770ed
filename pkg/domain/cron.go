package domain

import (
	"fmt"
	"regexp"
	"strings"

	domainerrors "github.com/valeger/automl/pkg/domain/errors"
)

// No cron-expression library appears anywhere in the retrieved example
// corpus; this is a direct, idiomatic port of the original five-field
// regex grammar (minute hour day-of-month month day-of-week), not a
// general cron parser.
var (
	reCronMinute = regexp.MustCompile(
		`^([1-5]?[0-9](,|$))+` +
			`|^(\*|[1-5]?[0-9]-[1-5]?[0-9])(/[1-5]?[0-9]$|$)`,
	)
	reCronHour = regexp.MustCompile(
		`^((2[0-3]|1?[0-9])(,|$))+` +
			`|^(\*|(2[0-3]|1?[0-9])-(2[0-3]|1?[0-9]))(/(2[0-3]|1?[0-9])$|$)`,
	)
	reCronDay = regexp.MustCompile(
		`^((3[0-1]|[1-2]?[0-9])(,|$))+` +
			`|^(\*|(3[0-1]|[1-2]?[0-9])-(3[0-1]|[1-2]?[0-9]))(/(3[0-1]|[1-2]?[0-9])$|$)`,
	)
	reCronMonth = regexp.MustCompile(
		`^((1[0-2]|[0-9])(,|$))+` +
			`|^(\*|(1[0-2]|[0-9])-(1[0-2]|[0-9]))(/(1[0-2]|[0-9])$|$)`,
	)
	reCronWeekday = regexp.MustCompile(
		`^([0-6](,|$))+` + `|^(\*|[0-6]-[0-6])(/[0-6]$|$)`,
	)
)

// ValidateSchedule checks a five-field cron expression (minute hour
// day-of-month month day-of-week). It returns a *domainerrors.ErrValidation
// naming the offending field on failure.
func ValidateSchedule(schedule string) error {
	fields := strings.Split(schedule, " ")
	if len(fields) != 5 {
		return domainerrors.NewValidation(
			fmt.Sprintf("invalid cron schedule %q: must have 5 fields", schedule),
		)
	}

	checks := []struct {
		name string
		re   *regexp.Regexp
	}{
		{"minute", reCronMinute},
		{"hour", reCronHour},
		{"day-of-month", reCronDay},
		{"month", reCronMonth},
		{"day-of-week", reCronWeekday},
	}

	for i, c := range checks {
		if !fullMatch(c.re, fields[i]) {
			return domainerrors.NewValidation(
				fmt.Sprintf("invalid cron schedule %q: bad %s field %q", schedule, c.name, fields[i]),
			)
		}
	}

	return nil
}

func fullMatch(re *regexp.Regexp, s string) bool {
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}
