package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valeger/automl/pkg/domain"
)

func TestValidateSchedule(t *testing.T) {
	theory := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{"every minute", "* * * * *", false},
		{"every day at 03:30", "30 3 * * *", false},
		{"weekday-restricted", "0 9 * * 1-5", false},
		{"comma list of minutes", "0,15,30,45 * * * *", false},
		{"step syntax", "*/5 * * * *", false},
		{"too few fields", "* * * *", true},
		{"too many fields", "* * * * * *", true},
		{"minute out of range", "60 * * * *", true},
		{"hour out of range", "* 24 * * *", true},
		{"day-of-month out of range", "* * 32 * *", true},
		{"month out of range", "* * * 13 *", true},
		{"weekday out of range", "* * * * 7", true},
		{"non-numeric field", "x * * * *", true},
	}

	for _, testcase := range theory {
		t.Run(testcase.name, func(t *testing.T) {
			err := domain.ValidateSchedule(testcase.schedule)
			if testcase.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
