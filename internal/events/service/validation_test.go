package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	events "my-calendar/internal/events/service"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"25-12-2023", "25-12-2023", true},
		{"1-2-2024", "01-02-2024", true},
		{"29-02-2024", "29-02-2024", true},
		{"31-02-2023", "", false},
		{"29-02-2023", "", false},
		{"not-a-date", "", false},
		{"2023-12-25", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := events.NormalizeDate(tt.raw)
			if !tt.ok {
				var verr *events.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Message, "DD-MM-YYYY")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"10:00", "10:00", true},
		{"10:30:59", "10:30", true},
		{"9:05", "09:05", true},
		{"23:59:00", "23:59", true},
		{"24:00", "", false},
		{"10:60", "", false},
		{"ten", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := events.NormalizeTime(tt.raw)
			if !tt.ok {
				var verr *events.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Message, "HH:MM")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
