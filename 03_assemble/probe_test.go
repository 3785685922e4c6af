package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"plain", "30.500000", 30.5, false},
		{"trailing newline", "6.024\n", 6.024, false},
		{"integer", "12", 12, false},
		{"garbage", "N/A", 0, true},
		{"empty", "", 0, true},
		{"two numbers", "1.0 2.0", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDuration(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrProbe)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
