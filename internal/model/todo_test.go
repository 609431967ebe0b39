package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "ok", in: "Buy milk", want: "Buy milk"},
		{name: "trimmed", in: "   abc  ", want: "abc"},
		{name: "too short", in: "ab", wantErr: true},
		{name: "short after trim", in: "  ab   ", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "multibyte counts runes", in: "äöü", want: "äöü"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateTitle(tt.in)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, MinTitleLength, verr.Min)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStats(t *testing.T) {
	done, pending := Stats([]Todo{
		{ID: 1, Completed: true},
		{ID: 2},
		{ID: 3},
	})
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, pending)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("Active")
	require.NoError(t, err)
	assert.Equal(t, FilterActive, f)

	f, err = ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	_, err = ParseFilter("later")
	assert.Error(t, err)
}

func TestFilter_Next(t *testing.T) {
	assert.Equal(t, FilterActive, FilterAll.Next())
	assert.Equal(t, FilterCompleted, FilterActive.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())
}

func TestFilter_Match(t *testing.T) {
	open := Todo{ID: 1}
	closed := Todo{ID: 2, Completed: true}

	assert.True(t, FilterAll.Match(open))
	assert.True(t, FilterAll.Match(closed))
	assert.True(t, FilterActive.Match(open))
	assert.False(t, FilterActive.Match(closed))
	assert.False(t, FilterCompleted.Match(open))
	assert.True(t, FilterCompleted.Match(closed))
	assert.Equal(t, "Completed", FilterCompleted.Label())
}
