package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatVND(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0đ"},
		{80000, "80.000đ"},
		{850000, "850.000đ"},
		{1250000, "1.250.000đ"},
		{5300000, "5.300.000đ"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatVND(tt.amount))
	}
}
