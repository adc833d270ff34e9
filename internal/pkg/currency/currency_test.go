package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRupiah(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   string
	}{
		{"zero", 0, "Rp 0"},
		{"no grouping", 500, "Rp 500"},
		{"wallet balance", 25000, "Rp 25.000"},
		{"order total", 50000, "Rp 50.000"},
		{"large balance", 500000, "Rp 500.000"},
		{"millions", 1250000, "Rp 1.250.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rupiah(tt.amount))
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "25.000", Format(25000))
	assert.Equal(t, "5.000", Format(5000))
	assert.Equal(t, "999", Format(999))
}
