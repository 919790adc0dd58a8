package units

import (
	"math"
	"testing"
)

func TestPixels(t *testing.T) {
	tests := []struct {
		name string
		dpi  int
		mm   float64
		want int
	}{
		{"card width", 300, 63, 744},
		{"card height", 300, 88, 1039},
		{"crop margin", 300, 3.175, 37},
		{"cut line", 300, 16, 188},
		{"corner mark 1mm", 300, 1, 11},
		{"corner mark 7mm", 300, 7, 82},
		{"letter width", 300, 215.9, 2550},
		{"letter height", 300, 279.4, 3300},
		{"one inch", 72, 25.4, 72},
		{"zero", 300, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pixels(tt.dpi, tt.mm); got != tt.want {
				t.Errorf("Pixels(%d, %v) = %d, want %d", tt.dpi, tt.mm, got, tt.want)
			}
		})
	}
}

func TestConverter(t *testing.T) {
	c := Converter{DPI: 300}
	if got := c.Pixels(63); got != 744 {
		t.Errorf("Pixels(63) = %d, want 744", got)
	}
	// 2550px at 300dpi is 8.5in = 612pt
	if got := c.Points(2550); math.Abs(got-612) > 1e-9 {
		t.Errorf("Points(2550) = %f, want 612", got)
	}
	if got := c.MM(300); math.Abs(got-25.4) > 1e-9 {
		t.Errorf("MM(300) = %f, want 25.4", got)
	}
}

func TestPixels_Deterministic(t *testing.T) {
	for range 100 {
		if Pixels(300, 3.175) != 37 {
			t.Fatal("conversion is not deterministic")
		}
	}
}
