package encoding

import (
	"errors"
	"math"
	"testing"
)

func TestIntsRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []int64
	}{
		{"empty", []int64{}},
		{"single", []int64{42}},
		{"steady stride", []int64{1000, 1010, 1020, 1030, 1040}},
		{"small jitter", []int64{0, 3, 5, 12, 11, -4}},
		{"every bucket", []int64{0, 64, 0, 300, 0, 2500, 0, 1 << 40}},
		{"extremes", []int64{math.MinInt64, math.MaxInt64, 0, math.MinInt64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInts(EncodeInts(tt.values))
			if err != nil {
				t.Fatalf("DecodeInts failed: %v", err)
			}
			if len(got) != len(tt.values) {
				t.Fatalf("length mismatch: got %d, want %d", len(got), len(tt.values))
			}
			for i, v := range tt.values {
				if got[i] != v {
					t.Errorf("value[%d]: got %d, want %d", i, got[i], v)
				}
			}
		})
	}
}

func TestFloatsRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"empty", []float64{}},
		{"single", []float64{3.14}},
		{"repeats", []float64{1.5, 1.5, 1.5}},
		{"mixed", []float64{1.1, 2.2, -3.3, 0, 1e300, -1e-300}},
		{"specials", []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0, math.Copysign(0, -1)}},
		{"full window", []float64{math.Float64frombits(1), math.Float64frombits(1 << 63)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeFloats(EncodeFloats(tt.values))
			if err != nil {
				t.Fatalf("DecodeFloats failed: %v", err)
			}
			if len(got) != len(tt.values) {
				t.Fatalf("length mismatch: got %d, want %d", len(got), len(tt.values))
			}
			for i, v := range tt.values {
				if math.Float64bits(got[i]) != math.Float64bits(v) {
					t.Errorf("value[%d]: got %v, want %v", i, got[i], v)
				}
			}
		})
	}
}

func TestStringsRoundTrip(t *testing.T) {
	values := []string{"ok", "", "fail", "ok", "ok", "héllo", ""}
	got, err := DecodeStrings(EncodeStrings(values))
	if err != nil {
		t.Fatalf("DecodeStrings failed: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(values))
	}
	for i, v := range values {
		if got[i] != v {
			t.Errorf("value[%d]: got %q, want %q", i, got[i], v)
		}
	}
}

func TestBoolsRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []bool
	}{
		{"empty", []bool{}},
		{"single true", []bool{true}},
		{"single false", []bool{false}},
		{"alternating", []bool{true, false, true, false}},
		{"runs", []bool{false, false, false, true, true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBools(EncodeBools(tt.values))
			if err != nil {
				t.Fatalf("DecodeBools failed: %v", err)
			}
			if len(got) != len(tt.values) {
				t.Fatalf("length mismatch: got %d, want %d", len(got), len(tt.values))
			}
			for i, v := range tt.values {
				if got[i] != v {
					t.Errorf("value[%d]: got %v, want %v", i, got[i], v)
				}
			}
		})
	}
}

func TestCorruptInput(t *testing.T) {
	tests := []struct {
		name   string
		decode func([]byte) error
		data   []byte
	}{
		{"ints truncated", func(b []byte) error { _, err := DecodeInts(b); return err }, EncodeInts([]int64{1, 2, 3})[:3]},
		{"floats truncated", func(b []byte) error { _, err := DecodeFloats(b); return err }, EncodeFloats([]float64{1, 2})[:4]},
		{"strings bad ref", func(b []byte) error { _, err := DecodeStrings(b); return err }, []byte{1, 1, 'a', 1, 5}},
		{"bools long run", func(b []byte) error { _, err := DecodeBools(b); return err }, []byte{2, 1, 3}},
		{"empty input", func(b []byte) error { _, err := DecodeInts(b); return err }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.decode(tt.data); !errors.Is(err, ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestSteadyIntsCompress(t *testing.T) {
	values := make([]int64, 1000)
	for i := range values {
		values[i] = 1_600_000_000_000_000 + int64(i)*1_000_000
	}
	encoded := EncodeInts(values)
	if len(encoded) > 8*len(values)/10 {
		t.Errorf("expected compression, got %d bytes for %d values", len(encoded), len(values))
	}
}
