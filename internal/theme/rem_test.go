package theme

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRem(t *testing.T) {
	tests := []struct {
		px   float64
		want string
	}{
		{17, "1.0625rem"},
		{16, "1rem"},
		{25, "1.5625rem"},
		{21, "1.3125rem"},
		{24, "1.5rem"},
		{0, "0rem"},
		{math.Copysign(0, -1), "0rem"},
		{1, "0.0625rem"},
		{10, "0.625rem"},
		{14, "0.875rem"},
		{12.8, "0.8rem"},
		{20, "1.25rem"},
		{32, "2rem"},
		{-8, "-0.5rem"},
		{1.0 / 3, "0.0208333rem"},
		{0.0000001, "0rem"},
		{0.0625, "0.0039063rem"},
		{1.0625, "0.0664063rem"},
		{-0.0625, "-0.0039063rem"},
	}
	for _, tt := range tests {
		if got := Rem(tt.px); got != tt.want {
			t.Errorf("Rem(%v) = %q, want %q", tt.px, got, tt.want)
		}
	}
}

func TestRemProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1617)
	parameters.MinSuccessfulTests = 500

	properties := gopter.NewProperties(parameters)

	properties.Property("deterministic", prop.ForAll(
		func(px float64) bool {
			return Rem(px) == Rem(px)
		},
		gen.Float64Range(-4096, 4096),
	))

	properties.Property("value is px/16 to seven places", prop.ForAll(
		func(px float64) bool {
			s, ok := strings.CutSuffix(Rem(px), "rem")
			if !ok {
				return false
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return false
			}
			return math.Abs(v-px/BasePx) <= 5.1e-8
		},
		gen.Float64Range(-4096, 4096),
	))

	properties.Property("no redundant trailing zeros", prop.ForAll(
		func(px float64) bool {
			s := strings.TrimSuffix(Rem(px), "rem")
			if strings.Contains(s, ".") {
				return !strings.HasSuffix(s, "0") && !strings.HasSuffix(s, ".")
			}
			return true
		},
		gen.Float64Range(-4096, 4096),
	))

	properties.Property("whole pixel multiples of 16 have no fraction", prop.ForAll(
		func(n int) bool {
			return Rem(float64(n*BasePx)) == strconv.Itoa(n)+"rem"
		},
		gen.IntRange(-256, 256),
	))

	properties.TestingRun(t)
}
