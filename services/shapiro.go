package services

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"fitness-analyzer/models"
)

// MaxShapiroAccurate is the largest sample for which Royston's p-value
// approximation is validated.
const MaxShapiroAccurate = 5000

// Polynomial coefficients from Royston (1995), Applied Statistics algorithm AS R94.
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// ShapiroWilk tests the null hypothesis that data was drawn from a normal
// distribution. It returns the W statistic and its p-value; Alpha and Normal are
// left for the caller to fill in.
func ShapiroWilk(data []float64) (models.NormalityResult, error) {
	n := len(data)
	if n < 3 {
		return models.NormalityResult{}, fmt.Errorf("shapiro-wilk: %w (need >= 3, got %d)", ErrTooFewSamples, n)
	}

	x := make([]float64, n)
	copy(x, data)
	sort.Float64s(x)

	if x[n-1]-x[0] < 1e-19 {
		return models.NormalityResult{}, fmt.Errorf("shapiro-wilk: %w", ErrZeroRange)
	}

	a := swilkCoefficients(n)

	mean := floats.Sum(x) / float64(n)
	var ss, num float64
	for _, v := range x {
		ss += (v - mean) * (v - mean)
	}
	for i := range a {
		num += a[i] * (x[n-1-i] - x[i])
	}
	w := num * num / ss
	if w > 1 {
		w = 1
	}

	return models.NormalityResult{Statistic: w, PValue: swilkPValue(w, n)}, nil
}

// swilkCoefficients returns the antisymmetric weights a_1..a_{n/2} applied to
// x_(n+1-i) - x_(i), normalised so the full weight vector has unit length.
func swilkCoefficients(n int) []float64 {
	nn2 := n / 2
	a := make([]float64, nn2)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	an := float64(n)
	an25 := an + 0.25
	m := make([]float64, nn2)
	var summ2 float64
	for i := 1; i <= nn2; i++ {
		m[i-1] = distuv.UnitNormal.Quantile((float64(i) - 0.375) / an25)
		summ2 += m[i-1] * m[i-1]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(an)

	a1 := poly(swC1, rsn) - m[0]/ssumm2

	var i1 int
	var fac float64
	if n > 5 {
		i1 = 3
		a2 := poly(swC2, rsn) - m[1]/ssumm2
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
	} else {
		i1 = 2
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	a[0] = a1
	for i := i1; i <= nn2; i++ {
		a[i-1] = -m[i-1] / fac
	}
	return a
}

func swilkPValue(w float64, n int) float64 {
	if n == 3 {
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Pi/3)
		return math.Max(p, 0)
	}

	w1 := 1 - w
	if w1 <= 0 {
		return 1
	}
	y := math.Log(w1)
	an := float64(n)

	var mu, sigma float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - y)
		mu = poly(swC3, an)
		sigma = math.Exp(poly(swC4, an))
	} else {
		xx := math.Log(an)
		mu = poly(swC5, xx)
		sigma = math.Exp(poly(swC6, xx))
	}
	return distuv.Normal{Mu: mu, Sigma: sigma}.Survival(y)
}

// poly evaluates cc[0] + cc[1]*x + cc[2]*x^2 + ...
func poly(cc []float64, x float64) float64 {
	res := 0.0
	for i := len(cc) - 1; i >= 0; i-- {
		res = res*x + cc[i]
	}
	return res
}
