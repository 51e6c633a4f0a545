package model

import "time"

// Point is one value of a derived series. Valid is false inside the warm-up window.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
	Valid bool      `json:"valid"`
}

// IndicatorSeries is aligned index-for-index with the Series it was derived from.
type IndicatorSeries []Point

// Last returns the latest defined point.
func (s IndicatorSeries) Last() (Point, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Valid {
			return s[i], true
		}
	}
	return Point{}, false
}

// Defined counts the points that carry a value.
func (s IndicatorSeries) Defined() int {
	n := 0
	for _, p := range s {
		if p.Valid {
			n++
		}
	}
	return n
}

// Values returns the raw values; undefined points are reported as 0.
func (s IndicatorSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Bands is a Bollinger envelope around its moving-average center.
type Bands struct {
	Upper  IndicatorSeries
	Middle IndicatorSeries
	Lower  IndicatorSeries
}
