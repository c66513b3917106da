// Package datasource holds the per-asset price history the indicators read.
package datasource

// DefaultCapacity is the number of closes retained per asset when the
// configuration does not say otherwise.
const DefaultCapacity = 300

// PriceSeries is a fixed-capacity ring buffer of closing prices. Once full,
// every Append evicts the oldest close. It is owned by the engine loop and is
// not safe for concurrent use.
type PriceSeries struct {
	symbol string
	buf    []float64
	// start is the index of the oldest close in buf.
	start int
	size  int
}

// NewPriceSeries creates an empty series. A non-positive capacity uses DefaultCapacity.
func NewPriceSeries(symbol string, capacity int) *PriceSeries {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &PriceSeries{
		symbol: symbol,
		buf:    make([]float64, capacity),
		start:  0,
		size:   0,
	}
}

// Symbol returns the asset the series belongs to.
func (s *PriceSeries) Symbol() string {
	return s.symbol
}

// Capacity returns the maximum number of retained closes.
func (s *PriceSeries) Capacity() int {
	return len(s.buf)
}

// Len returns the number of retained closes.
func (s *PriceSeries) Len() int {
	return s.size
}

// Append adds the newest close in O(1).
func (s *PriceSeries) Append(price float64) {
	if s.size < len(s.buf) {
		s.buf[(s.start+s.size)%len(s.buf)] = price
		s.size++

		return
	}

	s.buf[s.start] = price
	s.start = (s.start + 1) % len(s.buf)
}

// AppendAll appends prices oldest first.
func (s *PriceSeries) AppendAll(prices []float64) {
	for _, p := range prices {
		s.Append(p)
	}
}

// At returns the i-th retained close, 0 being the oldest.
func (s *PriceSeries) At(i int) float64 {
	if i < 0 || i >= s.size {
		panic("datasource: PriceSeries index out of range")
	}

	return s.buf[(s.start+i)%len(s.buf)]
}

// Last returns the newest close and false when the series is empty.
func (s *PriceSeries) Last() (float64, bool) {
	if s.size == 0 {
		return 0, false
	}

	return s.At(s.size - 1), true
}

// Closes copies the retained window, oldest first.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, s.size)
	for i := range out {
		out[i] = s.At(i)
	}

	return out
}

// Tail copies the newest n closes, oldest first. It returns fewer when the
// series is shorter than n.
func (s *PriceSeries) Tail(n int) []float64 {
	if n > s.size {
		n = s.size
	}

	if n <= 0 {
		return []float64{}
	}

	out := make([]float64, n)
	offset := s.size - n

	for i := range out {
		out[i] = s.At(offset + i)
	}

	return out
}
