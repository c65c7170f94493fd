package suggest

// distancer computes Levenshtein distances over runes with two rolling
// rows, reusing its buffers between calls. Not safe for concurrent use.
type distancer struct {
	prev []int
	cur  []int
}

func (d *distancer) rows(n int) {
	if cap(d.prev) < n {
		d.prev = make([]int, n)
		d.cur = make([]int, n)
	}
	d.prev = d.prev[:n]
	d.cur = d.cur[:n]
}

// bounded returns the distance between a and b when it is at most limit.
// Once every cell of a row exceeds limit no later row can come back
// under it, so the computation stops there.
func (d *distancer) bounded(a, b []rune, limit int) (int, bool) {
	if limit < 0 {
		return 0, false
	}
	la, lb := len(a), len(b)
	if diff := la - lb; diff > limit || -diff > limit {
		return limit + 1, false
	}

	d.rows(lb + 1)
	for j := range d.prev {
		d.prev[j] = j
	}
	for i := 1; i <= la; i++ {
		d.cur[0] = i
		rowMin := i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			v := min(d.prev[j]+1, d.cur[j-1]+1, d.prev[j-1]+cost)
			d.cur[j] = v
			if v < rowMin {
				rowMin = v
			}
		}
		if rowMin > limit {
			return limit + 1, false
		}
		d.prev, d.cur = d.cur, d.prev
	}

	if dist := d.prev[lb]; dist <= limit {
		return dist, true
	}
	return limit + 1, false
}

// Distance returns the Levenshtein distance between a and b counted in
// runes, with unit costs and no transpositions.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	var d distancer
	dist, _ := d.bounded(ra, rb, max(len(ra), len(rb)))
	return dist
}

// BoundedDistance returns the distance between a and b and true when it
// does not exceed limit. Otherwise it returns limit+1 and false without
// finishing the table.
func BoundedDistance(a, b string, limit int) (int, bool) {
	var d distancer
	return d.bounded([]rune(a), []rune(b), limit)
}
