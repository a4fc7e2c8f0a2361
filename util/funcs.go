package util

import "iter"

// FilterIter yields the elements of iter for which keep returns true
func FilterIter[A any](iter iter.Seq[A], keep func(A) bool) iter.Seq[A] {
	return func(yield func(A) bool) {
		for v := range iter {
			if keep(v) && !yield(v) {
				return
			}
		}
	}
}
