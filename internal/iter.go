// Package internal holds helpers shared between rvm packages.
package internal

import (
	"iter"
)

// IterSeq2Concat chains define tables into a single sequence.
// Later tables may repeat a key; consumers that build maps keep the last one.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			if seq == nil {
				continue
			}
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}
