// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// wer calculates the word error rate of recognized text against a
// reference transcription.
package wer

import "strings"

// Rate returns the word error rate of hypothesis against reference:
// the word level edit distance divided by the reference word count. A
// perfect match is 0; the rate can exceed 1 when the hypothesis has
// many spurious words. An empty reference counts as one word, so the
// division is always defined.
func Rate(reference string, hypothesis string) float64 {
	ref := strings.Fields(reference)
	hyp := strings.Fields(hypothesis)

	denom := len(ref)
	if denom < 1 {
		denom = 1
	}
	return float64(distance(ref, hyp)) / float64(denom)
}

// distance is the Levenshtein edit distance over words, using two
// rolling rows rather than the full matrix.
func distance(ref []string, hyp []string) int {
	prev := make([]int, len(hyp)+1)
	cur := make([]int, len(hyp)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ref); i++ {
		cur[0] = i
		for j := 1; j <= len(hyp); j++ {
			sub := prev[j-1]
			if ref[i-1] != hyp[j-1] {
				sub++
			}
			cur[j] = min3(sub, prev[j]+1, cur[j-1]+1)
		}
		prev, cur = cur, prev
	}

	return prev[len(hyp)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
