// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import "strings"

// wordsPerMinute is the assumed reading speed for the estimate.
const wordsPerMinute = 200

// ReadTime estimates reading time in whole minutes for a parsed body.
// Always at least one minute so listings never show "0 min read".
func ReadTime(seq Sequence) int {
	words := len(strings.Fields(seq.PlainText()))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
