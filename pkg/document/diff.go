package document

import (
	"github.com/aymanbagabas/go-udiff"
)

// Diff renders a unified diff between two documents after pretty printing both with sorted keys.
// An empty string means the documents are structurally equal.
func Diff(oldLabel, newLabel string, before, after []byte) string {
	if Equal(before, after) {
		return ""
	}
	return udiff.Unified(oldLabel, newLabel, string(Pretty(before)), string(Pretty(after)))
}
