package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adocgo/adoc/internal/diag"
)

func TestListAccumulatesInOrder(t *testing.T) {
	var l diag.List
	l.Add(diag.Warning, diag.UnresolvedXref, diag.Position{Line: 1}, "missing")
	l.Add(diag.Error, diag.CircularInclude, diag.Position{Line: 2}, "a.adoc")

	recs := l.Records()
	assert.Len(t, recs, 2)
	assert.Equal(t, diag.UnresolvedXref, recs[0].Template)
	assert.True(t, l.HasErrors())
	assert.Equal(t, 1, l.Count(diag.Error))
	assert.Equal(t, 1, l.Count(diag.Warning))
}

func TestRecordString(t *testing.T) {
	r := diag.Record{Severity: diag.Warning, Template: diag.UnresolvedXref, Position: diag.Position{Line: 3, Column: 5}, Detail: "foo"}
	assert.Equal(t, "warning:3:5: unresolved-cross-reference: foo", r.String())
}
