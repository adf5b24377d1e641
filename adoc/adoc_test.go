package adoc_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adocgo/adoc/adoc"
)

func TestProcessorProcessTextHeaderAndStrongText(t *testing.T) {
	p := adoc.NewProcessor(adoc.ProcessOptions{})
	result, err := p.ProcessText("= Title\n\nHello *world*.\n")
	require.NoError(t, err)
	assert.Equal(t, `<article><h1>Title</h1><p>Hello <strong>world</strong>.</p></article>`, result.Output)
	assert.NotNil(t, result.Doc)
}

func TestProcessorRecordsDiagnostics(t *testing.T) {
	p := adoc.NewProcessor(adoc.ProcessOptions{})
	result, err := p.ProcessText("See <<missing>>.\n")
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "missing", result.Diagnostics[0].Detail)
}

func TestProcessorWithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := adoc.NewMetrics(reg)
	require.NoError(t, err)

	p := adoc.NewProcessor(adoc.ProcessOptions{Metrics: m})
	_, err = p.ProcessText("plain text\n")
	require.NoError(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestParserParseTextRejectsEmptyInput(t *testing.T) {
	p := adoc.NewParser()
	_, _, err := p.ParseText("")
	assert.Error(t, err)
}
