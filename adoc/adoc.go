// Package adoc is the glue facade: it wires package parser and package
// convert behind a small "Parser / Converter / Processor" surface, plus
// optional Prometheus counters, so a host application doesn't have to
// learn two package APIs to process a document end to end.
package adoc

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/adocgo/adoc/ast"
	"github.com/adocgo/adoc/convert"
	"github.com/adocgo/adoc/internal/diag"
	"github.com/adocgo/adoc/parser"
)

// Parser parses source text into a document tree. It is a thin wrapper
// over parser.Parser kept here so callers needing only the high-level
// facade don't need to import package parser directly.
type Parser struct {
	inner *parser.Parser
}

// NewParser returns a Parser configured by opts.
func NewParser(opts ...parser.Option) *Parser {
	return &Parser{inner: parser.New(opts...)}
}

// ParseText parses text, returning the document and any diagnostics
// accumulated along the way.
func (p *Parser) ParseText(text string) (*ast.Doc, []diag.Record, error) {
	return p.inner.Parse(text)
}

// ParseFile reads and parses path through the parser's configured
// include sandbox.
func (p *Parser) ParseFile(path string) (*ast.Doc, []diag.Record, error) {
	return p.inner.ParseFile(path)
}

// ConvertHTML converts doc to HTML with the given options, the one
// reference converter instantiation this module ships.
func ConvertHTML(doc *ast.Doc, opts ...convert.Option) (string, error) {
	return convert.Convert(doc, opts...)
}

// Metrics is the optional Prometheus wiring a Processor can export.
// A nil *Metrics (the zero value of *Metrics is never constructed by
// NewMetrics so this is simply "don't pass one") disables all counting,
// so library users who don't want metrics pay nothing.
type Metrics struct {
	documentsProcessed *prometheus.CounterVec
	diagnostics        *prometheus.CounterVec
}

// NewMetrics registers adoc_documents_processed_total and
// adoc_diagnostics_total{severity=} on reg and returns a Metrics bound
// to it.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		documentsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adoc_documents_processed_total",
			Help: "Total number of documents processed by a Processor.",
		}, []string{"outcome"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adoc_diagnostics_total",
			Help: "Total number of diagnostics emitted, by severity.",
		}, []string{"severity"}),
	}
	if err := reg.Register(m.documentsProcessed); err != nil {
		return nil, err
	}
	if err := reg.Register(m.diagnostics); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(records []diag.Record, outcome string) {
	if m == nil {
		return
	}
	m.documentsProcessed.WithLabelValues(outcome).Inc()
	for _, r := range records {
		m.diagnostics.WithLabelValues(r.Severity.String()).Inc()
	}
}

// ProcessOptions configures a Processor's one-call text/file-to-output
// pipeline.
type ProcessOptions struct {
	ParserOptions  []parser.Option
	ConvertOptions []convert.Option
	Metrics        *Metrics
}

// Processor runs a Parser followed by a Converter in one call, exposing
// a ProcessText/ProcessFile surface.
type Processor struct {
	opts ProcessOptions
}

// NewProcessor returns a Processor configured by opts.
func NewProcessor(opts ProcessOptions) *Processor {
	return &Processor{opts: opts}
}

// Result is everything a processing call produces: the parsed document,
// its rendered output, and the diagnostics from parsing.
type Result struct {
	Doc         *ast.Doc
	Output      string
	Diagnostics []diag.Record
}

// ProcessText parses and converts text in one call.
func (p *Processor) ProcessText(text string) (Result, error) {
	pr := parser.New(p.opts.ParserOptions...)
	doc, diags, err := pr.Parse(text)
	if err != nil {
		p.opts.Metrics.observe(nil, "error")
		return Result{}, fmt.Errorf("adoc: parse: %w", err)
	}
	out, err := convert.Convert(doc, p.opts.ConvertOptions...)
	if err != nil {
		p.opts.Metrics.observe(diags, "error")
		return Result{Doc: doc, Diagnostics: diags}, fmt.Errorf("adoc: convert: %w", err)
	}
	p.opts.Metrics.observe(diags, "ok")
	return Result{Doc: doc, Output: out, Diagnostics: diags}, nil
}

// ProcessFile reads path, then behaves as ProcessText.
func (p *Processor) ProcessFile(path string) (Result, error) {
	pr := parser.New(p.opts.ParserOptions...)
	doc, diags, err := pr.ParseFile(path)
	if err != nil {
		p.opts.Metrics.observe(nil, "error")
		return Result{}, fmt.Errorf("adoc: parse file %s: %w", path, err)
	}
	out, err := convert.Convert(doc, p.opts.ConvertOptions...)
	if err != nil {
		p.opts.Metrics.observe(diags, "error")
		return Result{Doc: doc, Diagnostics: diags}, fmt.Errorf("adoc: convert file %s: %w", path, err)
	}
	p.opts.Metrics.observe(diags, "ok")
	return Result{Doc: doc, Output: out, Diagnostics: diags}, nil
}
