// Command adocfmt reads a document, parses it, converts it to HTML, and
// writes the result atomically — the one CLI entry point this module
// ships, everything else being library surface.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/renameio"

	"github.com/adocgo/adoc/adoc"
	"github.com/adocgo/adoc/convert"
	"github.com/adocgo/adoc/parser"
)

// CLI is the flag/argument structure Kong parses, a declarative struct
// instead of the standard library's flag package.
type CLI struct {
	Input  string `arg:"" help:"Path to the document to convert." type:"existingfile"`
	Output string `help:"Output path; defaults to stdout." short:"o"`

	SafeMode string `help:"Include safe mode: unsafe, safe, server, secure (secure disables includes)." default:"unsafe" enum:"unsafe,safe,server,secure"`
	BaseDir  string `help:"Base directory include paths resolve against." default:"."`
	Pretty   bool   `help:"Pretty-print the HTML output."`
	Doctype  bool   `help:"Emit a complete HTML document instead of a fragment." name:"doctype"`
}

func (c *CLI) Run() error {
	safeMode, err := parseSafeMode(c.SafeMode)
	if err != nil {
		return err
	}

	proc := adoc.NewProcessor(adoc.ProcessOptions{
		ParserOptions: []parser.Option{
			parser.WithBaseDirectory(c.BaseDir),
			parser.WithSafeMode(safeMode),
		},
		ConvertOptions: []convert.Option{
			convert.WithPrettyPrint(c.Pretty),
			convert.WithFullDocument(c.Doctype),
		},
	})

	result, err := proc.ProcessFile(c.Input)
	if err != nil {
		return err
	}
	for _, d := range result.Diagnostics {
		log.Printf("%v", d)
	}

	if c.Output == "" {
		_, err := fmt.Println(result.Output)
		return err
	}
	return writeAtomic(c.Output, result.Output+"\n")
}

// writeAtomic persists content to path without ever leaving a partial
// file behind, using the standard TempFile/CloseAtomicallyReplace
// sequence.
func writeAtomic(path, content string) (rerr error) {
	pf, err := renameio.TempFile("", path)
	if err != nil {
		return err
	}
	defer func() {
		if rerr == nil {
			rerr = pf.CloseAtomicallyReplace()
		}
		pf.Cleanup()
	}()
	_, err = pf.Write([]byte(content))
	return err
}

func parseSafeMode(s string) (parser.SafeMode, error) {
	switch s {
	case "unsafe":
		return parser.Unsafe, nil
	case "safe":
		return parser.Safe, nil
	case "server":
		return parser.Server, nil
	case "secure":
		return parser.Secure, nil
	default:
		return 0, fmt.Errorf("adocfmt: unknown safe mode %q", s)
	}
}

func main() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("adocfmt"),
		kong.Description("Parse an AsciiDoc-like document and convert it to HTML."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
