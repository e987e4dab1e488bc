// Command playoutfmt is a small demonstration harness for the playout
// engine. It builds a handful of example Layout trees directly through the
// Go API (there is no surface syntax to parse) and renders them at a
// configurable width, so the effect of Grp, Seq, Nest, Pack and Fix can be
// seen on real output.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dvhowell/playout"
	"github.com/dvhowell/playout/internal/version"
)

func main() {
	if err := run(os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(args []string, w io.Writer, wErr io.Writer) error {
	flags := flag.NewFlagSet(args[0], flag.ExitOnError)
	flags.SetOutput(wErr)
	example := flags.String("example", "struct", "the example Layout to render: 'struct', 'call' or 'aligned'")
	indentWidth := flags.Int("indent-width", 2, "columns added per Nest level")
	bufferWidth := flags.Int("buffer-width", 40, "target line width")
	showVersion := flags.Bool("version", false, "print the module version and exit")

	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintln(w, version.Version())
		return nil
	}

	l, err := buildExample(*example)
	if err != nil {
		return err
	}

	doc, err := playout.Compile(l)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	out := playout.Render(doc, *indentWidth, *bufferWidth)
	_, err = fmt.Fprintln(w, out)
	return err
}

func buildExample(name string) (playout.Layout, error) {
	switch name {
	case "struct":
		return structLiteral()
	case "call":
		return funcCall()
	case "aligned":
		return alignedCall()
	default:
		return nil, fmt.Errorf("unknown -example %q: want 'struct', 'call' or 'aligned'", name)
	}
}

// structLiteral builds something like:
//
//	Config{Name: "demo", Retries: 3, Timeout: 30}
//
// as a single Grp: once the literal no longer fits the configured width,
// every seam inside it breaks, including those between keys, values and
// commas. The first break comes before the Nest opens, so the first field
// starts at column 0 and only the lines after it are indented one level.
func structLiteral() (playout.Layout, error) {
	fields := []struct{ key, val string }{
		{"Name", `"demo"`},
		{"Retries", "3"},
		{"Timeout", "30"},
	}

	var body playout.Layout = playout.Null()
	for i, f := range fields {
		key, err := playout.Text(f.key + ":")
		if err != nil {
			return nil, err
		}
		val, err := playout.Text(f.val)
		if err != nil {
			return nil, err
		}
		field := playout.Comp(key, val, true, false)
		if i == 0 {
			body = field
			continue
		}
		comma, err := playout.Text(",")
		if err != nil {
			return nil, err
		}
		body = playout.Comp(playout.Comp(body, comma, false, false), field, true, false)
	}

	name, err := playout.Text("Config{")
	if err != nil {
		return nil, err
	}
	close_, err := playout.Text("}")
	if err != nil {
		return nil, err
	}
	return playout.Grp(playout.Comp(playout.Comp(name, playout.Nest(body), false, false), close_, false, false)), nil
}

// funcCall builds something like:
//
//	configure(withName("demo"), withRetries(3), withTimeout(30))
//
// as a Seq: once one argument has to move to its own line, every argument
// does, rather than some arguments staying inline and others breaking.
func funcCall() (playout.Layout, error) {
	args := []string{`withName("demo")`, "withRetries(3)", "withTimeout(30)"}

	var body playout.Layout = playout.Null()
	for i, a := range args {
		atom, err := playout.Text(a)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			body = atom
			continue
		}
		comma, err := playout.Text(",")
		if err != nil {
			return nil, err
		}
		body = playout.Comp(playout.Comp(body, comma, false, false), atom, true, false)
	}

	open, err := playout.Text("configure(")
	if err != nil {
		return nil, err
	}
	close_, err := playout.Text(")")
	if err != nil {
		return nil, err
	}
	return playout.Comp(playout.Comp(open, playout.Seq(playout.Nest(body)), false, false), close_, false, false), nil
}

// alignedCall builds something like:
//
//	print("first", "second",
//	      "third")
//
// using Pack so a broken continuation lines up under the first argument
// rather than under the start of the statement.
func alignedCall() (playout.Layout, error) {
	args := []string{`"first"`, `"second"`, `"third"`}

	var body playout.Layout = playout.Null()
	for i, a := range args {
		atom, err := playout.Text(a)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			body = atom
			continue
		}
		comma, err := playout.Text(",")
		if err != nil {
			return nil, err
		}
		body = playout.Comp(playout.Comp(body, comma, false, false), atom, true, false)
	}

	open, err := playout.Text("print(")
	if err != nil {
		return nil, err
	}
	close_, err := playout.Text(")")
	if err != nil {
		return nil, err
	}
	return playout.Comp(playout.Comp(open, playout.Pack(body), false, false), close_, false, false), nil
}
