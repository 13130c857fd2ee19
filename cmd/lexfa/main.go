// Command lexfa compiles token rules into an NFA and a DFA, prints or
// renders them, and tokenises input with the result.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/exec"

	"github.com/alecthomas/kong"

	"lexfa/internal/automaton"
	"lexfa/internal/lexspec"
	"lexfa/internal/scanner"
)

type CLI struct {
	Defs    string `help:"Token definitions file (.lex, .yaml or .yml)." type:"existingfile" env:"LEXFA_DEFS"`
	Builtin string `help:"Built-in rule set used when --defs is not given." enum:"default,simple" default:"default"`
	Verbose bool   `help:"Log build diagnostics to stderr." short:"v"`

	NFA   nfaCmd   `cmd:"" name:"nfa" help:"Print the combined NFA."`
	DFA   dfaCmd   `cmd:"" name:"dfa" help:"Print the DFA."`
	Dot   dotCmd   `cmd:"" help:"Export the DFA (or NFA) as Graphviz."`
	Scan  scanCmd  `cmd:"" help:"Tokenise a file, or stdin."`
	Rules rulesCmd `cmd:"" help:"Print the active rule set."`
}

func (c *CLI) rules() ([]automaton.Rule, error) {
	if c.Defs != "" {
		return lexspec.Load(c.Defs)
	}
	return lexspec.Lookup(c.Builtin)
}

func (c *CLI) logger() *slog.Logger {
	if !c.Verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (c *CLI) buildNFA() (*automaton.NFA, error) {
	rules, err := c.rules()
	if err != nil {
		return nil, err
	}
	return automaton.Build(rules, automaton.Options{Logger: c.logger()})
}

func (c *CLI) buildDFA() (*automaton.DFA, error) {
	n, err := c.buildNFA()
	if err != nil {
		return nil, err
	}
	d := automaton.Determinize(n)
	if l := c.logger(); l != nil {
		l.Debug("determinized", "dfa_states", d.Len(), "accepting", len(d.Accepting()),
			"alphabet", len(d.Alphabet()))
	}
	return d, nil
}

type nfaCmd struct{}

func (nfaCmd) Run(cli *CLI) error {
	n, err := cli.buildNFA()
	if err != nil {
		return err
	}
	fmt.Print(n)
	return nil
}

type dfaCmd struct{}

func (dfaCmd) Run(cli *CLI) error {
	d, err := cli.buildDFA()
	if err != nil {
		return err
	}
	fmt.Print(d)
	return nil
}

type dotCmd struct {
	NFA bool   `help:"Export the NFA instead of the DFA." name:"nfa"`
	Out string `help:"Output file, - for stdout. Defaults to graph.dot or graph.png." short:"o"`
	PNG bool   `help:"Render PNG via dot -Tpng into --out." name:"png"`
}

func (c *dotCmd) Run(cli *CLI) error {
	var graph any
	if c.NFA {
		n, err := cli.buildNFA()
		if err != nil {
			return err
		}
		graph = n
	} else {
		d, err := cli.buildDFA()
		if err != nil {
			return err
		}
		graph = d
	}

	var buf bytes.Buffer
	if err := automaton.ExportDOT(&buf, graph); err != nil {
		return err
	}

	out := c.Out
	if out == "" {
		out = "graph.dot"
		if c.PNG {
			out = "graph.png"
		}
	}

	if c.PNG {
		cmd := exec.Command("dot", "-Tpng", "-o", out)
		cmd.Stdin = &buf
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("dot failed: %w", err)
		}
		log.Printf("PNG written to %s", out)
		return nil
	}

	if out == "-" {
		_, err := io.Copy(os.Stdout, &buf)
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return err
	}
	log.Printf("DOT written to %s", out)
	return nil
}

type scanCmd struct {
	File      string `arg:"" optional:"" help:"Input file; stdin when omitted." type:"existingfile"`
	Recover   bool   `help:"Emit ILLEGAL tokens instead of stopping at the first failure."`
	Lines     bool   `help:"Print the token types of each input line."`
	KeepSpace bool   `help:"Do not skip white space between tokens."`
}

func (c *scanCmd) Run(cli *CLI) error {
	d, err := cli.buildDFA()
	if err != nil {
		return err
	}
	var src []byte
	if c.File == "" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(c.File)
	}
	if err != nil {
		return err
	}

	opts := scanner.DefaultOptions()
	opts.SkipWhitespace = !c.KeepSpace
	opts.Recover = c.Recover

	if c.Lines {
		lines, err := scanner.Lines(d, string(src), opts)
		if err != nil {
			return err
		}
		for _, l := range lines {
			fmt.Println(l)
		}
		return nil
	}

	toks, err := scanner.Tokenize(d, string(src), opts)
	for _, t := range toks {
		fmt.Printf("%s\t%s\t%q\n", t.Pos, t.Type, t.Text)
	}
	return err
}

type rulesCmd struct {
	YAML bool `help:"Print as YAML instead of definitions-file syntax." name:"yaml"`
}

func (c *rulesCmd) Run(cli *CLI) error {
	rules, err := cli.rules()
	if err != nil {
		return err
	}
	if c.YAML {
		out, err := lexspec.MarshalYAML(rules)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}
	return lexspec.Write(os.Stdout, rules)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("lexfa: ")

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("lexfa"),
		kong.Description("Compile token rules into automata and scan input with them."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&cli); err != nil {
		log.Fatal(err)
	}
}
