package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes each expression of the program in canonical form, one per
// line.
func (p Program) Format(_ context.Context, w io.Writer) error {
	for _, x := range p {
		if _, err := fmt.Fprintln(w, Render(x)); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the program as a JSON array to the writer.
func (p Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program as a YAML sequence to the writer.
func (p Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.ToNative(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// Print writes an indented tree of the program's expressions, one node per
// line in the form "Kind: value".
func (p Program) Print(_ context.Context, w io.Writer) error {
	for _, x := range p {
		if err := printTree(w, x, 0); err != nil {
			return err
		}
	}

	return nil
}

func printTree(w io.Writer, x Expr, depth int) error {
	pad := strings.Repeat("  ", depth)

	if x.IsSeq() {
		if _, err := fmt.Fprintf(w, "%s%s: %d\n", pad, x.kind, len(x.elems)); err != nil {
			return err
		}

		for _, e := range x.elems {
			if err := printTree(w, e, depth+1); err != nil {
				return err
			}
		}

		return nil
	}

	_, err := fmt.Fprintf(w, "%s%s: %s\n", pad, x.kind, Render(x))

	return err
}
