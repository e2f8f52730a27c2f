// Package output renders mapped result tuples for the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
	"github.com/satishbabariya/rowmap/internal/core/model"
)

// Format selects how tuples are rendered.
type Format string

const (
	Table Format = "table"
	JSON  Format = "json"
	YAML  Format = "yaml"
	Dump  Format = "dump"
)

// Formats lists the supported formats.
var Formats = []Format{Table, JSON, YAML, Dump}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want one of table, json, yaml, dump)", s)
}

// Render writes tuples mapped under def to w.
func Render(w io.Writer, format Format, def *domain.MappingDefinition, tuples []domain.ResultTuple) error {
	switch format {
	case Table:
		return renderTable(w, def, tuples)
	case JSON:
		return renderJSON(w, tuples)
	case YAML:
		return renderYAML(w, tuples)
	case Dump:
		return renderDump(w, tuples)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Headers returns one column label per result spec of def.
func Headers(def *domain.MappingDefinition) []string {
	headers := make([]string, len(def.Results))
	for i, spec := range def.Results {
		switch s := spec.(type) {
		case domain.EntityResult:
			headers[i] = s.Type.Name
		case domain.ColumnResult:
			headers[i] = s.Column
		case domain.ConstructorResult:
			headers[i] = "new " + s.Type.Name
		default:
			headers[i] = fmt.Sprintf("#%d", i+1)
		}
	}
	return headers
}

func renderTable(w io.Writer, def *domain.MappingDefinition, tuples []domain.ResultTuple) error {
	data := pterm.TableData{append([]string{"#"}, Headers(def)...)}
	for i, t := range tuples {
		row := make([]string, 0, t.Len()+1)
		row = append(row, fmt.Sprint(i+1))
		for _, e := range t.Elements() {
			cell := Cell(e.Value)
			if e.Status == domain.Detached {
				cell += " (detached)"
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// Cell formats a single materialized value for a table cell.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case *model.Record:
		return x.String()
	case []byte:
		return fmt.Sprintf("0x%x", x)
	case fmt.Stringer:
		return x.String()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct {
		return fmt.Sprintf("%s%+v", rv.Elem().Type().Name(), rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func renderJSON(w io.Writer, tuples []domain.ResultTuple) error {
	rows := make([][]any, len(tuples))
	for i, t := range tuples {
		rows[i] = t.Values()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func renderYAML(w io.Writer, tuples []domain.ResultTuple) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, t := range tuples {
		row := &yaml.Node{Kind: yaml.SequenceNode}
		for _, v := range t.Values() {
			n, err := yamlNode(v)
			if err != nil {
				return err
			}
			row.Content = append(row.Content, n)
		}
		doc.Content = append(doc.Content, row)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// yamlNode encodes v, keeping record fields in declaration order.
func yamlNode(v any) (*yaml.Node, error) {
	rec, ok := v.(*model.Record)
	if !ok {
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
	n := &yaml.Node{Kind: yaml.MappingNode}
	for i := range rec.Len() {
		f, fv := rec.At(i)
		val, err := yamlNode(fv)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: f.Name}, val)
	}
	return n, nil
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func renderDump(w io.Writer, tuples []domain.ResultTuple) error {
	for i, t := range tuples {
		if _, err := fmt.Fprintf(w, "tuple %d:\n", i+1); err != nil {
			return err
		}
		for _, e := range t.Elements() {
			if _, err := fmt.Fprintf(w, "%s %s ", e.Kind, e.Status); err != nil {
				return err
			}
			dumper.Fdump(w, e.Value)
		}
	}
	return nil
}
