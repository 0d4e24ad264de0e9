package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"printify/pkg/printify"
)

type printer struct {
	w      io.Writer
	format string
}

func validFormat(f string) bool {
	switch f {
	case "json", "", "yaml", "yml":
		return true
	}
	return false
}

func (p printer) print(v any) error {
	switch p.format {
	case "yaml", "yml":
		return writeYAML(p.w, v)
	case "json", "":
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q (json or yaml)", p.format)
	}
}

// writeYAML renders v with its JSON field names and order. JSON is valid YAML,
// so the JSON encoding is parsed into a node tree and re-emitted in block style.
func writeYAML(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return err
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func (p printer) orderSummary(orders []printify.Order) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCREATED\tITEMS\tTOTAL")
	for _, o := range orders {
		items := 0
		for _, li := range o.LineItems {
			items += li.Quantity
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", o.ID, o.Status, o.CreatedAt, items, o.GrandTotal().StringFixed(2))
	}
	return tw.Flush()
}
