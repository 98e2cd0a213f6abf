package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gomarketplace/internal/money"
	"gomarketplace/internal/usecase"

	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

type itemView struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Price    string `json:"price" yaml:"price"`
	Quantity int    `json:"quantity" yaml:"quantity"`
	Subtotal string `json:"subtotal" yaml:"subtotal"`
}

type cartView struct {
	Items    []itemView `json:"items" yaml:"items"`
	Quantity int        `json:"quantity" yaml:"quantity"`
	Total    string     `json:"total" yaml:"total"`
}

func newCartView(s usecase.CartSummary) cartView {
	v := cartView{
		Items:    make([]itemView, 0, len(s.Items)),
		Quantity: s.Quantity,
		Total:    money.FormatValue(s.Total),
	}
	for _, it := range s.Items {
		v.Items = append(v.Items, itemView{
			ID:       it.ID,
			Title:    it.Title,
			ImageURL: it.ImageURL,
			Price:    money.FormatValue(it.Price),
			Quantity: it.Quantity,
			Subtotal: money.FormatValue(it.Subtotal()),
		})
	}
	return v
}

func render(w io.Writer, format string, s usecase.CartSummary) error {
	v := newCartView(s)

	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tQTY\tSUBTOTAL")
		for _, it := range v.Items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", it.ID, it.Title, it.Price, it.Quantity, it.Subtotal)
		}
		fmt.Fprintf(tw, "\t\tTOTAL\t%d\t%s\n", v.Quantity, v.Total)
		return tw.Flush()
	}
}
