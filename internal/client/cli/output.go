package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iudanet/docsync/internal/models"
)

// Форматы вывода документов
const (
	FormatAuto  = ""
	FormatTable = "table"
	FormatPlain = "plain"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ValidFormats lists the accepted values of -o
var ValidFormats = []string{FormatTable, FormatPlain, FormatJSON, FormatYAML}

func checkFormat(format string) error {
	if format == FormatAuto || slices.Contains(ValidFormats, format) {
		return nil
	}
	return fmt.Errorf("invalid format %q: must be one of %v", format, ValidFormats)
}

// resolveFormat выбирает таблицу для терминала и plain для пайпов
func (c *Cli) resolveFormat(format string) string {
	if format != FormatAuto {
		return format
	}
	if c.io.IsTerminal() {
		return FormatTable
	}
	return FormatPlain
}

// printDocs печатает документы; pending сообщает, ждет ли документ выгрузки
func (c *Cli) printDocs(docs []models.Document, format string, pending func(id string) bool) error {
	switch c.resolveFormat(format) {
	case FormatJSON:
		enc := json.NewEncoder(c.io)
		enc.SetIndent("", "  ")
		if docs == nil {
			docs = []models.Document{}
		}
		return enc.Encode(docs)
	case FormatYAML:
		return c.printYAML(docs)
	case FormatTable:
		return c.printTable(docs, pending)
	default:
		for _, doc := range docs {
			c.io.Printf("%s\t%s\t%s\n", doc.ID, doneMark(doc), textOf(doc))
		}
		return nil
	}
}

func (c *Cli) printTable(docs []models.Document, pending func(id string) bool) error {
	if len(docs) == 0 {
		c.io.Println("No todos yet. Use 'docsync add <text>' to create one.")
		return nil
	}

	w := tabwriter.NewWriter(c.io, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tTEXT\tCREATED\tSYNC")
	for _, doc := range docs {
		sync := "uploaded"
		if pending != nil && pending(doc.ID) {
			sync = "pending"
		}
		created := ""
		if !doc.CreatedAt.IsZero() {
			created = doc.CreatedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", doc.ID, doneMark(doc), textOf(doc), created, sync)
	}
	return w.Flush()
}

// printYAML переводит документы в YAML через их JSON-представление
func (c *Cli) printYAML(docs []models.Document) error {
	raw, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}
	var plain []map[string]any
	if err := json.Unmarshal(raw, &plain); err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}
	if plain == nil {
		plain = []map[string]any{}
	}

	enc := yaml.NewEncoder(c.io)
	enc.SetIndent(2)
	if err := enc.Encode(plain); err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}
	return enc.Close()
}

// printFields печатает single-документ как пары key: value
func (c *Cli) printFields(doc models.Document, format string) error {
	switch c.resolveFormat(format) {
	case FormatJSON:
		enc := json.NewEncoder(c.io)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(c.io)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(doc.Fields)); err != nil {
			return fmt.Errorf("failed to encode profile: %w", err)
		}
		return enc.Close()
	default:
		keys := make([]string, 0, len(doc.Fields))
		for k := range doc.Fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			c.io.Printf("%s: %v\n", k, doc.Fields[k])
		}
		return nil
	}
}

func doneMark(doc models.Document) string {
	if done, _ := doc.Field("done").(bool); done {
		return "x"
	}
	return "-"
}

func textOf(doc models.Document) string {
	text, ok := doc.Field("text").(string)
	if !ok {
		return ""
	}
	return strings.ReplaceAll(text, "\n", " ")
}
