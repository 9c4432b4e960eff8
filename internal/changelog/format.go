package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ariel-frischer/docpatch/internal/output"
)

type categoryLook struct {
	icon  string
	color *color.Color
}

var categoryLooks = map[Category]categoryLook{
	CategoryAdded:         {icon: "✓", color: color.New(color.FgGreen)},
	CategoryRemoved:       {icon: "✗", color: color.New(color.FgRed)},
	CategoryChanged:       {icon: "~", color: color.New(color.FgBlue)},
	CategoryConfiguration: {icon: "⚙", color: color.New(color.FgYellow)},
}

func lookOf(c Category) categoryLook {
	if known, ok := ParseCategory(string(c)); ok {
		return categoryLooks[known]
	}
	return categoryLook{icon: "•", color: color.New(color.FgWhite)}
}

// Printer writes blocks, entries and lint issues for a terminal. In plain
// mode it emits markdown-like text without color or wrapping.
type Printer struct {
	w     io.Writer
	plain bool
	width int
	err   error
}

// NewPrinter returns a Printer for w. A width of zero uses w's terminal width.
func NewPrinter(w io.Writer, plain bool, width int) *Printer {
	if width <= 0 {
		width = output.Width(w)
	}
	return &Printer{w: w, plain: plain, width: width}
}

func (p *Printer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

// Block prints one version block.
func (p *Printer) Block(b *VersionBlock) error {
	header := b.Heading()
	if !p.plain {
		header = color.New(color.Bold).Sprint(header)
	}
	p.printf("## %s\n", header)

	for _, c := range b.Categories {
		if len(c.Items) == 0 {
			continue
		}
		look := lookOf(c.Name)
		if p.plain {
			p.printf("\n### %s\n", c.Name)
		} else {
			p.printf("\n%s %s\n", look.color.Sprint(look.icon), look.color.Sprint(c.Name))
		}
		for _, item := range c.Items {
			if p.plain {
				p.printf("  - %s\n", item)
				continue
			}
			p.printf("  - %s\n", look.color.Sprint(wrap(item, p.width-4, "    ")))
		}
	}
	return p.err
}

// Entries prints entries regrouped into blocks: consecutive entries of one
// version form a block and categories keep first-seen order.
func (p *Printer) Entries(entries []Entry) error {
	for i, b := range regroup(entries) {
		if i > 0 {
			p.printf("\n")
		}
		if err := p.Block(&b); err != nil {
			return fmt.Errorf("printing %s: %w", b.Label, err)
		}
	}
	return p.err
}

// Issues prints one line per finding, errors in red and warnings in yellow.
func (p *Printer) Issues(issues []Issue) error {
	for _, i := range issues {
		line := i.String()
		if !p.plain {
			c := color.New(color.FgYellow)
			if i.Severity == SeverityError {
				c = color.New(color.FgRed)
			}
			line = c.Sprint(line)
		}
		p.printf("%s\n", line)
	}
	return p.err
}

func regroup(entries []Entry) []VersionBlock {
	var blocks []VersionBlock
	for _, e := range entries {
		if len(blocks) == 0 || blocks[len(blocks)-1].Label != e.Version {
			blocks = append(blocks, VersionBlock{Label: e.Version})
		}
		b := &blocks[len(blocks)-1]
		idx := -1
		for i := range b.Categories {
			if b.Categories[i].Name == e.Category {
				idx = i
				break
			}
		}
		if idx < 0 {
			b.Categories = append(b.Categories, CategoryItems{Name: e.Category})
			idx = len(b.Categories) - 1
		}
		b.Categories[idx].Items = append(b.Categories[idx].Items, e.Text)
	}
	return blocks
}

// wrap breaks text at spaces so no line exceeds width, cutting words longer
// than width. Continuation lines start with indent.
func wrap(text string, width int, indent string) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		for len(word) > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case word == "":
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"+indent)
}
