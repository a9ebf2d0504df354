package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	// DefaultWidth is used when the terminal size cannot be read
	DefaultWidth = 80

	// StyleAuto picks a dark or light theme from the terminal
	StyleAuto = "auto"
	// StyleNoTTY renders markdown without escape sequences
	StyleNoTTY = "notty"
)

// Colors used for headers and notices
var (
	ColorPrompt   = lipgloss.Color("2")
	ColorResponse = lipgloss.Color("6")
	ColorBanner   = lipgloss.Color("3")
	ColorError    = lipgloss.Color("1")
	ColorDebug    = lipgloss.Color("8")
)

// TerminalWidth returns the current width of stdout, or DefaultWidth
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

// IsTerminal reports whether r is a file attached to a terminal
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsErrorTerminal reports whether stderr is an interactive terminal
func IsErrorTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Printer renders output to a writer
type Printer struct {
	out      io.Writer
	width    func() int
	style    string
	debug    bool
	renderer *lipgloss.Renderer
}

// Option configures a Printer
type Option func(*Printer)

// WithWidth overrides the terminal width lookup
func WithWidth(fn func() int) Option {
	return func(p *Printer) {
		p.width = fn
	}
}

// WithStyle sets the glamour style used for markdown
func WithStyle(style string) Option {
	return func(p *Printer) {
		p.style = style
	}
}

// WithDebug enables debug dumps
func WithDebug(enabled bool) Option {
	return func(p *Printer) {
		p.debug = enabled
	}
}

// NewPrinter creates a printer writing to out
func NewPrinter(out io.Writer, opts ...Option) *Printer {
	p := &Printer{
		out:   out,
		width: TerminalWidth,
		style: StyleAuto,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.renderer = lipgloss.NewRenderer(out)
	return p
}

func (p *Printer) currentWidth() int {
	w := p.width()
	if w <= 0 {
		return DefaultWidth
	}
	return w
}

func (p *Printer) label(text string, color lipgloss.Color) string {
	return p.renderer.NewStyle().Foreground(color).Reverse(true).Render(" " + text + " ")
}

func (p *Printer) rule(char string, n int, color lipgloss.Color) string {
	if n < 0 {
		n = 0
	}
	return p.renderer.NewStyle().Foreground(color).Render(strings.Repeat(char, n))
}

// Header prints a reversed label followed by a rule to the edge of the terminal
func (p *Printer) Header(text string, color lipgloss.Color) {
	fill := p.currentWidth() - utf8.RuneCountInString(text) - 3
	fmt.Fprintf(p.out, "\n%s%s\n", p.label(text, color), p.rule("─", fill, color))
}

// HeaderCenter prints a label centered between two rules
func (p *Printer) HeaderCenter(text string, color lipgloss.Color) {
	fill := p.currentWidth() - utf8.RuneCountInString(text) - 4
	if fill < 0 {
		fill = 0
	}
	left := fill / 2
	right := fill - left
	fmt.Fprintf(p.out, "\n\n%s%s%s\n\n\n", p.rule("━", left, color), p.label(text, color), p.rule("━", right, color))
}

// PromptHeader marks where the user types
func (p *Printer) PromptHeader() {
	p.Header("Your prompt:", ColorPrompt)
}

// ResponseHeader marks a reply or a failed exchange
func (p *Printer) ResponseHeader() {
	p.Header("Gemini:", ColorResponse)
}

// NewChatBanner announces a cleared conversation
func (p *Printer) NewChatBanner() {
	p.HeaderCenter("Starting new chat", ColorBanner)
}

// Success prints a notice with a check mark
func (p *Printer) Success(msg string) {
	glyph := p.renderer.NewStyle().Foreground(ColorPrompt).Render("✔")
	fmt.Fprintf(p.out, "\n %s %s\n\n", glyph, msg)
}

// Error prints a notice with a cross
func (p *Printer) Error(msg string) {
	glyph := p.renderer.NewStyle().Foreground(ColorError).Render("✘")
	fmt.Fprintf(p.out, "\n %s %s\n\n", glyph, msg)
}

// Println prints a plain line
func (p *Printer) Println(text string) {
	fmt.Fprintln(p.out, text)
}

// Debug dumps v as indented JSON between two rules. It prints nothing
// unless debug output is enabled.
func (p *Printer) Debug(v interface{}) {
	if !p.debug {
		return
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		data = []byte(fmt.Sprintf("%+v", v))
	}

	width := p.currentWidth()
	fill := width - 7
	left := fill / 2
	right := fill - left
	grey := p.renderer.NewStyle().Foreground(ColorDebug)

	fmt.Fprintf(p.out, "\n%s\n", grey.Render(strings.Repeat("─", max(left, 0))+" debug "+strings.Repeat("─", max(right, 0))))
	p.Markdown("```json\n" + string(data) + "\n```")
	fmt.Fprintf(p.out, "%s\n\n", grey.Render(strings.Repeat("─", width)))
}

// Markdown renders md with glamour, wrapped to the current terminal width.
// The raw text is printed if rendering fails.
func (p *Printer) Markdown(md string) {
	out, err := p.RenderMarkdown(md)
	if err != nil {
		fmt.Fprintln(p.out, md)
		return
	}
	fmt.Fprint(p.out, out)
}

// RenderMarkdown returns md rendered for the terminal
func (p *Printer) RenderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(p.style),
		glamour.WithWordWrap(p.currentWidth()),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
