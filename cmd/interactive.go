package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"
	"github.com/google/uuid"

	"github.com/quocvuong92/gemini-chat/internal/api"
	"github.com/quocvuong92/gemini-chat/internal/config"
	"github.com/quocvuong92/gemini-chat/internal/conversation"
	"github.com/quocvuong92/gemini-chat/internal/display"
	"github.com/quocvuong92/gemini-chat/internal/export"
	"github.com/quocvuong92/gemini-chat/internal/logging"
)

// InteractiveSession holds the state for an interactive chat session.
// The conversation is the only state that survives between inputs.
type InteractiveSession struct {
	cfg     *config.Config
	client  api.Client
	conv    *conversation.Conversation
	printer *display.Printer
	writer  *export.Writer
	logger  *logging.Logger

	copyFn func(string) error
	now    func() time.Time

	exitFlag    bool
	inputBuffer []string // Buffer for multiline input
	sessionID   string
}

// NewInteractiveSession creates a session with an empty conversation
func NewInteractiveSession(cfg *config.Config, client api.Client, printer *display.Printer, writer *export.Writer, logger *logging.Logger) *InteractiveSession {
	return &InteractiveSession{
		cfg:       cfg,
		client:    client,
		conv:      conversation.New(),
		printer:   printer,
		writer:    writer,
		logger:    logger,
		copyFn:    clipboard.WriteAll,
		now:       time.Now,
		sessionID: newSessionID(),
	}
}

func newSessionID() string {
	return uuid.New().String()
}

func (s *InteractiveSession) log() *logging.FieldLogger {
	return s.logger.WithFields(logging.Fields{"session_id": s.sessionID})
}

// completer provides auto-completion suggestions for slash commands
func (s *InteractiveSession) completer(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	text := d.TextBeforeCursor()
	endIndex := d.CurrentRuneIndex()

	// Only show suggestions when input starts with "/"
	if !strings.HasPrefix(text, "/") || len(s.inputBuffer) > 0 {
		return []prompt.Suggest{}, endIndex, endIndex
	}

	// Commands may contain a space ("/save all"), so complete the whole line
	startIndex := endIndex - istrings.RuneCountInString(text)

	suggestions := make([]prompt.Suggest, 0, len(commandInfos)*2)
	for _, info := range commandInfos {
		suggestions = append(suggestions, prompt.Suggest{Text: info.name, Description: info.description})
	}
	for _, info := range commandInfos {
		suggestions = append(suggestions, prompt.Suggest{Text: info.alias, Description: info.name + " (alias)"})
	}

	return prompt.FilterHasPrefix(suggestions, text, false), startIndex, endIndex
}

// welcome prints the greeting shown before the first prompt
func (s *InteractiveSession) welcome() {
	s.printer.Println("Welcome to the Google Gemini AI chatbot CLI! Type your prompt below.")
	s.printer.Println("Commands: /help /exit /new /copy /save /save-all /save-json")
	s.printer.Println(fmt.Sprintf("Model: %s", s.cfg.Model))
	if s.cfg.Proxy != "" {
		s.printer.Println(fmt.Sprintf("Proxy: %s", s.cfg.Proxy))
	}
	if s.cfg.DisableSafety {
		s.printer.Println("Safety filtering: disabled")
	}
	s.printer.Println(fmt.Sprintf("Saving to: %s", s.writer.Dir()))
	s.printer.Println("")
}

// Run starts the read-eval-print loop. It reads from the terminal with
// line editing when in is a TTY, otherwise line by line from in.
func (s *InteractiveSession) Run(in io.Reader) {
	s.welcome()
	s.log().Info("session started", logging.Fields{"model": s.cfg.Model})

	if display.IsTerminal(in) {
		s.runPrompt()
	} else {
		s.runScanner(in)
	}

	s.log().Info("session ended", logging.Fields{"turns": s.conv.Len()})
}

// runPrompt reads input with go-prompt
func (s *InteractiveSession) runPrompt() {
	s.printer.PromptHeader()

	p := prompt.New(
		s.executor,
		prompt.WithCompleter(s.completer),
		prompt.WithPrefix("❯ "),
		prompt.WithTitle("Gemini Chat"),
		prompt.WithPrefixTextColor(prompt.Green),
		prompt.WithSuggestionBGColor(prompt.DarkBlue),
		prompt.WithSuggestionTextColor(prompt.White),
		prompt.WithSelectedSuggestionBGColor(prompt.Cyan),
		prompt.WithSelectedSuggestionTextColor(prompt.Black),
		prompt.WithDescriptionBGColor(prompt.DarkBlue),
		prompt.WithDescriptionTextColor(prompt.LightGray),
		prompt.WithSelectedDescriptionBGColor(prompt.Cyan),
		prompt.WithSelectedDescriptionTextColor(prompt.Black),
		prompt.WithMaxSuggestion(uint16(len(commandInfos)*2)),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return s.exitFlag
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(p *prompt.Prompt) bool {
				s.exitFlag = true
				return false
			},
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlD,
			Fn: func(p *prompt.Prompt) bool {
				if p.Buffer().Text() == "" {
					s.exitFlag = true
				}
				return false
			},
		}),
	)

	p.Run()
}

// runScanner reads newline-separated input, used when stdin is piped
func (s *InteractiveSession) runScanner(in io.Reader) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	s.printer.PromptHeader()
	for !s.exitFlag && scanner.Scan() {
		s.executor(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		s.log().Error("reading input failed", err)
	}
}

// executor handles each submitted line. It joins backslash-continued
// lines, dispatches commands and sends everything else as a prompt.
func (s *InteractiveSession) executor(input string) {
	if s.exitFlag {
		return
	}

	// Handle multiline input with backslash continuation
	if strings.HasSuffix(input, "\\") {
		s.inputBuffer = append(s.inputBuffer, strings.TrimSuffix(input, "\\"))
		return
	}
	if len(s.inputBuffer) > 0 {
		s.inputBuffer = append(s.inputBuffer, input)
		input = strings.Join(s.inputBuffer, "\n")
		s.inputBuffer = nil
	}

	if s.handleInput(context.Background(), input) {
		s.exitFlag = true
		return
	}
	s.printer.PromptHeader()
}

// handleInput processes one complete input. Returns true if the session
// should exit.
func (s *InteractiveSession) handleInput(ctx context.Context, input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false
	}

	if cmd, ok := ParseCommand(trimmed); ok {
		return s.handleCommand(cmd)
	}

	// The raw input, not the trimmed text, becomes the user turn
	_ = s.sendPrompt(ctx, input)
	return false
}

// sendPrompt runs one exchange. On any failure the conversation is
// truncated back to its length before the prompt was appended.
func (s *InteractiveSession) sendPrompt(ctx context.Context, input string) error {
	mark := s.conv.Len()
	if err := s.conv.Append(conversation.RoleUser, input); err != nil {
		s.printer.Error(err.Error())
		return err
	}

	log := s.logger.WithFields(logging.Fields{
		"session_id":  s.sessionID,
		"exchange_id": uuid.New().String(),
	})
	log.Debug("sending prompt", logging.Fields{
		"turns":          s.conv.Len(),
		"disable_safety": s.cfg.DisableSafety,
	})

	req := api.NewRequest(s.conv.Turns(), s.cfg.DisableSafety)

	sp := display.NewSpinner("Thinking...")
	sp.Start()
	resp, err := s.client.GenerateContent(ctx, req)
	sp.Stop()

	var text string
	if err == nil {
		s.printer.Debug(resp)
		if usage := resp.GetUsageMap(); usage != nil {
			log.Debug("token usage", logging.Fields{"usage": usage})
		}
		text, err = resp.Text()
	}

	s.printer.ResponseHeader()

	if err != nil {
		s.conv.Truncate(mark)
		log.Warn("exchange failed", logging.Fields{"error": err.Error(), "turns": s.conv.Len()})
		s.printer.Error(notice(err))
		if api.IsRegionNotSupported(err) {
			s.printer.Markdown(regionTipMarkdown)
		}
		return err
	}

	if err := s.conv.Append(conversation.RoleModel, text); err != nil {
		s.conv.Truncate(mark)
		s.printer.Error(err.Error())
		return err
	}
	log.Debug("exchange finished", logging.Fields{"turns": s.conv.Len()})

	s.printer.Markdown(text)
	return nil
}
