package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quocvuong92/gemini-chat/internal/api"
	"github.com/quocvuong92/gemini-chat/internal/export"
	"github.com/quocvuong92/gemini-chat/internal/logging"
)

// Command is a recognized slash command
type Command int

const (
	CommandHelp Command = iota + 1
	CommandExit
	CommandNew
	CommandCopy
	CommandSave
	CommandSaveAll
	CommandSaveJSON
)

// commandInfo describes a command for help output and completion
type commandInfo struct {
	command     Command
	name        string
	alias       string
	extra       []string // accepted spellings beyond name and alias
	description string
}

var commandInfos = []commandInfo{
	{CommandHelp, "/help", "/h", nil, "shows this help"},
	{CommandExit, "/exit", "/q", nil, "exits the application"},
	{CommandNew, "/new", "/n", nil, "starts a new conversation"},
	{CommandCopy, "/copy", "/cp", nil, "copies the last response to the clipboard"},
	{CommandSave, "/save", "/s", nil, "saves the last response to a .md file"},
	{CommandSaveAll, "/save all", "/sa", []string{"/save-all"}, "saves the entire conversation to a .md file"},
	{CommandSaveJSON, "/save json", "/sj", []string{"/save-json"}, "saves the entire conversation to a .json file"},
}

// commandTokens maps every accepted spelling to its command
var commandTokens = func() map[string]Command {
	m := make(map[string]Command)
	for _, info := range commandInfos {
		m[info.name] = info.command
		m[info.alias] = info.command
		for _, e := range info.extra {
			m[e] = info.command
		}
	}
	return m
}()

// ParseCommand looks up a trimmed input line. Matching is exact and
// case-sensitive on the whole line; anything else is not a command.
func ParseCommand(line string) (Command, bool) {
	cmd, ok := commandTokens[line]
	return cmd, ok
}

// String returns the canonical spelling of the command
func (c Command) String() string {
	for _, info := range commandInfos {
		if info.command == c {
			return info.name
		}
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// helpMarkdown renders the command table
func helpMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# Available commands:\n\n")
	sb.WriteString("| command | alias | description |\n")
	sb.WriteString("|---|---|---|\n")
	for _, info := range commandInfos {
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", info.name, info.alias, info.description)
	}
	sb.WriteString("\nEnd a line with \\ to continue the prompt on the next line.\n")
	return sb.String()
}

const regionTipMarkdown = `
# TIP:

Use **proxy** or **VPN**.

The Gemini API is not available in every region, but you can bypass
this by using a VPN or proxy from a supported country.

## VPN:

Connect to a VPN server through your VPN provider's app before starting
the chat.

## Proxy:

This client has built-in proxy support. Set ` + "`proxy`" + ` in the config file,
export ` + "`GEMINI_PROXY`" + ` or pass ` + "`--proxy`" + `, for example
` + "`--proxy socks5://127.0.0.1:1080`" + `.
`

// User-facing notices
const (
	msgNothingToCopy = "No messages to copy."
	msgNothingToSave = "No messages to save."
	msgCopied        = "Copied last bot response to clipboard."
	msgEmptyResponse = "Gemini returned an empty response."
)

// notice returns the text shown for err
func notice(err error) string {
	switch {
	case errors.Is(err, api.ErrEmptyResponse):
		return msgEmptyResponse
	case errors.Is(err, export.ErrNothingToSave):
		return msgNothingToSave
	}
	return err.Error()
}

// handleCommand performs the side effect of a command.
// Returns true if the session should exit.
func (s *InteractiveSession) handleCommand(cmd Command) bool {
	s.log().Debug("command", logging.Fields{"command": cmd.String(), "turns": s.conv.Len()})

	switch cmd {
	case CommandExit:
		return true

	case CommandHelp:
		s.printer.Println("")
		s.printer.Markdown(helpMarkdown())

	case CommandNew:
		s.conv.Clear()
		s.sessionID = newSessionID()
		s.printer.NewChatBanner()

	case CommandCopy:
		s.copyLastResponse()

	case CommandSave:
		s.save(export.NewLastExchangeExporter())

	case CommandSaveAll:
		s.save(export.NewTranscriptExporter())

	case CommandSaveJSON:
		s.save(export.NewJSONExporter())
	}

	return false
}

// copyLastResponse puts the most recent model reply on the clipboard
func (s *InteractiveSession) copyLastResponse() {
	_, response, ok := s.conv.LastExchange()
	if !ok {
		s.printer.Error(msgNothingToCopy)
		return
	}
	if err := s.copyFn(response.Text()); err != nil {
		s.printer.Error(fmt.Sprintf("Could not copy to clipboard: %v", err))
		return
	}
	s.printer.Success(msgCopied)
}

// save renders the conversation with e and writes it to the output directory
func (s *InteractiveSession) save(e export.Exporter) {
	doc, err := export.Render(e, s.conv.Turns(), s.now())
	if err != nil {
		if !errors.Is(err, export.ErrNothingToSave) {
			s.log().Error("export failed", err)
		}
		s.printer.Error(notice(err))
		return
	}
	s.writer.Save(doc.Name, doc.Content)
}
