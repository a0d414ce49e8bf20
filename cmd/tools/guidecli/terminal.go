package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/citizenconnect/gujarat-guide/backend/internal/model/chat"
	"github.com/citizenconnect/gujarat-guide/backend/internal/model/guide"
	"github.com/citizenconnect/gujarat-guide/backend/internal/service/ai"
	chatservice "github.com/citizenconnect/gujarat-guide/backend/internal/service/chat"
	"github.com/citizenconnect/gujarat-guide/backend/internal/view"
)

var (
	userColor   = color.New(color.Bold)
	aiColor     = color.New(color.FgCyan)
	titleColor  = color.New(color.FgMagenta, color.Bold)
	hintColor   = color.New(color.FgHiBlack)
	errorColor  = color.New(color.FgRed)
	promptColor = color.New(color.FgHiBlue)
)

const helpText = `/new         start a new chat
/list        list chats, newest first
/select N    switch to chat N from /list
/suggest N   ask quick suggestion N
/clear       clear all chats (asks for /yes or /no)
/quit        leave`

// markdownRenderer renders answers with glamour and falls back to plain text.
func markdownRenderer() func(string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(s string) string { return s }
	}
	return func(s string) string {
		out, err := renderer.Render(s)
		if err != nil {
			return s
		}
		return strings.TrimRight(out, "\n")
	}
}

// terminal maps REPL lines onto workspace events.
type terminal struct {
	out     io.Writer
	ws      *chatservice.Workspace
	catalog guide.Catalog
	render  func(string) string
}

func newTerminal(out io.Writer, ws *chatservice.Workspace, catalog guide.Catalog, render func(string) string) *terminal {
	return &terminal{out: out, ws: ws, catalog: catalog, render: render}
}

func (t *terminal) welcome() {
	page := t.catalog.Page()
	titleColor.Fprintln(t.out, page.Title)
	fmt.Fprintln(t.out, page.Intro)
	fmt.Fprintln(t.out)
	hintColor.Fprintln(t.out, "Quick suggestions:")
	for i, s := range t.catalog.Suggestions() {
		hintColor.Fprintf(t.out, "  %d. %s\n", i+1, s)
	}
	hintColor.Fprintln(t.out, "Type /help for commands.")
}

// handle runs one input line and reports whether the REPL should stop.
func (t *terminal) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		t.submit(ctx, line)
		return false
	}

	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch command {
	case "/quit", "/exit":
		return true
	case "/help":
		hintColor.Fprintln(t.out, helpText)
	case "/new":
		session := t.ws.NewChat()
		titleColor.Fprintf(t.out, "Started %s\n", session.Title)
	case "/list":
		t.list()
	case "/select":
		t.selectSession(arg)
	case "/suggest":
		n, err := parsePosition(arg)
		if err != nil {
			t.fail(err)
			return false
		}
		outcome, err := t.ws.SubmitSuggestion(ctx, n)
		if err != nil {
			t.fail(err)
			return false
		}
		t.printOutcome(outcome)
	case "/clear":
		t.ws.RequestClear()
		errorColor.Fprintln(t.out, view.ConfirmClearText+" Type /yes or /no.")
	case "/yes":
		if err := t.ws.ConfirmClear(); err != nil {
			t.fail(err)
			return false
		}
		titleColor.Fprintln(t.out, view.ClearedText)
	case "/no":
		if err := t.ws.CancelClear(); err != nil {
			t.fail(err)
		}
	default:
		t.fail(fmt.Errorf("unknown command %s, try /help", command))
	}
	return false
}

func (t *terminal) submit(ctx context.Context, question string) {
	userColor.Fprintf(t.out, "You: %s\n", question)
	outcome, err := t.ws.Submit(ctx, question)
	if err != nil {
		t.fail(err)
		return
	}
	t.printOutcome(outcome)
}

func (t *terminal) printOutcome(outcome chatservice.Outcome) {
	if outcome.Skipped {
		hintColor.Fprintln(t.out, "(same question as before, skipped)")
		return
	}
	t.printReply(outcome.Reply)
}

func (t *terminal) printReply(reply ai.Reply) {
	if reply.Notice != "" {
		errorColor.Fprintln(t.out, reply.Notice)
	}
	aiColor.Fprintln(t.out, "Assistant:")
	fmt.Fprintln(t.out, t.render(reply.Content))
}

func (t *terminal) list() {
	sessions := t.ws.Store.ListSessionsOrdered()
	if len(sessions) == 0 {
		hintColor.Fprintln(t.out, view.EmptySidebarText)
		return
	}
	for i, s := range sessions {
		marker := " "
		if s.Active {
			marker = "*"
		}
		fmt.Fprintf(t.out, "%s %d. %s (%d messages)\n", marker, i+1, s.Title, s.MessageCount)
	}
}

func (t *terminal) selectSession(arg string) {
	n, err := parsePosition(arg)
	if err != nil {
		t.fail(err)
		return
	}
	sessions := t.ws.Store.ListSessionsOrdered()
	if n >= len(sessions) {
		t.fail(chatservice.ErrSessionNotFound)
		return
	}
	if err := t.ws.Select(sessions[n].ID); err != nil {
		t.fail(err)
		return
	}

	titleColor.Fprintln(t.out, sessions[n].Title)
	messages, _ := t.ws.Store.LoadTranscript(sessions[n].ID)
	for _, m := range messages {
		if m.Role == chat.RoleUser {
			userColor.Fprintf(t.out, "You: %s\n", m.Content)
			continue
		}
		aiColor.Fprintln(t.out, "Assistant:")
		fmt.Fprintln(t.out, t.render(m.Content))
	}
}

func (t *terminal) fail(err error) {
	errorColor.Fprintf(t.out, "error: %v\n", err)
}

// parsePosition turns a 1-based position into an index.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, errors.New("expected a positive number")
	}
	return n - 1, nil
}
