package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citizenconnect/gujarat-guide/backend/internal/model/guide"
	"github.com/citizenconnect/gujarat-guide/backend/internal/service/ai"
	chatservice "github.com/citizenconnect/gujarat-guide/backend/internal/service/chat"
)

func newTestTerminal(t *testing.T, client ai.ModelClient) (*terminal, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	responder, err := ai.NewService(client, "test", nil)
	require.NoError(t, err)
	catalog := guide.Seed()
	ws := chatservice.NewService(responder, catalog).Workspace("cli")

	var out bytes.Buffer
	return newTerminal(&out, ws, catalog, func(s string) string { return s }), &out
}

func TestTerminalSubmitAndDuplicate(t *testing.T) {
	term, out := newTestTerminal(t, ai.StaticClient{Text: "Apply at the Mamlatdar office."})
	ctx := context.Background()

	assert.False(t, term.handle(ctx, "Ration card?"))
	assert.Contains(t, out.String(), "Apply at the Mamlatdar office.")

	out.Reset()
	term.handle(ctx, "Ration card?")
	assert.Contains(t, out.String(), "skipped")

	sessions := term.ws.Store.ListSessionsOrdered()
	require.Len(t, sessions, 1)
	assert.Equal(t, 2, sessions[0].MessageCount)
}

func TestTerminalSuggestionAndSelect(t *testing.T) {
	term, out := newTestTerminal(t, ai.StaticClient{Text: "ok"})
	ctx := context.Background()

	term.handle(ctx, "/suggest 1")
	term.handle(ctx, "/new")
	term.handle(ctx, "/list")
	assert.Contains(t, out.String(), "* 2. New Chat 2 (0 messages)")

	out.Reset()
	term.handle(ctx, "/select 1")
	first, _ := guide.Seed().Suggestion(0)
	assert.Contains(t, out.String(), "You: "+first)

	out.Reset()
	term.handle(ctx, "/suggest 9")
	assert.Contains(t, out.String(), "unknown suggestion")
}

func TestTerminalClearFlow(t *testing.T) {
	term, out := newTestTerminal(t, ai.StaticClient{Text: "ok"})
	ctx := context.Background()

	term.handle(ctx, "/yes")
	assert.Contains(t, out.String(), "error:")

	term.handle(ctx, "/new")
	term.handle(ctx, "/clear")
	term.handle(ctx, "/no")
	assert.Equal(t, 1, term.ws.Store.Len())

	term.handle(ctx, "/clear")
	term.handle(ctx, "/yes")
	assert.Equal(t, 0, term.ws.Store.Len())
	assert.Contains(t, out.String(), "All chats cleared!")
}

func TestTerminalCommands(t *testing.T) {
	term, out := newTestTerminal(t, ai.OfflineClient())
	ctx := context.Background()

	term.handle(ctx, "/dance")
	assert.Contains(t, out.String(), "unknown command /dance")

	out.Reset()
	term.handle(ctx, "Anything?")
	assert.Contains(t, out.String(), ai.FallbackAnswer)
	assert.Contains(t, out.String(), "no AI provider configured")

	assert.True(t, term.handle(ctx, "/quit"))
}

func TestParsePosition(t *testing.T) {
	n, err := parsePosition("3")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = parsePosition("0")
	assert.Error(t, err)
	_, err = parsePosition("x")
	assert.Error(t, err)
}
