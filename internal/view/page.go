package view

import (
	"github.com/citizenconnect/gujarat-guide/backend/internal/model/chat"
	"github.com/citizenconnect/gujarat-guide/backend/internal/model/guide"
	chatservice "github.com/citizenconnect/gujarat-guide/backend/internal/service/chat"
)

const (
	EmptyChatText    = "Start a new chat or select a previous one from the sidebar."
	EmptySidebarText = "No previous chats. Start a new one!"
	ConfirmClearText = "Are you sure? This action cannot be undone."
	ClearedText      = "All chats cleared!"
)

// Page is everything a client needs to draw the chat screen.
type Page struct {
	ClientID    string         `json:"clientId"`
	Title       string         `json:"title"`
	Intro       string         `json:"intro"`
	Panels      []guide.Panel  `json:"panels"`
	Sessions    []chat.Summary `json:"sessions"`
	SidebarHint string         `json:"sidebarHint,omitempty"`
	Active      *ActiveSession `json:"active,omitempty"`
	EmptyHint   string         `json:"emptyHint,omitempty"`
	Suggestions []string       `json:"suggestions"`
	Clear       ClearPrompt    `json:"clear"`
	Notice      *Notice        `json:"notice,omitempty"`
	Placeholder string         `json:"inputPlaceholder"`
	Footer      string         `json:"footer"`
}

// ActiveSession is the selected conversation.
type ActiveSession struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Messages []chat.Message `json:"messages"`
}

// ClearPrompt reflects the clear-all confirmation flow.
type ClearPrompt struct {
	State   chatservice.ConfirmState `json:"state"`
	Message string                   `json:"message,omitempty"`
}

// Notice is a transient banner such as a model error.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// SuccessNotice builds a one-off confirmation banner.
func SuccessNotice(message string) *Notice {
	return &Notice{Level: "success", Message: message}
}

// ErrorNotice builds an error banner, or nil for an empty message.
func ErrorNotice(message string) *Notice {
	if message == "" {
		return nil
	}
	return &Notice{Level: "error", Message: message}
}

// Render builds the page for ws without mutating it.
func Render(ws *chatservice.Workspace, catalog guide.Catalog, notice *Notice) Page {
	text := catalog.Page()
	page := Page{
		ClientID:    ws.ID,
		Title:       text.Title,
		Intro:       text.Intro,
		Panels:      catalog.Panels(),
		Sessions:    ws.Store.ListSessionsOrdered(),
		Suggestions: catalog.Suggestions(),
		Clear:       renderClear(ws.Clear.State()),
		Notice:      notice,
		Placeholder: text.InputPlaceholder,
		Footer:      text.Footer,
	}

	if len(page.Sessions) == 0 {
		page.SidebarHint = EmptySidebarText
	}

	if id, ok := ws.Store.Selected(); ok {
		if session, err := ws.Store.GetSession(id); err == nil {
			page.Active = &ActiveSession{ID: session.ID, Title: session.Title, Messages: session.Messages}
		}
	}
	if page.Active == nil {
		page.EmptyHint = EmptyChatText
	}

	return page
}

func renderClear(state chatservice.ConfirmState) ClearPrompt {
	prompt := ClearPrompt{State: state}
	if state == chatservice.ConfirmPending {
		prompt.Message = ConfirmClearText
	}
	return prompt
}
