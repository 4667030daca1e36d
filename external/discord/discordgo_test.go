package discord

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/mensetsu/internal/discord"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestSession(t *testing.T, rt roundTripFunc) *discordgo.Session {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if rt != nil {
		s.Client = &http.Client{Transport: rt}
	}
	return s
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestSplitMessage(t *testing.T) {
	if got := splitMessage("short", 10); len(got) != 1 || got[0] != "short" {
		t.Fatalf("unexpected split: %q", got)
	}

	got := splitMessage("первая строка\nвторая строка", 16)
	if len(got) != 2 || got[0] != "первая строка" || got[1] != "вторая строка" {
		t.Fatalf("expected split at line break, got %q", got)
	}

	got = splitMessage(strings.Repeat("я", 25), 10)
	if len(got) != 3 || len([]rune(got[0])) != 10 || len([]rune(got[2])) != 5 {
		t.Fatalf("expected hard cuts by rune, got %q", got)
	}
	for _, chunk := range splitMessage(strings.Repeat("слово ", 800), discordpkg.MessageContentLimit) {
		if len([]rune(chunk)) > discordpkg.MessageContentLimit {
			t.Fatalf("chunk exceeds limit: %d runes", len([]rune(chunk)))
		}
	}
}

func TestSendMessage_SplitsLongContent(t *testing.T) {
	var posted []string
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || !strings.HasSuffix(req.URL.Path, "/channels/dm-1/messages") {
			t.Errorf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		var body struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		posted = append(posted, body.Content)
		return jsonResponse(http.StatusOK, `{"id":"m","channel_id":"dm-1"}`), nil
	})

	c := &Client{session: s}
	content := strings.Repeat("a", 1500) + "\n" + strings.Repeat("b", 1500)
	if err := c.SendMessage("dm-1", content); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posted) != 2 {
		t.Fatalf("expected two messages, got %d", len(posted))
	}
	if posted[0] != strings.Repeat("a", 1500) || posted[1] != strings.Repeat("b", 1500) {
		t.Fatal("unexpected chunk contents")
	}
}

func TestUpsertSlashCommands_CreatesMissingAndEditsChanged(t *testing.T) {
	var created, edited []string
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		switch {
		case req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "/applications/app-1/guilds/guild-1/commands"):
			return jsonResponse(http.StatusOK, `[{"id":"c1","name":"start","description":"old"},{"id":"c2","name":"help","description":"Справка"}]`), nil
		case req.Method == http.MethodPost && strings.HasSuffix(req.URL.Path, "/applications/app-1/guilds/guild-1/commands"):
			var cmd discordgo.ApplicationCommand
			_ = json.NewDecoder(req.Body).Decode(&cmd)
			created = append(created, cmd.Name)
			return jsonResponse(http.StatusCreated, `{"id":"c3","name":"`+cmd.Name+`"}`), nil
		case req.Method == http.MethodPatch && strings.HasSuffix(req.URL.Path, "/applications/app-1/guilds/guild-1/commands/c1"):
			edited = append(edited, "start")
			return jsonResponse(http.StatusOK, `{"id":"c1","name":"start"}`), nil
		default:
			t.Errorf("unexpected request: %s %s", req.Method, req.URL.Path)
			return jsonResponse(http.StatusNotFound, `{}`), nil
		}
	})
	s.State.User = &discordgo.User{ID: "app-1"}

	c := &Client{session: s}
	err := c.UpsertSlashCommands("guild-1", []discordpkg.SlashCommandDefinition{
		{Name: "start", Description: "Начать собеседование"},
		{Name: "stop", Description: "Завершить собеседование"},
		{Name: "help", Description: "Справка"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 || created[0] != "stop" {
		t.Fatalf("expected stop to be created, got %v", created)
	}
	if len(edited) != 1 || edited[0] != "start" {
		t.Fatalf("expected start to be edited, got %v", edited)
	}
}

func TestButtonRows_EmptyClearsComponents(t *testing.T) {
	rows := buttonRows(nil)
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil components, got %#v", rows)
	}
	rows = buttonRows([][]discordpkg.Button{{{CustomID: "a", Label: "A"}, {CustomID: "b", Label: "B"}}, {{CustomID: "c", Label: "C"}}})
	if len(rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(rows))
	}
	first, ok := rows[0].(discordgo.ActionsRow)
	if !ok || len(first.Components) != 2 {
		t.Fatalf("unexpected first row: %#v", rows[0])
	}
}

func TestRun_ReturnsAfterClose(t *testing.T) {
	c := NewClient("token").(*Client)
	done := make(chan struct{})
	go func() {
		_ = c.Run()
		close(done)
	}()
	if err := c.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-done
	if err := c.Close(); err != nil {
		t.Fatalf("second close should be a no-op: %v", err)
	}
}

func TestSlashCommandEvent_DeferredReplyUsesFollowup(t *testing.T) {
	var calls []string
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		switch {
		case strings.HasSuffix(req.URL.Path, "/interactions/i-1/tok/callback"):
			var body discordgo.InteractionResponse
			_ = json.NewDecoder(req.Body).Decode(&body)
			calls = append(calls, fmt.Sprintf("callback:%d", body.Type))
			return jsonResponse(http.StatusNoContent, ``), nil
		case strings.HasSuffix(req.URL.Path, "/webhooks/app-1/tok"):
			var body struct {
				Content string `json:"content"`
			}
			_ = json.NewDecoder(req.Body).Decode(&body)
			calls = append(calls, "followup:"+body.Content)
			return jsonResponse(http.StatusOK, `{"id":"m","channel_id":"dm-1"}`), nil
		default:
			t.Errorf("unexpected request: %s %s", req.Method, req.URL.Path)
			return jsonResponse(http.StatusNotFound, `{}`), nil
		}
	})
	ic := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{ID: "i-1", AppID: "app-1", Token: "tok", ChannelID: "dm-1"}}

	event := slashCommandEvent(s, ic, "stop", "user-1")
	if err := event.Defer(); err != nil {
		t.Fatalf("unexpected defer error: %v", err)
	}
	if err := event.Respond(discordpkg.Reply{Content: "готово"}); err != nil {
		t.Fatalf("unexpected respond error: %v", err)
	}

	want := []string{
		fmt.Sprintf("callback:%d", discordgo.InteractionResponseDeferredChannelMessageWithSource),
		"followup:готово",
	}
	if len(calls) != len(want) || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("unexpected requests: %v", calls)
	}
}

func TestSlashCommandEvent_ImmediateReply(t *testing.T) {
	var types []discordgo.InteractionResponseType
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if !strings.HasSuffix(req.URL.Path, "/interactions/i-1/tok/callback") {
			t.Errorf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		var body discordgo.InteractionResponse
		_ = json.NewDecoder(req.Body).Decode(&body)
		types = append(types, body.Type)
		return jsonResponse(http.StatusNoContent, ``), nil
	})
	ic := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{ID: "i-1", AppID: "app-1", Token: "tok"}}

	event := slashCommandEvent(s, ic, "help", "user-1")
	if err := event.Respond(discordpkg.Reply{Content: "справка"}); err != nil {
		t.Fatalf("unexpected respond error: %v", err)
	}
	if len(types) != 1 || types[0] != discordgo.InteractionResponseChannelMessageWithSource {
		t.Fatalf("unexpected response types: %v", types)
	}
}
