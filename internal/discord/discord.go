package discord

import "context"

// MessageContentLimit is the longest message Discord accepts; longer content is split.
const MessageContentLimit = 2000

type Button struct {
	CustomID string
	Label    string
}

// Reply is a message body with optional rows of buttons.
type Reply struct {
	Content string
	Buttons [][]Button
}

type FileMessage struct {
	ChannelID string
	Content   string
	Filename  string
	FileBody  []byte
}

type SlashCommandDefinition struct {
	Name        string
	Description string
}

type MessageEvent struct {
	GuildID   string
	ChannelID string
	UserID    string
	Content   string
	IsDirect  bool
}

type SlashCommandEvent struct {
	GuildID     string
	ChannelID   string
	CommandName string
	UserID      string
	// Defer acknowledges the command so Respond may arrive after the interaction deadline.
	Defer   func() error
	Respond func(reply Reply) error
}

type ButtonEvent struct {
	GuildID   string
	ChannelID string
	UserID    string
	CustomID  string
	// Update replaces the message that carried the button.
	Update func(reply Reply) error
	// Notify answers the press with a message only the presser sees.
	Notify func(content string) error
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	SendMessage(channelID, content string) error
	SendMessageWithFile(msg FileMessage) error
	SendTyping(channelID string) error
	RegisterMessageHandler(handler func(MessageEvent))
	RegisterSlashCommandHandler(handler func(SlashCommandEvent))
	RegisterButtonHandler(handler func(ButtonEvent))
	UpsertSlashCommands(guildID string, defs []SlashCommandDefinition) error
	GetBotUserID() (string, error)
	Run() error
}
