// Package telegram wraps the bot API client: inbound channel posts are
// tagged with the dialect configured at subscription time and delivered
// through a single event queue, keeping the decision logic transport
// agnostic. Outbound messages go through a pump that spaces sends to avoid
// rate limit errors.
package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	tb "gopkg.in/tucnak/telebot.v2"
)

// Event is one inbound message with the dialect of its channel.
type Event struct {
	Dialect string
	Text    string
}

type Bot struct {
	bot      *tb.Bot
	chat     *tb.Chat
	boot     time.Time
	messages chan string
	events   chan Event
	dialects map[int64]string
}

func New(token string, controlChatID int64) (*Bot, error) {
	b, err := tb.NewBot(tb.Settings{
		Token:  token,
		Poller: &tb.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: couldn't create bot: %w", err)
	}
	chat, err := b.ChatByID(strconv.FormatInt(controlChatID, 10))
	if err != nil {
		return nil, fmt.Errorf("telegram: couldn't resolve control chat %d: %w", controlChatID, err)
	}
	bot := &Bot{
		bot:      b,
		chat:     chat,
		boot:     time.Now(),
		messages: make(chan string, 100),
		events:   make(chan Event, 100),
		dialects: make(map[int64]string),
	}
	bot.bot.Handle(tb.OnText, bot.receive)
	bot.bot.Handle(tb.OnChannelPost, bot.receive)
	return bot, nil
}

// Subscribe tags a chat with a dialect. Must be called before Run.
func (b *Bot) Subscribe(chatID int64, dialect string) {
	b.dialects[chatID] = dialect
}

// Events returns the inbound queue shared by all subscribed channels.
func (b *Bot) Events() <-chan Event {
	return b.events
}

func (b *Bot) HandleCommand(command string, handler func(string)) {
	b.bot.Handle(fmt.Sprintf("/%s", command), func(m *tb.Message) {
		if m.Chat.ID != b.chat.ID {
			return
		}
		if m.Time().Before(b.boot) {
			return
		}
		handler(m.Payload)
	})
}

func (b *Bot) receive(m *tb.Message) {
	dialect, ok := b.dialects[m.Chat.ID]
	if !ok {
		return
	}
	if m.Time().Before(b.boot) {
		return
	}
	select {
	case b.events <- Event{Dialect: dialect, Text: m.Text}:
	default:
		log.Printf("telegram: event queue full, dropping message from %d", m.Chat.ID)
	}
}

// Run starts the poller and the outbound pump until the context ends.
func (b *Bot) Run(ctx context.Context) error {
	go b.bot.Start()
	defer b.bot.Stop()
	defer b.bot.Send(b.chat, "🛑 bot stopping")
	var msg string
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg = <-b.messages:
		}
		if _, err := b.bot.Send(b.chat, msg); err != nil {
			log.Println(err)
		}
		select {
		case <-ctx.Done():
			return nil
		// Wait to avoid rate limit errors
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// Notify queues a message for the control chat.
func (b *Bot) Notify(msg string) {
	select {
	case b.messages <- msg:
	default:
		log.Printf("telegram: outbound queue full, dropping notification")
	}
}
