// Package telegram adapts the bot API to the dialog event model.
package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pancsta/recipai/dialog"
	"github.com/pancsta/recipai/render"
	"github.com/pancsta/recipai/session"
)

const pollTimeout = 60

// Bot wraps the api client. It implements the flow transport and feeds
// incoming updates into a dispatch func.
type Bot struct {
	api *tgbotapi.BotAPI
	log *slog.Logger
}

func New(token string, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Bot{api: api, log: log}, nil
}

func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// ///// ///// /////

// ///// OUTBOUND

// ///// ///// /////

func (b *Bot) Send(ctx context.Context, chatID int64, text string,
	kb render.Keyboard) (session.MsgRef, error) {

	msg := tgbotapi.NewMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = markup(kb)
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		return session.MsgRef{}, err
	}

	return session.MsgRef{ChatID: chatID, MsgID: sent.MessageID}, nil
}

func (b *Bot) Edit(ctx context.Context, ref session.MsgRef, text string,
	kb render.Keyboard) error {

	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MsgID, text)
	if kb != nil {
		m := markup(kb)
		edit.ReplyMarkup = &m
	}
	_, err := b.api.Send(edit)

	return err
}

// RetireControls strips the inline keyboard off a sent message.
func (b *Bot) RetireControls(ctx context.Context, ref session.MsgRef) error {
	empty := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(ref.ChatID, ref.MsgID, empty)
	_, err := b.api.Send(edit)

	return err
}

func (b *Bot) SendPhotos(ctx context.Context, chatID int64,
	fileIDs []string, caption string) (session.MsgRef, error) {

	// single photo keeps its own message
	if len(fileIDs) == 1 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileIDs[0]))
		photo.Caption = caption
		sent, err := b.api.Send(photo)
		if err != nil {
			return session.MsgRef{}, err
		}
		return session.MsgRef{ChatID: chatID, MsgID: sent.MessageID}, nil
	}

	// album, the caption goes on the first photo
	var media []any
	for i, id := range fileIDs {
		p := tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(id))
		if i == 0 {
			p.Caption = caption
		}
		media = append(media, p)
	}
	group := tgbotapi.NewMediaGroup(chatID, media)
	sent, err := b.api.SendMediaGroup(group)
	if err != nil || len(sent) == 0 {
		return session.MsgRef{}, err
	}

	return session.MsgRef{ChatID: chatID, MsgID: sent[0].MessageID}, nil
}

func markup(kb render.Keyboard) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range kb {
		var btns []tgbotapi.InlineKeyboardButton
		for _, b := range row {
			btns = append(btns,
				tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		rows = append(rows, btns)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// ///// ///// /////

// ///// INBOUND

// ///// ///// /////

// Run long-polls updates and hands events to dispatch until ctx ends.
func (b *Bot) Run(ctx context.Context, dispatch func(ev dialog.Event)) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return

		case up, ok := <-updates:
			if !ok {
				return
			}
			ev, ok := b.toEvent(up)
			if !ok {
				continue
			}
			dispatch(ev)
		}
	}
}

func (b *Bot) toEvent(up tgbotapi.Update) (dialog.Event, bool) {
	switch {
	case up.CallbackQuery != nil:
		cq := up.CallbackQuery
		// ack the spinner right away
		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			b.log.Debug("callback ack", "err", err)
		}
		if cq.Message == nil {
			return dialog.Event{}, false
		}
		return dialog.Event{
			Kind:     dialog.KindCallback,
			ChatID:   cq.Message.Chat.ID,
			UserID:   cq.From.ID,
			UserName: cq.From.FirstName,
			Data:     cq.Data,
			MsgID:    cq.Message.MessageID,
		}, true

	case up.Message != nil:
		msg := up.Message
		// channel posts carry no sender
		if msg.From == nil {
			return dialog.Event{}, false
		}
		ev := dialog.Event{
			ChatID:   msg.Chat.ID,
			UserID:   msg.From.ID,
			UserName: msg.From.FirstName,
			MsgID:    msg.MessageID,
		}

		switch {
		case msg.IsCommand():
			ev.Kind = dialog.KindCommand
			ev.Text = msg.Command()
		case len(msg.Photo) > 0:
			ev.Kind = dialog.KindPhoto
			ev.PhotoID = largestPhoto(msg.Photo)
			ev.Text = msg.Caption
		case msg.Text != "":
			ev.Kind = dialog.KindText
			ev.Text = msg.Text
		default:
			return dialog.Event{}, false
		}

		return ev, true
	}

	return dialog.Event{}, false
}

// largestPhoto picks the biggest size variant.
func largestPhoto(sizes []tgbotapi.PhotoSize) string {
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	return best.FileID
}
