package notify

import (
	"context"
	"errors"
	"net/url"

	"go.uber.org/multierr"
)

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans a message out to every notifier and returns all failures.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Send(ctx, title, text))
	}
	return err
}

// Nop drops every message.
type Nop struct{}

func (Nop) Send(context.Context, string, string) error { return nil }

// Build assembles the configured remote notifiers plus any extras,
// skipping the ones left unconfigured.
func Build(slackWebhook, telegramToken, telegramChat string, extra ...Notifier) Multi {
	var m Multi
	if s := NewSlack(slackWebhook); s != nil {
		m = append(m, s)
	}
	if t := NewTelegram(telegramToken, telegramChat); t != nil {
		m = append(m, t)
	}
	for _, n := range extra {
		if n != nil {
			m = append(m, n)
		}
	}
	return m
}

// redactURL strips the request URL from transport errors. Webhook and bot
// URLs carry credentials and these errors end up in the logs.
func redactURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
