// Package sms sends text messages through Twilio.
package sms

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Options holds the Twilio account credentials and the sending number.
type Options struct {
	AccountSID string
	AuthToken  string
	From       string
}

// MessageCreator is the part of the Twilio REST API used here.
type MessageCreator interface {
	CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error)
}

// TwilioSender implements ports.SMSSender.
type TwilioSender struct {
	api  MessageCreator
	from string
}

func NewTwilioSender(opts Options) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: opts.AccountSID,
		Password: opts.AuthToken,
	})
	return NewTwilioSenderWithAPI(client.Api, opts.From)
}

func NewTwilioSenderWithAPI(api MessageCreator, from string) *TwilioSender {
	return &TwilioSender{api: api, from: from}
}

// Send creates the message. The Twilio client has no context support, so ctx is only
// checked before the call.
func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.api.CreateMessage(params); err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	return nil
}

// LogSender logs text messages instead of sending them, for environments without a
// Twilio account.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger.With(zap.String("component", "sms"))}
}

func (s *LogSender) Send(_ context.Context, to, body string) error {
	s.logger.Info("sms not sent, no twilio account configured",
		zap.String("to", to),
		zap.Int("body_length", len(body)))
	return nil
}
