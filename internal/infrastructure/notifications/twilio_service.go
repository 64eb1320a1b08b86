package notifications

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// TwilioServiceImpl implements domain.NotificationService. It is the SMS side
// channel for users who have no bound chat identity.
type TwilioServiceImpl struct {
	client     *twilio.RestClient
	fromNumber string
	log        *logrus.Entry
}

// NewTwilioService creates a new Twilio notification service
func NewTwilioService(accountSID, authToken, fromNumber string, log *logrus.Logger) domain.NotificationService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioServiceImpl{
		client:     client,
		fromNumber: fromNumber,
		log:        log.WithField("component", "twilio"),
	}
}

// SendSMS implements domain.NotificationService. With no sender number
// configured it logs instead of sending, which keeps local runs working.
func (t *TwilioServiceImpl) SendSMS(to, message string) error {
	if t.fromNumber == "" {
		t.log.WithField("to", to).Info("mock SMS: " + message)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}
