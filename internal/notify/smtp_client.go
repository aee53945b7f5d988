package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-inventory-ledger/internal/model"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPClient sends through an authenticated STARTTLS relay such as Gmail.
type SMTPClient struct {
	host        string
	port        int
	dialTimeout time.Duration
	log         *zap.Logger
}

func NewSMTPClient(host string, port int, dialTimeout time.Duration, log *zap.Logger) *SMTPClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &SMTPClient{host: host, port: port, dialTimeout: dialTimeout, log: log}
}

func (c *SMTPClient) Send(ctx context.Context, settings model.MailSettings, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(settings.Sender); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(settings.Recipient); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(c.host,
		mail.WithPort(c.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(settings.Sender),
		mail.WithPassword(settings.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(c.dialTimeout),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
	defer cancel()

	stop := startCountdown(c.log, c.dialTimeout, time.Second)
	err = client.DialWithContext(dialCtx)
	stop()
	if err != nil {
		return fmt.Errorf("smtp dial %s:%d: %w", c.host, c.port, err)
	}
	defer client.Close()

	if err := client.Send(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// startCountdown logs the seconds left until total elapses, once per tick.
// The returned stop func ends the countdown and waits for it to exit.
func startCountdown(log *zap.Logger, total, tick time.Duration) (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		remaining := total
		for remaining > 0 {
			select {
			case <-done:
				return
			case <-ticker.C:
				remaining -= tick
				if remaining < 0 {
					remaining = 0
				}
				log.Info("connecting to mail server", zap.Duration("remaining", remaining))
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		wg.Wait()
	}
}
