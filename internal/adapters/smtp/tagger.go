package smtp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"time"

	gosmtp "github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/core"
)

// Tagger is an SMTP frontend that categorizes incoming messages, stamps the
// verdict into headers and relays them onward. Messages are never rejected;
// a failed categorization still relays with the fallback label.
type Tagger struct {
	service          *core.CategorizerService
	logger           *zap.Logger
	listenAddr       string
	server           *gosmtp.Server
	relayAddr        string
	relayPort        int
	relayEnabled     bool
	categoryHeader   string
	confidenceHeader string
}

// NewTagger creates a new SMTP tagging frontend
func NewTagger(
	service *core.CategorizerService,
	logger *zap.Logger,
	listenAddr string,
	relayAddr string,
	relayPort int,
	relayEnabled bool,
	categoryHeader string,
	confidenceHeader string,
) *Tagger {
	if categoryHeader == "" {
		categoryHeader = "X-Email-Category"
	}
	if confidenceHeader == "" {
		confidenceHeader = "X-Email-Category-Confidence"
	}

	return &Tagger{
		service:          service,
		logger:           logger,
		listenAddr:       listenAddr,
		relayAddr:        relayAddr,
		relayPort:        relayPort,
		relayEnabled:     relayEnabled,
		categoryHeader:   categoryHeader,
		confidenceHeader: confidenceHeader,
	}
}

// Start starts the SMTP tagging service
func (t *Tagger) Start() error {
	t.server = gosmtp.NewServer(&smtpBackend{tagger: t})

	t.server.Addr = t.listenAddr
	t.server.Domain = "localhost"
	t.server.ReadTimeout = 30 * time.Second
	t.server.WriteTimeout = 30 * time.Second
	t.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	t.server.MaxRecipients = 50
	t.server.AllowInsecureAuth = true

	t.logger.Info("SMTP tagger starting", zap.String("address", t.listenAddr))

	go func() {
		if err := t.server.ListenAndServe(); err != nil {
			if err != gosmtp.ErrServerClosed {
				t.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP tagging service
func (t *Tagger) Stop() error {
	if t.server != nil {
		return t.server.Close()
	}
	return nil
}

// sendToRelay sends the tagged email onward to the configured relay
func (t *Tagger) sendToRelay(sender string, recipients []string, emailData []byte) error {
	relayAddr := fmt.Sprintf("%s:%d", t.relayAddr, t.relayPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", relayAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := gosmtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			t.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			// Continue with other recipients even if one fails
		} else {
			recipientOK = true
		}
	}

	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	_, err = wc.Write(emailData)
	if err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		t.logger.Warn("QUIT command failed", zap.Error(err))
		// The email has already been sent at this point
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	tagger *Tagger
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *gosmtp.Conn) (gosmtp.Session, error) {
	return &smtpSession{
		tagger:     b.tagger,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	tagger     *Tagger
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// AuthPlain handles PLAIN authentication (not needed for the tagger)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return gosmtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *gosmtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *gosmtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data categorizes the message, stamps the verdict headers and relays the
// result
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.tagger.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	// Keep a copy of the raw data for later reconstruction
	rawDataCopy := make([]byte, len(rawData))
	copy(rawDataCopy, rawData)

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.tagger.logger.Error("Failed to parse email message", zap.Error(err))
		return err
	}

	textContent, err := extractTextFromMessage(msg)
	if err != nil {
		s.tagger.logger.Error("Failed to extract text content", zap.Error(err))
		return err
	}

	subject := msg.Header.Get("Subject")
	if decoded, err := decodeEncodedHeader(subject); err == nil {
		subject = decoded
	}

	email := &core.RawEmail{
		Subject: subject,
		Sender:  s.sender,
		Body:    textContent,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result := s.tagger.service.Categorize(ctx, email)

	// Prepend the verdict headers, then the original headers and body
	var taggedEmail bytes.Buffer
	fmt.Fprintf(&taggedEmail, "%s: %s\r\n", s.tagger.categoryHeader, string(result.Category))
	fmt.Fprintf(&taggedEmail, "%s: %.4f\r\n", s.tagger.confidenceHeader, result.Confidence)

	for key, values := range msg.Header {
		for _, value := range values {
			fmt.Fprintf(&taggedEmail, "%s: %s\r\n", key, value)
		}
	}

	// End of headers
	fmt.Fprintf(&taggedEmail, "\r\n")

	// Find where the original body starts in the raw data, preserving all
	// MIME parts and attachments
	bodyStartIndex := bytes.Index(rawDataCopy, []byte("\r\n\r\n"))
	if bodyStartIndex == -1 {
		bodyStartIndex = bytes.Index(rawDataCopy, []byte("\n\n"))
		if bodyStartIndex == -1 {
			bodyBytes, err := io.ReadAll(msg.Body)
			if err != nil {
				s.tagger.logger.Error("Failed to read message body", zap.Error(err))
				return err
			}
			taggedEmail.Write(bodyBytes)
		} else {
			taggedEmail.Write(rawDataCopy[bodyStartIndex+2:])
		}
	} else {
		taggedEmail.Write(rawDataCopy[bodyStartIndex+4:])
	}

	if s.tagger.relayEnabled {
		if err := s.tagger.sendToRelay(s.sender, s.recipients, taggedEmail.Bytes()); err != nil {
			s.tagger.logger.Error("Failed to relay tagged email",
				zap.Error(err),
				zap.String("sender", s.sender))
			return err
		}
	} else {
		s.tagger.logger.Warn("Relay disabled, tagged email dropped")
	}

	s.tagger.logger.Info("Tagged email",
		zap.String("from", s.sender),
		zap.String("category", string(result.Category)),
		zap.Float64("confidence", result.Confidence),
		zap.String("model", result.ModelUsed))

	return nil
}

// Logout handles SMTP logout (not needed for the tagger)
func (s *smtpSession) Logout() error {
	return nil
}
