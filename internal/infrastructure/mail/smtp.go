package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

type SMTPGateway struct {
	host     string
	port     string
	username string
	password string
	fromName string
	log      *zap.Logger
}

func NewSMTPGateway(host, port, username, password, fromName string, log *zap.Logger) *SMTPGateway {
	return &SMTPGateway{
		host:     host,
		port:     port,
		username: username,
		password: password,
		fromName: fromName,
		log:      log,
	}
}

func (g *SMTPGateway) Send(ctx context.Context, msg Message) bool {
	if err := g.deliver(ctx, msg); err != nil {
		g.log.Error("email delivery failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return false
	}

	g.log.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return true
}

func (g *SMTPGateway) deliver(ctx context.Context, msg Message) error {
	addr := g.host + ":" + g.port

	// Implicit TLS (port 465).
	dialer := &tls.Dialer{Config: &tls.Config{ServerName: g.host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, g.host)
	if err != nil {
		return err
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", g.username, g.password, g.host)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(g.username); err != nil {
		return err
	}
	if err := client.Rcpt(msg.To); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(g.buildMessage(msg)); err != nil {
		return err
	}
	return w.Close()
}

func (g *SMTPGateway) buildMessage(msg Message) []byte {
	fromName := msg.FromName
	if fromName == "" {
		fromName = g.fromName
	}

	headers := fmt.Sprintf("From: %q <%s>\r\n", fromName, g.username) +
		fmt.Sprintf("To: %s\r\n", msg.To) +
		fmt.Sprintf("Subject: %s\r\n", msg.Subject)

	if msg.ReplyTo != "" {
		headers += fmt.Sprintf("Reply-To: %s\r\n", msg.ReplyTo)
	}

	headers += "MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"utf-8\"\r\n" +
		"\r\n"

	return []byte(headers + msg.HTMLBody)
}
