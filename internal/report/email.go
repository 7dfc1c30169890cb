package report

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	drepo "NewsPull/internal/domain/repository"
)

// SMTPNotifier delivers reports over SMTP with implicit TLS.
type SMTPNotifier struct {
	host       string
	port       int
	user       string
	password   string
	recipients []string
}

func NewSMTPNotifier(host string, port int, user, password string, recipients []string) drepo.Notifier {
	if port <= 0 {
		port = 465
	}
	return &SMTPNotifier{
		host:       host,
		port:       port,
		user:       user,
		password:   password,
		recipients: recipients,
	}
}

func (n *SMTPNotifier) Deliver(ctx context.Context, subject, htmlBody string) error {
	if len(n.recipients) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	addr := net.JoinHostPort(n.host, strconv.Itoa(n.port))
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	conn := tls.Client(rawConn, &tls.Config{ServerName: n.host})

	cli, err := smtp.NewClient(conn, n.host)
	if err != nil {
		rawConn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer cli.Close()

	auth := smtp.PlainAuth("", n.user, n.password, n.host)
	if err := cli.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := cli.Mail(n.user); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	for _, rcpt := range n.recipients {
		if err := cli.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := cli.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	msg := strings.Join([]string{
		"From: " + n.user,
		"To: " + strings.Join(n.recipients, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return cli.Quit()
}
