package report

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// Sink delivers a rendered report somewhere
type Sink interface {
	Deliver(r *Report) error
}

// StdoutSink writes the text rendering to standard output
type StdoutSink struct {
	Out io.Writer // defaults to os.Stdout
}

func (s StdoutSink) Deliver(r *Report) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}
	return r.RenderText(out)
}

// FileSink writes the text rendering to Path. When BundlePath is set
// it additionally writes a zip holding the report together with the
// raw storcli output per controller, for offline diagnosis.
type FileSink struct {
	Path       string
	BundlePath string
}

func (s FileSink) Deliver(r *Report) error {
	var buf bytes.Buffer
	if err := r.RenderText(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(s.Path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if s.BundlePath == "" {
		return nil
	}
	return writeBundle(s.BundlePath, r, buf.Bytes())
}

func writeBundle(path string, r *Report, rendered []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create bundle: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	add := func(name string, data []byte) error {
		if len(data) == 0 {
			return nil
		}
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	if err := add("report.txt", rendered); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	for _, ctrl := range r.Result.Controllers {
		if err := add(fmt.Sprintf("c%d-show-all.txt", ctrl.Index), ctrl.RawShowAll); err != nil {
			return fmt.Errorf("failed to write bundle: %w", err)
		}
		if err := add(fmt.Sprintf("c%d-events.txt", ctrl.Index), ctrl.RawEvents); err != nil {
			return fmt.Errorf("failed to write bundle: %w", err)
		}
	}
	return zw.Close()
}

// EmailSink sends the report as a multipart text+HTML message. With
// OnSuccess false only failing runs are mailed.
type EmailSink struct {
	Server    string // host:port
	From      string
	To        []string
	Username  string
	Password  string
	OnSuccess bool

	// send overrides smtp.SendMail in tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (s EmailSink) Deliver(r *Report) error {
	if r.Result.Pass && !s.OnSuccess {
		slog.Debug("skipping email sink for passing run")
		return nil
	}

	msg, err := s.compose(r)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if s.Username != "" {
		host := s.Server
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", s.Username, s.Password, host)
	}

	send := s.send
	if send == nil {
		send = smtp.SendMail
	}
	if err := send(s.Server, auth, s.From, s.To, msg); err != nil {
		return fmt.Errorf("failed to send report email: %w", err)
	}
	return nil
}

func (s EmailSink) compose(r *Report) ([]byte, error) {
	var text, html bytes.Buffer
	if err := r.RenderText(&text); err != nil {
		return nil, err
	}
	if err := r.RenderHTML(&html); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(s.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", r.Subject())
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())

	tw, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"}})
	if err != nil {
		return nil, err
	}
	tw.Write(text.Bytes())

	hw, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"}})
	if err != nil {
		return nil, err
	}
	hw.Write(html.Bytes())

	if err := mw.Close(); err != nil {
		return nil, err
	}
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

// DeliverAll runs every sink and keeps going past failures, which are
// logged. It reports whether all sinks succeeded.
func DeliverAll(sinks []Sink, r *Report) bool {
	ok := true
	for _, sink := range sinks {
		if err := sink.Deliver(r); err != nil {
			slog.Error("report delivery failed", "sink", fmt.Sprintf("%T", sink), "error", err)
			ok = false
		}
	}
	return ok
}
