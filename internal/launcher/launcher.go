// Package launcher opens links with the desktop's default handler and
// copies text to the system clipboard.
package launcher

import (
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"
)

// Runner starts an external command without waiting for it.
type Runner func(name string, args ...string) error

// Desktop implements the session's Opener and Clipboard collaborators.
type Desktop struct {
	run   Runner
	write func(string) error
	goos  string
	log   logrus.FieldLogger
}

// Option customizes a Desktop.
type Option func(*Desktop)

// WithRunner replaces the process starter.
func WithRunner(r Runner) Option {
	return func(d *Desktop) { d.run = r }
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(d *Desktop) { d.write = write }
}

// WithOS overrides the detected operating system.
func WithOS(goos string) Option {
	return func(d *Desktop) { d.goos = goos }
}

// WithLogger sets the logger used for launch failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Desktop) { d.log = log }
}

// New returns a Desktop for the current platform.
func New(opts ...Option) *Desktop {
	d := &Desktop{
		run:   start,
		write: clipboard.WriteAll,
		goos:  runtime.GOOS,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		d.log = l
	}
	return d
}

func start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// command returns the opener invocation for a link on goos.
func command(goos, link string) (string, []string, bool) {
	switch goos {
	case "darwin":
		return "open", []string{link}, true
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{link}, true
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", link}, true
	}
	return "", nil, false
}

// OpenLinks opens each link and returns how many were launched.
func (d *Desktop) OpenLinks(links []string) int {
	opened := 0
	for _, link := range links {
		name, args, ok := command(d.goos, link)
		if !ok {
			d.log.WithField("os", d.goos).Warn("no link opener for this platform")
			return opened
		}
		if err := d.run(name, args...); err != nil {
			d.log.WithError(err).WithField("link", link).Warn("open link")
			continue
		}
		opened++
	}
	return opened
}

// CopyText places text on the clipboard.
func (d *Desktop) CopyText(text string) error {
	return d.write(text)
}
