// Package opener navigates to urls chosen in the palette by launching an
// external opener, falling back to the system clipboard.
package opener

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"

	"cmdpal/internal/eventbus"
)

// ErrNoOpener is returned when no opener is available and copying is disabled
var ErrNoOpener = errors.New("no opener available")

// Result tells how a url was handed off
type Result int

const (
	Opened Result = iota
	Copied
)

// Opener launches urls with an external command
type Opener struct {
	command      []string
	copyFallback bool
	base         *url.URL

	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
	copy     func(string) error
}

// New creates an opener. command is split on whitespace; the url is appended
// as the last argument. Relative urls are resolved against base when set.
func New(command string, copyFallback bool, base string) *Opener {
	o := &Opener{
		command:      strings.Fields(command),
		copyFallback: copyFallback,
		lookPath:     exec.LookPath,
		start:        startDetached,
		copy:         clipboard.WriteAll,
	}
	if base != "" {
		if u, err := url.Parse(base); err == nil && u.IsAbs() {
			o.base = u
		}
	}
	return o
}

// Resolve returns target as an absolute url when a base is configured
func (o *Opener) Resolve(target string) string {
	if o.base == nil {
		return target
	}
	ref, err := url.Parse(target)
	if err != nil {
		return target
	}
	return o.base.ResolveReference(ref).String()
}

// Open hands target to the opener command, or copies it to the clipboard
// when the command is missing or fails.
func (o *Opener) Open(target string) (Result, error) {
	target = o.Resolve(target)

	var openErr error
	if len(o.command) == 0 {
		openErr = ErrNoOpener
	} else if _, err := o.lookPath(o.command[0]); err != nil {
		openErr = fmt.Errorf("opener %q not found: %w", o.command[0], err)
	} else {
		args := append(append([]string{}, o.command[1:]...), target)
		if err := o.start(o.command[0], args...); err != nil {
			openErr = fmt.Errorf("failed to run %q: %w", o.command[0], err)
		} else {
			return Opened, nil
		}
	}

	if !o.copyFallback {
		return Opened, openErr
	}
	if err := o.copy(target); err != nil {
		return Copied, fmt.Errorf("%v; copying to clipboard failed: %w", openErr, err)
	}
	log.Printf("opener: %v, copied %s to clipboard", openErr, target)
	return Copied, nil
}

// Subscribe opens every redirect published on the bus and reports the result
// back as a notification. It returns the unsubscribe function.
func (o *Opener) Subscribe(bus eventbus.EventBus) func() {
	return bus.Subscribe(eventbus.EventRedirect, func(event eventbus.DomainEvent) {
		redirect, ok := event.(eventbus.RedirectEvent)
		if !ok {
			return
		}
		result, err := o.Open(redirect.URL)
		switch {
		case err != nil:
			log.Printf("opener: %v", err)
			bus.Publish(eventbus.NotificationEvent{Message: "Could not open " + redirect.URL, Success: false})
		case result == Copied:
			bus.Publish(eventbus.NotificationEvent{Message: "Copied " + o.Resolve(redirect.URL) + " to clipboard", Success: true})
		default:
			log.Printf("opener: opened %s", redirect.URL)
		}
	})
}

// startDetached runs the opener without waiting for it to exit
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
