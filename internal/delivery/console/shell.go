// Package console is the interactive text front end of the event catalog.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"eventcatalog/internal/domain"
)

const menu = `
Menu:
1. Create Event
2. Delete Event
3. Show All Events
4. Sign Up for an event
5. Search
6. Save
7. Update your details
8. Exit
Enter your choice: `

type Shell struct {
	Logger  *slog.Logger
	Service domain.CatalogService
	User    *domain.UserProfile

	in  *bufio.Scanner
	out io.Writer

	// pending is the last suggestion offered; a newer query replaces it.
	pending *domain.PendingSuggestion
}

func NewShell(logger *slog.Logger, svc domain.CatalogService, user *domain.UserProfile, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		Logger:  logger,
		Service: svc,
		User:    user,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run asks for the user's details and then serves the menu until the user
// exits or the input ends. It does not save on exit.
func (s *Shell) Run(ctx context.Context) error {
	err := s.run(ctx)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Shell) run(ctx context.Context) error {
	s.println("Enter your details:")
	if err := s.promptProfile(); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		choice, err := s.prompt(menu)
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			err = s.createEvent()
		case "2":
			err = s.deleteEvent()
		case "3":
			s.printLines(s.Service.ListAll())
		case "4":
			err = s.signUp(ctx)
		case "5":
			err = s.search()
		case "6":
			s.save(ctx)
		case "7":
			err = s.promptProfile()
		case "8":
			s.println("Goodbye!")
			return nil
		default:
			s.println("Invalid option, try again.")
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) promptProfile() error {
	fields := []struct {
		label string
		set   func(string)
	}{
		{"Name: ", s.User.SetName},
		{"Email: ", s.User.SetEmail},
		{"Phone: ", s.User.SetPhone},
		{"Company/School: ", s.User.SetAffiliation},
	}
	for _, f := range fields {
		v, err := s.prompt(f.label)
		if err != nil {
			return err
		}
		f.set(v)
	}
	return nil
}

func (s *Shell) createEvent() error {
	var typ domain.EventType
	for {
		choice, err := s.prompt("Select Event Type:\n1. Webinar\n2. Conference\n3. Workshop\nChoice: ")
		if err != nil {
			return err
		}
		if choice == "1" || choice == "2" || choice == "3" {
			typ = domain.EventType(choice[0] - '1')
			break
		}
		s.println("Invalid choice. Please enter 1, 2, or 3.")
	}

	in := domain.EventInput{Type: typ}
	fields := []struct {
		label string
		dst   *string
	}{
		{"Title: ", &in.Title},
		{"Description: ", &in.Description},
		{"Date and time: ", &in.DateTime},
		{"Platform: ", &in.Platform},
		{"Capacity: ", &in.Capacity},
	}
	for _, f := range fields {
		v, err := s.prompt(f.label)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	ev, err := s.Service.CreateEvent(s.User, in)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Event '%s' created successfully.\n", ev.Title)
	return nil
}

func (s *Shell) deleteEvent() error {
	query, err := s.prompt("Enter the exact title of the event to delete: ")
	if err != nil {
		return err
	}
	out, err := s.Service.Delete(query)
	if err != nil {
		s.report(err)
		return nil
	}
	if !out.NeedsConfirmation() {
		s.println(out.Message)
		return nil
	}
	ok, err := s.offer(out)
	if err != nil || !ok {
		return err
	}
	confirmed, err := s.Service.ConfirmDelete(*s.takePending())
	if err != nil {
		s.report(err)
		return nil
	}
	s.println(confirmed.Message)
	return nil
}

func (s *Shell) signUp(ctx context.Context) error {
	query, err := s.prompt("Enter the exact title of the event to sign up for: ")
	if err != nil {
		return err
	}
	out, err := s.Service.SignUp(ctx, s.User, query)
	if err != nil {
		s.report(err)
		return nil
	}
	if !out.NeedsConfirmation() {
		s.println(out.Message)
		return nil
	}
	ok, err := s.offer(out)
	if err != nil || !ok {
		return err
	}
	confirmed, err := s.Service.ConfirmSignUp(ctx, s.User, *s.takePending())
	if err != nil {
		s.report(err)
		return nil
	}
	s.println(confirmed.Message)
	return nil
}

// offer shows a suggestion, holds it as the pending one and asks whether to
// apply it. A declined suggestion is dropped.
func (s *Shell) offer(out domain.Outcome) (bool, error) {
	s.pending = out.Pending
	s.println(out.Message)
	ok, err := s.confirm(fmt.Sprintf("Apply %s to '%s'? (y/n): ", out.Pending.Action, out.Pending.Title))
	if err != nil || !ok {
		s.pending = nil
	}
	if err == nil && !ok {
		s.println("Cancelled.")
	}
	return ok, err
}

func (s *Shell) takePending() *domain.PendingSuggestion {
	p := s.pending
	s.pending = nil
	return p
}

func (s *Shell) search() error {
	query, err := s.prompt("Enter event title to search (can be partial): ")
	if err != nil {
		return err
	}
	s.printLines(s.Service.Search(query))
	return nil
}

func (s *Shell) save(ctx context.Context) {
	if err := s.Service.Save(ctx); err != nil {
		s.Logger.ErrorContext(ctx, "save failed", "err", err)
		s.report(err)
		return
	}
	s.println("Events saved.")
}

func (s *Shell) report(err error) {
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded):
		s.printf("Sorry! %v\n", err)
	default:
		s.printf("Error: %v\n", err)
	}
}

func (s *Shell) confirm(question string) (bool, error) {
	for {
		answer, err := s.prompt(question)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes", "1":
			return true, nil
		case "n", "no", "0":
			return false, nil
		}
		s.println("Please answer y or n.")
	}
}

// prompt writes label and returns the next input line without surrounding
// spaces. It returns io.EOF once the input is exhausted.
func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) printLines(lines []string) {
	for _, l := range lines {
		s.println(l)
	}
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
