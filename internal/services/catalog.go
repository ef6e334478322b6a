package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"eventcatalog/internal/domain"
	"eventcatalog/internal/textmatch"
)

// A fuzzy title match is offered as a suggestion only when it is closer than
// maxSuggestDistance edits and no further than half the suggested title.
const maxSuggestDistance = 5

const (
	msgNoEvents         = "No events created yet."
	msgNothingToSearch  = "No events available to search."
	msgNoMatchesPattern = "No events found matching '%s'."
)

type catalogService struct {
	repo            domain.EventRepository
	emailService    domain.EmailService
	logger          *slog.Logger
	searchThreshold float64

	events []*domain.Event
	// loadFailed is set while the stored catalog is unreadable; saving then
	// would replace data that was never loaded.
	loadFailed bool
}

// NewCatalogService returns an empty catalog backed by repo; call Load to read
// the stored events. emailService may be nil, in which case no sign-up
// confirmations are sent. A threshold outside (0, 1] falls back to
// textmatch.DefaultThreshold.
func NewCatalogService(
	repo domain.EventRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	searchThreshold float64,
) domain.CatalogService {
	if searchThreshold <= 0 || searchThreshold > 1 {
		searchThreshold = textmatch.DefaultThreshold
	}
	return &catalogService{
		repo:            repo,
		emailService:    emailService,
		logger:          logger,
		searchThreshold: searchThreshold,
	}
}

func (s *catalogService) CreateEvent(user *domain.UserProfile, in domain.EventInput) (*domain.Event, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user details are not available", domain.ErrValidation)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown event type %d", domain.ErrValidation, int(in.Type))
	}
	required := []struct {
		name, value string
	}{
		{"title", in.Title},
		{"description", in.Description},
		{"date/time", in.DateTime},
		{"platform", in.Platform},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, f.name)
		}
	}
	if strings.TrimSpace(user.Name) == "" {
		return nil, fmt.Errorf("%w: host is required, set the user profile name first", domain.ErrValidation)
	}
	capacity, err := parseCapacity(in.Capacity)
	if err != nil {
		return nil, err
	}

	ev := domain.NewEvent(in.Type, in.Title, user.Name, in.Description, in.DateTime, in.Platform, capacity)
	s.events = append(s.events, ev)
	s.logger.Debug("event created", "title", ev.Title, "type", ev.Type.String(), "capacity", capacity)
	return ev, nil
}

func parseCapacity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: capacity is required", domain.ErrValidation)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: capacity %q is out of range", domain.ErrValidation, raw)
		}
		return 0, fmt.Errorf("%w: capacity must be a whole number, got %q", domain.ErrValidation, raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: capacity must be a positive number, got %d", domain.ErrValidation, n)
	}
	return n, nil
}

func (s *catalogService) ListAll() []string {
	if len(s.events) == 0 {
		return []string{msgNoEvents}
	}
	lines := make([]string, 0, len(s.events))
	for _, e := range s.events {
		lines = append(lines, summary(e))
	}
	return lines
}

func summary(e *domain.Event) string {
	host := e.Host
	if host == "" {
		host = "N/A"
	}
	return fmt.Sprintf("%s (Host: %s, Cap: %d/%d) on %s via %s",
		e.Title, host, e.AttendeeCount(), e.Capacity, e.DateTime, e.Platform)
}

func (s *catalogService) Delete(titleQuery string) (domain.Outcome, error) {
	if i := s.indexOf(titleQuery); i >= 0 {
		return s.deleteAt(i), nil
	}
	if match, ok := s.suggest(titleQuery); ok {
		return suggestion(domain.SuggestDelete, titleQuery, match), nil
	}
	return domain.Outcome{}, fmt.Errorf("event '%s': %w", titleQuery, domain.ErrNotFound)
}

func (s *catalogService) ConfirmDelete(p domain.PendingSuggestion) (domain.Outcome, error) {
	if p.Action != domain.SuggestDelete {
		return domain.Outcome{}, fmt.Errorf("%w: suggestion is for %s, not delete", domain.ErrValidation, p.Action)
	}
	i := s.indexOf(p.Title)
	if i < 0 {
		return domain.Outcome{}, fmt.Errorf("event '%s': %w", p.Title, domain.ErrNotFound)
	}
	return s.deleteAt(i), nil
}

func (s *catalogService) deleteAt(i int) domain.Outcome {
	title := s.events[i].Title
	s.events = slices.Delete(s.events, i, i+1)
	s.logger.Debug("event deleted", "title", title)
	return domain.Outcome{
		Title:   title,
		Message: fmt.Sprintf("Deleted event '%s' successfully.", title),
	}
}

func (s *catalogService) SignUp(ctx context.Context, user *domain.UserProfile, titleQuery string) (domain.Outcome, error) {
	if user == nil {
		return domain.Outcome{}, fmt.Errorf("%w: user details are not available for sign up", domain.ErrValidation)
	}
	if i := s.indexOf(titleQuery); i >= 0 {
		return s.signUpAt(ctx, i, user)
	}
	if match, ok := s.suggest(titleQuery); ok {
		return suggestion(domain.SuggestSignUp, titleQuery, match), nil
	}
	return domain.Outcome{}, fmt.Errorf("event '%s': %w", titleQuery, domain.ErrNotFound)
}

func (s *catalogService) ConfirmSignUp(ctx context.Context, user *domain.UserProfile, p domain.PendingSuggestion) (domain.Outcome, error) {
	if user == nil {
		return domain.Outcome{}, fmt.Errorf("%w: user details are not available for sign up", domain.ErrValidation)
	}
	if p.Action != domain.SuggestSignUp {
		return domain.Outcome{}, fmt.Errorf("%w: suggestion is for %s, not sign up", domain.ErrValidation, p.Action)
	}
	i := s.indexOf(p.Title)
	if i < 0 {
		return domain.Outcome{}, fmt.Errorf("event '%s': %w", p.Title, domain.ErrNotFound)
	}
	return s.signUpAt(ctx, i, user)
}

func (s *catalogService) signUpAt(ctx context.Context, i int, user *domain.UserProfile) (domain.Outcome, error) {
	ev := s.events[i]
	msg, err := ev.SignUp(user)
	if err != nil {
		return domain.Outcome{Title: ev.Title}, err
	}
	s.sendConfirmation(ctx, ev, user)
	return domain.Outcome{Title: ev.Title, Message: msg}, nil
}

// sendConfirmation mails the attendee. Failures are logged; the registration stands.
func (s *catalogService) sendConfirmation(ctx context.Context, ev *domain.Event, user *domain.UserProfile) {
	if s.emailService == nil || user.Email == "" {
		return
	}
	err := s.emailService.SendSignUpConfirmation(ctx, &domain.SignUpConfirmationEmailData{
		Email:     user.Email,
		Name:      user.Name,
		EventType: ev.Type.String(),
		Title:     ev.Title,
		Host:      ev.Host,
		DateTime:  ev.DateTime,
		Platform:  ev.Platform,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "sign-up confirmation not sent", "title", ev.Title, "to", user.Email, "err", err)
	}
}

func (s *catalogService) Search(query string) []string {
	return s.SearchWithThreshold(query, s.searchThreshold)
}

func (s *catalogService) SearchWithThreshold(query string, threshold float64) []string {
	if query == "" {
		return s.ListAll()
	}
	if len(s.events) == 0 {
		return []string{msgNothingToSearch}
	}
	hits := textmatch.FilterBySimilarity(query, s.titles(), threshold)
	if len(hits) == 0 {
		return []string{fmt.Sprintf(msgNoMatchesPattern, query)}
	}
	return hits
}

func (s *catalogService) Events() []*domain.Event {
	return slices.Clone(s.events)
}

// Load replaces the catalog with the stored events. On failure the current
// catalog is kept, which at startup means an empty one, and Save is refused
// until a later Load succeeds.
func (s *catalogService) Load(ctx context.Context) error {
	events, skipped, err := s.repo.Load(ctx)
	if err != nil {
		s.loadFailed = true
		return fmt.Errorf("load events: %w: %w", domain.ErrPersistence, err)
	}
	s.loadFailed = false
	for _, sk := range skipped {
		s.logger.WarnContext(ctx, "skipped malformed record", "line", sk.Line, "reason", sk.Reason)
	}
	s.events = events
	s.logger.InfoContext(ctx, "events loaded", "count", len(events), "skipped", len(skipped))
	return nil
}

func (s *catalogService) Save(ctx context.Context) error {
	if s.loadFailed {
		return fmt.Errorf("save events: %w: stored events could not be loaded, not overwriting them", domain.ErrPersistence)
	}
	if err := s.repo.Save(ctx, s.events); err != nil {
		return fmt.Errorf("save events: %w: %w", domain.ErrPersistence, err)
	}
	s.logger.InfoContext(ctx, "events saved", "count", len(s.events))
	return nil
}

// indexOf returns the position of the first event titled exactly title, or -1.
func (s *catalogService) indexOf(title string) int {
	return slices.IndexFunc(s.events, func(e *domain.Event) bool {
		return e.Title == title
	})
}

func (s *catalogService) titles() []string {
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.Title
	}
	return out
}

func (s *catalogService) suggest(query string) (string, bool) {
	match, distance, ok := textmatch.BestMatch(query, s.titles())
	if !ok {
		return "", false
	}
	if distance >= maxSuggestDistance || distance > utf8.RuneCountInString(match)/2 {
		return "", false
	}
	return match, true
}

func suggestion(action domain.SuggestionAction, query, match string) domain.Outcome {
	return domain.Outcome{
		Title:   match,
		Message: fmt.Sprintf("Event '%s' not found. Did you mean '%s'?", query, match),
		Pending: &domain.PendingSuggestion{
			Action: action,
			Query:  query,
			Title:  match,
		},
	}
}
