package domain

import "context"

// EventInput carries the fields gathered by a front end for a new event.
// Capacity is raw text so that non-numeric input can be reported.
type EventInput struct {
	Type        EventType
	Title       string
	Description string
	DateTime    string
	Platform    string
	Capacity    string
}

// SuggestionAction is the operation a PendingSuggestion would apply.
type SuggestionAction int

const (
	SuggestDelete SuggestionAction = iota
	SuggestSignUp
)

func (a SuggestionAction) String() string {
	if a == SuggestSignUp {
		return "sign up"
	}
	return "delete"
}

// PendingSuggestion is a fuzzy title match awaiting a yes/no from the user.
// It is handed back to ConfirmDelete or ConfirmSignUp; declining is simply
// dropping it.
type PendingSuggestion struct {
	Action SuggestionAction
	Query  string
	Title  string
}

// Outcome is the result of a title-addressed operation. When Pending is set
// nothing was applied and the caller must confirm or decline.
type Outcome struct {
	Title   string
	Message string
	Pending *PendingSuggestion
}

// NeedsConfirmation reports whether the outcome is a suggestion.
func (o Outcome) NeedsConfirmation() bool {
	return o.Pending != nil
}

// CatalogService is the event manager: the in-memory catalog plus its
// persistence.
type CatalogService interface {
	CreateEvent(user *UserProfile, in EventInput) (*Event, error)
	ListAll() []string
	Delete(titleQuery string) (Outcome, error)
	ConfirmDelete(p PendingSuggestion) (Outcome, error)
	SignUp(ctx context.Context, user *UserProfile, titleQuery string) (Outcome, error)
	ConfirmSignUp(ctx context.Context, user *UserProfile, p PendingSuggestion) (Outcome, error)
	Search(query string) []string
	SearchWithThreshold(query string, threshold float64) []string
	Events() []*Event
	Load(ctx context.Context) error
	Save(ctx context.Context) error
}
