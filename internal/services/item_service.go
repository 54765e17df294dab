package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/daily-planner-api/internal/constants"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/repository"
)

var (
	ErrTextRequired    = errors.New("text is required")
	ErrTextTooLong     = fmt.Errorf("text must be at most %d characters", constants.MaxTextLength)
	ErrDateRequired    = errors.New("date is required")
	ErrInvalidDate     = errors.New("date must be formatted as YYYY-MM-DD")
	ErrNothingToUpdate = errors.New("no updatable field provided")
	// ErrItemNotFound means the item does not exist or belongs to someone else.
	ErrItemNotFound = errors.New("item not found")
)

// ItemService implements owner-scoped CRUD for one item kind.
type ItemService[T any, PT repository.EntryPointer[T]] struct {
	repo repository.ItemRepository[T]
	kind models.Kind
	now  func() time.Time
}

type (
	TaskService = ItemService[models.Task, *models.Task]
	NoteService = ItemService[models.Note, *models.Note]
)

// NewItemService creates an ItemService on top of repo.
func NewItemService[T any, PT repository.EntryPointer[T]](repo repository.ItemRepository[T]) *ItemService[T, PT] {
	var zero T
	return &ItemService[T, PT]{
		repo: repo,
		kind: PT(&zero).Kind(),
		now:  time.Now,
	}
}

// WithClock replaces the clock used to default the date of new items.
func (s *ItemService[T, PT]) WithClock(now func() time.Time) *ItemService[T, PT] {
	s.now = now
	return s
}

// Kind describes the item kind this service manages.
func (s *ItemService[T, PT]) Kind() models.Kind {
	return s.kind
}

// ItemPatch holds the optional fields of a partial update.
type ItemPatch struct {
	Text *string
	Flag *bool
}

// List returns the user's items for the date, oldest first.
func (s *ItemService[T, PT]) List(ctx context.Context, userID uint64, date string) ([]T, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", s.kind.Name, err)
	}
	return items, nil
}

// Create stores a new item for the user. An empty date means today.
func (s *ItemService[T, PT]) Create(ctx context.Context, userID uint64, text, date string) (*T, error) {
	text, err := cleanText(text)
	if err != nil {
		return nil, err
	}

	if date == "" {
		date = s.now().Format(constants.DateLayout)
	} else if err := validateDate(date); err != nil {
		return nil, err
	}

	var item T
	base := PT(&item).Base()
	base.UserID = userID
	base.Text = text
	base.Date = date

	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.kind.Name, err)
	}
	return &item, nil
}

// Get returns one of the user's items.
func (s *ItemService[T, PT]) Get(ctx context.Context, userID, id uint64) (*T, error) {
	item, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, s.notFound(err)
	}
	return item, nil
}

// UpdateCompletion sets the completion flag of one of the user's items.
func (s *ItemService[T, PT]) UpdateCompletion(ctx context.Context, userID, id uint64, value bool) (*T, error) {
	return s.Update(ctx, userID, id, ItemPatch{Flag: &value})
}

// Update applies a partial update to one of the user's items.
func (s *ItemService[T, PT]) Update(ctx context.Context, userID, id uint64, patch ItemPatch) (*T, error) {
	fields := map[string]any{}
	if patch.Text != nil {
		text, err := cleanText(*patch.Text)
		if err != nil {
			return nil, err
		}
		fields["text"] = text
	}
	if patch.Flag != nil {
		fields[s.kind.Flag] = *patch.Flag
	}
	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}

	item, err := s.repo.Update(ctx, userID, id, fields)
	if err != nil {
		return nil, s.notFound(err)
	}
	return item, nil
}

// Delete permanently removes one of the user's items.
func (s *ItemService[T, PT]) Delete(ctx context.Context, userID, id uint64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return s.notFound(err)
	}
	return nil
}

// Count counts the user's items for the date. A nil flag counts all of them.
func (s *ItemService[T, PT]) Count(ctx context.Context, userID uint64, date string, flag *bool) (int64, error) {
	if err := validateDate(date); err != nil {
		return 0, err
	}

	count, err := s.repo.Count(ctx, userID, date, flag)
	if err != nil {
		return 0, fmt.Errorf("failed to count %ss: %w", s.kind.Name, err)
	}
	return count, nil
}

func (s *ItemService[T, PT]) notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrItemNotFound
	}
	return fmt.Errorf("%s store: %w", s.kind.Name, err)
}

func cleanText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrTextRequired
	}
	if utf8.RuneCountInString(text) > constants.MaxTextLength {
		return "", ErrTextTooLong
	}
	return text, nil
}

// validateDate accepts only canonical YYYY-MM-DD calendar dates.
func validateDate(date string) error {
	if date == "" {
		return ErrDateRequired
	}
	parsed, err := time.Parse(constants.DateLayout, date)
	if err != nil || parsed.Format(constants.DateLayout) != date {
		return ErrInvalidDate
	}
	return nil
}
