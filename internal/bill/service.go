package bill

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=bill
type Repository interface {
	CreateBill(ctx context.Context, b *Bill) error
	GetBill(ctx context.Context, id string) (*Bill, error)
	ListBills(ctx context.Context, filter ListFilter) ([]*Bill, error)
	UpdateBill(ctx context.Context, b *Bill) error
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	Email string
	Admin bool
}

type ListFilter struct {
	Email  *string
	Status *Status
}

type CreateParams struct {
	Email    string
	FileName string
	FileURL  string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a pending draft holding the uploaded proof. The remaining
// fields are filled by a later Update from the same employee.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Bill, error) {
	b := &Bill{
		ID:       uuid.NewString(),
		Email:    params.Email,
		FileName: params.FileName,
		FileURL:  params.FileURL,
		Status:   StatusPending,
	}
	if err := s.repo.CreateBill(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Get(ctx context.Context, actor Actor, id string) (*Bill, error) {
	b, err := s.repo.GetBill(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Admin && b.Email != actor.Email {
		// Other employees' bills are reported as missing.
		return nil, ErrNotFound
	}

	return b, nil
}

func (s *Service) List(ctx context.Context, actor Actor) ([]*Bill, error) {
	filter := ListFilter{}
	if !actor.Admin {
		filter.Email = &actor.Email
	}

	return s.repo.ListBills(ctx, filter)
}

// Update applies patch to the stored bill. id, email and fileUrl never change
// and fileName keeps the name recorded at upload. The status follows
// Status.CanTransitionTo and only admins may leave pending.
func (s *Service) Update(ctx context.Context, actor Actor, id string, patch Bill) (*Bill, error) {
	current, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if patch.ID != "" && patch.ID != current.ID {
		return nil, fmt.Errorf("%w: id", ErrImmutableField)
	}

	if patch.Email != "" && patch.Email != current.Email {
		return nil, fmt.Errorf("%w: email", ErrImmutableField)
	}

	if patch.FileURL != "" && patch.FileURL != current.FileURL {
		return nil, fmt.Errorf("%w: fileUrl", ErrImmutableField)
	}

	next := patch.Status
	if next == "" {
		next = current.Status
	}

	if !current.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
	}

	if next != StatusPending && !actor.Admin {
		return nil, fmt.Errorf("%w: only administrators can review bills", ErrForbidden)
	}

	if actor.Admin && current.Email != actor.Email {
		// Reviewing someone else's bill only touches the review fields.
		current.Status = next
		current.CommentAdmin = patch.CommentAdmin
	} else {
		if patch.Date != "" {
			if _, err := time.Parse(time.DateOnly, patch.Date); err != nil {
				return nil, fmt.Errorf("%w: date %q: %w", ErrInvalidField, patch.Date, err)
			}
		}

		if _, err := patch.VAT.Decimal(); err != nil {
			return nil, fmt.Errorf("%w: vat %q: %w", ErrInvalidField, patch.VAT, err)
		}

		current.Type = patch.Type
		current.Name = patch.Name
		current.Date = patch.Date
		current.Amount = patch.Amount
		current.VAT = patch.VAT
		current.Pct = patch.Pct
		current.Commentary = patch.Commentary
		current.Status = next

		if actor.Admin {
			current.CommentAdmin = patch.CommentAdmin
		}
	}

	if err := s.repo.UpdateBill(ctx, current); err != nil {
		return nil, err
	}

	return current, nil
}
