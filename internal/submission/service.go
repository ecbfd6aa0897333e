// Package submission drives the creation of a new bill: the proof is
// uploaded as soon as it is selected and the bill record is saved on submit.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/gateway"
	"github.com/MrJamesThe3rd/billed/internal/route"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

type State int

const (
	Empty State = iota
	FileUploading
	FileReady
	Submitting
	Done
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case FileUploading:
		return "file uploading"
	case FileReady:
		return "file ready"
	case Submitting:
		return "submitting"
	case Done:
		return "done"
	}

	return "unknown"
}

// Snapshot is the observable state of a submission.
type Snapshot struct {
	State    State
	FileURL  string
	FileName string
	BillID   string
}

// Service holds one in-flight submission. Create a new one per form.
type Service struct {
	gateway  gateway.Gateway
	session  *session.Context
	navigate route.Navigator

	mu       sync.Mutex
	state    State
	fileURL  string
	fileName string
	billID   string
}

func NewService(g gateway.Gateway, sess *session.Context, navigate route.Navigator) *Service {
	if g == nil {
		g = gateway.None{}
	}

	if navigate == nil {
		navigate = route.Discard
	}

	return &Service{gateway: g, session: sess, navigate: navigate}
}

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{State: s.state, FileURL: s.fileURL, FileName: s.fileName, BillID: s.billID}
}

// HandleFileSelection validates f and uploads it. On failure the previous
// state is restored, so an earlier upload stays usable.
func (s *Service) HandleFileSelection(ctx context.Context, f File) error {
	mimeType, err := ValidateFile(f)
	if err != nil {
		return err
	}

	user, err := s.session.User(ctx)
	if err != nil {
		return fmt.Errorf("reading employee: %w", err)
	}

	prev, err := s.enter(FileUploading, func(st State) error {
		switch st {
		case FileUploading, Submitting:
			return ErrBusy
		case Done:
			return ErrAlreadySubmitted
		}

		return nil
	})
	if err != nil {
		return err
	}

	res, err := s.gateway.Create(ctx, gateway.CreatePayload{
		File:  f.upload(mimeType),
		Email: user.Email,
	})
	if err != nil {
		s.setState(prev)

		if errors.Is(err, gateway.ErrNoStore) {
			slog.Warn("proof not uploaded", "file", f.Name, "error", err)
			return err
		}

		slog.Error("failed to upload proof", "file", f.Name, "error", err)

		return fmt.Errorf("uploading proof: %w", err)
	}

	s.mu.Lock()
	s.state = FileReady
	s.fileURL = res.FileURL
	s.fileName = f.Name
	s.billID = res.Key
	s.mu.Unlock()

	return nil
}

// HandleSubmit saves the bill described by form and navigates to the bills
// list. It only proceeds once the proof upload has completed.
func (s *Service) HandleSubmit(ctx context.Context, form Form) error {
	if err := form.Validate(); err != nil {
		return err
	}

	b, err := form.Bill()
	if err != nil {
		return err
	}

	user, err := s.session.User(ctx)
	if err != nil {
		return fmt.Errorf("reading employee: %w", err)
	}

	if _, err := s.enter(Submitting, func(st State) error {
		switch st {
		case Empty:
			return ErrNoFile
		case FileUploading:
			return ErrUploadPending
		case Submitting:
			return ErrBusy
		case Done:
			return ErrAlreadySubmitted
		}

		return nil
	}); err != nil {
		return err
	}

	snap := s.Snapshot()

	b.ID = snap.BillID
	b.Email = user.Email
	b.FileURL = snap.FileURL
	b.FileName = snap.FileName
	b.Status = bill.StatusPending

	if _, err := s.gateway.Update(ctx, gateway.UpdatePayload{Bill: b, Selector: snap.BillID}); err != nil {
		s.setState(FileReady)

		slog.Error("failed to save bill", "id", snap.BillID, "error", err)

		return fmt.Errorf("saving bill: %w", err)
	}

	s.setState(Done)
	s.navigate(route.Bills)

	return nil
}

// enter moves to next unless check rejects the current state. It returns the
// state that was left.
func (s *Service) enter(next State, check func(State) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := check(s.state); err != nil {
		return s.state, err
	}

	prev := s.state
	s.state = next

	return prev, nil
}

func (s *Service) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
