package services

import (
	"context"

	"alphaDash/internal/assignments"
	"alphaDash/internal/models"
	"alphaDash/internal/session"
)

type AssignmentPlatform interface {
	Assignments(ctx context.Context, token, status string) ([]models.Assignment, error)
	AcceptAssignment(ctx context.Context, token, id string) error
	CompleteAssignment(ctx context.Context, token, id string) error
}

type AssignmentService struct {
	Platform AssignmentPlatform
	Boards   *assignments.Registry
	Events   Publisher
	Logger   Logger
}

// List fetches assignments and refreshes the session board. A status-narrowed
// list is merged into the board instead of replacing it.
func (s *AssignmentService) List(ctx context.Context, sess *session.Session, status string) ([]assignments.View, error) {
	token, err := accessToken(sess)
	if err != nil {
		return nil, err
	}
	switch status {
	case "", models.AssignmentAssigned, models.AssignmentInProgress, models.AssignmentCompleted:
	default:
		return nil, models.NewValidationError("unknown status %q", status)
	}

	list, err := s.Platform.Assignments(ctx, token, status)
	if err != nil {
		return nil, err
	}
	board := s.Boards.Board(sess.ID())
	if status == "" {
		board.Replace(list)
	} else {
		board.Merge(list)
	}
	return assignments.NewViews(list), nil
}

// Start moves an assignment from assigned to in_progress.
func (s *AssignmentService) Start(ctx context.Context, sess *session.Session, id string) (assignments.View, error) {
	return s.transition(ctx, sess, id, assignments.ActionStart)
}

// Complete moves an assignment from in_progress to completed.
func (s *AssignmentService) Complete(ctx context.Context, sess *session.Session, id string) (assignments.View, error) {
	return s.transition(ctx, sess, id, assignments.ActionComplete)
}

func (s *AssignmentService) transition(ctx context.Context, sess *session.Session, id, action string) (assignments.View, error) {
	token, err := accessToken(sess)
	if err != nil {
		return assignments.View{}, err
	}
	board := s.Boards.Board(sess.ID())
	if _, ok := board.Get(id); !ok {
		// The board is empty until the list was fetched in this session.
		list, err := s.Platform.Assignments(ctx, token, "")
		if err != nil {
			return assignments.View{}, err
		}
		board.Replace(list)
	}

	outcome, err := board.Transition(ctx, id, action, func(ctx context.Context, id string) error {
		if action == assignments.ActionStart {
			return s.Platform.AcceptAssignment(ctx, token, id)
		}
		return s.Platform.CompleteAssignment(ctx, token, id)
	})
	if err != nil {
		loggerOrNop(s.Logger).Errorf("assignment %s %s: %v", id, action, err)
		return assignments.View{}, err
	}

	loggerOrNop(s.Logger).Infof("assignment %s moved %s -> %s", id, outcome.From, outcome.To)
	publish(s.Events, sess.ID(), Event{Type: EventAssignmentStatus, Data: map[string]string{
		"id":     outcome.ID,
		"from":   outcome.From,
		"status": outcome.To,
	}})

	current, _ := board.Get(id)
	return assignments.NewView(current), nil
}
