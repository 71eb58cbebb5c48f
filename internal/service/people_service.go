package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// PeopleService manages the participants of the event.
type PeopleService struct {
	store storage.Store
}

// NewPeopleService creates a new PeopleService with the given storage backend.
func NewPeopleService(store storage.Store) *PeopleService {
	return &PeopleService{store: store}
}

// CreatePerson adds a participant.
func (s *PeopleService) CreatePerson(ctx context.Context, req *connect.Request[CreatePersonRequest]) (*connect.Response[CreatePersonResponse], error) {
	req.Msg.Name = strings.TrimSpace(req.Msg.Name)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	person := &models.Person{Name: req.Msg.Name}
	if err := s.store.CreatePerson(ctx, person); err != nil {
		slog.Error("CreatePerson failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Person created", "person_id", person.ID, "name", person.Name)

	return connect.NewResponse(&CreatePersonResponse{Person: personToMsg(*person)}), nil
}

// ListPeople returns every participant in creation order.
func (s *PeopleService) ListPeople(ctx context.Context, _ *connect.Request[ListPeopleRequest]) (*connect.Response[ListPeopleResponse], error) {
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		slog.Error("ListPeople failed", "error", err)
		return nil, storeError(err)
	}

	out := make([]Person, len(people))
	for i, p := range people {
		out[i] = personToMsg(p)
	}
	return connect.NewResponse(&ListPeopleResponse{People: out}), nil
}

// DeletePerson removes a participant. Bills they paid or hold shares in
// are kept and surface as diagnostics in the next settlement.
func (s *PeopleService) DeletePerson(ctx context.Context, req *connect.Request[DeletePersonRequest]) (*connect.Response[DeletePersonResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if err := s.store.DeletePerson(ctx, req.Msg.PersonID); err != nil {
		slog.Error("DeletePerson failed", "person_id", req.Msg.PersonID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Person deleted", "person_id", req.Msg.PersonID)

	return connect.NewResponse(&DeletePersonResponse{}), nil
}
