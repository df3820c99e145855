package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/roloapp/rolo-server/internal/color"
	"github.com/roloapp/rolo-server/internal/domain"
	"github.com/roloapp/rolo-server/internal/service"
)

func (s *Server) registerPersonRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPeople",
		Method:      http.MethodGet,
		Path:        "/api/v1/people",
		Summary:     "List people",
		Description: "Returns all people, newest first",
		Tags:        []string{"People"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPeople)

	huma.Register(s.api, huma.Operation{
		OperationID: "createPerson",
		Method:      http.MethodPost,
		Path:        "/api/v1/people",
		Summary:     "Create person",
		Description: "Creates a new person. Unknown tags are created on the fly.",
		Tags:        []string{"People"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePerson)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPerson",
		Method:      http.MethodGet,
		Path:        "/api/v1/people/{id}",
		Summary:     "Get person",
		Description: "Returns a person by ID",
		Tags:        []string{"People"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPerson)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePerson",
		Method:      http.MethodPut,
		Path:        "/api/v1/people/{id}",
		Summary:     "Update person",
		Description: "Replaces a person's name and tag set",
		Tags:        []string{"People"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePerson)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePerson",
		Method:      http.MethodDelete,
		Path:        "/api/v1/people/{id}",
		Summary:     "Delete person",
		Description: "Deletes a person. Deleting an absent person succeeds silently.",
		Tags:        []string{"People"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePerson)

	huma.Register(s.api, huma.Operation{
		OperationID: "bulkDeletePeople",
		Method:      http.MethodPost,
		Path:        "/api/v1/people/bulk-delete",
		Summary:     "Delete multiple people",
		Description: "Deletes the given people. Absent IDs are ignored.",
		Tags:        []string{"People"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleBulkDeletePeople)

	huma.Register(s.api, huma.Operation{
		OperationID: "importPeople",
		Method:      http.MethodPost,
		Path:        "/api/v1/people/import",
		Summary:     "Import people",
		Description: "Merges a batch of names into the contact list. Names already present (case-insensitive) are reported as duplicates, blank rows are skipped.",
		Tags:        []string{"People"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleImportPeople)
}

// === DTOs ===

// PersonResponse contains person data in API responses.
type PersonResponse struct {
	ID                string     `json:"id" doc:"Person ID"`
	FirstName         string     `json:"firstname" doc:"First name"`
	LastName          string     `json:"lastname" doc:"Last name"`
	Handle            string     `json:"handle" doc:"Solicitation handle"`
	AvatarColor       string     `json:"avatar_color" doc:"Deterministic hex color for the avatar"`
	Tags              []string   `json:"tags" doc:"Tag names on this person"`
	SolicitationCount int        `json:"solicitation_count" doc:"How many times this person was solicited"`
	LastSolicitedAt   *time.Time `json:"last_solicitation_date,omitempty" doc:"When this person was last solicited"`
	CreatedAt         time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt         time.Time  `json:"updated_at" doc:"Last update time"`
}

// ListPeopleInput contains parameters for listing people.
type ListPeopleInput struct {
	Authorization string `header:"Authorization"`
}

// ListPeopleResponse contains a list of people.
type ListPeopleResponse struct {
	People []PersonResponse `json:"people" doc:"List of people"`
	Total  int              `json:"total" doc:"Total number of people"`
}

// ListPeopleOutput wraps the list people response for Huma.
type ListPeopleOutput struct {
	Body ListPeopleResponse
}

// CreatePersonRequest is the request body for creating a person.
type CreatePersonRequest struct {
	FirstName string   `json:"firstname" validate:"required,min=1,max=100" doc:"First name"`
	LastName  string   `json:"lastname" validate:"required,min=1,max=100" doc:"Last name"`
	Tags      []string `json:"tags,omitempty" doc:"Tag names to attach"`
}

// CreatePersonInput wraps the create person request for Huma.
type CreatePersonInput struct {
	Authorization string `header:"Authorization"`
	Body          CreatePersonRequest
}

// PersonOutput wraps the person response for Huma.
type PersonOutput struct {
	Body PersonResponse
}

// GetPersonInput contains parameters for getting a person.
type GetPersonInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Person ID"`
}

// UpdatePersonRequest is the request body for updating a person.
type UpdatePersonRequest struct {
	FirstName string   `json:"firstname" validate:"required,min=1,max=100" doc:"First name"`
	LastName  string   `json:"lastname" validate:"required,min=1,max=100" doc:"Last name"`
	Tags      []string `json:"tags" doc:"Full replacement tag set"`
}

// UpdatePersonInput wraps the update person request for Huma.
type UpdatePersonInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Person ID"`
	Body          UpdatePersonRequest
}

// DeletePersonInput contains parameters for deleting a person.
type DeletePersonInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Person ID"`
}

// BulkDeleteRequest is the request body for bulk deletion.
type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1" doc:"Person IDs to delete"`
}

// BulkDeleteInput wraps the bulk delete request for Huma.
type BulkDeleteInput struct {
	Authorization string `header:"Authorization"`
	Body          BulkDeleteRequest
}

// ImportRow is a single name in an import batch.
type ImportRow struct {
	FirstName string `json:"firstname" doc:"First name"`
	LastName  string `json:"lastname" doc:"Last name"`
}

// ImportRequest is the request body for importing people.
type ImportRequest struct {
	People []ImportRow `json:"people" validate:"required,min=1" doc:"Names to import"`
}

// ImportInput wraps the import request for Huma.
type ImportInput struct {
	Authorization string `header:"Authorization"`
	Body          ImportRequest
}

// ImportResponse contains the result of an import.
type ImportResponse struct {
	Added      []PersonResponse `json:"added" doc:"People created by this import"`
	Duplicates int              `json:"duplicates" doc:"Rows skipped as already present"`
	Skipped    int              `json:"skipped" doc:"Blank rows skipped"`
}

// ImportOutput wraps the import response for Huma.
type ImportOutput struct {
	Body ImportResponse
}

// === Handlers ===

func (s *Server) handleListPeople(ctx context.Context, input *ListPeopleInput) (*ListPeopleOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	people, err := s.services.Person.ListPeople(ctx)
	if err != nil {
		return nil, err
	}

	return &ListPeopleOutput{Body: ListPeopleResponse{
		People: mapPeople(people),
		Total:  len(people),
	}}, nil
}

func (s *Server) handleCreatePerson(ctx context.Context, input *CreatePersonInput) (*PersonOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	p, err := s.services.Person.AddPerson(ctx, input.Body.FirstName, input.Body.LastName, input.Body.Tags)
	if err != nil {
		return nil, err
	}

	return &PersonOutput{Body: mapPerson(p)}, nil
}

func (s *Server) handleGetPerson(ctx context.Context, input *GetPersonInput) (*PersonOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	p, err := s.services.Person.GetPerson(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &PersonOutput{Body: mapPerson(p)}, nil
}

func (s *Server) handleUpdatePerson(ctx context.Context, input *UpdatePersonInput) (*PersonOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	p, err := s.services.Person.UpdatePerson(ctx, input.ID, input.Body.FirstName, input.Body.LastName, input.Body.Tags)
	if err != nil {
		return nil, err
	}

	return &PersonOutput{Body: mapPerson(p)}, nil
}

func (s *Server) handleDeletePerson(ctx context.Context, input *DeletePersonInput) (*MessageOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Person.DeletePerson(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Person deleted"}}, nil
}

func (s *Server) handleBulkDeletePeople(ctx context.Context, input *BulkDeleteInput) (*MessageOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Person.DeletePeople(ctx, input.Body.IDs); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "People deleted"}}, nil
}

func (s *Server) handleImportPeople(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	pairs := make([]service.NamePair, len(input.Body.People))
	for i, row := range input.Body.People {
		pairs[i] = service.NamePair{FirstName: row.FirstName, LastName: row.LastName}
	}

	result, err := s.services.Import.Import(ctx, pairs)
	if err != nil {
		return nil, err
	}

	return &ImportOutput{Body: ImportResponse{
		Added:      mapPeople(result.Added),
		Duplicates: result.Duplicates,
		Skipped:    result.Skipped,
	}}, nil
}

// === Helpers ===

func mapPerson(p *domain.Person) PersonResponse {
	return PersonResponse{
		ID:                p.ID,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		Handle:            p.Handle(),
		AvatarColor:       color.ForPerson(p.ID),
		Tags:              p.Tags,
		SolicitationCount: p.SolicitationCount,
		LastSolicitedAt:   p.LastSolicitedAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func mapPeople(people []*domain.Person) []PersonResponse {
	resp := make([]PersonResponse, len(people))
	for i, p := range people {
		resp[i] = mapPerson(p)
	}
	return resp
}
