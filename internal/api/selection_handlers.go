package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/roloapp/rolo-server/internal/service"
)

func (s *Server) registerSelectionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSelection",
		Method:      http.MethodGet,
		Path:        "/api/v1/selection",
		Summary:     "Get selection",
		Description: "Returns the IDs currently selected for bulk editing",
		Tags:        []string{"Selection"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSelection)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleSelection",
		Method:      http.MethodPost,
		Path:        "/api/v1/selection/toggle",
		Summary:     "Toggle selection",
		Description: "Adds a person to the selection, or removes them if already selected",
		Tags:        []string{"Selection"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleSelection)

	huma.Register(s.api, huma.Operation{
		OperationID: "selectAll",
		Method:      http.MethodPost,
		Path:        "/api/v1/selection/all",
		Summary:     "Select all filtered people",
		Description: "Selects every person matching the current filter",
		Tags:        []string{"Selection"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSelectAll)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearSelection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/selection",
		Summary:     "Clear selection",
		Description: "Deselects everyone",
		Tags:        []string{"Selection"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleClearSelection)

	huma.Register(s.api, huma.Operation{
		OperationID: "bulkEditTags",
		Method:      http.MethodPost,
		Path:        "/api/v1/selection/tags",
		Summary:     "Bulk edit tags",
		Description: "Adds tags to or removes tags from every selected person. The selection is cleared afterwards, even when some people fail.",
		Tags:        []string{"Selection"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleBulkEditTags)
}

// === DTOs ===

// SelectionInput contains parameters for reading or clearing the selection.
type SelectionInput struct {
	Authorization string `header:"Authorization"`
}

// SelectionResponse describes the current selection.
type SelectionResponse struct {
	IDs   []string `json:"ids" doc:"Selected person IDs"`
	Count int      `json:"count" doc:"Number of selected people"`
}

// SelectionOutput wraps the selection response for Huma.
type SelectionOutput struct {
	Body SelectionResponse
}

// ToggleSelectionRequest is the request body for toggling a selection.
type ToggleSelectionRequest struct {
	PersonID string `json:"person_id" validate:"required" doc:"Person to toggle"`
}

// ToggleSelectionInput wraps the toggle selection request for Huma.
type ToggleSelectionInput struct {
	Authorization string `header:"Authorization"`
	Body          ToggleSelectionRequest
}

// ToggleSelectionResponse reports the result of a toggle.
type ToggleSelectionResponse struct {
	Selected bool `json:"selected" doc:"Whether the person is now selected"`
	Count    int  `json:"count" doc:"Number of selected people"`
}

// ToggleSelectionOutput wraps the toggle selection response for Huma.
type ToggleSelectionOutput struct {
	Body ToggleSelectionResponse
}

// BulkEditTagsRequest is the request body for a bulk tag edit.
type BulkEditTagsRequest struct {
	Tags []string `json:"tags" validate:"required,min=1" doc:"Tag names to add or remove"`
	Mode string   `json:"mode" validate:"required,oneof=add remove" doc:"Whether to add or remove the tags"`
}

// BulkEditTagsInput wraps the bulk edit request for Huma.
type BulkEditTagsInput struct {
	Authorization string `header:"Authorization"`
	Body          BulkEditTagsRequest
}

// BulkEditTagsResponse reports the result of a bulk tag edit.
type BulkEditTagsResponse struct {
	Updated int `json:"updated" doc:"Number of people updated"`
}

// BulkEditTagsOutput wraps the bulk edit response for Huma.
type BulkEditTagsOutput struct {
	Body BulkEditTagsResponse
}

// === Handlers ===

func (s *Server) handleGetSelection(ctx context.Context, input *SelectionInput) (*SelectionOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	ids := s.services.Selection.Snapshot(userID)

	return &SelectionOutput{Body: SelectionResponse{IDs: ids, Count: len(ids)}}, nil
}

func (s *Server) handleToggleSelection(ctx context.Context, input *ToggleSelectionInput) (*ToggleSelectionOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	selected, err := s.services.Selection.Toggle(ctx, userID, input.Body.PersonID)
	if err != nil {
		return nil, err
	}

	return &ToggleSelectionOutput{Body: ToggleSelectionResponse{
		Selected: selected,
		Count:    s.services.Selection.Count(userID),
	}}, nil
}

func (s *Server) handleSelectAll(ctx context.Context, input *SelectionInput) (*SelectionOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	count, err := s.services.Selection.SelectAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SelectionOutput{Body: SelectionResponse{
		IDs:   s.services.Selection.Snapshot(userID),
		Count: count,
	}}, nil
}

func (s *Server) handleClearSelection(ctx context.Context, input *SelectionInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	s.services.Selection.Clear(userID)

	return &MessageOutput{Body: MessageResponse{Message: "Selection cleared"}}, nil
}

func (s *Server) handleBulkEditTags(ctx context.Context, input *BulkEditTagsInput) (*BulkEditTagsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Bulk.ApplyToSelection(ctx, userID, input.Body.Tags, service.BulkMode(input.Body.Mode))
	if err != nil {
		return nil, err
	}

	return &BulkEditTagsOutput{Body: BulkEditTagsResponse{Updated: result.Updated}}, nil
}
