package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/roloapp/rolo-server/internal/service"
)

func (s *Server) registerGenerateRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getFilterState",
		Method:      http.MethodGet,
		Path:        "/api/v1/generate",
		Summary:     "Get filter state",
		Description: "Returns the caller's current tag filter and thresholds",
		Tags:        []string{"Generation"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetFilterState)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFilterTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/generate/tags/toggle",
		Summary:     "Toggle filter tag",
		Description: "Cycles a tag through neutral, included, and excluded. Any filter change clears the selection.",
		Tags:        []string{"Generation"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleFilterTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "setFilterThresholds",
		Method:      http.MethodPut,
		Path:        "/api/v1/generate/thresholds",
		Summary:     "Set filter thresholds",
		Description: "Sets or clears the solicitation count and date thresholds",
		Tags:        []string{"Generation"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetFilterThresholds)

	huma.Register(s.api, huma.Operation{
		OperationID: "resetFilter",
		Method:      http.MethodPost,
		Path:        "/api/v1/generate/reset",
		Summary:     "Reset filter",
		Description: "Clears every tag state and threshold, and the selection",
		Tags:        []string{"Generation"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleResetFilter)

	huma.Register(s.api, huma.Operation{
		OperationID: "previewHandles",
		Method:      http.MethodGet,
		Path:        "/api/v1/generate/preview",
		Summary:     "Preview handle list",
		Description: "Returns the filtered people and their handle string without recording a solicitation",
		Tags:        []string{"Generation"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePreviewHandles)

	huma.Register(s.api, huma.Operation{
		OperationID: "copyHandles",
		Method:      http.MethodPost,
		Path:        "/api/v1/generate/copy",
		Summary:     "Copy handle list",
		Description: "Returns the handle string and records a solicitation against every person in the result",
		Tags:        []string{"Generation"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCopyHandles)
}

// === DTOs ===

// FilterStateInput contains parameters for filter state operations.
type FilterStateInput struct {
	Authorization string `header:"Authorization"`
}

// FilterStateResponse describes the caller's current filter.
type FilterStateResponse struct {
	TagStates         map[string]string `json:"tag_states" doc:"Tag name to include/exclude state; neutral tags are absent"`
	MaxSolicitations  *int              `json:"max_solicitations,omitempty" doc:"Maximum solicitation count threshold"`
	SolicitedBefore   *time.Time        `json:"solicited_before,omitempty" doc:"Last solicitation date cutoff"`
	HasIncludedFilter bool              `json:"has_included_filter" doc:"Whether at least one tag is included"`
}

// FilterStateOutput wraps the filter state response for Huma.
type FilterStateOutput struct {
	Body FilterStateResponse
}

// ToggleFilterTagRequest is the request body for toggling a filter tag.
type ToggleFilterTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100" doc:"Tag name to toggle"`
}

// ToggleFilterTagInput wraps the toggle filter tag request for Huma.
type ToggleFilterTagInput struct {
	Authorization string `header:"Authorization"`
	Body          ToggleFilterTagRequest
}

// ToggleFilterTagResponse reports a tag's state after toggling.
type ToggleFilterTagResponse struct {
	Name  string `json:"name" doc:"Tag name"`
	State string `json:"state" doc:"New state: empty (neutral), include, or exclude"`
}

// ToggleFilterTagOutput wraps the toggle filter tag response for Huma.
type ToggleFilterTagOutput struct {
	Body ToggleFilterTagResponse
}

// ThresholdsRequest is the request body for setting filter thresholds.
// A nil field clears that threshold.
type ThresholdsRequest struct {
	MaxSolicitations *int       `json:"max_solicitations,omitempty" validate:"omitempty,gte=0" doc:"Maximum solicitation count, null to clear"`
	SolicitedBefore  *time.Time `json:"solicited_before,omitempty" doc:"Last solicitation cutoff, null to clear"`
}

// ThresholdsInput wraps the thresholds request for Huma.
type ThresholdsInput struct {
	Authorization string `header:"Authorization"`
	Body          ThresholdsRequest
}

// GenerateResponse contains the filtered people and their handle string.
type GenerateResponse struct {
	Handles string           `json:"handles" doc:"Space-joined @Firstname Lastname handles"`
	People  []PersonResponse `json:"people" doc:"People in the result"`
	Count   int              `json:"count" doc:"Number of people in the result"`
}

// GenerateOutput wraps the generate response for Huma.
type GenerateOutput struct {
	Body GenerateResponse
}

// === Handlers ===

func (s *Server) handleGetFilterState(ctx context.Context, input *FilterStateInput) (*FilterStateOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	return &FilterStateOutput{Body: s.mapFilterState(userID)}, nil
}

func (s *Server) handleToggleFilterTag(ctx context.Context, input *ToggleFilterTagInput) (*ToggleFilterTagOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	state := s.services.Generate.ToggleTag(userID, input.Body.Name)

	return &ToggleFilterTagOutput{Body: ToggleFilterTagResponse{
		Name:  input.Body.Name,
		State: string(state),
	}}, nil
}

func (s *Server) handleSetFilterThresholds(ctx context.Context, input *ThresholdsInput) (*FilterStateOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	s.services.Generate.SetMaxSolicitations(userID, input.Body.MaxSolicitations)
	s.services.Generate.SetSolicitedBefore(userID, input.Body.SolicitedBefore)

	return &FilterStateOutput{Body: s.mapFilterState(userID)}, nil
}

func (s *Server) handleResetFilter(ctx context.Context, input *FilterStateInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	s.services.Generate.Reset(userID)

	return &MessageOutput{Body: MessageResponse{Message: "Filter reset"}}, nil
}

func (s *Server) handlePreviewHandles(ctx context.Context, input *FilterStateInput) (*GenerateOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Generate.Preview(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &GenerateOutput{Body: mapGenerateResult(result)}, nil
}

func (s *Server) handleCopyHandles(ctx context.Context, input *FilterStateInput) (*GenerateOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Generate.Copy(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &GenerateOutput{Body: mapGenerateResult(result)}, nil
}

// === Helpers ===

func (s *Server) mapFilterState(userID string) FilterStateResponse {
	state := s.services.Generate.StateFor(userID)

	tagStates := make(map[string]string)
	for name, ts := range state.TagStates() {
		tagStates[name] = string(ts)
	}

	return FilterStateResponse{
		TagStates:         tagStates,
		MaxSolicitations:  state.MaxSolicitations(),
		SolicitedBefore:   state.SolicitedBefore(),
		HasIncludedFilter: state.HasIncluded(),
	}
}

func mapGenerateResult(result *service.PreviewResult) GenerateResponse {
	return GenerateResponse{
		Handles: result.Handles,
		People:  mapPeople(result.People),
		Count:   len(result.People),
	}
}
