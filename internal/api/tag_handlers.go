package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/roloapp/rolo-server/internal/domain"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns all tags ordered by category, priority, and name",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTagsByCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/by-category",
		Summary:     "List tags grouped by category",
		Description: "Returns all tags grouped into their categories",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTagsByCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags",
		Summary:     "Create tag",
		Description: "Creates a new tag",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Get tag",
		Description: "Returns a tag by ID",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Update tag",
		Description: "Renames a tag or changes its priority flag or category. Renames cascade to every person carrying the tag.",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes a tag and removes it from every person. Deleting an absent tag succeeds silently.",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTag)
}

// === DTOs ===

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID         string    `json:"id" doc:"Tag ID"`
	Name       string    `json:"name" doc:"Tag display name"`
	IsPriority bool      `json:"is_priority" doc:"Priority flag"`
	Category   string    `json:"category" doc:"Tag category"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time `json:"updated_at" doc:"Last update time"`
}

// ListTagsInput contains parameters for listing tags.
type ListTagsInput struct {
	Authorization string `header:"Authorization"`
}

// ListTagsResponse contains a list of tags.
type ListTagsResponse struct {
	Tags []TagResponse `json:"tags" doc:"List of tags"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// TagGroupsResponse contains tags grouped by category.
type TagGroupsResponse struct {
	Groups map[string][]TagResponse `json:"groups" doc:"Tags keyed by category"`
}

// TagGroupsOutput wraps the grouped tags response for Huma.
type TagGroupsOutput struct {
	Body TagGroupsResponse
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100" doc:"Tag name"`
	Category   string `json:"category,omitempty" validate:"omitempty,max=50" doc:"Tag category (defaults to uncategorized)"`
	IsPriority bool   `json:"is_priority,omitempty" doc:"Priority flag"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateTagRequest
}

// TagOutput wraps the tag response for Huma.
type TagOutput struct {
	Body TagResponse
}

// GetTagInput contains parameters for getting a tag.
type GetTagInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Tag ID"`
}

// UpdateTagRequest is the request body for updating a tag.
// Only the fields present are changed.
type UpdateTagRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=100" doc:"New tag name"`
	Category   *string `json:"category,omitempty" validate:"omitempty,max=50" doc:"New category"`
	IsPriority *bool   `json:"is_priority,omitempty" doc:"New priority flag"`
}

// UpdateTagInput wraps the update tag request for Huma.
type UpdateTagInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Tag ID"`
	Body          UpdateTagRequest
}

// DeleteTagInput contains parameters for deleting a tag.
type DeleteTagInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Tag ID"`
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, input *ListTagsInput) (*ListTagsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	return &ListTagsOutput{Body: ListTagsResponse{Tags: mapTags(tags)}}, nil
}

func (s *Server) handleListTagsByCategory(ctx context.Context, input *ListTagsInput) (*TagGroupsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	grouped, err := s.services.Tag.ListTagsByCategory(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]TagResponse, len(grouped))
	for category, tags := range grouped {
		groups[string(category)] = mapTags(tags)
	}

	return &TagGroupsOutput{Body: TagGroupsResponse{Groups: groups}}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	category := domain.Category(input.Body.Category)
	if input.Body.Category == "" {
		category = domain.CategoryUncategorized
	}

	t, err := s.services.Tag.CreateTag(ctx, input.Body.Name, category, input.Body.IsPriority)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: mapTag(t)}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *GetTagInput) (*TagOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	t, err := s.services.Tag.GetTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: mapTag(t)}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	t, err := s.services.Tag.GetTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Body.Name != nil {
		if t, err = s.services.Tag.RenameTag(ctx, input.ID, *input.Body.Name); err != nil {
			return nil, err
		}
	}

	if input.Body.Category != nil {
		if t, err = s.services.Tag.SetCategory(ctx, input.ID, domain.Category(*input.Body.Category)); err != nil {
			return nil, err
		}
	}

	if input.Body.IsPriority != nil {
		if t, err = s.services.Tag.SetPriority(ctx, input.ID, *input.Body.IsPriority); err != nil {
			return nil, err
		}
	}

	return &TagOutput{Body: mapTag(t)}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*MessageOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Tag.DeleteTag(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Tag deleted"}}, nil
}

// === Helpers ===

func mapTag(t *domain.Tag) TagResponse {
	return TagResponse{
		ID:         t.ID,
		Name:       t.Name,
		IsPriority: t.IsPriority,
		Category:   string(t.Category),
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func mapTags(tags []*domain.Tag) []TagResponse {
	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = mapTag(t)
	}
	return resp
}
