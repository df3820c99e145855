package api

import "github.com/roloapp/rolo-server/internal/service"

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth      *service.AuthService
	Session   *service.SessionService
	Tag       *service.TagService
	Person    *service.PersonService
	Selection *service.SelectionService
	Generate  *service.GenerateService
	Bulk      *service.BulkService
	Import    *service.ImportService
}
