package providers

import (
	"github.com/samber/do/v2"

	"github.com/roloapp/rolo-server/internal/auth"
	"github.com/roloapp/rolo-server/internal/config"
	"github.com/roloapp/rolo-server/internal/logger"
	"github.com/roloapp/rolo-server/internal/ratelimit"
	"github.com/roloapp/rolo-server/internal/selection"
	"github.com/roloapp/rolo-server/internal/service"
)

// ProvideSelectionManager provides the shared in-memory selection manager.
// Generate, selection, and bulk services all operate on the same instance.
func ProvideSelectionManager(i do.Injector) (*selection.Manager, error) {
	return selection.NewManager(), nil
}

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	loginLimiter := ratelimit.New(cfg.Auth.LoginRatePerSecond, cfg.Auth.LoginBurst)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, loginLimiter, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvidePersonService provides the person service.
func ProvidePersonService(i do.Injector) (*service.PersonService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tagService := do.MustInvoke[*service.TagService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPersonService(storeHandle.Store, tagService, log.Logger), nil
}

// ProvideGenerateService provides the handle generation service.
func ProvideGenerateService(i do.Injector) (*service.GenerateService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sel := do.MustInvoke[*selection.Manager](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGenerateService(storeHandle.Store, sel, log.Logger), nil
}

// ProvideSelectionService provides the selection service.
func ProvideSelectionService(i do.Injector) (*service.SelectionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sel := do.MustInvoke[*selection.Manager](i)
	generateService := do.MustInvoke[*service.GenerateService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSelectionService(storeHandle.Store, sel, generateService, log.Logger), nil
}

// ProvideBulkService provides the bulk tag editing service.
func ProvideBulkService(i do.Injector) (*service.BulkService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tagService := do.MustInvoke[*service.TagService](i)
	sel := do.MustInvoke[*selection.Manager](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBulkService(storeHandle.Store, tagService, sel, log.Logger), nil
}

// ProvideImportService provides the import reconciliation service.
func ProvideImportService(i do.Injector) (*service.ImportService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewImportService(storeHandle.Store, log.Logger), nil
}
