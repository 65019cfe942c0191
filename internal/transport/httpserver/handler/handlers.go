package handler

import (
	"net/http"

	boxingdomain "highspirit-app-go/internal/domain/boxing"
	dashboarddomain "highspirit-app-go/internal/domain/dashboard"
	importerdomain "highspirit-app-go/internal/domain/importer"
	membershipdomain "highspirit-app-go/internal/domain/membership"
	userdomain "highspirit-app-go/internal/domain/user"
	"highspirit-app-go/pkg/logger"
)

type Services struct {
	Customers *membershipdomain.Service
	Boxing    *boxingdomain.Service
	Imports   *importerdomain.Service
	Dashboard *dashboarddomain.Service
	Users     *userdomain.Service
}

type Options struct {
	CookieName     string
	CookieSecure   bool
	PageSize       int
	MaxUploadBytes int64
}

type Handlers struct {
	Customers *membershipdomain.Service
	Boxing    *boxingdomain.Service
	Imports   *importerdomain.Service
	Dashboard *dashboarddomain.Service
	Users     *userdomain.Service
	opts      Options
	log       logger.Logger
}

func New(services Services, opts Options, log logger.Logger) *Handlers {
	if opts.PageSize <= 0 {
		opts.PageSize = membershipdomain.DefaultPageSize
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Handlers{
		Customers: services.Customers,
		Boxing:    services.Boxing,
		Imports:   services.Imports,
		Dashboard: services.Dashboard,
		Users:     services.Users,
		opts:      opts,
		log:       log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
