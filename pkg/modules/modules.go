// Package modules installs a set of self-registering application modules.
//
// Each module registers itself from an init function, the way database/sql
// drivers do, and the application installs all of them at startup:
//
//	// modules/i18n/i18n.go
//	func init() {
//	    app.Modules.MustRegister(modules.Func("i18n", func(a *app.App) error {
//	        a.Translator = newTranslator()
//	        return nil
//	    }))
//	}
//
//	// main.go
//	import _ "example.com/app/modules/i18n"
//	...
//	if err := app.Modules.InstallAll(a); err != nil {
//	    log.Fatal(err)
//	}
package modules

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrDuplicateModule is returned when a name is registered twice.
	ErrDuplicateModule = errors.New("modules: duplicate module")

	// ErrInstall wraps the error of the module that failed to install.
	ErrInstall = errors.New("modules: install failed")
)

// Module is an installable unit of application setup.
type Module[H any] interface {
	Name() string
	Install(host H) error
}

type funcModule[H any] struct {
	name    string
	install func(H) error
}

func (m funcModule[H]) Name() string         { return m.name }
func (m funcModule[H]) Install(host H) error { return m.install(host) }

// Func adapts a function to a Module.
func Func[H any](name string, install func(host H) error) Module[H] {
	return funcModule[H]{name: name, install: install}
}

// Registry holds modules in registration order. It is safe for concurrent
// use.
type Registry[H any] struct {
	mu      sync.Mutex
	modules []Module[H]
	logger  *slog.Logger
}

// NewRegistry returns an empty registry that logs through slog.Default().
func NewRegistry[H any]() *Registry[H] {
	return &Registry[H]{}
}

// WithLogger sets the logger used by InstallAll.
func (r *Registry[H]) WithLogger(logger *slog.Logger) *Registry[H] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
	return r
}

// Register adds m. Names must be non-empty and unique.
func (r *Registry[H]) Register(m Module[H]) error {
	if m == nil || m.Name() == "" {
		return fmt.Errorf("modules: module must have a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.modules {
		if existing.Name() == m.Name() {
			return fmt.Errorf("%w: %q", ErrDuplicateModule, m.Name())
		}
	}
	r.modules = append(r.modules, m)
	return nil
}

// MustRegister is like Register but panics on error. It is meant for init
// functions.
func (r *Registry[H]) MustRegister(m Module[H]) {
	if err := r.Register(m); err != nil {
		panic(err)
	}
}

// Names returns the registered module names in registration order.
func (r *Registry[H]) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.modules))
	for i, m := range r.modules {
		names[i] = m.Name()
	}
	return names
}

// InstallAll installs every module in registration order and stops at the
// first failure.
func (r *Registry[H]) InstallAll(host H) error {
	r.mu.Lock()
	modules := make([]Module[H], len(r.modules))
	copy(modules, r.modules)
	logger := r.logger
	r.mu.Unlock()

	if logger == nil {
		logger = slog.Default()
	}

	for _, m := range modules {
		if err := m.Install(host); err != nil {
			logger.Error("module install failed", "module", m.Name(), "error", err)
			return fmt.Errorf("%w: %s: %w", ErrInstall, m.Name(), err)
		}
		logger.Debug("module installed", "module", m.Name())
	}
	return nil
}
