// Package visma exposes a vendor record-oriented accounting engine through
// named fields and get/filter/save/delete operations, keeping the vendor's
// one-open-company-per-process discipline behind a session guard.
//
// Example:
//
//	registry := visma.NewRegistry(driver, nil)
//	registry.AddCompany(&visma.Config{
//		Name:        "Business Inc",
//		CommonPath:  `Y:\Gemensamma filer`,
//		CompanyPath: `Y:\Företag\FTG10`,
//	})
//
//	session, err := registry.Open(ctx, "Business Inc")
//	defer session.Close()
//
//	suppliers, err := session.Table("supplier")
//	supplier, err := suppliers.Get(visma.Filter{"name": "Acme*"})
package visma

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fulldump/vismadk/adk"
	"github.com/fulldump/vismadk/schema"

	"github.com/fulldump/vismadk/utils"
)

// Config is one registered company: a display name plus the vendor's common
// and company data directories. Immutable after AddCompany.
type Config struct {
	Name        string `json:"name"`
	CommonPath  string `json:"common_path"`
	CompanyPath string `json:"company_path"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

// Registry holds the configured companies and guards the single native
// connection: at most one company is open at any instant, same-company
// sessions share it, a switch waits until the previous company's sessions
// drain to zero.
type Registry struct {
	driver adk.Driver
	schema *schema.Registry

	mu        sync.Mutex
	changed   chan struct{}
	companies map[string]*Config
	active    string // company path of the lazily kept open connection
	opened    bool
	sessions  int

	// callMu serializes every native call, the vendor layer is not safe for
	// simultaneous calls even within one company.
	callMu sync.Mutex
}

func NewRegistry(driver adk.Driver, registry *schema.Registry) *Registry {
	if registry == nil {
		registry = schema.Default()
	}
	return &Registry{
		driver:    driver,
		schema:    registry,
		changed:   make(chan struct{}),
		companies: map[string]*Config{},
	}
}

func (r *Registry) Schema() *schema.Registry {
	return r.schema
}

// AddCompany registers a company under config.Name. Credentials left empty
// fall back to the visma_username/visma_password environment variables.
func (r *Registry) AddCompany(config *Config) error {

	if config.Name == "" {
		return fmt.Errorf("company name is mandatory")
	}

	c := *config
	if c.Username == "" {
		c.Username = os.Getenv("visma_username")
	}
	if c.Password == "" {
		c.Password = os.Getenv("visma_password")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.companies[c.Name]
	if exists {
		return fmt.Errorf("%w: '%s'", ErrorCompanyAlreadyExists, c.Name)
	}
	r.companies[c.Name] = &c

	return nil
}

// Companies returns the registered company names, sorted.
func (r *Registry) Companies() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return utils.GetKeys(r.companies)
}

// Open returns a session for the named company.
//
// If the company is already the active one, the session shares the open
// connection and returns immediately. Otherwise Open blocks until every
// session of the previous company is closed, then closes the old native
// connection and opens the new one. ctx aborts the wait.
func (r *Registry) Open(ctx context.Context, name string) (*Session, error) {

	r.mu.Lock()

	config, exists := r.companies[name]
	if !exists {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: '%s'", ErrorCompanyNotFound, name)
	}

	for r.opened && r.active != config.CompanyPath && r.sessions > 0 {
		wait := r.changed
		r.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-wait:
		}
		r.mu.Lock()
	}

	if !r.opened || r.active != config.CompanyPath {
		err := r.switchCompany(config)
		if err != nil {
			r.mu.Unlock()
			return nil, err
		}
	}

	r.sessions++
	session := &Session{registry: r, company: config}
	r.mu.Unlock()

	return session, nil
}

// switchCompany closes the previous connection (kept open lazily to avoid
// reopen cost for repeated same-company use) and opens the requested one.
// Called with mu held and sessions == 0.
func (r *Registry) switchCompany(config *Config) error {

	r.callMu.Lock()
	defer r.callMu.Unlock()

	if r.opened {
		err := r.driver.Close()
		if err != nil {
			return fmt.Errorf("close company: %w", err)
		}
		r.opened = false
		r.active = ""
	}

	err := r.driver.Open(config.CommonPath, config.CompanyPath, config.Username, config.Password)
	if err != nil {
		return fmt.Errorf("open company '%s': %w", config.Name, err)
	}
	r.opened = true
	r.active = config.CompanyPath

	return nil
}

func (r *Registry) notify() {
	close(r.changed)
	r.changed = make(chan struct{})
}

// Session is one scope of access to a company. Any number of sessions of
// the same company can be alive at once; closing the last one lets a
// pending switch to another company proceed.
type Session struct {
	registry *Registry
	company  *Config
	closed   bool
}

func (s *Session) Company() string {
	return s.company.Name
}

// Table returns the entity handle for a table name, for example "supplier".
func (s *Session) Table(name string) (*Entity, error) {
	t, exists := s.registry.schema.Table(name)
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrorTableNotFound, name)
	}
	if t.IsRow() {
		return nil, fmt.Errorf("%w: '%s' holds row records, use Rows() on a header record", ErrorTableNotFound, name)
	}
	return &Entity{session: s, table: t}, nil
}

// Close releases the session. The native connection is NOT closed when the
// session count drains to zero; it is closed lazily on the next switch.
func (s *Session) Close() {
	r := s.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	r.sessions--
	if r.sessions == 0 {
		r.notify()
	}
}

// do runs one or more native calls under the guard.
func (s *Session) do(f func(driver adk.Driver) error) error {
	r := s.registry

	r.mu.Lock()
	if s.closed {
		r.mu.Unlock()
		return ErrorSessionClosed
	}
	r.mu.Unlock()

	r.callMu.Lock()
	defer r.callMu.Unlock()
	return f(r.driver)
}
