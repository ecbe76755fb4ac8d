package workspace

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/realtime"
	"github.com/sofs91/InspectWise3.0/internal/store"
)

type (
	TemplateStore      = store.Store[domains.Template, domains.TemplateCreate, domains.TemplateUpdate]
	ConfigurationStore = store.Store[domains.Configuration, domains.ConfigurationCreate, domains.ConfigurationUpdate]
)

// Workspace is the set of caches belonging to one organization.
type Workspace struct {
	OrganizationID string
	Templates      *TemplateStore
	Configurations *ConfigurationStore
	Inspections    *store.InspectionStore
}

type entry struct {
	once sync.Once
	ws   *Workspace
	err  error
}

// Registry creates workspaces on first use and keeps them subscribed.
type Registry struct {
	templates      TemplateProvider
	configurations ConfigurationProvider
	feed           realtime.Feed
	opts           []store.Option

	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry(templates TemplateProvider, configurations ConfigurationProvider, feed realtime.Feed, opts ...store.Option) *Registry {
	return &Registry{
		templates:      templates,
		configurations: configurations,
		feed:           feed,
		opts:           opts,
		entries:        make(map[string]*entry),
	}
}

// Get returns the organization's workspace, fetching and subscribing its
// stores the first time. A failed subscription is retried on the next call.
func (r *Registry) Get(ctx context.Context, organizationID string) (*Workspace, error) {
	r.mu.Lock()
	e, ok := r.entries[organizationID]
	if !ok {
		e = &entry{}
		r.entries[organizationID] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		e.ws, e.err = r.open(ctx, organizationID)
	})
	if e.err != nil {
		r.mu.Lock()
		if r.entries[organizationID] == e {
			delete(r.entries, organizationID)
		}
		r.mu.Unlock()
		return nil, e.err
	}
	return e.ws, nil
}

func (r *Registry) open(ctx context.Context, organizationID string) (*Workspace, error) {
	ws := &Workspace{
		OrganizationID: organizationID,
		Templates: store.New[domains.Template, domains.TemplateCreate, domains.TemplateUpdate](
			realtime.TableTemplates,
			store.Names{Singular: "template", Plural: "templates"},
			templateBackend{provider: r.templates, organizationID: organizationID},
			r.feed, r.opts...),
		Configurations: store.New[domains.Configuration, domains.ConfigurationCreate, domains.ConfigurationUpdate](
			realtime.TableConfigurations,
			store.Names{Singular: "configuration", Plural: "configurations"},
			configurationBackend{provider: r.configurations, organizationID: organizationID},
			r.feed, r.opts...),
		Inspections: store.NewInspectionStore(),
	}

	ws.Templates.Fetch(ctx, organizationID)
	ws.Configurations.Fetch(ctx, organizationID)

	if err := ws.Templates.SubscribeToChanges(ctx, organizationID); err != nil {
		return nil, err
	}
	if err := ws.Configurations.SubscribeToChanges(ctx, organizationID); err != nil {
		ws.Templates.UnsubscribeFromChanges()
		return nil, err
	}
	slog.Info("workspace opened", "organization_id", organizationID)
	return ws, nil
}

func (r *Registry) workspaces() []*Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Workspace, 0, len(r.entries))
	for _, e := range r.entries {
		if e.ws != nil {
			out = append(out, e.ws)
		}
	}
	return out
}

// Resync re-fetches every open workspace, prunes echo tags and reopens
// subscriptions that were lost.
func (r *Registry) Resync(ctx context.Context) {
	for _, ws := range r.workspaces() {
		if ctx.Err() != nil {
			return
		}
		ws.Templates.Fetch(ctx, ws.OrganizationID)
		ws.Configurations.Fetch(ctx, ws.OrganizationID)
		ws.Templates.Prune()
		ws.Configurations.Prune()

		if !ws.Templates.Subscribed() {
			if err := ws.Templates.SubscribeToChanges(ctx, ws.OrganizationID); err != nil {
				slog.Error("resubscribe templates failed", "organization_id", ws.OrganizationID, "err", err)
			}
		}
		if !ws.Configurations.Subscribed() {
			if err := ws.Configurations.SubscribeToChanges(ctx, ws.OrganizationID); err != nil {
				slog.Error("resubscribe configurations failed", "organization_id", ws.OrganizationID, "err", err)
			}
		}
	}
}

func (r *Registry) Close() {
	for _, ws := range r.workspaces() {
		ws.Templates.UnsubscribeFromChanges()
		ws.Configurations.UnsubscribeFromChanges()
	}
}
