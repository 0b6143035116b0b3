package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

type CommandResolver interface {
	Resolve(id domain.CommandID) (domain.CommandDescriptor, bool)
}

var _ CommandResolver = (*CommandCatalog)(nil)

// CommandCatalog holds the commands available for the session. It is loaded
// once and never refreshed; until Load succeeds it resolves nothing.
type CommandCatalog struct {
	source   CatalogSource
	fallback CatalogSource

	loadMu sync.Mutex
	mu     sync.RWMutex
	loaded bool
	order  []domain.CommandDescriptor
	byID   map[domain.CommandID]domain.CommandDescriptor
}

// NewCommandCatalog builds a catalog over source. fallback may be nil; when
// set it is used if source fails.
func NewCommandCatalog(source CatalogSource, fallback CatalogSource) *CommandCatalog {
	return &CommandCatalog{
		source:   source,
		fallback: fallback,
		byID:     make(map[domain.CommandID]domain.CommandDescriptor),
	}
}

func (c *CommandCatalog) Load(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	if c.IsLoaded() {
		return nil
	}

	descriptors, err := c.source.AvailableCommands(ctx)
	if err != nil {
		if c.fallback == nil {
			return fmt.Errorf("loading command catalog: %w", err)
		}

		slog.Warn("command catalog unavailable, using fallback", slog.Any("error", err))
		descriptors, err = c.fallback.AvailableCommands(ctx)
		if err != nil {
			return fmt.Errorf("loading fallback command catalog: %w", err)
		}
	}

	order := make([]domain.CommandDescriptor, 0, len(descriptors))
	byID := make(map[domain.CommandID]domain.CommandDescriptor, len(descriptors))
	for _, descriptor := range descriptors {
		descriptor.ID = domain.CommandID(strings.TrimSpace(descriptor.ID.String()))
		if descriptor.ID == "" {
			continue
		}
		if _, duplicated := byID[descriptor.ID]; duplicated {
			slog.Warn("duplicated command in catalog", slog.String("command", descriptor.ID.String()))
			continue
		}
		if descriptor.DisplayName == "" {
			descriptor.DisplayName = domain.DisplayNameFromID(descriptor.ID)
		}

		order = append(order, descriptor)
		byID[descriptor.ID] = descriptor
	}

	c.mu.Lock()
	c.order = order
	c.byID = byID
	c.loaded = true
	c.mu.Unlock()

	slog.Info("command catalog loaded", slog.Int("commands", len(order)))
	return nil
}

func (c *CommandCatalog) IsLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// ListAvailable returns the commands in source order.
func (c *CommandCatalog) ListAvailable() []domain.CommandDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]domain.CommandDescriptor, len(c.order))
	copy(result, c.order)
	return result
}

func (c *CommandCatalog) Resolve(id domain.CommandID) (domain.CommandDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	descriptor, ok := c.byID[id]
	return descriptor, ok
}
