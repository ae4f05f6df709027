// internal/services/workspace.go
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/models"
	"github.com/javajoker/commodity-admin/internal/utils"
)

var ErrUnknownTab = errors.New("unknown dashboard tab")

// Workspace is the dashboard state of one admin session.
type Workspace struct {
	Key      string
	Email    string
	API      CatalogAPI
	List     *ProductList
	Upload   *BulkUpload
	Forms    *ProductFormService
	Board    *CategoryBoard
	mu       sync.Mutex
	view     models.ViewState
	lastSeen time.Time
}

func (w *Workspace) View() models.ViewState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view
}

func (w *Workspace) SetTab(tab models.Tab) (models.ViewState, error) {
	if !tab.Valid() {
		return w.View(), ErrUnknownTab
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.view.Tab = tab
	switch tab {
	case models.TabCategory1, models.TabCategory2, models.TabCategory3:
		w.view.CategoryOpen = true
	}
	return w.view, nil
}

func (w *Workspace) ToggleCategoryMenu() models.ViewState {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view.CategoryOpen = !w.view.CategoryOpen
	return w.view
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastSeen)
}

// CatalogFactory binds a catalog client to one session token.
type CatalogFactory func(token string) CatalogAPI

type WorkspaceOptions struct {
	IdleTTL         time.Duration
	UploadMaxBytes  int64
	UploadStatusTTL time.Duration
}

// WorkspaceStore keeps one Workspace per session, keyed by the hash of the
// session cookie, and drops workspaces left idle past IdleTTL.
type WorkspaceStore struct {
	mu         sync.Mutex
	items      map[string]*Workspace
	factory    CatalogFactory
	categories *CategoryService
	brands     *BrandService
	archiver   CSVArchiver
	opts       WorkspaceOptions
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewWorkspaceStore(factory CatalogFactory, categories *CategoryService, brands *BrandService, archiver CSVArchiver, opts WorkspaceOptions) *WorkspaceStore {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 2 * time.Hour
	}
	return &WorkspaceStore{
		items:      make(map[string]*Workspace),
		factory:    factory,
		categories: categories,
		brands:     brands,
		archiver:   archiver,
		opts:       opts,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
}

// Acquire returns the workspace for a session, creating it on first use.
// upstream is the token forwarded to the catalog for this session.
func (s *WorkspaceStore) Acquire(sessionCookie, upstream, email string) *Workspace {
	key := utils.HashString(sessionCookie)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ws, ok := s.items[key]; ok {
		ws.touch(now)
		return ws
	}

	api := s.factory(upstream)
	ws := &Workspace{
		Key:      key,
		Email:    email,
		API:      api,
		List:     NewProductList(api),
		Upload:   NewBulkUpload(api, s.archiver, s.opts.UploadMaxBytes, s.opts.UploadStatusTTL),
		Forms:    NewProductFormService(api, s.categories, s.brands),
		Board:    NewCategoryBoard(api, s.categories),
		view:     models.DefaultViewState(),
		lastSeen: now,
	}
	s.items[key] = ws

	logrus.WithFields(logrus.Fields{
		"workspace": utils.ShortHash(sessionCookie),
		"email":     email,
	}).Debug("Workspace created")
	return ws
}

// Drop removes the workspace of a session, e.g. on logout.
func (s *WorkspaceStore) Drop(sessionCookie string) {
	key := utils.HashString(sessionCookie)
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

func (s *WorkspaceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep drops idle workspaces and returns how many were removed.
func (s *WorkspaceStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, ws := range s.items {
		if ws.idleSince(now) > s.opts.IdleTTL {
			delete(s.items, key)
			removed++
		}
	}
	if removed > 0 {
		logrus.WithField("removed", removed).Info("Swept idle workspaces")
	}
	return removed
}

// Run sweeps periodically until ctx is done or Stop is called.
func (s *WorkspaceStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *WorkspaceStore) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}
