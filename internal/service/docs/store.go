// Package docs manages a user's document collection: persistence plus the
// per-user working state (current document, multi-select, list ordering).
package docs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"docmind/internal/domain"
	"docmind/internal/domain/models"
	"docmind/internal/domain/repositories"
)

// session is one user's working state. Documents are kept newest-first;
// fetchSeq discards list responses that were overtaken by a newer fetch.
type session struct {
	documents  []*models.Document
	currentID  string
	selected   map[string]bool
	fetchSeq   uint64
	appliedSeq uint64
	loaded     bool
}

// State is a snapshot of a user's session for API responses.
type State struct {
	Documents   []*models.Document `json:"documents"`
	CurrentID   string             `json:"currentId,omitempty"`
	SelectedIDs []string           `json:"selectedIds"`
}

// Store coordinates document persistence with per-user session state.
type Store struct {
	repo   repositories.DocumentRepository
	txm    repositories.TransactionManager
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

func NewStore(repo repositories.DocumentRepository, txm repositories.TransactionManager, logger *slog.Logger) *Store {
	return &Store{
		repo:     repo,
		txm:      txm,
		logger:   logger.With("service", "docs"),
		sessions: make(map[string]*session),
	}
}

// sessionFor returns the session for ownerID. Caller must hold s.mu.
func (s *Store) sessionFor(ownerID string) *session {
	sess, ok := s.sessions[ownerID]
	if !ok {
		sess = &session{selected: make(map[string]bool)}
		s.sessions[ownerID] = sess
	}
	return sess
}

// List returns the user's documents newest-first. Concurrent fetches are
// sequenced: a response that arrives after a newer fetch already applied is
// discarded in favor of the newer data.
func (s *Store) List(ctx context.Context, ownerID string) ([]*models.Document, error) {
	s.mu.Lock()
	sess := s.sessionFor(ownerID)
	sess.fetchSeq++
	seq := sess.fetchSeq
	s.mu.Unlock()

	docs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > sess.appliedSeq {
		sess.appliedSeq = seq
		sess.documents = docs
		sess.loaded = true
		s.reconcile(sess)
	} else {
		s.logger.Debug("discarded stale document fetch", "owner_id", ownerID, "seq", seq)
	}
	return copyDocs(sess.documents), nil
}

// Add persists a new document, prepends it to the session list, and makes it
// the current document.
func (s *Store) Add(ctx context.Context, ownerID string, doc *models.Document) error {
	doc.OwnerID = ownerID
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionFor(ownerID)
	sess.documents = append([]*models.Document{doc}, sess.documents...)
	sess.currentID = doc.ID
	return nil
}

// Get fetches a single document. A document owned by someone else is
// indistinguishable from a missing one.
func (s *Store) Get(ctx context.Context, ownerID, id string) (*models.Document, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

// Update applies a partial update and merges the result into the session.
func (s *Store) Update(ctx context.Context, ownerID, id string, update models.DocumentUpdate) (*models.Document, error) {
	if err := update.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if update.IsEmpty() {
		return nil, fmt.Errorf("%w: update carries no fields", domain.ErrValidation)
	}

	doc, err := s.repo.Update(ctx, ownerID, id, update)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionFor(ownerID)
	for i, existing := range sess.documents {
		if existing.ID == id {
			sess.documents[i] = doc
			break
		}
	}
	return doc, nil
}

// Delete removes one document and drops it from the session state.
func (s *Store) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropFromSession(s.sessionFor(ownerID), map[string]bool{id: true})
	return nil
}

// DeleteMany removes a batch of documents atomically. If any id is missing
// or not owned by the caller, nothing is deleted.
func (s *Store) DeleteMany(ctx context.Context, ownerID string, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no document ids given", domain.ErrValidation)
	}

	err := s.txm.ExecTx(ctx, func(ctx context.Context) error {
		return s.repo.DeleteMany(ctx, ownerID, ids)
	})
	if err != nil {
		return err
	}

	removed := make(map[string]bool, len(ids))
	for _, id := range ids {
		removed[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropFromSession(s.sessionFor(ownerID), removed)
	return nil
}

// SetCurrent marks a document as the one being viewed.
func (s *Store) SetCurrent(ctx context.Context, ownerID, id string) error {
	if _, err := s.repo.GetByID(ctx, ownerID, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionFor(ownerID).currentID = id
	return nil
}

// ToggleSelect flips a document in or out of the multi-select set.
func (s *Store) ToggleSelect(ownerID, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionFor(ownerID)
	if sess.selected[id] {
		delete(sess.selected, id)
	} else {
		sess.selected[id] = true
	}
}

// Selected returns the selected document ids in list order.
func (s *Store) Selected(ownerID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionFor(ownerID)

	ids := make([]string, 0, len(sess.selected))
	for _, doc := range sess.documents {
		if sess.selected[doc.ID] {
			ids = append(ids, doc.ID)
		}
	}
	return ids
}

// SelectedDocuments returns the selected documents in list order, loading
// the list first if this session has never fetched.
func (s *Store) SelectedDocuments(ctx context.Context, ownerID string) ([]*models.Document, error) {
	s.mu.Lock()
	loaded := s.sessionFor(ownerID).loaded
	s.mu.Unlock()
	if !loaded {
		if _, err := s.List(ctx, ownerID); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionFor(ownerID)
	docs := make([]*models.Document, 0, len(sess.selected))
	for _, doc := range sess.documents {
		if sess.selected[doc.ID] {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// State snapshots the session for the API.
func (s *Store) State(ctx context.Context, ownerID string) (*State, error) {
	s.mu.Lock()
	loaded := s.sessionFor(ownerID).loaded
	s.mu.Unlock()
	if !loaded {
		if _, err := s.List(ctx, ownerID); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionFor(ownerID)
	state := &State{
		Documents:   copyDocs(sess.documents),
		CurrentID:   sess.currentID,
		SelectedIDs: make([]string, 0, len(sess.selected)),
	}
	for _, doc := range sess.documents {
		if sess.selected[doc.ID] {
			state.SelectedIDs = append(state.SelectedIDs, doc.ID)
		}
	}
	return state, nil
}

// dropFromSession removes documents from the list, the selection, and the
// current pointer. Caller must hold s.mu.
func (s *Store) dropFromSession(sess *session, removed map[string]bool) {
	kept := sess.documents[:0]
	for _, doc := range sess.documents {
		if !removed[doc.ID] {
			kept = append(kept, doc)
		}
	}
	sess.documents = kept

	for id := range removed {
		delete(sess.selected, id)
	}
	if removed[sess.currentID] {
		sess.currentID = ""
	}
}

// reconcile drops selection entries and the current pointer when their
// documents no longer exist after a fresh fetch. Caller must hold s.mu.
func (s *Store) reconcile(sess *session) {
	existing := make(map[string]bool, len(sess.documents))
	for _, doc := range sess.documents {
		existing[doc.ID] = true
	}
	for id := range sess.selected {
		if !existing[id] {
			delete(sess.selected, id)
		}
	}
	if sess.currentID != "" && !existing[sess.currentID] {
		sess.currentID = ""
	}
}

func copyDocs(docs []*models.Document) []*models.Document {
	out := make([]*models.Document, len(docs))
	copy(out, docs)
	return out
}
