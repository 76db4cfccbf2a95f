package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"docmind/internal/domain"
	"docmind/internal/domain/models"
	"docmind/internal/service/docs"
	"docmind/internal/service/ledger"
)

type fakeClient struct {
	responses []string
	err       error
	calls     int
}

func (c *fakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	if len(c.responses) == 0 {
		return "resposta padrão", nil
	}
	resp := c.responses[0]
	if len(c.responses) > 1 {
		c.responses = c.responses[1:]
	}
	return resp, nil
}

type memTokenRepo struct {
	mu       sync.Mutex
	balances map[string]models.TokenBalance
}

func (r *memTokenRepo) Get(ctx context.Context, userID string) (*models.TokenBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[userID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memTokenRepo) Save(ctx context.Context, balance *models.TokenBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[balance.UserID] = *balance
	return nil
}

type memDocRepo struct {
	mu   sync.Mutex
	docs map[string]models.Document
}

func (r *memDocRepo) Create(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	r.docs[doc.ID] = *doc
	return nil
}

func (r *memDocRepo) GetByID(ctx context.Context, ownerID, id string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (r *memDocRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Document, 0)
	for _, doc := range r.docs {
		if doc.OwnerID == ownerID {
			d := doc
			out = append(out, &d)
		}
	}
	return out, nil
}

func (r *memDocRepo) Update(ctx context.Context, ownerID, id string, update models.DocumentUpdate) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	if update.Content != nil {
		doc.Content = *update.Content
	}
	if update.Summary != nil {
		doc.Summary = *update.Summary
	}
	if update.Language != nil {
		doc.Language = *update.Language
	}
	if update.JSONData != nil {
		doc.JSONData = *update.JSONData
	}
	r.docs[id] = doc
	return &doc, nil
}

func (r *memDocRepo) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *memDocRepo) DeleteMany(ctx context.Context, ownerID string, ids []string) error {
	for _, id := range ids {
		if err := r.Delete(ctx, ownerID, id); err != nil {
			return err
		}
	}
	return nil
}

type noopTx struct{}

func (noopTx) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(t *testing.T, client Client, startingTokens int) (*Service, *ledger.Service, *docs.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	led := ledger.NewService(&memTokenRepo{balances: make(map[string]models.TokenBalance)}, startingTokens, logger)
	store := docs.NewStore(&memDocRepo{docs: make(map[string]models.Document)}, noopTx{}, logger)
	return NewService(client, led, store, logger), led, store
}

func seedDoc(t *testing.T, store *docs.Store, owner string) *models.Document {
	t.Helper()
	doc := &models.Document{
		ID:       uuid.NewString(),
		Title:    "Documentação - app.ts",
		Content:  "# Docs\n\nConteúdo original.",
		Language: "typescript",
	}
	if err := store.Add(context.Background(), owner, doc); err != nil {
		t.Fatalf("seeding document: %v", err)
	}
	return doc
}

func TestGenerateFromFileStoresDocumentAndSpendsToken(t *testing.T) {
	client := &fakeClient{responses: []string{"# Gerado\n\nDocumentação.", "resumo curto"}}
	svc, led, store := newTestService(t, client, 5)
	ctx := context.Background()

	doc, err := svc.GenerateFromFile(ctx, "alice", "app.ts", "const x = 1")
	if err != nil {
		t.Fatalf("GenerateFromFile() error = %v", err)
	}
	if doc.Content != "# Gerado\n\nDocumentação." {
		t.Errorf("Content = %q", doc.Content)
	}
	if doc.Summary != "resumo curto" {
		t.Errorf("Summary = %q", doc.Summary)
	}

	stored, err := store.Get(ctx, "alice", doc.ID)
	if err != nil {
		t.Fatalf("stored document missing: %v", err)
	}
	if stored.Title != "Documentação - app.ts" {
		t.Errorf("Title = %q", stored.Title)
	}
	if stored.Language != "typescript" {
		t.Errorf("Language = %q, want typescript", stored.Language)
	}

	b, _ := led.Balance(ctx, "alice")
	if b.Balance != 4 {
		t.Errorf("balance after generate = %d, want 4", b.Balance)
	}
}

func TestGenerateFromFileRejectsUnsupportedExtensionBeforeCharging(t *testing.T) {
	client := &fakeClient{}
	svc, led, _ := newTestService(t, client, 5)
	ctx := context.Background()

	_, err := svc.GenerateFromFile(ctx, "alice", "notes.txt", "texto")
	if !errors.Is(err, domain.ErrUnsupportedFileType) {
		t.Fatalf("error = %v, want ErrUnsupportedFileType", err)
	}
	if client.calls != 0 {
		t.Errorf("provider called %d times for rejected upload", client.calls)
	}
	b, _ := led.Balance(ctx, "alice")
	if b.Balance != 5 {
		t.Errorf("balance = %d, want untouched 5", b.Balance)
	}
}

func TestGatedOperationsFailWithEmptyBalance(t *testing.T) {
	client := &fakeClient{}
	svc, _, store := newTestService(t, client, 0)
	ctx := context.Background()
	doc := seedDoc(t, store, "alice")

	if _, err := svc.GenerateFromFile(ctx, "alice", "app.ts", "x"); !errors.Is(err, domain.ErrInsufficientTokens) {
		t.Errorf("GenerateFromFile error = %v, want ErrInsufficientTokens", err)
	}
	if _, err := svc.Review(ctx, "alice", doc.ID); !errors.Is(err, domain.ErrInsufficientTokens) {
		t.Errorf("Review error = %v, want ErrInsufficientTokens", err)
	}
	if _, err := svc.Summarize(ctx, "alice", doc.ID); !errors.Is(err, domain.ErrInsufficientTokens) {
		t.Errorf("Summarize error = %v, want ErrInsufficientTokens", err)
	}
	if client.calls != 0 {
		t.Errorf("provider called %d times with empty balance", client.calls)
	}
}

func TestTranslateAndChatAreFree(t *testing.T) {
	client := &fakeClient{responses: []string{"translated text", "an answer"}}
	svc, led, store := newTestService(t, client, 0)
	ctx := context.Background()
	doc := seedDoc(t, store, "alice")

	translated, err := svc.Translate(ctx, "alice", doc.ID, "en")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if translated.Content != "translated text" {
		t.Errorf("Content = %q", translated.Content)
	}

	answer, err := svc.Chat(ctx, "alice", doc.ID, "O que faz?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if answer != "an answer" {
		t.Errorf("answer = %q", answer)
	}

	b, _ := led.Balance(ctx, "alice")
	if b.Balance != 0 {
		t.Errorf("free operations changed balance to %d", b.Balance)
	}
}

func TestTranslateRejectsUnknownLanguage(t *testing.T) {
	client := &fakeClient{}
	svc, _, store := newTestService(t, client, 5)
	doc := seedDoc(t, store, "alice")

	_, err := svc.Translate(context.Background(), "alice", doc.ID, "xx")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
	if client.calls != 0 {
		t.Errorf("provider called for invalid language")
	}
}

// A token is charged when the operation is attempted. A provider failure
// after the charge does not refund it; revisit if users start hitting this.
func TestProviderFailureAfterChargeDoesNotRefund(t *testing.T) {
	client := &fakeClient{err: domain.ErrExternalService}
	svc, led, store := newTestService(t, client, 3)
	ctx := context.Background()
	doc := seedDoc(t, store, "alice")

	if _, err := svc.Review(ctx, "alice", doc.ID); !errors.Is(err, domain.ErrExternalService) {
		t.Fatalf("Review error = %v, want ErrExternalService", err)
	}

	b, _ := led.Balance(ctx, "alice")
	if b.Balance != 2 {
		t.Errorf("balance after failed provider call = %d, want 2 (charge kept)", b.Balance)
	}
}

func TestReviewUpdatesContent(t *testing.T) {
	client := &fakeClient{responses: []string{`{"review": "conteúdo revisado"}`}}
	svc, _, store := newTestService(t, client, 5)
	ctx := context.Background()
	doc := seedDoc(t, store, "alice")

	updated, err := svc.Review(ctx, "alice", doc.ID)
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if updated.Content != "conteúdo revisado" {
		t.Errorf("Content = %q", updated.Content)
	}
}

func TestReviewPlainTextClearsStructuredData(t *testing.T) {
	client := &fakeClient{responses: []string{"texto de revisão em markdown simples"}}
	svc, _, store := newTestService(t, client, 5)
	ctx := context.Background()

	doc := &models.Document{
		ID:       uuid.NewString(),
		Title:    "Documentação - app.ts",
		Content:  "conteúdo antigo",
		Language: "typescript",
		JSONData: map[string]any{"antigo": "valor"},
	}
	if err := store.Add(ctx, "alice", doc); err != nil {
		t.Fatalf("seeding document: %v", err)
	}

	updated, err := svc.Review(ctx, "alice", doc.ID)
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if updated.Content != "texto de revisão em markdown simples" {
		t.Errorf("Content = %q", updated.Content)
	}
	if updated.JSONData != nil {
		t.Errorf("jsonData = %v, want cleared after plain-text review", updated.JSONData)
	}

	stored, err := store.Get(ctx, "alice", doc.ID)
	if err != nil {
		t.Fatalf("stored document missing: %v", err)
	}
	if stored.JSONData != nil {
		t.Errorf("stored jsonData = %v, want cleared", stored.JSONData)
	}
}

func TestTranslateKeepsSourceLanguageAndClearsStructuredData(t *testing.T) {
	client := &fakeClient{responses: []string{"translated text"}}
	svc, _, store := newTestService(t, client, 0)
	ctx := context.Background()

	doc := &models.Document{
		ID:       uuid.NewString(),
		Title:    "Documentação - app.ts",
		Content:  "conteúdo em português",
		Language: "typescript",
		JSONData: map[string]any{"antigo": "valor"},
	}
	if err := store.Add(ctx, "alice", doc); err != nil {
		t.Fatalf("seeding document: %v", err)
	}

	translated, err := svc.Translate(ctx, "alice", doc.ID, "en")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if translated.Language != "typescript" {
		t.Errorf("Language = %q, want source language typescript preserved", translated.Language)
	}
	if translated.JSONData != nil {
		t.Errorf("jsonData = %v, want cleared after plain-text translation", translated.JSONData)
	}
}

func TestOperationsOnForeignDocumentLookMissing(t *testing.T) {
	client := &fakeClient{}
	svc, _, store := newTestService(t, client, 5)
	ctx := context.Background()
	doc := seedDoc(t, store, "alice")

	if _, err := svc.Review(ctx, "bob", doc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Review as other user error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Chat(ctx, "bob", doc.ID, "pergunta"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Chat as other user error = %v, want ErrNotFound", err)
	}
}
