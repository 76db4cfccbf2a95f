// Package ai orchestrates AI-backed document operations: generation, review,
// translation, summarization, and Q&A over a document.
package ai

import (
	"context"
	"fmt"
	"log/slog"

	"docmind/internal/domain"
	"docmind/internal/domain/models"
	"docmind/internal/service/docs"
	"docmind/internal/service/ledger"
)

// Service wires the AI client to the token ledger and the document store.
// Generation, review, and summarization cost one token each; translation and
// chat are free. A token is charged when the operation is attempted, even if
// the provider call then fails.
type Service struct {
	client Client
	ledger *ledger.Service
	docs   *docs.Store
	logger *slog.Logger
}

func NewService(client Client, ledger *ledger.Service, docs *docs.Store, logger *slog.Logger) *Service {
	return &Service{
		client: client,
		ledger: ledger,
		docs:   docs,
		logger: logger.With("service", "ai"),
	}
}

func (s *Service) spend(ctx context.Context, userID string) error {
	ok, err := s.ledger.Spend(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInsufficientTokens
	}
	return nil
}

// GenerateFromFile produces documentation for an uploaded source file and
// stores it as a new document. Costs one token.
func (s *Service) GenerateFromFile(ctx context.Context, userID, fileName, content string) (*models.Document, error) {
	language, err := docs.DetectLanguage(fileName)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, fmt.Errorf("%w: file content is empty", domain.ErrValidation)
	}

	if err := s.spend(ctx, userID); err != nil {
		return nil, err
	}

	raw, err := s.client.Complete(ctx, documentationPrompt(fileName, language, content))
	if err != nil {
		return nil, err
	}
	result, err := Normalize(raw, OpGenerate)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		OwnerID:  userID,
		Title:    fmt.Sprintf("Documentação - %s", fileName),
		Content:  result.Text,
		Language: language,
		JSONData: result.JSON,
	}

	// The one-line summary is convenience metadata; losing it is not worth
	// failing the whole generation.
	if summary, err := s.client.Complete(ctx, shortSummaryPrompt(result.Text)); err == nil {
		if sr, err := Normalize(summary, OpSummarize); err == nil {
			doc.Summary = sr.Text
		}
	} else {
		s.logger.Warn("summary generation failed", "user_id", userID, "error", err)
	}

	if err := s.docs.Add(ctx, userID, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Review rewrites a document's content through an AI review pass. Costs one
// token.
func (s *Service) Review(ctx context.Context, userID, docID string) (*models.Document, error) {
	doc, err := s.docs.Get(ctx, userID, docID)
	if err != nil {
		return nil, err
	}

	if err := s.spend(ctx, userID); err != nil {
		return nil, err
	}

	raw, err := s.client.Complete(ctx, reviewPrompt(doc.Content))
	if err != nil {
		return nil, err
	}
	result, err := Normalize(raw, OpReview)
	if err != nil {
		return nil, err
	}

	// jsonData must track content: a plain-text revision clears any structured
	// payload left over from a previous response.
	return s.docs.Update(ctx, userID, docID, models.DocumentUpdate{
		Content:  &result.Text,
		JSONData: &result.JSON,
	})
}

// Translate rewrites a document into the target language. Free of charge.
func (s *Service) Translate(ctx context.Context, userID, docID, languageCode string) (*models.Document, error) {
	lang, ok := models.LanguageByCode(languageCode)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported language code %q", domain.ErrValidation, languageCode)
	}

	doc, err := s.docs.Get(ctx, userID, docID)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Complete(ctx, translationPrompt(lang.Name, doc.Content))
	if err != nil {
		return nil, err
	}
	result, err := Normalize(raw, OpTranslate)
	if err != nil {
		return nil, err
	}

	// Language stays the source-code language detected at upload; the target
	// language lives only in the translated text itself.
	return s.docs.Update(ctx, userID, docID, models.DocumentUpdate{
		Content:  &result.Text,
		JSONData: &result.JSON,
	})
}

// Summarize generates and stores a summary for a document. Costs one token.
func (s *Service) Summarize(ctx context.Context, userID, docID string) (*models.Document, error) {
	doc, err := s.docs.Get(ctx, userID, docID)
	if err != nil {
		return nil, err
	}

	if err := s.spend(ctx, userID); err != nil {
		return nil, err
	}

	raw, err := s.client.Complete(ctx, summaryPrompt(doc.Content))
	if err != nil {
		return nil, err
	}
	result, err := Normalize(raw, OpSummarize)
	if err != nil {
		return nil, err
	}

	return s.docs.Update(ctx, userID, docID, models.DocumentUpdate{Summary: &result.Text})
}

// Chat answers a question about a document. Free of charge; nothing is
// persisted.
func (s *Service) Chat(ctx context.Context, userID, docID, question string) (string, error) {
	if question == "" {
		return "", fmt.Errorf("%w: question is required", domain.ErrValidation)
	}

	doc, err := s.docs.Get(ctx, userID, docID)
	if err != nil {
		return "", err
	}

	raw, err := s.client.Complete(ctx, answerPrompt(doc.Content, question))
	if err != nil {
		return "", err
	}
	result, err := Normalize(raw, OpChat)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}
