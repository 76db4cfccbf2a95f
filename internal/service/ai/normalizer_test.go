package ai

import (
	"errors"
	"testing"

	"docmind/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		op       Operation
		wantText string
		wantJSON bool
		wantErr  error
	}{
		{
			name:     "plain markdown passes through",
			raw:      "# Título\n\nConteúdo do documento.",
			op:       OpGenerate,
			wantText: "# Título\n\nConteúdo do documento.",
		},
		{
			name:     "response envelope unwrapped",
			raw:      `{"response": "texto da resposta"}`,
			op:       OpGenerate,
			wantText: "texto da resposta",
		},
		{
			name:     "content envelope unwrapped",
			raw:      `{"content": "conteúdo gerado"}`,
			op:       OpReview,
			wantText: "conteúdo gerado",
		},
		{
			name:     "operation key unwrapped for generate",
			raw:      `{"documentation": "# Docs"}`,
			op:       OpGenerate,
			wantText: "# Docs",
		},
		{
			name:     "operation key unwrapped for translate",
			raw:      `{"translation": "texto traduzido"}`,
			op:       OpTranslate,
			wantText: "texto traduzido",
		},
		{
			name:     "operation key unwrapped for chat",
			raw:      `{"answer": "a resposta"}`,
			op:       OpChat,
			wantText: "a resposta",
		},
		{
			name:     "response wins over operation key",
			raw:      `{"documentation": "perde", "response": "ganha"}`,
			op:       OpGenerate,
			wantText: "ganha",
		},
		{
			name:     "wrong operation key is not unwrapped",
			raw:      `{"documentation": "docs"}`,
			op:       OpChat,
			wantText: "{\n  \"documentation\": \"docs\"\n}",
			wantJSON: true,
		},
		{
			name:     "unrecognized object kept as structured data",
			raw:      `{"sections": ["a", "b"]}`,
			op:       OpGenerate,
			wantText: "{\n  \"sections\": [\n    \"a\",\n    \"b\"\n  ]\n}",
			wantJSON: true,
		},
		{
			name:     "array pretty printed without structured payload",
			raw:      `["um", "dois"]`,
			op:       OpGenerate,
			wantText: "[\n  \"um\",\n  \"dois\"\n]",
		},
		{
			name:     "brace-shaped but invalid json stays raw",
			raw:      `{not valid json`,
			op:       OpGenerate,
			wantText: `{not valid json`,
		},
		{
			name:     "fenced json unwrapped",
			raw:      "```json\n{\"response\": \"dentro da cerca\"}\n```",
			op:       OpGenerate,
			wantText: "dentro da cerca",
		},
		{
			name:    "blank response is an error",
			raw:     "   \n  ",
			op:      OpGenerate,
			wantErr: domain.ErrEmptyResponse,
		},
		{
			name:     "whitespace trimmed",
			raw:      "  texto  \n",
			op:       OpSummarize,
			wantText: "texto",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, tt.op)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Normalize() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if (got.JSON != nil) != tt.wantJSON {
				t.Errorf("JSON set = %v, want %v", got.JSON != nil, tt.wantJSON)
			}
		})
	}
}
