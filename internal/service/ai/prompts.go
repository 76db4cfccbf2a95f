package ai

import "fmt"

// Prompt builders. Output is requested in Portuguese because the product
// ships to a Brazilian audience.

func documentationPrompt(fileName, language, content string) string {
	return fmt.Sprintf(`Você é um especialista em documentação de software.
Analise o código-fonte abaixo (arquivo %q, linguagem %s) e gere uma documentação técnica completa em Markdown.

A documentação deve incluir:
- Visão geral do propósito do código
- Descrição das principais funções, classes e estruturas
- Parâmetros, retornos e efeitos colaterais
- Exemplos de uso quando fizer sentido

Código:
%s`, fileName, language, content)
}

func reviewPrompt(content string) string {
	return fmt.Sprintf(`Você é um revisor técnico experiente.
Revise a documentação abaixo, corrigindo erros, melhorando a clareza e completando seções superficiais.
Mantenha o formato Markdown e retorne a documentação revisada por completo.

Documentação:
%s`, content)
}

func translationPrompt(languageName, content string) string {
	return fmt.Sprintf(`Traduza a documentação abaixo para %s.
Preserve a formatação Markdown, os blocos de código e os termos técnicos que não devem ser traduzidos.
Retorne apenas a documentação traduzida.

Documentação:
%s`, languageName, content)
}

func summaryPrompt(content string) string {
	return fmt.Sprintf(`Resuma a documentação abaixo em no máximo três parágrafos curtos.
Destaque o propósito principal e os pontos mais importantes.

Documentação:
%s`, content)
}

func answerPrompt(docContent, question string) string {
	return fmt.Sprintf(`Você é um assistente que responde perguntas sobre a documentação abaixo.
Responda de forma direta e objetiva, usando apenas as informações da documentação.
Se a resposta não estiver na documentação, diga isso claramente.

Documentação:
%s

Pergunta: %s`, docContent, question)
}

func shortSummaryPrompt(content string) string {
	return fmt.Sprintf(`Escreva uma frase única, com no máximo 150 caracteres, resumindo o documento abaixo.
Retorne apenas a frase, sem aspas.

Documento:
%s`, content)
}
