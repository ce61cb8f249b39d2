package usecase

import (
	"fmt"
	"strings"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
)

// NoDocumentsMarker replaces the documents block when retrieval came back
// empty, so the model falls into its missing-information behavior.
const NoDocumentsMarker = "No relevant documents found."

const keywordSystemPrompt = "Extract keywords for search"

const keywordPromptTemplate = `You are a search query optimizer for a corporate wiki system. Extract the keywords and search phrases from the user's question that will find the most accurate information in the wiki.

User Question: %s

Instructions:
1. Identify the main topic and key concepts in the question
2. Extract the 2-4 most important keywords or short phrases (1-3 words each)
3. Prefer technical terms, product names, processes, policies and specific concepts
4. Drop generic words like "what", "how", "when", "where", "why"
5. If the question names a specific document or policy, include those terms
6. Return only the keywords/phrases, no explanations
7. Separate keywords/phrases with a comma
8. The search backend is elasticsearch, so keep the keywords in a form it can match
9. Do not translate keywords to English; keep each word in the language it has in the question

Examples:
- What is our remote work policy? -> remote, work, policy
- Как настроить Jenkins pipeline? -> Jenkins, настройка, pipeline
- What are the steps for employee onboarding? -> employee, onboarding, steps
- Where can I find information about VPN setup? -> VPN, setup

Keywords/Phrases:`

const answerSystemPrompt = "Answer strictly from documents"

const answerPromptTemplate = `You are a helpful corporate wiki assistant. Provide accurate information based on the available wiki documents.

IMPORTANT RULES:
1. Answer in the SAME language as the question
2. ONLY answer based on the provided documents
3. If no relevant documents are provided, state clearly that you don't have information on the topic
4. NEVER make up or guess information that is not in the provided documents
5. If the documents only partially answer the question, say what you can and cannot answer
6. Be honest about the limitations of the available information
7. Suggest other ways to find the information when appropriate (rephrasing the question, contacting wiki administrators)
8. Respond in plain text without markdown formatting or special symbols

When no documents are found:
- Politely tell the user that no relevant information was found
- Suggest rephrasing the question with different keywords
- Mention that wiki administrators can be contacted if the information should exist
- Do not answer from general knowledge

Formatting:
- Simple text with basic punctuation, plain quotes and hyphens
- Separate points with dashes or numbers
- Plain links like https://example.com, never markdown links
- Emojis are allowed but at most 1 per message

Based on the following documents, answer the user's question in the same language as the question. If no documents are provided, follow the rules for missing information.

Documents:
%s

User Question: %s

Answer:`

// BuildDocumentsBlock concatenates retrieved documents under numbered
// headings in retrieval order.
func BuildDocumentsBlock(documents []domain.RetrievedDocument) string {
	if len(documents) == 0 {
		return NoDocumentsMarker
	}

	parts := make([]string, 0, len(documents))
	for i, doc := range documents {
		parts = append(parts, fmt.Sprintf("Document %d:\n%s", i+1, doc.Content))
	}
	return strings.Join(parts, "\n\n")
}

func keywordPrompt(question string) string {
	return fmt.Sprintf(keywordPromptTemplate, question)
}

func answerPrompt(documentsBlock, question string) string {
	return fmt.Sprintf(answerPromptTemplate, documentsBlock, question)
}
