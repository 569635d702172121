package usecase

import (
	"context"
	"strings"

	"inbox-triage/internal/model"
	"inbox-triage/pkg/llmprovider"
)

const (
	emptyEmailSummary     = "Empty email with no content."
	briefMessagePrefix    = "Brief message: "
	fallbackSummaryPrefix = "Summary unavailable. Preview: "
	shortEmailThreshold   = 20
	maxSummarySentences   = 3
	fallbackPreviewWords  = 30
)

const summarySystemPrompt = `You are an expert email analyst. Create a concise summary of the email.

IMPORTANT INSTRUCTIONS:
- Summarize in exactly 2-3 sentences maximum
- Focus on the main topic and key points
- Highlight any action items, tasks, or deadlines if present
- Be specific and actionable
- If the email is very short, provide a clear one-sentence summary
- If there are no clear action items, focus on the main purpose and key information`

// summarize produces a 1-3 sentence summary of the email. The second return
// is false when the generator failed and a preview fallback was used.
// Trivial inputs never reach the generator.
func (uc *implUseCase) summarize(ctx context.Context, rec model.EmailRecord) (string, bool) {
	body := strings.TrimSpace(rec.Body)
	if body == "" {
		return emptyEmailSummary, true
	}
	if len(body) < shortEmailThreshold {
		return briefMessagePrefix + body, true
	}

	resp, err := uc.llm.GenerateContent(ctx, &llmprovider.Request{
		System:      summarySystemPrompt,
		Prompt:      emailText(rec),
		Temperature: uc.opts.SummaryTemperature,
		MaxTokens:   uc.opts.MaxTokens,
	})
	if err != nil {
		uc.l.Warnf(ctx, "triage.summarize: generator failed for %s, using preview fallback: %v", rec.Filename, err)
		return fallbackSummaryPrefix + preview(body, fallbackPreviewWords), false
	}

	return tidySummary(resp.Text), true
}

// emailText renders the record the way it is shown to the generator.
func emailText(rec model.EmailRecord) string {
	var sb strings.Builder
	if rec.Subject != "" {
		sb.WriteString("Subject: ")
		sb.WriteString(rec.Subject)
		sb.WriteString("\n")
	}
	if rec.Sender != "" {
		sb.WriteString("From: ")
		sb.WriteString(rec.Sender)
		sb.WriteString("\n")
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(rec.Body)
	return sb.String()
}

// tidySummary trims generator output to at most three sentences and makes
// sure it ends with a period.
func tidySummary(text string) string {
	summary := strings.TrimSpace(text)
	if summary == "" {
		return emptyEmailSummary
	}

	parts := strings.Split(summary, ".")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) > maxSummarySentences {
		return strings.Join(sentences[:maxSummarySentences], ". ") + "."
	}
	if !strings.HasSuffix(summary, ".") {
		summary += "."
	}
	return summary
}

// preview returns the first n words of text, with an ellipsis when truncated.
func preview(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}
