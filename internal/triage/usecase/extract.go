package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"inbox-triage/internal/model"
	"inbox-triage/pkg/llmprovider"
)

const extractionSystemPrompt = `You are an AI assistant that extracts action items from email content.

Analyze the email text, identify all actionable tasks, and return them as structured JSON.

For each action item extract:
- task: a clear description of what needs to be done (REQUIRED)
- owner: the person responsible, exactly as named in the email, or null
- deadline_phrase: the deadline exactly as written in the email (e.g. "by Friday", "2024-03-15"), or null. Do NOT convert it to a date.
- category: one of "meeting", "review", "response", "deliverable", "other"

Rules:
1. Only extract actual actionable items that require someone to do something
2. If no action items exist, return an empty array
3. Use null for missing information - never invent owners or deadlines
4. Return ONLY valid JSON, no additional text

Respond with this exact structure:
{
  "action_items": [
    {
      "task": "string describing the task",
      "owner": "person's name or null",
      "deadline_phrase": "verbatim phrase or null",
      "category": "meeting/review/response/deliverable/other"
    }
  ]
}`

// rawItem mirrors the generator's JSON item shape. Pointer fields keep
// null distinguishable from empty.
type rawItem struct {
	Task           string  `json:"task"`
	Owner          *string `json:"owner"`
	DeadlinePhrase *string `json:"deadline_phrase"`
	Category       string  `json:"category"`
}

// extract asks the generator for action items in the email. The second
// return is false when the generator call itself failed; an unparseable or
// empty response is a valid zero-task outcome, not a failure.
func (uc *implUseCase) extract(ctx context.Context, rec model.EmailRecord) ([]model.RawTask, bool) {
	if strings.TrimSpace(rec.Body) == "" {
		return nil, true
	}

	resp, err := uc.llm.GenerateContent(ctx, &llmprovider.Request{
		System:      extractionSystemPrompt,
		Prompt:      "Email content:\n" + emailText(rec),
		Temperature: uc.opts.ExtractionTemperature,
		MaxTokens:   uc.opts.MaxTokens,
	})
	if err != nil {
		uc.l.Warnf(ctx, "triage.extract: generator failed for %s: %v", rec.Filename, err)
		return nil, false
	}

	tasks := uc.parseTasks(ctx, resp.Text)
	uc.l.Debugf(ctx, "triage.extract: %s yielded %d tasks", rec.Filename, len(tasks))
	return tasks, true
}

// parseTasks interprets generator output permissively: a JSON object with an
// action_items array, a bare JSON array, and finally delimited text blocks.
// Anything unrecognizable yields zero tasks.
func (uc *implUseCase) parseTasks(ctx context.Context, text string) []model.RawTask {
	cleaned := sanitizeJSONResponse(text)

	var envelope struct {
		ActionItems []rawItem `json:"action_items"`
	}
	if err := json.Unmarshal([]byte(cleaned), &envelope); err == nil && envelope.ActionItems != nil {
		return validateItems(envelope.ActionItems)
	}

	var items []rawItem
	if err := json.Unmarshal([]byte(cleaned), &items); err == nil {
		return validateItems(items)
	}

	uc.l.Debugf(ctx, "triage.parseTasks: response is not JSON, trying block format")
	return parseTaskBlocks(text)
}

// validateItems normalizes raw generator items, substituting sentinels for
// missing fields and discarding items without a task description.
func validateItems(items []rawItem) []model.RawTask {
	tasks := make([]model.RawTask, 0, len(items))
	for _, it := range items {
		desc := strings.TrimSpace(it.Task)
		if desc == "" {
			continue
		}

		task := model.RawTask{
			Description:    desc,
			Owner:          normalizeOwner(it.Owner),
			DeadlinePhrase: normalizeNullable(it.DeadlinePhrase),
			Category:       model.ParseCategory(it.Category),
		}
		if task.Category == model.CategoryOther {
			task.Category = inferCategory(desc)
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// parseTaskBlocks handles generators that answer in labeled text blocks
// instead of JSON. Blocks are separated by blank lines or "---" dividers;
// each block needs at least a Task line.
func parseTaskBlocks(text string) []model.RawTask {
	var tasks []model.RawTask

	for _, block := range splitBlocks(text) {
		var task model.RawTask
		for _, line := range strings.Split(block, "\n") {
			key, value, ok := splitLabeledLine(line)
			if !ok {
				continue
			}
			switch key {
			case "task", "description", "action":
				task.Description = value
			case "owner", "assignee", "responsible":
				task.Owner = value
			case "deadline", "deadline_phrase", "due":
				task.DeadlinePhrase = value
			case "category", "type":
				task.Category = model.ParseCategory(value)
			}
		}

		if strings.TrimSpace(task.Description) == "" {
			continue
		}
		if task.Owner == "" || strings.EqualFold(task.Owner, "null") {
			task.Owner = model.OwnerUnspecified
		}
		if strings.EqualFold(task.DeadlinePhrase, "null") || strings.EqualFold(task.DeadlinePhrase, "none") {
			task.DeadlinePhrase = ""
		}
		if task.Category == "" || task.Category == model.CategoryOther {
			task.Category = inferCategory(task.Description)
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func splitBlocks(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\n---", "\n\n")

	var blocks []string
	for _, b := range strings.Split(normalized, "\n\n") {
		if strings.TrimSpace(b) != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func splitLabeledLine(line string) (key, value string, ok bool) {
	line = strings.TrimLeft(strings.TrimSpace(line), "-*• ")
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	return strings.ToLower(strings.TrimSpace(line[:idx])), strings.TrimSpace(line[idx+1:]), true
}

func normalizeOwner(s *string) string {
	v := normalizeNullable(s)
	if v == "" {
		return model.OwnerUnspecified
	}
	return v
}

func normalizeNullable(s *string) string {
	if s == nil {
		return ""
	}
	v := strings.TrimSpace(*s)
	if strings.EqualFold(v, "null") || strings.EqualFold(v, "none") {
		return ""
	}
	return v
}

// inferCategory guesses a category from keywords in the task description
// when the generator omitted one or produced something off the fixed set.
func inferCategory(description string) model.Category {
	lower := strings.ToLower(description)
	switch {
	case containsAny(lower, "meet", "call", "discussion", "sync"):
		return model.CategoryMeeting
	case containsAny(lower, "review", "feedback", "check"):
		return model.CategoryReview
	case containsAny(lower, "reply", "respond", "follow up", "follow-up", "answer"):
		return model.CategoryResponse
	case containsAny(lower, "submit", "deliver", "due", "deadline", "send", "prepare"):
		return model.CategoryDeliverable
	default:
		return model.CategoryOther
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
