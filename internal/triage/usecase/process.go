package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"inbox-triage/internal/mailbox"
	"inbox-triage/internal/model"
	"inbox-triage/internal/priority"
	"inbox-triage/internal/triage"
	"inbox-triage/pkg/gcalendar"
)

// Run processes every email in the mailbox through a bounded worker pool.
// Emails are fully independent; results are collected in completion order
// and sorted by source filename before output. Cancellation stops new
// emails being picked up but lets in-flight ones finish.
func (uc *implUseCase) Run(ctx context.Context) (triage.RunOutput, error) {
	startedAt := time.Now()
	runID := uuid.NewString()

	uc.l.Infof(ctx, "triage.Run: run=%s mailbox=%s workers=%d", runID, uc.reader.Dir(), uc.opts.Workers)

	items, err := uc.reader.ReadAll(ctx)
	if err != nil {
		return triage.RunOutput{}, fmt.Errorf("%w: %v", triage.ErrMailboxUnavailable, err)
	}

	ref := startedAt.In(uc.dateMath.Location())
	if !uc.opts.ReferenceDate.IsZero() {
		ref = uc.opts.ReferenceDate.In(uc.dateMath.Location())
	}

	jobs := make(chan mailbox.Item)
	resultCh := make(chan model.ProcessingResult)

	var wg sync.WaitGroup
	for i := 0; i < uc.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				resultCh <- uc.processItem(ctx, item, ref)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, item := range items {
			select {
			case jobs <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]model.ProcessingResult, 0, len(items))
	for r := range resultCh {
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Filename < results[j].Filename
	})

	stats := collectStats(results)
	finishedAt := time.Now()

	uc.l.Infof(ctx, "triage.Run: run=%s done emails=%d tasks=%d degraded=%d failed=%d elapsed=%s",
		runID, stats.EmailsProcessed, stats.TasksExtracted, stats.Degraded, stats.Failed,
		finishedAt.Sub(startedAt).Round(time.Millisecond))

	return triage.RunOutput{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Results:    results,
		Stats:      stats,
	}, nil
}

// processItem turns one mailbox item into a result. Unreadable files fail
// without touching the generator; everything else goes through the full
// pipeline.
func (uc *implUseCase) processItem(ctx context.Context, item mailbox.Item, ref time.Time) model.ProcessingResult {
	if item.Err != nil {
		return model.ProcessingResult{
			EmailID:  strings.TrimSuffix(item.Filename, ".txt"),
			Filename: item.Filename,
			Status:   model.StatusFailed,
			Error:    item.Err.Error(),
		}
	}
	return uc.ProcessEmail(ctx, mailbox.BuildRecord(item.Filename, item.Raw, ref))
}

// ProcessEmail runs one record through the pipeline. The summary and task
// extraction generator calls are independent and run concurrently; deadline
// resolution and prioritization are pure and run inline. A generator
// failure degrades the email to a fallback summary with zero tasks, it
// never fails the email outright.
func (uc *implUseCase) ProcessEmail(ctx context.Context, rec model.EmailRecord) model.ProcessingResult {
	var (
		wg         sync.WaitGroup
		summary    string
		summaryOK  bool
		rawTasks   []model.RawTask
		extractOK  bool
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		summary, summaryOK = uc.summarize(ctx, rec)
	}()
	go func() {
		defer wg.Done()
		rawTasks, extractOK = uc.extract(ctx, rec)
	}()
	wg.Wait()

	tasks := make([]model.ResolvedTask, 0, len(rawTasks))
	for _, raw := range rawTasks {
		deadline := uc.resolveDeadline(raw.DeadlinePhrase, rec.ReceivedAt)
		tasks = append(tasks, model.ResolvedTask{
			RawTask:  raw,
			Deadline: deadline,
			Priority: priority.Score(raw, deadline, rec.ReceivedAt),
		})
	}

	status := model.StatusSuccess
	if !summaryOK || !extractOK {
		status = model.StatusDegraded
	}

	for _, task := range tasks {
		uc.tryScheduleCalendarEvent(ctx, rec, task)
	}

	return model.ProcessingResult{
		EmailID:  rec.ID,
		Filename: rec.Filename,
		Summary:  summary,
		Tasks:    tasks,
		Status:   status,
	}
}

func (uc *implUseCase) resolveDeadline(phrase string, ref time.Time) model.Deadline {
	if phrase == "" {
		return model.Deadline{}
	}
	date, ok := uc.dateMath.Resolve(phrase, ref)
	if !ok {
		return model.Deadline{}
	}
	return model.Deadline{Date: date, Specified: true}
}

// tryScheduleCalendarEvent creates a calendar reminder for high priority
// tasks with a concrete deadline. Failures are logged and swallowed, the
// pipeline result is unaffected.
func (uc *implUseCase) tryScheduleCalendarEvent(ctx context.Context, rec model.EmailRecord, task model.ResolvedTask) {
	if uc.calendar == nil {
		return
	}
	if task.Priority != model.PriorityHigh || !task.Deadline.Specified {
		return
	}

	start := task.Deadline.Date
	event, err := uc.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID:  uc.opts.CalendarID,
		Summary:     task.Description,
		Description: fmt.Sprintf("From email %s: %s", rec.Filename, rec.Subject),
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Timezone:    uc.opts.Timezone,
	})
	if err != nil {
		uc.l.Warnf(ctx, "triage.ProcessEmail: calendar event failed for %q (non-fatal): %v", task.Description, err)
		return
	}
	uc.l.Infof(ctx, "triage.ProcessEmail: scheduled %q at %s", task.Description, event.HtmlLink)
}

func collectStats(results []model.ProcessingResult) model.RunStats {
	var stats model.RunStats
	stats.EmailsProcessed = len(results)
	for _, r := range results {
		stats.TasksExtracted += len(r.Tasks)
		switch r.Status {
		case model.StatusFailed:
			stats.Failed++
		case model.StatusDegraded:
			stats.Degraded++
		}
	}
	return stats
}
