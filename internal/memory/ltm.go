package memory

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"memoria/internal/processor"
)

// processSTMForLTM distills a captured STM snapshot into long term memory:
// a gist summary plus each extracted fact, each independently scored and
// upserted. It never propagates a failure back to AddMessage — every step
// is best-effort and logged.
func (m *Manager) processSTMForLTM(ctx context.Context, threadID string, snapshot []Entry) {
	if m.cfg.Mode == "disabled" || !m.cfg.LTMEnabled || m.store == nil {
		return
	}
	m.mu.Lock()
	r, ok := m.stm[threadID]
	shrunk := !ok || r.len() < m.cfg.STMMaxLength
	m.mu.Unlock()
	if shrunk {
		return
	}

	msgs := conversationalMessages(snapshot)
	if len(msgs) == 0 {
		return
	}

	var summary string
	var summaryOK bool
	var facts []processor.Fact

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, ok, err := m.processor.Summarize(gctx, msgs)
		if err != nil {
			m.logger.Warn().Err(err).Str("thread_id", threadID).Msg("ltm_summarize_failed")
			return nil
		}
		summary, summaryOK = s, ok
		return nil
	})
	g.Go(func() error {
		f, err := m.processor.ExtractFacts(gctx, msgs)
		if err != nil {
			m.logger.Warn().Err(err).Str("thread_id", threadID).Msg("ltm_extract_facts_failed")
			return nil
		}
		facts = f
		return nil
	})
	_ = g.Wait() // both goroutines above swallow their own errors

	if summaryOK && summary != "" {
		m.upsertMemory(ctx, summary)
	}
	for _, f := range facts {
		text := f.Text
		if text == "" {
			continue
		}
		m.upsertMemory(ctx, text)
	}
}

func (m *Manager) upsertMemory(ctx context.Context, text string) {
	importance, err := m.processor.ScoreImportance(ctx, text)
	if err != nil {
		m.logger.Warn().Err(err).Msg("ltm_score_importance_failed")
		importance = 5
	}
	if err := m.store.AddMemory(ctx, m.contextID, text, importance); err != nil {
		m.logger.Warn().Err(err).Msg("ltm_add_memory_failed")
	}
}

func conversationalMessages(entries []Entry) []processor.Message {
	out := make([]processor.Message, 0, len(entries))
	for _, e := range entries {
		if !e.IsConversational() {
			continue
		}
		content := *e.Content
		if len(e.Metadata) > 0 {
			parts := make([]string, 0, len(e.Metadata))
			for k, v := range e.Metadata {
				parts = append(parts, fmt.Sprintf("%s=%v", k, v))
			}
			content = content + " (" + strings.Join(parts, ", ") + ")"
		}
		out = append(out, processor.Message{Role: e.Role, Content: content})
	}
	return out
}
