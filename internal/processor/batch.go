package processor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"memoria/internal/memadapter"
)

const batchMarkerPrefix = "--- Batch "

type batchRequest struct {
	msgs   []Message
	result chan batchResult
}

type batchResult struct {
	summary string
	ok      bool
	err     error
}

// batcher coalesces concurrent Summarize calls into a single adapter
// request once batchSize requests have queued or batchTimeout has elapsed,
// whichever comes first.
type batcher struct {
	adapter  memadapter.Adapter
	size     int
	timeout  time.Duration

	mu      sync.Mutex
	pending []batchRequest
	timer   *time.Timer
}

func newBatcher(adapter memadapter.Adapter, size int, timeout time.Duration) *batcher {
	return &batcher{adapter: adapter, size: size, timeout: timeout}
}

func (b *batcher) summarize(ctx context.Context, msgs []Message) (string, bool, error) {
	req := batchRequest{msgs: msgs, result: make(chan batchResult, 1)}

	b.mu.Lock()
	b.pending = append(b.pending, req)
	full := len(b.pending) >= b.size
	if full {
		batch := b.pending
		b.pending = nil
		if b.timer != nil {
			b.timer.Stop()
			b.timer = nil
		}
		go b.flush(context.WithoutCancel(ctx), batch)
	} else if b.timer == nil {
		b.timer = time.AfterFunc(b.timeout, func() {
			b.mu.Lock()
			batch := b.pending
			b.pending = nil
			b.timer = nil
			b.mu.Unlock()
			if len(batch) > 0 {
				b.flush(context.Background(), batch)
			}
		})
	}
	b.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case res := <-req.result:
		return res.summary, res.ok, res.err
	}
}

func (b *batcher) flush(ctx context.Context, batch []batchRequest) {
	combined := make([]Message, 0)
	for i, req := range batch {
		combined = append(combined, Message{Role: "system", Content: fmt.Sprintf("%s%d ---", batchMarkerPrefix, i)})
		combined = append(combined, req.msgs...)
	}
	summary, ok, err := b.adapter.SummarizeConversation(ctx, toAdapterMessages(combined))
	if err != nil {
		for _, req := range batch {
			req.result <- batchResult{err: err}
		}
		return
	}
	parts := splitBatchMarkers(summary, len(batch))
	for i, req := range batch {
		req.result <- batchResult{summary: strings.TrimSpace(parts[i]), ok: ok}
	}
}

// splitBatchMarkers recovers each request's slice of a combined batch
// summary. If the adapter did not echo the markers back (many won't),
// every request falls back to the full combined summary.
func splitBatchMarkers(summary string, n int) []string {
	if !strings.Contains(summary, batchMarkerPrefix) {
		out := make([]string, n)
		for i := range out {
			out[i] = summary
		}
		return out
	}
	segments := strings.Split(summary, batchMarkerPrefix)
	out := make([]string, n)
	for i := range out {
		out[i] = summary
	}
	for _, seg := range segments {
		idx := strings.Index(seg, " ---")
		if idx <= 0 {
			continue
		}
		var n2 int
		if _, err := fmt.Sscanf(seg[:idx], "%d", &n2); err == nil && n2 >= 0 && n2 < n {
			out[n2] = strings.TrimSpace(seg[idx+4:])
		}
	}
	return out
}
