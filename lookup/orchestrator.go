package lookup

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/gaurav-prasanna/wikipipe/core/fetch"
)

// ArticleRequest is the handle for one multi-term article lookup. The
// article body grows incrementally as queries drain; the host reads
// snapshots while the collector goroutine is the only writer. All
// methods are safe for concurrent use.
type ArticleRequest struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	hasData   bool
	errStr    string
	cancelled bool

	done     chan struct{}
	doneOnce sync.Once
	updates  chan struct{}
	cancel   context.CancelFunc
}

func newArticleRequest() *ArticleRequest {
	return &ArticleRequest{
		done:    make(chan struct{}),
		updates: make(chan struct{}, 1),
	}
}

// Snapshot returns a copy of the article accumulated so far.
func (r *ArticleRequest) Snapshot() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, r.buf.Len())
	copy(out, r.buf.Bytes())
	return out
}

// HasData reports whether any article fragment has been emitted.
func (r *ArticleRequest) HasData() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasData
}

// Err returns the last per-query error string, if any. A non-empty
// error does not imply an empty article: partial success is normal.
func (r *ArticleRequest) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errStr
}

// Done is closed exactly once, when the request finishes or is
// cancelled.
func (r *ArticleRequest) Done() <-chan struct{} {
	return r.done
}

// Updates signals incremental progress. Notifications coalesce; after
// one, read a fresh Snapshot.
func (r *ArticleRequest) Updates() <-chan struct{} {
	return r.updates
}

// Cancel terminates the request. Outstanding operations are discarded
// and the buffer is guaranteed not to mutate afterwards.
func (r *ArticleRequest) Cancel() {
	r.mu.Lock()
	r.cancelled = true
	r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
	r.finish()
}

func (r *ArticleRequest) append(fragment string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelled {
		return
	}
	r.buf.WriteString(fragment)
	r.hasData = true
}

// setErr overwrites the error string; the latest failure wins.
func (r *ArticleRequest) setErr(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errStr = msg
}

func (r *ArticleRequest) finish() {
	r.doneOnce.Do(func() { close(r.done) })
}

func (r *ArticleRequest) notify() {
	select {
	case r.updates <- struct{}{}:
	default:
	}
}

// Lookup starts one article lookup for word and its alternate
// spellings. One network operation is issued per term, all in
// parallel; fragments are appended in submission order regardless of
// completion order. Terms longer than the length guard yield an
// immediately finished, empty request without touching the network.
func (d *Dictionary) Lookup(ctx context.Context, word string, alts []string) *ArticleRequest {
	r := newArticleRequest()

	if utf8.RuneCountInString(word) > fetch.MaxTermLength {
		// Excessively large queries are fruitless anyway.
		r.finish()
		return r
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	terms := append([]string{word}, alts...)

	// Buffered to capacity so late completions never block a sender
	// after the collector has exited.
	results := make(chan completion, len(terms))
	for i, term := range terms {
		go func() {
			d.log.Debug("requesting article", "term", term)
			page, err := d.client.FetchArticle(ctx, d.url, term)
			results <- completion{idx: i, page: page, err: err}
		}()
	}

	go d.collect(ctx, r, terms, results)
	return r
}

// collect is the single-threaded state-update loop: the only writer of
// the request's shared state. Each completion marks its query done and
// drains the maximal contiguous completed prefix of the queue.
func (d *Dictionary) collect(ctx context.Context, r *ArticleRequest, terms []string, results <-chan completion) {
	queue := newPendingQueue(terms)
	var added pageIDSet

	for {
		select {
		case <-ctx.Done():
			// Cancelled: discard the remaining queue without draining.
			r.finish()
			return

		case c := <-results:
			if !queue.markDone(c.idx, c.page, c.err) {
				continue // stale or foreign completion
			}

			drained := false
			for queue.frontDone() {
				slot := queue.pop()
				switch {
				case slot.err != nil:
					// A failed term never blocks later completed terms
					// and never cancels the rest of the queue.
					if !errors.Is(slot.err, fetch.ErrNotFound) {
						d.log.Debug("query failed", "term", slot.term, "error", slot.err)
						r.setErr(slot.err.Error())
					}
				case slot.page == nil || slot.page.HTML == "":
					// Nothing renderable for this term.
				case !added.insert(slot.page.PageID):
					// Don't show the same article more than once.
					d.log.Debug("duplicate page filtered", "term", slot.term, "page_id", slot.page.PageID)
				default:
					r.append(d.transform.Transform(slot.page.HTML, slot.page.Sections))
					drained = true
				}
			}

			if queue.empty() {
				r.finish()
				return
			}
			if drained {
				r.notify()
			}
		}
	}
}
