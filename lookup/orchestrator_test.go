package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gaurav-prasanna/wikipipe/config"
	"github.com/gaurav-prasanna/wikipipe/core"
	"github.com/gaurav-prasanna/wikipipe/core/fetch"
)

// fakeClient serves canned pages per term. Each term's response can be
// gated on a channel so tests control completion order precisely.
type fakeClient struct {
	pages map[string]*core.PageResult
	errs  map[string]error
	gates map[string]chan struct{}
	calls atomic.Int32
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		pages: make(map[string]*core.PageResult),
		errs:  make(map[string]error),
		gates: make(map[string]chan struct{}),
	}
}

func (f *fakeClient) page(term string, pageID int64) {
	f.pages[term] = &core.PageResult{
		PageID: pageID,
		RevID:  "1",
		HTML:   fmt.Sprintf("<p>body-%s</p>", term),
	}
}

func (f *fakeClient) gate(term string) chan struct{} {
	g := make(chan struct{})
	f.gates[term] = g
	return g
}

func (f *fakeClient) FetchArticle(ctx context.Context, endpoint, term string) (*core.PageResult, error) {
	f.calls.Add(1)
	if g, ok := f.gates[term]; ok {
		select {
		case <-g:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.errs[term]; ok {
		return nil, err
	}
	if page, ok := f.pages[term]; ok {
		return page, nil
	}
	return nil, fetch.ErrNotFound
}

func (f *fakeClient) PrefixSearch(ctx context.Context, endpoint, prefix string) ([]string, error) {
	return nil, nil
}

func testDictionary(t *testing.T, client Client) *Dictionary {
	t.Helper()
	w := config.Wiki{Name: "Test Wiki", URL: "https://test.example/w", Enabled: true}
	d, err := NewDictionary(w, client, nil, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewDictionary: %v", err)
	}
	return d
}

func waitDone(t *testing.T, r *ArticleRequest) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("request did not finish")
	}
}

// fragmentOrder returns the positions of each term's body within the
// assembled article, for order assertions.
func fragmentOrder(t *testing.T, r *ArticleRequest, terms ...string) []int {
	t.Helper()
	html := string(r.Snapshot())
	out := make([]int, len(terms))
	for i, term := range terms {
		idx := strings.Index(html, "body-"+term)
		if idx == -1 {
			t.Fatalf("fragment for %q missing in %q", term, html)
		}
		out[i] = idx
	}
	return out
}

func TestLookup_OrderMatchesSubmissionNotCompletion(t *testing.T) {
	client := newFakeClient()
	client.page("alpha", 1)
	client.page("beta", 2)
	client.page("gamma", 3)
	gates := []chan struct{}{client.gate("alpha"), client.gate("beta"), client.gate("gamma")}

	d := testDictionary(t, client)
	r := d.Lookup(context.Background(), "alpha", []string{"beta", "gamma"})

	// Complete in reverse order.
	close(gates[2])
	close(gates[1])
	close(gates[0])
	waitDone(t, r)

	pos := fragmentOrder(t, r, "alpha", "beta", "gamma")
	if !(pos[0] < pos[1] && pos[1] < pos[2]) {
		t.Errorf("fragments out of submission order: %v", pos)
	}
}

func TestLookup_AllCompletionOrders(t *testing.T) {
	orders := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	terms := []string{"alpha", "beta", "gamma"}

	for _, order := range orders {
		client := newFakeClient()
		var gates []chan struct{}
		for i, term := range terms {
			client.page(term, int64(i+1))
			gates = append(gates, client.gate(term))
		}

		d := testDictionary(t, client)
		r := d.Lookup(context.Background(), terms[0], terms[1:])

		for _, idx := range order {
			close(gates[idx])
		}
		waitDone(t, r)

		pos := fragmentOrder(t, r, terms...)
		if !(pos[0] < pos[1] && pos[1] < pos[2]) {
			t.Errorf("completion order %v: fragments out of submission order: %v", order, pos)
		}
	}
}

func TestLookup_DeduplicatesRedirectedPages(t *testing.T) {
	client := newFakeClient()
	// Both spellings redirect to the same page identity.
	client.page("colour", 7)
	client.page("color", 7)

	d := testDictionary(t, client)
	r := d.Lookup(context.Background(), "colour", []string{"color"})
	waitDone(t, r)

	html := string(r.Snapshot())
	if got := strings.Count(html, `<div class="mwarticle">`); got != 1 {
		t.Errorf("expected exactly 1 article fragment, got %d:\n%s", got, html)
	}
}

func TestLookup_FailedTermDoesNotBlockSiblings(t *testing.T) {
	client := newFakeClient()
	client.page("alpha", 1)
	client.errs["beta"] = errors.New("connection refused")
	client.page("gamma", 3)

	d := testDictionary(t, client)
	r := d.Lookup(context.Background(), "alpha", []string{"beta", "gamma"})
	waitDone(t, r)

	pos := fragmentOrder(t, r, "alpha", "gamma")
	if !(pos[0] < pos[1]) {
		t.Errorf("surviving fragments out of order: %v", pos)
	}
	if !r.HasData() {
		t.Error("expected data despite one failed term")
	}
	if !strings.Contains(r.Err(), "connection refused") {
		t.Errorf("expected error string recorded, got %q", r.Err())
	}
}

func TestLookup_NotFoundIsSilent(t *testing.T) {
	client := newFakeClient()
	client.page("alpha", 1)
	// "missing" has no canned page: the fake yields ErrNotFound.

	d := testDictionary(t, client)
	r := d.Lookup(context.Background(), "alpha", []string{"missing"})
	waitDone(t, r)

	if r.Err() != "" {
		t.Errorf("not-found must not set the error string, got %q", r.Err())
	}
	if !r.HasData() {
		t.Error("expected primary term's data")
	}
}

func TestLookup_AllTermsFailed(t *testing.T) {
	client := newFakeClient()
	client.errs["alpha"] = errors.New("timeout A")
	client.errs["beta"] = errors.New("timeout B")

	d := testDictionary(t, client)
	r := d.Lookup(context.Background(), "alpha", []string{"beta"})
	waitDone(t, r)

	if r.HasData() {
		t.Error("expected no data")
	}
	if len(r.Snapshot()) != 0 {
		t.Error("expected empty buffer")
	}
	// Latest failure wins.
	if got := r.Err(); got != "timeout B" {
		t.Errorf("expected last error retained, got %q", got)
	}
}

func TestLookup_OversizedTermSkipsNetwork(t *testing.T) {
	client := newFakeClient()
	d := testDictionary(t, client)

	longWord := strings.Repeat("a", fetch.MaxTermLength+1)
	r := d.Lookup(context.Background(), longWord, []string{"alt"})
	waitDone(t, r)

	if got := client.calls.Load(); got != 0 {
		t.Errorf("expected no network operations, got %d", got)
	}
	if r.HasData() || len(r.Snapshot()) != 0 {
		t.Error("expected an empty result")
	}
	if r.Err() != "" {
		t.Errorf("oversized terms are not an error, got %q", r.Err())
	}
}

func TestLookup_CancelStopsBufferMutation(t *testing.T) {
	client := newFakeClient()
	var gates []chan struct{}
	for i, term := range []string{"alpha", "beta", "gamma"} {
		client.page(term, int64(i+1))
		gates = append(gates, client.gate(term))
	}

	d := testDictionary(t, client)
	r := d.Lookup(context.Background(), "alpha", []string{"beta", "gamma"})

	r.Cancel()
	waitDone(t, r)
	before := r.Snapshot()

	// Let the outstanding operations complete after cancellation.
	for _, g := range gates {
		close(g)
	}
	time.Sleep(50 * time.Millisecond)

	after := r.Snapshot()
	if string(before) != string(after) {
		t.Errorf("buffer mutated after cancel:\nbefore %q\nafter  %q", before, after)
	}
	if len(after) != 0 {
		t.Errorf("expected empty buffer after early cancel, got %q", after)
	}
}

func TestLookup_CancelIsIdempotent(t *testing.T) {
	client := newFakeClient()
	client.gate("alpha")

	d := testDictionary(t, client)
	r := d.Lookup(context.Background(), "alpha", nil)

	r.Cancel()
	r.Cancel() // second cancel must not panic or re-close Done
	waitDone(t, r)
}

func TestLookup_IncrementalUpdates(t *testing.T) {
	client := newFakeClient()
	client.page("alpha", 1)
	client.page("beta", 2)
	alphaGate := client.gate("alpha")
	betaGate := client.gate("beta")

	d := testDictionary(t, client)
	r := d.Lookup(context.Background(), "alpha", []string{"beta"})

	close(alphaGate)
	select {
	case <-r.Updates():
	case <-time.After(5 * time.Second):
		t.Fatal("no progress update after first term completed")
	}
	if !r.HasData() {
		t.Error("expected data after first update")
	}

	close(betaGate)
	waitDone(t, r)

	pos := fragmentOrder(t, r, "alpha", "beta")
	if !(pos[0] < pos[1]) {
		t.Errorf("fragments out of order: %v", pos)
	}
}
