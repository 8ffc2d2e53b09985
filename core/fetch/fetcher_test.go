package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gaurav-prasanna/wikipipe/core"
)

const articleEnvelope = `<?xml version="1.0"?>
<api>
  <parse title="Dog" pageid="4269567" revid="81383689">
    <text xml:space="preserve">&lt;p&gt;The &lt;b&gt;dog&lt;/b&gt; is a domesticated canid.&lt;/p&gt;</text>
    <sections>
      <s toclevel="1" level="2" line="Etymology" number="1" anchor="Etymology" linkAnchor="Etymology"/>
      <s toclevel="2" level="3" line="Breeds" number="1.1" anchor="Breeds" linkAnchor="Breeds"/>
    </sections>
  </parse>
</api>`

func TestFetchArticle(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/w/api.php" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotQuery = flatten(r)
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(articleEnvelope))
	}))
	defer srv.Close()

	c := New()
	page, err := c.FetchArticle(context.Background(), srv.URL+"/w", "dog")
	if err != nil {
		t.Fatalf("FetchArticle: %v", err)
	}

	wantQuery := map[string]string{
		"action":    "parse",
		"prop":      "text|revid|sections",
		"format":    "xml",
		"redirects": "",
		"page":      "dog",
	}
	if !reflect.DeepEqual(gotQuery, wantQuery) {
		t.Errorf("query parameters = %v, want %v", gotQuery, wantQuery)
	}

	if page.PageID != 4269567 {
		t.Errorf("PageID = %d, want 4269567", page.PageID)
	}
	if page.RevID != "81383689" {
		t.Errorf("RevID = %q, want 81383689", page.RevID)
	}
	if want := "<p>The <b>dog</b> is a domesticated canid.</p>"; page.HTML != want {
		t.Errorf("HTML = %q, want %q", page.HTML, want)
	}

	wantSections := []core.Section{
		{TOCLevel: "1", Anchor: "Etymology", LinkAnchor: "Etymology", Number: "1", Line: "Etymology"},
		{TOCLevel: "2", Anchor: "Breeds", LinkAnchor: "Breeds", Number: "1.1", Line: "Breeds"},
	}
	if !reflect.DeepEqual(page.Sections, wantSections) {
		t.Errorf("Sections = %+v, want %+v", page.Sections, wantSections)
	}
}

func TestFetchArticle_NotFound(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing parse node", `<?xml version="1.0"?><api><error code="missingtitle"/></api>`},
		{"zero revision sentinel", `<?xml version="1.0"?><api><parse pageid="0" revid="0"><text/></parse></api>`},
		{"absent revision", `<?xml version="1.0"?><api><parse pageid="12"><text/></parse></api>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New().FetchArticle(context.Background(), srv.URL+"/w", "missing")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestFetchArticle_MalformedXML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><api><parse revid="1"`))
	}))
	defer srv.Close()

	_, err := New().FetchArticle(context.Background(), srv.URL+"/w", "dog")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if !strings.HasPrefix(perr.Error(), "XML parse error:") {
		t.Errorf("unexpected error text %q", perr.Error())
	}
}

func TestFetchArticle_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New().FetchArticle(context.Background(), srv.URL+"/w", "dog")
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("err = %v, want status error", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("transport failures must stay distinct from not-found")
	}
}

func TestPrefixSearch(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = flatten(r)
		w.Write([]byte(`<?xml version="1.0"?>
<api>
  <query>
    <allpages>
      <p pageid="1" ns="0" title="Dog"/>
      <p pageid="2" ns="0" title="Dogma"/>
      <p pageid="3" ns="0" title="Dogwood"/>
    </allpages>
  </query>
</api>`))
	}))
	defer srv.Close()

	titles, err := New().PrefixSearch(context.Background(), srv.URL+"/w", "Dog")
	if err != nil {
		t.Fatalf("PrefixSearch: %v", err)
	}

	wantQuery := map[string]string{
		"action":  "query",
		"list":    "allpages",
		"aplimit": "40",
		"format":  "xml",
		"apfrom":  "Dog",
	}
	if !reflect.DeepEqual(gotQuery, wantQuery) {
		t.Errorf("query parameters = %v, want %v", gotQuery, wantQuery)
	}
	if want := []string{"Dog", "Dogma", "Dogwood"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("titles = %v, want %v", titles, want)
	}
}

func TestPrefixSearch_OversizedPrefixSkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	long := strings.Repeat("x", MaxTermLength+1)
	titles, err := New().PrefixSearch(context.Background(), srv.URL+"/w", long)
	if err != nil {
		t.Fatalf("PrefixSearch: %v", err)
	}
	if titles != nil {
		t.Errorf("titles = %v, want none", titles)
	}
}

func flatten(r *http.Request) map[string]string {
	out := make(map[string]string)
	for k, vs := range r.URL.Query() {
		out[k] = vs[0]
	}
	return out
}
