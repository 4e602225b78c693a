package kb_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eaadss/database"
	"eaadss/pkg/kb/controllerImp"
	"eaadss/pkg/kb/embedder"
	"eaadss/pkg/kb/repositoryImp"
	"eaadss/pkg/kb/service"
	"eaadss/pkg/kb/serviceImp"
)

const page = `<html><head><title>Flooded Rice in the EAA</title></head>
<body><nav><li>Home</li></nav>
<article><h1>Flooded rice rotation</h1>
<p>Summer flooding slows subsidence of organic soils.</p>
<ul><li>Plant after sugarcane harvest</li></ul></article></body></html>`

func newKB(t *testing.T, emb *embedder.Client, allowed ...string) service.KBService {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	return serviceImp.New(repositoryImp.New(db), emb, serviceImp.NewFetcher(allowed, 0))
}

func TestKeywordSearchAndArticles(t *testing.T) {
	ctx := context.Background()
	kb := newKB(t, nil)

	_, n, err := kb.UpsertDocument(ctx, "Sugarcane BMPs", "sugarcane", "Green cane harvesting keeps residue on organic soil.", "https://edis.ifas.ufl.edu/sc")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, _, err = kb.UpsertDocument(ctx, "Cover crops", "cover", "Sunn hemp adds organic matter and nitrogen.", "")
	require.NoError(t, err)
	_, _, err = kb.UpsertDocument(ctx, "Lettuce", "veg", "Lettuce needs a shallow water table.", "")
	require.NoError(t, err)

	_, _, err = kb.UpsertDocument(ctx, " ", "", "text", "")
	assert.ErrorIs(t, err, service.ErrEmptyDocument)

	chunks, err := kb.Search(ctx, "organic soil sugarcane", 5)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0].Text, "Green cane")

	refs, kbCtx, err := kb.Articles(ctx, "organic soil sugarcane", 1)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Sugarcane BMPs", refs[0].Title)
	assert.Equal(t, "https://edis.ifas.ufl.edu/sc", refs[0].URL)
	assert.Contains(t, kbCtx, "Green cane")

	refs, _, err = kb.Articles(ctx, "zzz", 5)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestVectorSearch(t *testing.T) {
	// "rice" points along x, everything else along y
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Input []string `json:"input"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		data := make([]map[string]any, len(body.Input))
		for i, in := range body.Input {
			v := []float32{0, 1}
			if bytes.Contains(bytes.ToLower([]byte(in)), []byte("rice")) {
				v = []float32{1, 0}
			}
			data[i] = map[string]any{"embedding": v}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer srv.Close()

	ctx := context.Background()
	kb := newKB(t, embedder.New(srv.URL, "", "test"))
	_, _, err := kb.UpsertDocument(ctx, "Corn", "", "Sweet corn fertility.", "")
	require.NoError(t, err)
	_, _, err = kb.UpsertDocument(ctx, "Rice", "", "Flooded rice water management.", "")
	require.NoError(t, err)

	chunks, err := kb.Search(ctx, "rice", 1)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, "Flooded rice")
}

func TestIngestURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	ctx := context.Background()
	kb := newKB(t, nil, u.Host)

	doc, n, err := kb.IngestURL(ctx, srv.URL+"/rice", "", "rice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "Flooded Rice in the EAA", doc.Title)

	chunks, err := kb.Search(ctx, "subsidence", 3)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, "Plant after sugarcane harvest")
	assert.NotContains(t, chunks[0].Text, "Home")

	_, _, err = kb.IngestURL(ctx, "https://example.com/x", "", "")
	assert.ErrorIs(t, err, service.ErrDomainNotAllowed)
}

func TestIngestURLRedirects(t *testing.T) {
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("SECRET internal metadata"))
	}))
	defer internal.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/rice", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/rice", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/escape", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, internal.URL+"/latest/meta-data", http.StatusFound)
	})
	public := httptest.NewServer(mux)
	defer public.Close()
	u, err := url.Parse(public.URL)
	require.NoError(t, err)

	ctx := context.Background()
	kb := newKB(t, nil, u.Host)

	doc, _, err := kb.IngestURL(ctx, public.URL+"/moved", "", "")
	require.NoError(t, err, "redirects within the allowed host are followed")
	assert.Equal(t, "Flooded Rice in the EAA", doc.Title)

	_, _, err = kb.IngestURL(ctx, public.URL+"/escape", "", "")
	require.ErrorIs(t, err, service.ErrDomainNotAllowed)

	f := serviceImp.NewFetcher([]string{u.Host}, 0)
	text, _, err := f.MainText(ctx, public.URL+"/escape")
	assert.ErrorIs(t, err, service.ErrDomainNotAllowed)
	assert.Empty(t, text)

	docs, err := kb.ListDocs()
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestKBEndpoints(t *testing.T) {
	e := echo.New()
	ctrl := controllerImp.New(newKB(t, nil))
	e.POST("/kb/text", ctrl.IngestText)
	e.POST("/kb/url", ctrl.IngestURL)
	e.GET("/kb/search", ctrl.Search)
	e.GET("/kb/docs", ctrl.ListDocs)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/kb/text", `{"title":"Water table","text":"Keep the water table high to slow subsidence.","source_url":"https://erec.ifas.ufl.edu/wt"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(http.MethodPost, "/kb/text", `{"title":"","text":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodPost, "/kb/url", `{"url":"https://example.com/"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(http.MethodGet, "/kb/search?q=subsidence", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"doc_title":"Water table"`)

	rec = do(http.MethodGet, "/kb/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodGet, "/kb/docs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Water table")
}
