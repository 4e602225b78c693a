package serviceImp

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"eaadss/entities"
	"eaadss/pkg/kb/embedder"
	"eaadss/pkg/kb/repository"
	"eaadss/pkg/kb/service"
)

const (
	chunkRunes  = 1000
	maxKBCtxLen = 6000
)

type Svc struct {
	r     repository.KBRepository
	emb   *embedder.Client
	fetch *Fetcher
}

// New wires the store. emb may be nil, in which case search is keyword only.
func New(r repository.KBRepository, e *embedder.Client, f *Fetcher) service.KBService {
	return &Svc{r: r, emb: e, fetch: f}
}

// chunkText cuts after maxRunes at the next newline so paragraphs stay whole.
func chunkText(text string, maxRunes int) []string {
	if maxRunes <= 0 {
		maxRunes = chunkRunes
	}
	parts := []string{}
	cur := strings.Builder{}
	count := 0
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			parts = append(parts, s)
		}
		cur.Reset()
		count = 0
	}
	for _, r := range text {
		cur.WriteRune(r)
		count++
		if count >= maxRunes && r == '\n' {
			flush()
		}
	}
	flush()
	return parts
}

func (s *Svc) UpsertDocument(ctx context.Context, title, tags, text, sourceURL string) (*entities.KBDocument, int, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(text) == "" {
		return nil, 0, service.ErrEmptyDocument
	}
	d := &entities.KBDocument{Title: title, Tags: strings.TrimSpace(tags), SourceURL: sourceURL}

	chs := chunkText(text, chunkRunes)
	var embs [][]float32
	if s.emb != nil {
		var err error
		if embs, err = s.emb.Embed(ctx, chs); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("[kb] embedding failed, storing chunks without vectors")
			embs = nil
		}
	}

	rows := make([]entities.KBChunk, len(chs))
	for i := range chs {
		rows[i] = entities.KBChunk{Ord: i, Text: chs[i]}
		if embs != nil {
			rows[i].Embedding = embedder.FloatsToBytes(embs[i])
		}
	}
	if err := s.r.CreateDocWithChunks(d, rows); err != nil {
		return nil, 0, err
	}
	return d, len(rows), nil
}

func (s *Svc) IngestURL(ctx context.Context, rawURL, title, tags string) (*entities.KBDocument, int, error) {
	txt, pageTitle, err := s.fetch.MainText(ctx, rawURL)
	if err != nil {
		return nil, 0, err
	}
	if strings.TrimSpace(title) == "" {
		title = pageTitle
	}
	if strings.TrimSpace(title) == "" {
		title = rawURL
	}
	return s.UpsertDocument(ctx, title, tags, txt, rawURL)
}

func (s *Svc) Search(ctx context.Context, query string, k int) ([]entities.KBChunk, error) {
	q := strings.TrimSpace(query)
	if q == "" || k <= 0 {
		return nil, nil
	}

	var qvec []float32
	if s.emb != nil {
		if vec, err := s.emb.Embed(ctx, []string{q}); err == nil && len(vec) > 0 {
			qvec = vec[0]
		} else if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("[kb] query embedding failed, using keywords")
		}
	}

	chunks, err := s.r.AllChunks()
	if err != nil {
		return nil, err
	}

	type scored struct {
		ch entities.KBChunk
		sc float64
	}
	list := make([]scored, 0, len(chunks))
	if len(qvec) > 0 {
		for _, ch := range chunks {
			if sc := embedder.Cosine(qvec, embedder.BytesToFloats(ch.Embedding)); sc > 0 {
				list = append(list, scored{ch, sc})
			}
		}
	}
	// keyword scoring when there is no query vector or nothing was embedded
	if len(list) == 0 {
		terms := keywords(q)
		for _, ch := range chunks {
			if sc := keywordScore(terms, ch.Text); sc > 0 {
				list = append(list, scored{ch, sc})
			}
		}
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].sc > list[j].sc })
	if k > len(list) {
		k = len(list)
	}
	out := make([]entities.KBChunk, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, list[i].ch)
	}
	return out, nil
}

func keywords(q string) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(w)) < 3 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// keywordScore is the share of query terms present in text.
func keywordScore(terms []string, text string) float64 {
	if len(terms) == 0 {
		return 0
	}
	low := strings.ToLower(text)
	hits := 0
	for _, t := range terms {
		if strings.Contains(low, t) {
			hits++
		}
	}
	return float64(hits) / float64(len(terms))
}

func (s *Svc) DocsMeta(ids []uint) (map[uint]entities.KBDocument, error) {
	return s.r.DocsByIDs(ids)
}

func (s *Svc) ListDocs() ([]entities.KBDocument, error) { return s.r.ListDocs() }

func (s *Svc) Articles(ctx context.Context, query string, k int) ([]entities.ArticleRef, string, error) {
	chunks, err := s.Search(ctx, query, k*3)
	if err != nil || len(chunks) == 0 {
		return nil, "", err
	}
	ids := uniqueDocIDs(chunks)
	meta, err := s.r.DocsByIDs(ids)
	if err != nil {
		return nil, "", err
	}

	var sb strings.Builder
	for _, ch := range chunks {
		if sb.Len() > maxKBCtxLen {
			break
		}
		if t := meta[ch.DocID].Title; t != "" {
			sb.WriteString(t)
			sb.WriteString("\n")
		}
		sb.WriteString(ch.Text)
		sb.WriteString("\n---\n")
	}

	refs := make([]entities.ArticleRef, 0, k)
	for _, id := range ids {
		if len(refs) == k {
			break
		}
		if d, ok := meta[id]; ok {
			refs = append(refs, entities.ArticleRef{Title: d.Title, URL: d.SourceURL})
		}
	}
	return refs, sb.String(), nil
}

func uniqueDocIDs(chs []entities.KBChunk) []uint {
	seen := map[uint]struct{}{}
	var ids []uint
	for _, ch := range chs {
		if _, ok := seen[ch.DocID]; !ok {
			seen[ch.DocID] = struct{}{}
			ids = append(ids, ch.DocID)
		}
	}
	return ids
}
