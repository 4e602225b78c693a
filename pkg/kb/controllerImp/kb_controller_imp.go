package controllerImp

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"eaadss/pkg/kb/controller"
	"eaadss/pkg/kb/service"
)

type KBCtrl struct{ s service.KBService }

func New(s service.KBService) controller.KBController { return &KBCtrl{s: s} }

type ingestReq struct {
	Title     string  `json:"title"`
	Tags      string  `json:"tags"`
	Text      string  `json:"text"`
	SourceURL *string `json:"source_url"`
}

func (h *KBCtrl) IngestText(c echo.Context) error {
	var req ingestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json: " + err.Error()})
	}
	src := ""
	if req.SourceURL != nil {
		src = strings.TrimSpace(*req.SourceURL)
	}
	doc, n, err := h.s.UpsertDocument(c.Request().Context(), req.Title, req.Tags, req.Text, src)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"doc": doc, "chunks": n})
}

func (h *KBCtrl) IngestURL(c echo.Context) error {
	var body struct {
		URL   string `json:"url"`
		Tags  string `json:"tags"`
		Title string `json:"title"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.URL) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url required"})
	}
	doc, n, err := h.s.IngestURL(c.Request().Context(), strings.TrimSpace(body.URL), body.Title, body.Tags)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"doc": doc, "chunks": n})
}

func (h *KBCtrl) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "q required"})
	}
	k := 6
	if v, err := strconv.Atoi(c.QueryParam("k")); err == nil && v > 0 && v <= 50 {
		k = v
	}

	chunks, err := h.s.Search(c.Request().Context(), q, k)
	if err != nil {
		return fail(c, err)
	}
	ids := make([]uint, 0, len(chunks))
	for _, ch := range chunks {
		ids = append(ids, ch.DocID)
	}
	meta, err := h.s.DocsMeta(ids)
	if err != nil {
		return fail(c, err)
	}

	type outChunk struct {
		ChunkID   uint   `json:"chunk_id"`
		DocID     uint   `json:"doc_id"`
		Ord       int    `json:"ord"`
		Text      string `json:"text"`
		DocTitle  string `json:"doc_title,omitempty"`
		SourceURL string `json:"source_url,omitempty"`
	}
	out := make([]outChunk, 0, len(chunks))
	for _, ch := range chunks {
		oc := outChunk{ChunkID: ch.ChunkID, DocID: ch.DocID, Ord: ch.Ord, Text: ch.Text}
		if d, ok := meta[ch.DocID]; ok {
			oc.DocTitle = d.Title
			oc.SourceURL = d.SourceURL
		}
		out = append(out, oc)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *KBCtrl) ListDocs(c echo.Context) error {
	ds, err := h.s.ListDocs()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ds)
}

func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrEmptyDocument):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrDomainNotAllowed):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrFetch):
		status = http.StatusBadGateway
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
