package service

import (
	"context"
	"errors"

	"eaadss/entities"
)

var (
	ErrDomainNotAllowed = errors.New("domain not allowed")
	ErrEmptyDocument    = errors.New("title and text are required")
	ErrFetch            = errors.New("fetch failed")
)

type KBService interface {
	UpsertDocument(ctx context.Context, title, tags, text, sourceURL string) (*entities.KBDocument, int, error)
	// IngestURL fetches an allow-listed page and stores its main text.
	IngestURL(ctx context.Context, rawURL, title, tags string) (*entities.KBDocument, int, error)
	Search(ctx context.Context, query string, k int) ([]entities.KBChunk, error)
	DocsMeta(ids []uint) (map[uint]entities.KBDocument, error)
	ListDocs() ([]entities.KBDocument, error)
	// Articles returns up to k distinct documents matching query, best first.
	Articles(ctx context.Context, query string, k int) ([]entities.ArticleRef, string, error)
}
