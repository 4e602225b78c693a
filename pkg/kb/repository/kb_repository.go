package repository

import "eaadss/entities"

type KBRepository interface {
	// CreateDocWithChunks stores the document and its chunks atomically,
	// setting DocID on every chunk.
	CreateDocWithChunks(d *entities.KBDocument, cs []entities.KBChunk) error
	ListDocs() ([]entities.KBDocument, error)
	AllChunks() ([]entities.KBChunk, error)
	DocsByIDs(ids []uint) (map[uint]entities.KBDocument, error)
}
