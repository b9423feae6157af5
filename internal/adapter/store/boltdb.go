package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	"reciperag/internal/domain"
)

var (
	bucketFiles      = []byte("files")
	bucketChunks     = []byte("chunks")
	bucketBlobs      = []byte("blobs")
	bucketTerms      = []byte("terms")
	bucketMeta       = []byte("meta")
	bucketFileChunks = []byte("file_chunks")

	keyStats       = []byte("corpus_stats")
	keyFingerprint = []byte("fingerprint")

	allBuckets = [][]byte{bucketFiles, bucketChunks, bucketBlobs, bucketTerms, bucketMeta, bucketFileChunks}
)

// BoltStore is a port.IndexStore persisted in a single bbolt file.
// Chunk metadata and chunk text live in separate buckets so postings
// scans never decode text.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	if err := db.Update(createBuckets); err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func createBuckets(tx *bbolt.Tx) error {
	for _, b := range allBuckets {
		if _, err := tx.CreateBucketIfNotExists(b); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", b, err)
		}
	}
	return nil
}

type fileMeta struct {
	Path    string `json:"path"`
	ModTime int64  `json:"mod_time"`
}

type chunkMeta struct {
	FileID    string   `json:"file_id"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
	Tokens    []string `json:"tokens"`
}

func (s *BoltStore) PutFile(file domain.SourceFile) error {
	data, err := json.Marshal(fileMeta{Path: file.Path, ModTime: file.ModTime.Unix()})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFiles).Put([]byte(file.ID), data)
	})
}

func (s *BoltStore) GetFile(id string) (domain.SourceFile, error) {
	var file domain.SourceFile
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketFiles).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("file not found: %s", id)
		}
		var meta fileMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		file = domain.SourceFile{ID: id, Path: meta.Path, ModTime: time.Unix(meta.ModTime, 0)}
		return nil
	})
	return file, err
}

func (s *BoltStore) DeleteFile(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFiles).Delete([]byte(id))
	})
}

func (s *BoltStore) ListFiles() ([]domain.SourceFile, error) {
	var files []domain.SourceFile
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFiles).ForEach(func(k, v []byte) error {
			var meta fileMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			files = append(files, domain.SourceFile{
				ID:      string(k),
				Path:    meta.Path,
				ModTime: time.Unix(meta.ModTime, 0),
			})
			return nil
		})
	})
	return files, err
}

func (s *BoltStore) PutChunk(chunk domain.Chunk) error {
	data, err := json.Marshal(chunkMeta{
		FileID:    chunk.FileID,
		StartLine: chunk.StartLine,
		EndLine:   chunk.EndLine,
		Tokens:    chunk.Tokens,
	})
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketChunks).Put([]byte(chunk.ID), data); err != nil {
			return err
		}
		if err := tx.Bucket(bucketBlobs).Put([]byte(chunk.ID), []byte(chunk.Text)); err != nil {
			return err
		}

		fc := tx.Bucket(bucketFileChunks)
		ids, err := decodeIDs(fc.Get([]byte(chunk.FileID)))
		if err != nil {
			return err
		}
		for _, id := range ids {
			if id == chunk.ID {
				return nil
			}
		}
		return putJSON(fc, []byte(chunk.FileID), append(ids, chunk.ID))
	})
}

func (s *BoltStore) GetChunk(id string) (domain.Chunk, error) {
	var chunk domain.Chunk
	err := s.db.View(func(tx *bbolt.Tx) error {
		c, ok, err := readChunk(tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("chunk not found: %s", id)
		}
		chunk = c
		return nil
	})
	return chunk, err
}

func (s *BoltStore) GetChunksByFile(fileID string) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	err := s.db.View(func(tx *bbolt.Tx) error {
		ids, err := decodeIDs(tx.Bucket(bucketFileChunks).Get([]byte(fileID)))
		if err != nil {
			return err
		}
		for _, id := range ids {
			c, ok, err := readChunk(tx, id)
			if err != nil {
				return err
			}
			if ok {
				chunks = append(chunks, c)
			}
		}
		return nil
	})
	return chunks, err
}

func (s *BoltStore) DeleteChunksByFile(fileID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		fc := tx.Bucket(bucketFileChunks)
		ids, err := decodeIDs(fc.Get([]byte(fileID)))
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := tx.Bucket(bucketChunks).Delete([]byte(id)); err != nil {
				return err
			}
			if err := tx.Bucket(bucketBlobs).Delete([]byte(id)); err != nil {
				return err
			}
		}
		return fc.Delete([]byte(fileID))
	})
}

func (s *BoltStore) PutPosting(term string, chunkID string, tf int) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketTerms)
		postings, err := decodePostings(b.Get([]byte(term)))
		if err != nil {
			return err
		}

		for i := range postings {
			if postings[i].ChunkID == chunkID {
				postings[i].TF = tf
				return putJSON(b, []byte(term), postings)
			}
		}
		return putJSON(b, []byte(term), append(postings, domain.Posting{ChunkID: chunkID, TF: tf}))
	})
}

func (s *BoltStore) GetPostings(term string) ([]domain.Posting, error) {
	var postings []domain.Posting
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		postings, err = decodePostings(tx.Bucket(bucketTerms).Get([]byte(term)))
		return err
	})
	return postings, err
}

func (s *BoltStore) DeletePostings(chunkID string, terms []string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketTerms)
		for _, term := range terms {
			postings, err := decodePostings(b.Get([]byte(term)))
			if err != nil {
				return err
			}

			kept := postings[:0]
			for _, p := range postings {
				if p.ChunkID != chunkID {
					kept = append(kept, p)
				}
			}

			if len(kept) == 0 {
				err = b.Delete([]byte(term))
			} else {
				err = putJSON(b, []byte(term), kept)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) GetStats() (domain.Stats, error) {
	var stats domain.Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyStats)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &stats)
	})
	return stats, err
}

func (s *BoltStore) UpdateStats(stats domain.Stats) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return putJSON(tx.Bucket(bucketMeta), keyStats, stats)
	})
}

// Fingerprint returns the settings hash the index was built with, or "".
func (s *BoltStore) Fingerprint() (string, error) {
	var fp string
	err := s.db.View(func(tx *bbolt.Tx) error {
		fp = string(tx.Bucket(bucketMeta).Get(keyFingerprint))
		return nil
	})
	return fp, err
}

func (s *BoltStore) SetFingerprint(fp string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keyFingerprint, []byte(fp))
	})
}

// Clear drops every bucket and recreates them empty.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets {
			if err := tx.DeleteBucket(b); err != nil && err != bbolt.ErrBucketNotFound {
				return fmt.Errorf("failed to delete bucket %s: %w", b, err)
			}
		}
		return createBuckets(tx)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func readChunk(tx *bbolt.Tx, id string) (domain.Chunk, bool, error) {
	data := tx.Bucket(bucketChunks).Get([]byte(id))
	if data == nil {
		return domain.Chunk{}, false, nil
	}
	var meta chunkMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return domain.Chunk{}, false, err
	}
	text := tx.Bucket(bucketBlobs).Get([]byte(id))
	return domain.Chunk{
		ID:        id,
		FileID:    meta.FileID,
		StartLine: meta.StartLine,
		EndLine:   meta.EndLine,
		Tokens:    meta.Tokens,
		Text:      string(text),
	}, true, nil
}

func decodeIDs(data []byte) ([]string, error) {
	if data == nil {
		return nil, nil
	}
	var ids []string
	err := json.Unmarshal(data, &ids)
	return ids, err
}

func decodePostings(data []byte) ([]domain.Posting, error) {
	if data == nil {
		return nil, nil
	}
	var postings []domain.Posting
	err := json.Unmarshal(data, &postings)
	return postings, err
}

func putJSON(b *bbolt.Bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(key, data)
}
