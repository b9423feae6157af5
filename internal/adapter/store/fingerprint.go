package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"reciperag/config"
)

// schemaVersion is bumped whenever the on-disk layout changes.
const schemaVersion = 1

// ComputeFingerprint hashes the settings that shape stored chunks and
// postings. A changed fingerprint means the index must be rebuilt.
func ComputeFingerprint(cfg config.IndexConfig) string {
	relevant := struct {
		Schema       int `json:"schema"`
		ChunkTokens  int `json:"chunk_tokens"`
		ChunkOverlap int `json:"chunk_overlap"`
	}{
		Schema:       schemaVersion,
		ChunkTokens:  cfg.ChunkTokens,
		ChunkOverlap: cfg.ChunkOverlap,
	}
	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
