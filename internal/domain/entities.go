package domain

import "time"

// Document is the result shape shared by every backend and by recipe results.
type Document struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Recipe is a hardcoded recipe record. Ingredient order is display order.
type Recipe struct {
	Title          string   `yaml:"title" json:"title"`
	ReadyInMinutes int      `yaml:"ready_in_minutes" json:"readyInMinutes"`
	Servings       int      `yaml:"servings" json:"servings"`
	Ingredients    []string `yaml:"ingredients" json:"ingredients"`
	Instructions   string   `yaml:"instructions" json:"instructions"`
}

type SourceFile struct {
	ID      string
	Path    string
	ModTime time.Time
}

type Chunk struct {
	ID        string
	FileID    string
	StartLine int
	EndLine   int
	Tokens    []string
	Text      string
}

type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

type Posting struct {
	ChunkID string
	TF      int
}

type Stats struct {
	TotalFiles  int
	TotalChunks int
	AvgChunkLen float64
}
