package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"reciperag/internal/domain"
	"reciperag/internal/port"
)

// LineChunker splits a file into windows of whole lines, each holding at most
// maxTokens estimated tokens (a single oversized line still forms a chunk).
// Consecutive windows share about overlap tokens worth of trailing lines.
type LineChunker struct {
	maxTokens int
	overlap   int
	tokenizer port.Tokenizer
}

func NewLineChunker(maxTokens, overlap int, tokenizer port.Tokenizer) *LineChunker {
	return &LineChunker{
		maxTokens: maxTokens,
		overlap:   overlap,
		tokenizer: tokenizer,
	}
}

func (c *LineChunker) Chunk(file domain.SourceFile, content string) ([]domain.Chunk, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	var chunks []domain.Chunk
	for start := 0; start < len(lines); {
		end := c.windowEnd(lines, start)

		text := strings.Join(lines[start:end], "\n")
		if strings.TrimSpace(text) != "" {
			chunks = append(chunks, domain.Chunk{
				ID:        chunkID(file.ID, start, end),
				FileID:    file.ID,
				StartLine: start + 1,
				EndLine:   end,
				Tokens:    c.tokenizer.Tokenize(text),
				Text:      text,
			})
		}

		if end == len(lines) {
			break
		}
		next := end - c.overlapLines(lines, start, end)
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks, nil
}

// windowEnd returns the exclusive end of the window starting at start.
func (c *LineChunker) windowEnd(lines []string, start int) int {
	tokens := 0
	end := start
	for end < len(lines) {
		n := c.tokenizer.CountTokens(lines[end])
		if end > start && tokens+n > c.maxTokens {
			break
		}
		tokens += n
		end++
	}
	return end
}

func (c *LineChunker) overlapLines(lines []string, start, end int) int {
	if c.overlap <= 0 {
		return 0
	}
	n, tokens := 0, 0
	for i := end - 1; i > start && tokens < c.overlap; i-- {
		tokens += c.tokenizer.CountTokens(lines[i])
		n++
	}
	return n
}

func chunkID(fileID string, start, end int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s:%d-%d", fileID, start, end)))
	return hex.EncodeToString(hash[:8])
}
