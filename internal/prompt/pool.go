// Package prompt holds the canned review texts offered to visitors and the
// sampler behind the "show more" button.
package prompt

import "fmt"

// DefaultPoolSize matches the number of options shown in the review modal pool.
const DefaultPoolSize = 50

var cannedReviews = [...]string{
	"Amazing experience! The staff was super friendly and professional.",
	"Highly recommended! Great service and a wonderful atmosphere.",
	"Loved it! Fast, efficient, and very courteous team.",
	"Best experience ever! I'll definitely come again.",
	"Outstanding service and attention to detail.",
	"Affordable, clean, and well-organized. Great job!",
	"Superb quality and excellent behavior of the staff.",
	"One of the best businesses in town. Keep it up!",
	"Really impressed by the quick response and service quality.",
	"Everything was perfect from start to finish!",
}

// Prompt is one entry of the pool. IDs are 1-based positions.
type Prompt struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Pool is an ordered, read-only sequence of prompts.
type Pool []Prompt

// NewPool fills size entries by cycling through the canned reviews.
func NewPool(size int) (Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("prompt pool size must be positive, got %d", size)
	}
	pool := make(Pool, size)
	for i := range pool {
		pool[i] = Prompt{ID: i + 1, Text: cannedReviews[i%len(cannedReviews)]}
	}
	return pool, nil
}

// DefaultPool returns a pool of DefaultPoolSize entries.
func DefaultPool() Pool {
	pool, _ := NewPool(DefaultPoolSize)
	return pool
}

// Lookup returns the prompt with the given ID.
func (p Pool) Lookup(id int) (Prompt, bool) {
	if id < 1 || id > len(p) {
		return Prompt{}, false
	}
	return p[id-1], true
}
