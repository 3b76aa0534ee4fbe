package notes

import (
	"sync"
)

// Lazy builds a value on first use and returns the same value, or the same
// error, to every later caller. It is safe for concurrent use.
type Lazy[T any] struct {
	once  sync.Once
	build func() (T, error)
	value T
	err   error
}

// NewLazy returns a Lazy that calls build at most once.
func NewLazy[T any](build func() (T, error)) *Lazy[T] {
	return &Lazy[T]{build: build}
}

// Ready returns a Lazy holding an already built value.
func Ready[T any](v T) *Lazy[T] {
	return NewLazy(func() (T, error) { return v, nil })
}

// Get builds the value if needed and returns it.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		l.value, l.err = l.build()
	})
	return l.value, l.err
}

// Deps holds the collaborators of the pipeline. It is built once at process
// start and shared by every Process call. The model handles are lazy so that a
// run which never needs them never pays for their construction.
type Deps struct {
	Annotator  Annotator
	Summarizer *Lazy[SummarizationModel]
	// Sentiment may be nil, in which case every topic is neutral.
	Sentiment *Lazy[SentimentClassifier]
}
