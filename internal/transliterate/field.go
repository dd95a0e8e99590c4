package transliterate

import (
	"context"
	"strings"
	"sync"
)

// Field is an input that keeps a Latin draft and its Tamil rendering in
// step. Every edit replaces the in-flight request; only the response to the
// most recent edit is ever applied.
type Field struct {
	tr Transliterator

	mu       sync.Mutex
	latin    string
	native   string
	seq      uint64
	cancel   context.CancelFunc
	onChange func(latin, native string)
	lastErr  error

	wg sync.WaitGroup
}

// NewField creates a field backed by tr.
func NewField(tr Transliterator) *Field {
	return &Field{tr: tr}
}

// OnChange registers fn to be called whenever the native value is replaced.
func (f *Field) OnChange(fn func(latin, native string)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// SetLatin records the full Latin buffer and requests its transliteration.
// Blank input clears the native value immediately.
func (f *Field) SetLatin(ctx context.Context, text string) {
	f.mu.Lock()
	f.seq++
	tag := f.seq
	f.latin = text
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}

	if strings.TrimSpace(text) == "" {
		f.native = ""
		fn := f.onChange
		f.mu.Unlock()
		if fn != nil {
			fn(text, "")
		}
		return
	}

	reqCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.wg.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()
		defer cancel()

		out, err := f.tr.Transliterate(reqCtx, text)
		f.apply(tag, text, out, err)
	}()
}

func (f *Field) apply(tag uint64, latin, native string, err error) {
	f.mu.Lock()
	if tag != f.seq {
		f.mu.Unlock()
		return
	}
	f.cancel = nil
	if err != nil {
		// Keep the previous rendering.
		f.lastErr = err
		f.mu.Unlock()
		return
	}
	f.lastErr = nil
	f.native = native
	fn := f.onChange
	f.mu.Unlock()

	if fn != nil {
		fn(latin, native)
	}
}

// Clear empties both values and drops any in-flight response.
func (f *Field) Clear() {
	f.SetLatin(context.Background(), "")
}

// Latin returns the current draft.
func (f *Field) Latin() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latin
}

// Native returns the committed Tamil value.
func (f *Field) Native() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.native
}

// Err returns the error of the latest request, if it failed.
func (f *Field) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Wait blocks until every issued request has returned.
func (f *Field) Wait() {
	f.wg.Wait()
}

// Close cancels the in-flight request and waits for all requests to return.
func (f *Field) Close() {
	f.mu.Lock()
	f.seq++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mu.Unlock()
	f.wg.Wait()
}
