package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Fanout delivers each event to every sink concurrently.
type Fanout struct {
	sinks []Publisher
}

// NewFanout drops nil entries from pubs.
func NewFanout(pubs []Publisher) *Fanout {
	sinks := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			sinks = append(sinks, p)
		}
	}
	return &Fanout{sinks: sinks}
}

// Publish sends evt to all sinks and waits for them. It reports how many
// accepted the event; failures are joined in sink order.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f.Size() == 0 {
		return 0, nil
	}

	results := make([]error, len(f.sinks))
	var wg sync.WaitGroup
	for i, p := range f.sinks {
		wg.Add(1)
		go func(i int, p Publisher) {
			defer wg.Done()
			if err := p.Publish(ctx, evt); err != nil {
				results[i] = fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err)
			}
		}(i, p)
	}
	wg.Wait()

	delivered := 0
	for _, err := range results {
		if err == nil {
			delivered++
		}
	}
	return delivered, errors.Join(results...)
}

// Size returns the number of sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Close closes every sink that implements io.Closer.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, p := range f.sinks {
		c, ok := p.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
		}
	}
	return errors.Join(errs...)
}
