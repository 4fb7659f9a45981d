package report

import (
	"io"

	"github.com/nao1215/seolens/internal/model"
)

// Writer renders crawl outcomes.
type Writer interface {
	// Write renders a successful crawl.
	Write(result *model.Result) (int, error)

	// WriteFailure renders a failed crawl.
	WriteFailure(failure *Failure) (int, error)
}

// WriteCrawl renders crawl with w, choosing Write or WriteFailure.
func WriteCrawl(w Writer, crawl *model.Crawl) (int, error) {
	if crawl.Err != nil || crawl.Result == nil {
		return w.WriteFailure(NewFailure(crawl))
	}
	return w.Write(crawl.Result)
}

// MultiWriter writes to several Writers and stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all writers in order.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders result with every writer.
func (m *MultiWriter) Write(result *model.Result) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteFailure renders failure with every writer.
func (m *MultiWriter) WriteFailure(failure *Failure) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteFailure(failure)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
