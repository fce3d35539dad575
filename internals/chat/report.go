package chat

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jadenj13/courier/internals/llm"
)

// Sink is an incremental text destination. Flush must make everything
// written so far visible to the consumer.
type Sink interface {
	io.StringWriter
	Flush() error
}

// NewWriterSink wraps any writer as a Sink.
func NewWriterSink(w io.Writer) Sink {
	return bufio.NewWriter(w)
}

// Stdout returns a sink over the process's standard output.
func Stdout() Sink {
	return NewWriterSink(os.Stdout)
}

// SinkError wraps a failure writing to the sink. Sink failures are
// never retried: a retried write risks duplicating output the consumer
// already saw.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string { return fmt.Sprintf("sink write: %v", e.Err) }
func (e *SinkError) Unwrap() error { return e.Err }

// Reporter drains streams into a sink, chunk by chunk.
type Reporter struct {
	sink Sink
	log  *slog.Logger
}

func NewReporter(sink Sink, log *slog.Logger) *Reporter {
	return &Reporter{sink: sink, log: log}
}

// Report writes every non-empty chunk to the sink as it arrives,
// flushing after each so partial output is visible immediately. Chunks
// with empty content are skipped. On normal completion the output is
// terminated with exactly one line break; if the stream ends with an
// error, the error is returned and no terminator is written. Report
// owns the stream and closes it before returning, whatever the
// outcome.
func (r *Reporter) Report(stream llm.Stream) error {
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if chunk.Content == "" {
			continue
		}
		if err := r.write(chunk.Content); err != nil {
			return err
		}
	}

	if err := stream.Err(); err != nil {
		return err
	}
	return r.write("\n")
}

func (r *Reporter) write(s string) error {
	if _, err := r.sink.WriteString(s); err != nil {
		r.log.Error("sink write failed", "err", err)
		return &SinkError{Err: err}
	}
	if err := r.sink.Flush(); err != nil {
		r.log.Error("sink flush failed", "err", err)
		return &SinkError{Err: err}
	}
	return nil
}
