package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/fystack/solana-account-fetcher/internal/batch"
	"github.com/fystack/solana-account-fetcher/pkg/common/enum"
	"github.com/goccy/go-yaml"
)

// New returns a batch.Sink writing reports to w in the given format.
func New(format enum.OutputFormat, w io.Writer, noColor bool) (batch.Sink, error) {
	switch format {
	case enum.OutputText, "":
		return NewText(w, noColor), nil
	case enum.OutputJSON:
		return &jsonRenderer{enc: json.NewEncoder(w)}, nil
	case enum.OutputYAML:
		return &yamlRenderer{w: w}, nil
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

// jsonRenderer writes one object per line.
type jsonRenderer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func (r *jsonRenderer) Write(_ context.Context, rep batch.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(NewDocument(rep))
}

// yamlRenderer separates documents with "---".
type yamlRenderer struct {
	mu    sync.Mutex
	w     io.Writer
	count int
}

func (r *yamlRenderer) Write(_ context.Context, rep batch.Report) error {
	out, err := yaml.Marshal(NewDocument(rep))
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count > 0 {
		if _, err := io.WriteString(r.w, "---\n"); err != nil {
			return err
		}
	}
	r.count++
	_, err = r.w.Write(out)
	return err
}
