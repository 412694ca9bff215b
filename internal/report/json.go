package report

import (
	"encoding/json"
	"io"

	"github.com/hyperifyio/pagedeps/internal/aggregate"
)

// JSONRenderer writes the aggregate as one JSON object with the keys
// lengths, dependencies, frequencies and failures. Empty views are written as
// empty arrays.
type JSONRenderer struct {
	Indent string
}

func (r JSONRenderer) Render(w io.Writer, res aggregate.Result) error {
	out := res
	if out.Lengths == nil {
		out.Lengths = []aggregate.LengthRecord{}
	}
	if out.Dependencies == nil {
		out.Dependencies = []aggregate.DependencyRecord{}
	}
	if out.Frequencies == nil {
		out.Frequencies = []aggregate.Frequency{}
	}
	out.Failures = make([]aggregate.Failure, len(res.Failures))
	for i, f := range res.Failures {
		f.Message = failureText(f)
		out.Failures[i] = f
	}
	enc := json.NewEncoder(w)
	if r.Indent != "" {
		enc.SetIndent("", r.Indent)
	}
	return enc.Encode(out)
}
