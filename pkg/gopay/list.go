package gopay

import (
	"context"
	"iter"
)

// List is one page of a list operation.
type List[T any] struct {
	Object     string `json:"object"`
	Data       []*T   `json:"data"`
	HasMore    bool   `json:"has_more"`
	TotalCount *int64 `json:"total_count,omitempty"`
	URL        string `json:"url"`
}

type listFields[T any] List[T]

func (l *List[T]) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "list", (*listFields[T])(l), "data", "has_more")
}

// Cursor returns the id of the last item on the page, which is the value to
// pass as StartingAfter to fetch the next page. It is empty for an empty page.
func (l *List[T]) Cursor() string {
	if len(l.Data) == 0 {
		return ""
	}
	if obj, ok := any(l.Data[len(l.Data)-1]).(Object); ok {
		return obj.ObjectID()
	}
	return ""
}

// paginate walks pages forward in server order by moving lp.StartingAfter to
// the cursor of each page. EndingBefore is ignored. The sequence stops after
// the first error it yields.
func paginate[T any](ctx context.Context, lp *ListParams,
	fetch func(context.Context) (*List[T], error)) iter.Seq2[*T, error] {
	start := lp.StartingAfter
	return func(yield func(*T, error) bool) {
		lp.StartingAfter = start
		lp.EndingBefore = nil
		for {
			page, err := fetch(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, item := range page.Data {
				if !yield(item, nil) {
					return
				}
			}
			cursor := page.Cursor()
			if !page.HasMore || cursor == "" {
				return
			}
			lp.StartingAfter = String(cursor)
		}
	}
}

// clone returns a shallow copy of p, or a zero value when p is nil, so that
// ListAll can move the cursor without touching the caller's params.
func clone[P any](p *P) *P {
	c := new(P)
	if p != nil {
		*c = *p
	}
	return c
}
