package gopay

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// service is embedded by every resource service.
type service struct {
	backend Backend
}

// call fills the {placeholders} of endpoint with ids, encodes params and runs
// the request. An empty id fails with ErrMissingID before anything is sent.
func (s service) call(ctx context.Context, method, endpoint string, params, v any, ids ...string) error {
	path, err := buildPath(endpoint, ids...)
	if err != nil {
		return err
	}
	values, err := EncodeParams(params)
	if err != nil {
		return err
	}
	return s.backend.Call(ctx, &Request{
		Method:         method,
		Path:           path,
		Endpoint:       endpoint,
		Params:         values,
		IdempotencyKey: idempotencyKey(params),
	}, v)
}

func buildPath(endpoint string, ids ...string) (string, error) {
	segments := strings.Split(endpoint, "/")
	next := 0
	for i, seg := range segments {
		if !strings.HasPrefix(seg, "{") {
			continue
		}
		if next >= len(ids) {
			return "", fmt.Errorf("%s: not enough identifiers", endpoint)
		}
		id := ids[next]
		next++
		if strings.TrimSpace(id) == "" {
			return "", fmt.Errorf("%w: %s in %s", ErrMissingID, strings.Trim(seg, "{}"), endpoint)
		}
		segments[i] = url.PathEscape(id)
	}
	if next != len(ids) {
		return "", fmt.Errorf("%s: too many identifiers", endpoint)
	}
	return strings.Join(segments, "/"), nil
}
