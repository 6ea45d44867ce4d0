package gopay

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedCustomers serves n customers, cus_1..cus_n, honoring limit and
// starting_after.
func pagedCustomers(t *testing.T, n int, pages *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages.Add(1)
		q := r.URL.Query()
		assert.Empty(t, q.Get("ending_before"))

		limit := 10
		if v := q.Get("limit"); v != "" {
			limit, _ = strconv.Atoi(v)
		}
		start := 0
		if after := q.Get("starting_after"); after != "" {
			start, _ = strconv.Atoi(strings.TrimPrefix(after, "cus_"))
		}
		end := min(start+limit, n)

		items := make([]string, 0, end-start)
		for i := start + 1; i <= end; i++ {
			items = append(items, customerJSON(fmt.Sprintf("cus_%d", i)))
		}
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"object":"list","url":"/v1/customers","has_more":%t,"data":[%s]}`,
			end < n, strings.Join(items, ",")))
	}
}

func TestList_Page(t *testing.T) {
	var pages atomic.Int32
	client := newTestClient(t, pagedCustomers(t, 5, &pages))

	l, err := client.Customers.List(context.Background(), &CustomerListParams{ListParams: ListParams{Limit: Int64(2)}})
	require.NoError(t, err)
	assert.Len(t, l.Data, 2)
	assert.True(t, l.HasMore)
	assert.Equal(t, "cus_2", l.Cursor())
}

func TestListAll_WalksEveryPage(t *testing.T) {
	var pages atomic.Int32
	client := newTestClient(t, pagedCustomers(t, 5, &pages))

	params := &CustomerListParams{ListParams: ListParams{Limit: Int64(2)}}
	var ids []CustomerID
	for c, err := range client.Customers.ListAll(context.Background(), params) {
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	assert.Equal(t, []CustomerID{"cus_1", "cus_2", "cus_3", "cus_4", "cus_5"}, ids)
	assert.Equal(t, int32(3), pages.Load())
	assert.Nil(t, params.StartingAfter, "caller's params must not be modified")
}

func TestListAll_StartsAfterCallerCursor(t *testing.T) {
	var pages atomic.Int32
	client := newTestClient(t, pagedCustomers(t, 5, &pages))

	params := &CustomerListParams{ListParams: ListParams{Limit: Int64(10), StartingAfter: String("cus_3")}}
	var ids []CustomerID
	for c, err := range client.Customers.ListAll(context.Background(), params) {
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []CustomerID{"cus_4", "cus_5"}, ids)
}

func TestListAll_StopsEarly(t *testing.T) {
	var pages atomic.Int32
	client := newTestClient(t, pagedCustomers(t, 50, &pages))

	count := 0
	for _, err := range client.Customers.ListAll(context.Background(), &CustomerListParams{ListParams: ListParams{Limit: Int64(5)}}) {
		require.NoError(t, err)
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
	assert.Equal(t, int32(1), pages.Load())
}

func TestListAll_YieldsErrorOnce(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusOK, `{"object":"list","url":"/v1/customers","has_more":true,"data":[`+
				customerJSON("cus_1")+`]}`)
			return
		}
		writeJSON(w, http.StatusInternalServerError, `{"error":{"type":"api_error","message":"boom"}}`)
	})

	var ids []CustomerID
	var errs []error
	for c, err := range client.Customers.ListAll(context.Background(), nil) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []CustomerID{"cus_1"}, ids)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrAPI)
}

func TestListAll_Reusable(t *testing.T) {
	var pages atomic.Int32
	client := newTestClient(t, pagedCustomers(t, 3, &pages))

	seq := client.Customers.ListAll(context.Background(), &CustomerListParams{ListParams: ListParams{Limit: Int64(2)}})
	for range 2 {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		assert.Equal(t, 3, n)
	}
}

func TestList_MissingData(t *testing.T) {
	l := &List[Customer]{}
	err := l.UnmarshalJSON([]byte(`{"object":"list","has_more":false}`))
	assert.ErrorIs(t, err, ErrMissingField)
}
