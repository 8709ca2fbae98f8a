package commands

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-toolkit/internal/category"
	"trading-toolkit/internal/client"
	"trading-toolkit/internal/database"
	"trading-toolkit/internal/investing"
	"trading-toolkit/internal/kite"
	"trading-toolkit/internal/kohan"
	"trading-toolkit/internal/orders"
)

type fakeRemote struct {
	requests []string
	forms    map[string]url.Values
}

func newToolkit(t *testing.T) (*Toolkit, *fakeRemote) {
	t.Helper()
	remote := &fakeRemote{forms: make(map[string]url.Values)}

	mux := http.NewServeMux()
	record := func(r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		remote.requests = append(remote.requests, r.Method+" "+r.URL.Path)
		remote.forms[r.URL.Path], _ = url.ParseQuery(string(raw))
	}
	mux.HandleFunc("/investing/useralerts/service/create", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`{"status":"OK"}`))
	})
	mux.HandleFunc("/investing/members-admin/alert-center", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`<table><tbody>
			<tr data-alert-id="4821733" data-pair-id="6408"><td class="alertValue">1,210.50</td></tr>
			<tr data-alert-id="4821734" data-pair-id="17940"><td class="alertValue">2,450</td></tr>
		</tbody></table>`))
	})
	mux.HandleFunc("/investing/search/service/search", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`{"All":[{"pair_ID":6408,"name":"Apple Inc","exchange_name_short":"NASDAQ","symbol":"AAPL"}]}`))
	})
	mux.HandleFunc("/kite/triggers", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"status":"success","data":{"trigger_id":77}}`))
			return
		}
		w.Write([]byte(`{"status":"success","data":[{"id":77,"type":"single","status":"active","condition":{"tradingsymbol":"INFY","trigger_values":[1500]},"orders":[{"quantity":1200}]}]}`))
	})
	mux.HandleFunc("/kohan/v1/clip", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte("TCS"))
	})
	mux.HandleFunc("/kohan/v1/submap/enable", func(w http.ResponseWriter, r *http.Request) {
		record(r)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store := database.NewMemoryStore()
	lists, err := category.New(3, category.StoreHooks(store, CategoryStoreKey))
	require.NoError(t, err)

	return &Toolkit{
		Investing: investing.New(srv.URL+"/investing", ""),
		Kite:      kite.New(srv.URL+"/kite", store),
		Kohan:     kohan.New(srv.URL + "/kohan/v1"),
		Lists:     lists,
		Store:     store,
	}, remote
}

func run(t *testing.T, tk *Toolkit, line string) (string, error) {
	t.Helper()
	return tk.Handle(context.Background(), strings.Fields(line))
}

func TestAlertCreate(t *testing.T) {
	tk, remote := newToolkit(t)

	out, err := run(t, tk, "alert create 6408 110 100")
	require.NoError(t, err)
	assert.Equal(t, "Alert above 110.00 for pair 6408 created.", out)
	assert.Equal(t, "over", remote.forms["/investing/useralerts/service/create"].Get("alertParams[threshold]"))
}

func TestAlertCreateBadPrice(t *testing.T) {
	tk, remote := newToolkit(t)

	_, err := run(t, tk, "alert create 6408 abc 100")
	assert.True(t, errors.Is(err, ErrUsage))
	assert.Empty(t, remote.requests)
}

func TestAlertListShowsRemoteIDs(t *testing.T) {
	tk, _ := newToolkit(t)

	out, err := run(t, tk, "alert list")
	require.NoError(t, err)
	assert.Equal(t, "4821733    pair 6408       @ 1,210.50\n4821734    pair 17940      @ 2,450.00", out)
}

func TestSearch(t *testing.T) {
	tk, _ := newToolkit(t)

	out, err := run(t, tk, "search apple inc")
	require.NoError(t, err)
	assert.Contains(t, out, "6408")
	assert.Contains(t, out, "AAPL")
}

func TestGTTNeedsToken(t *testing.T) {
	tk, remote := newToolkit(t)

	_, err := run(t, tk, "gtt list")
	assert.True(t, errors.Is(err, client.ErrMissingCredential))
	assert.Empty(t, remote.requests)
}

func TestGTTFlow(t *testing.T) {
	tk, remote := newToolkit(t)

	out, err := run(t, tk, "token set abc")
	require.NoError(t, err)
	assert.Equal(t, "Kite token stored.", out)

	out, err = run(t, tk, "gtt create infy 1200 single 1600 1500")
	require.NoError(t, err)
	assert.Equal(t, "GTT 77 created for INFY at 1,500.00.", out)

	out, err = run(t, tk, "gtt list")
	require.NoError(t, err)
	assert.Contains(t, out, "INFY")
	assert.Contains(t, out, "qty 1,200")
	assert.Contains(t, out, "1 orders across 1 symbols")

	cached, err := orders.LoadOrders(tk.Store)
	require.NoError(t, err)
	assert.Equal(t, 1, cached.Count())

	requests := len(remote.requests)
	out, err = run(t, tk, "gtt list cached")
	require.NoError(t, err)
	assert.Contains(t, out, "INFY")
	assert.Len(t, remote.requests, requests, "cached listing must not hit the network")
}

func TestKohan(t *testing.T) {
	tk, remote := newToolkit(t)

	out, err := run(t, tk, "kohan clip")
	require.NoError(t, err)
	assert.Equal(t, "TCS", out)

	out, err = run(t, tk, "kohan submap enable trade")
	require.NoError(t, err)
	assert.Equal(t, "Submap trade enabled.", out)
	assert.Equal(t, []string{"GET /kohan/v1/clip", "POST /kohan/v1/submap/enable"}, remote.requests)

	_, err = run(t, tk, "kohan submap flip trade")
	assert.True(t, errors.Is(err, ErrUsage))
}

func TestCategory(t *testing.T) {
	tk, _ := newToolkit(t)

	out, err := run(t, tk, "category add 0 infy")
	require.NoError(t, err)
	assert.Equal(t, "INFY is in list 0.", out)

	out, err = run(t, tk, "category toggle 2 infy")
	require.NoError(t, err)
	assert.Equal(t, "INFY is in list 2.", out)

	out, err = run(t, tk, "category list")
	require.NoError(t, err)
	assert.Equal(t, "0: \n1: \n2: INFY", out)

	out, err = run(t, tk, "category toggle 2 infy")
	require.NoError(t, err)
	assert.Equal(t, "INFY is in no list.", out)

	_, err = run(t, tk, "category add 9 infy")
	assert.True(t, errors.Is(err, category.ErrInvalidList))
}

func TestUnknownCommand(t *testing.T) {
	tk, _ := newToolkit(t)

	_, err := run(t, tk, "frobnicate")
	assert.True(t, errors.Is(err, ErrUsage))

	_, err = tk.Handle(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrUsage))
}
