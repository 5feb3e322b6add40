package lists

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

func newTestHandler(t *testing.T, sessions fakeSessions) http.Handler {
	t.Helper()

	svc, _ := newTestService(sessions)
	h := (&Server{Lists: svc, Log: zap.NewNop()}).Routes()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(kit.WithClient(r.Context(), "c1")))
	})
}

func do(t *testing.T, h http.Handler, method, url string, out any) int {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, url, nil))
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s: %v body=%s", method, url, err, rec.Body.String())
		}
	}
	return rec.Code
}

func TestServer_WishlistRedirectsWhenLoggedOut(t *testing.T) {
	h := newTestHandler(t, fakeSessions{})

	var errResp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if code := do(t, h, http.MethodPost, "/wishlist/5", &errResp); code != http.StatusUnauthorized {
		t.Fatalf("status=%d", code)
	}
	if errResp.Details["redirect"] != "/login" {
		t.Fatalf("resp=%+v", errResp)
	}

	var list listResp
	if code := do(t, h, http.MethodGet, "/wishlist", &list); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	if len(list.IDs) != 0 || len(list.Items) != 0 {
		t.Fatalf("wishlist changed: %+v", list)
	}
}

func TestServer_WishlistToggle(t *testing.T) {
	h := newTestHandler(t, fakeSessions{"c1": true})

	var tr toggleResp
	if code := do(t, h, http.MethodPost, "/wishlist/5", &tr); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	if !tr.Added || !equalSet(tr.IDs, Set{5}) || tr.Kind != Wishlist {
		t.Fatalf("resp=%+v", tr)
	}

	var list listResp
	do(t, h, http.MethodGet, "/wishlist", &list)
	if len(list.Items) != 1 || list.Items[0].ID != 5 {
		t.Fatalf("list=%+v", list)
	}

	do(t, h, http.MethodPost, "/wishlist/5", &tr)
	if tr.Added || len(tr.IDs) != 0 {
		t.Fatalf("second toggle=%+v", tr)
	}
}

func TestServer_CompareToggle(t *testing.T) {
	h := newTestHandler(t, fakeSessions{})

	var tr toggleResp
	if code := do(t, h, http.MethodPost, "/compare/2", &tr); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	do(t, h, http.MethodPost, "/compare/1", &tr)
	if !equalSet(tr.IDs, Set{2, 1}) {
		t.Fatalf("ids=%v", tr.IDs)
	}

	var list listResp
	do(t, h, http.MethodGet, "/compare", &list)
	if len(list.Items) != 2 || list.Items[0].ID != 2 || list.Items[1].ID != 1 {
		t.Fatalf("list=%+v", list)
	}
}

func TestServer_ToggleErrors(t *testing.T) {
	h := newTestHandler(t, fakeSessions{})

	if code := do(t, h, http.MethodPost, "/compare/abc", nil); code != http.StatusBadRequest {
		t.Fatalf("bad id status=%d", code)
	}
	if code := do(t, h, http.MethodPost, "/compare/99", nil); code != http.StatusNotFound {
		t.Fatalf("unknown id status=%d", code)
	}
}

func TestServer_MissingClient(t *testing.T) {
	svc, _ := newTestService(fakeSessions{})
	h := (&Server{Lists: svc}).Routes()

	if code := do(t, h, http.MethodGet, "/compare", nil); code != http.StatusBadRequest {
		t.Fatalf("status=%d", code)
	}
}
