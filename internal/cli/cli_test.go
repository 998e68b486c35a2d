package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// backend is a fake conference server that records what it received.
type backend struct {
	mu     sync.Mutex
	bodies map[string][]byte
	hits   int
}

func (b *backend) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bodies == nil {
		b.bodies = map[string][]byte{}
	}
	b.bodies[r.Method+" "+r.URL.Path] = body
	b.hits++
}

func (b *backend) body(key string) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, ok := b.bodies[key]
	if !ok {
		return nil
	}
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return out
}

func (b *backend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits
}

func newBackend(t *testing.T, persistStatus int) (*backend, string) {
	t.Helper()
	b := &backend{}
	mux := http.NewServeMux()
	handle := func(pattern string, status int, body string) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			b.record(r)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, body)
		})
	}
	handle("GET /api/v1/presentations", 200, `[
		{"id":1,"title":"Alpha talk","abstract":"On alpha","subject":"track-a","presenters":[{"firstname":"Ada","lastname":"L"}]},
		{"id":2,"title":"Beta poster","abstract":"On beta","subject":"track-b"}
	]`)
	handle("GET /me", 200, `{"authenticated":true,"user_id":9,"name":"Grace","email":"g@x.org"}`)
	handle("GET /api/v1/abstractgrades/completed/9", 200, `{"completed":[2]}`)
	// Like the real handler: known fields only, anything else (status) is
	// accepted and ignored.
	handle("PUT /api/v1/presentations/1", persistStatus, `{"id":1,"title":"Alpha talk"}`)
	handle("POST /api/v1/abstractgrades", 201, `{}`)
	handle("GET /api/v1/block-schedule/3", 200, `{"id":3,"day":"Wednesday","title":"Posters","block_type":"poster",
		"start_time":"2026-11-04T13:30:00","end_time":"2026-11-04T15:00:00","sub_length":null}`)
	handle("PUT /api/v1/block-schedule/3", 200, `{"id":3}`)
	handle("GET /api/v1/block-schedule/", 200, `[{"id":3,"day":"Wednesday","title":"Posters","block_type":"poster",
		"start_time":"2026-11-04T13:30:00","end_time":"2026-11-04T15:00:00"}]`)
	handle("GET /api/v1/presentations/1", 200, `{"id":1,"title":"Alpha talk","abstract":"On alpha","subject":"track-a","schedule_id":null}`)
	handle("GET /api/v1/users/", 200, `[
		{"id":1,"email":"a@x.org","status":null},
		{"id":2,"email":"b@x.org","status":"accepted"},
		{"id":3,"email":"c@x.org","status":"none"}
	]`)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv.URL
}

func run(t *testing.T, url string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("CUSRR_TOKEN", "")
	t.Setenv("HOME", t.TempDir())
	dir := filepath.Join(t.TempDir(), "state")
	full := append([]string{"--base-url", url, "--dir", dir}, args...)
	var out, errOut bytes.Buffer
	code := Run(context.Background(), full, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestGraderPlain(t *testing.T) {
	_, url := newBackend(t, 200)
	code, out, errOut := run(t, url, "grader", "--plain")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"50% complete · 1/2", "To grade (1)", "Completed (1)", "Alpha talk", "Beta poster"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGraderFiltersAndJSON(t *testing.T) {
	_, url := newBackend(t, 200)
	code, out, errOut := run(t, url, "grader", "--plain", "--status", "done", "--format", "json")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	var res boardResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != "2" {
		t.Fatalf("items = %+v", res.Items)
	}
	if res.Progress.Percent != 50 || res.Progress.Total != 2 {
		t.Fatalf("progress = %+v", res.Progress)
	}

	code, out, _ = run(t, url, "grader", "--plain", "--query", "ALP", "--category", "TRACK-A", "--format", "json")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	res = boardResult{}
	_ = json.Unmarshal([]byte(out), &res)
	if len(res.Items) != 1 || res.Items[0].ID != "1" {
		t.Fatalf("items = %+v", res.Items)
	}
}

func TestToggleIsLocalByDefault(t *testing.T) {
	b, url := newBackend(t, 200)
	code, out, errOut := run(t, url, "toggle", "1")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "1 → Completed (100% complete · 2/2), local only") || !strings.Contains(out, "cusrr score 1") {
		t.Fatalf("output = %q", out)
	}
	if strings.Contains(out, "✔") {
		t.Fatalf("a local toggle must not be reported as saved: %q", out)
	}
	if got := b.body("PUT /api/v1/presentations/1"); got != nil {
		t.Fatalf("nothing should be sent, got %v", got)
	}

	code, out, _ = run(t, url, "grader", "--plain", "--status", "todo", "--format", "json")
	var res boardResult
	if code != 0 || json.Unmarshal([]byte(out), &res) != nil {
		t.Fatalf("reload: exit %d %q", code, out)
	}
	if len(res.Items) != 1 || res.Items[0].ID != "1" {
		t.Fatalf("item 1 should still be to grade on the server: %+v", res.Items)
	}
}

func TestToggleWithStatusPath(t *testing.T) {
	b, url := newBackend(t, 200)
	t.Setenv("CUSRR_STATUS_PATH", "/api/v1/presentations/{id}")
	code, out, errOut := run(t, url, "toggle", "1")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "✔ 1 → Completed (100% complete · 2/2)") || strings.Contains(out, "local only") {
		t.Fatalf("output = %q", out)
	}
	if got := b.body("PUT /api/v1/presentations/1"); got["status"] != "done" {
		t.Fatalf("PUT body = %v", got)
	}
}

func TestToggleFailures(t *testing.T) {
	_, url := newBackend(t, http.StatusInternalServerError)
	t.Setenv("CUSRR_STATUS_PATH", "/api/v1/presentations/{id}")
	code, _, errOut := run(t, url, "toggle", "1")
	if code != 1 || !strings.Contains(errOut, "save status of 1") {
		t.Fatalf("exit %d: %q", code, errOut)
	}

	code, _, errOut = run(t, url, "toggle", "99")
	if code != 2 || !strings.Contains(errOut, "no presentation with id 99") {
		t.Fatalf("exit %d: %q", code, errOut)
	}
}

func TestUsageExitCodes(t *testing.T) {
	_, url := newBackend(t, 200)
	for _, args := range [][]string{
		{"frobnicate"},
		{"toggle"},
		{"grader", "--plain", "--status", "maybe"},
		{"grades", "--format", "xml"},
		{"users", "rm", "3"},
		{"blocks", "edit", "x"},
	} {
		if code, _, errOut := run(t, url, args...); code != 2 {
			t.Errorf("%v: exit %d (%s)", args, code, errOut)
		}
	}

	var out, errOut bytes.Buffer
	if code := Run(context.Background(), nil, &out, &errOut); code != 2 {
		t.Errorf("no args: exit %d", code)
	}
}

func TestScore(t *testing.T) {
	b, url := newBackend(t, 200)
	code, out, errOut := run(t, url, "score", "1", "--originality", "7", "--clarity", "8", "--significance", "6", "--comment", "solid")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "grade submitted") {
		t.Fatalf("output = %q", out)
	}
	got := b.body("POST /api/v1/abstractgrades")
	if got["presentation_id"] != float64(1) || got["user_id"] != float64(9) || got["criteria_2"] != float64(8) || got["comment"] != "solid" {
		t.Fatalf("grade body = %v", got)
	}

	code, _, _ = run(t, url, "score", "1", "--originality", "11", "--clarity", "8", "--significance", "6")
	if code != 2 {
		t.Fatalf("out-of-range score: exit %d", code)
	}
}

func TestBlocksEditDropsEmptySubLength(t *testing.T) {
	b, url := newBackend(t, 200)
	code, _, errOut := run(t, url, "blocks", "edit", "3", "--set", "title=Poster session", "--set", "sub_length=")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	got := b.body("PUT /api/v1/block-schedule/3")
	if got == nil {
		t.Fatalf("no PUT recorded")
	}
	if _, ok := got["sub_length"]; ok {
		t.Errorf("empty sub_length must be omitted: %v", got)
	}
	if _, ok := got["id"]; ok {
		t.Errorf("id must not be sent: %v", got)
	}
	if got["title"] != "Poster session" || got["block_type"] != "Poster" || got["start_time"] != "2026-11-04T13:30:00" {
		t.Errorf("PUT body = %v", got)
	}
}

func TestCopyEmails(t *testing.T) {
	_, url := newBackend(t, 200)
	var copied string
	old := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	defer func() { writeClipboard = old }()

	code, out, errOut := run(t, url, "users", "copy-emails")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if copied != "a@x.org, c@x.org" || !strings.Contains(out, "copied 2 emails") {
		t.Fatalf("copied %q, output %q", copied, out)
	}

	writeClipboard = func(string) error { return errors.New("no display") }
	code, out, errOut = run(t, url, "users", "copy-emails")
	if code != 0 || !strings.Contains(out, "a@x.org, c@x.org") || !strings.Contains(errOut, "no display") {
		t.Fatalf("fallback: exit %d out %q err %q", code, out, errOut)
	}
}

func TestUploadRejectedLocally(t *testing.T) {
	b, url := newBackend(t, 200)
	file := filepath.Join(t.TempDir(), "slides.pdf")
	if err := os.WriteFile(file, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, _, errOut := run(t, url, "presentations", "upload", "1", file)
	if code != 2 || !strings.Contains(errOut, ".pptx") {
		t.Fatalf("exit %d: %q", code, errOut)
	}
	if b.count() != 0 {
		t.Fatalf("server was contacted %d times", b.count())
	}
}

func TestSubmitPartnerFiles(t *testing.T) {
	b, url := newBackend(t, 200)
	code, out, _ := run(t, url, "presentations", "submit",
		"--title", "T", "--abstract", "A", "--subject", "S",
		"--partner-email", "p@x.org", "--submitter", "partner")
	if code != 0 || !strings.Contains(out, "your partner submits") {
		t.Fatalf("exit %d: %q", code, out)
	}
	if b.count() != 0 {
		t.Fatalf("nothing should be sent")
	}
}

func TestAuthLoginStatusLogout(t *testing.T) {
	_, url := newBackend(t, 200)
	t.Setenv("CUSRR_TOKEN", "")
	dir := filepath.Join(t.TempDir(), "state")
	exec := func(args ...string) (int, string, string) {
		var out, errOut bytes.Buffer
		code := Run(context.Background(), append([]string{"--base-url", url, "--dir", dir}, args...), &out, &errOut)
		return code, out.String(), errOut.String()
	}

	if code, _, _ := exec("auth", "status"); code != 1 {
		t.Fatalf("status before login: exit %d", code)
	}
	code, out, errOut := exec("auth", "login", "--token", "Bearer abc")
	if code != 0 || !strings.Contains(out, "logged in as Grace <g@x.org>") {
		t.Fatalf("login: exit %d out %q err %q", code, out, errOut)
	}
	if _, err := os.Stat(filepath.Join(dir, "credentials.json")); err != nil {
		t.Fatalf("credentials not written: %v", err)
	}
	code, out, _ = exec("auth", "status")
	if code != 0 || !strings.Contains(out, "source   file") {
		t.Fatalf("status: exit %d out %q", code, out)
	}
	if code, _, _ := exec("auth", "logout"); code != 0 {
		t.Fatalf("logout: exit %d", code)
	}
	if code, _, _ := exec("auth", "status"); code != 1 {
		t.Fatalf("status after logout: exit %d", code)
	}
}

func TestPresentationEditScheduleChoices(t *testing.T) {
	b, url := newBackend(t, 200)
	code, _, errOut := run(t, url, "presentations", "edit", "1", "--set", "schedule_id=999")
	if code != 2 || !strings.Contains(errOut, "3 (Wednesday — Posters (2026-11-04T13:30:00))") {
		t.Fatalf("exit %d: %q", code, errOut)
	}
	if got := b.body("PUT /api/v1/presentations/1"); got != nil {
		t.Fatalf("an unknown block must not be sent: %v", got)
	}

	code, _, errOut = run(t, url, "presentations", "edit", "1")
	if code != 2 || !strings.Contains(errOut, "schedule_id: 3 (Wednesday — Posters") {
		t.Fatalf("usage should list the blocks: exit %d %q", code, errOut)
	}

	code, _, errOut = run(t, url, "presentations", "edit", "1", "--set", "schedule_id=3")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if got := b.body("PUT /api/v1/presentations/1"); got["schedule_id"] != float64(3) {
		t.Fatalf("PUT body = %v", got)
	}
}

func TestLogLevelFlag(t *testing.T) {
	_, url := newBackend(t, 200)
	t.Setenv("CUSRR_TOKEN", "")
	dir := filepath.Join(t.TempDir(), "state")
	for _, level := range []string{"info", "debug"} {
		var out, errOut bytes.Buffer
		args := []string{"--base-url", url, "--dir", dir, "--log-level", level, "grader", "--plain"}
		if code := Run(context.Background(), args, &out, &errOut); code != 0 {
			t.Fatalf("%s: exit %d: %s", level, code, errOut.String())
		}
		b, err := os.ReadFile(filepath.Join(dir, "cusrr.log"))
		if err != nil {
			t.Fatal(err)
		}
		if got := strings.Count(string(b), "config loaded"); got != map[string]int{"info": 0, "debug": 1}[level] {
			t.Fatalf("after --log-level %s: %d debug lines in %q", level, got, b)
		}
	}
}
