package statuslist

import (
	"context"
	"errors"
	"io"
	"net/url"
	"testing"

	"github.com/idilsaglam/cusrr/internal/apperr"
	"github.com/idilsaglam/cusrr/internal/model"
)

func scenarioItems() []model.Item {
	return []model.Item{
		{ID: "1", Status: model.StatusTodo, Title: "Alpha"},
		{ID: "2", Status: model.StatusDone, Title: "Beta"},
	}
}

func visibleIDs(v View) []string {
	var ids []string
	for _, it := range v.Visible() {
		ids = append(ids, it.ID)
	}
	return ids
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		done, total, want int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 2, 50},
		{2, 2, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{5, 7, 71},
	}
	for _, tt := range tests {
		p := Progress{Done: tt.done, Total: tt.total}
		if got := p.Percent(); got != tt.want {
			t.Errorf("Percent(%d/%d) = %d, want %d", tt.done, tt.total, got, tt.want)
		}
	}
	if s := (Progress{Done: 1, Total: 2}).String(); s != "50% complete · 1/2" {
		t.Errorf("String = %q", s)
	}
}

func TestScenarioToggle(t *testing.T) {
	b := NewBoard(DefaultConfig(), NewStore(scenarioItems()), nil)

	v := b.View()
	if v.Progress.Percent() != 50 || v.Progress.Done != 1 || v.Progress.Total != 2 {
		t.Fatalf("initial progress = %v", v.Progress)
	}

	c, err := b.Toggle("1")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if c.Status != model.StatusDone || c.Seq != 1 {
		t.Fatalf("change = %+v", c)
	}
	v = b.View()
	if v.Progress.Percent() != 100 || v.Progress.Done != 2 {
		t.Fatalf("progress after toggle = %v", v.Progress)
	}
	if len(v.Pending) != 0 || len(v.Done) != 2 || v.Done[0].ID != "1" {
		t.Fatalf("item 1 should be in the done group: %+v", v)
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	b := NewBoard(DefaultConfig(), NewStore(scenarioItems()), nil)
	before := b.View()

	for _, id := range []string{"2", "2"} {
		if _, err := b.Toggle(id); err != nil {
			t.Fatalf("Toggle: %v", err)
		}
	}
	after := b.View()
	if after.Progress != before.Progress {
		t.Fatalf("progress %v, want %v", after.Progress, before.Progress)
	}
	if len(after.Done) != 1 || after.Done[0].ID != "2" {
		t.Fatalf("item 2 should be back in done: %+v", after.Done)
	}
}

func TestToggleUnknownID(t *testing.T) {
	b := NewBoard(DefaultConfig(), NewStore(scenarioItems()), nil)
	_, err := b.Toggle("99")
	if !errors.Is(err, apperr.ErrNotFoundLocal) {
		t.Fatalf("expected ErrNotFoundLocal, got %v", err)
	}
	if b.View().Progress.Done != 1 {
		t.Fatalf("state changed on missing id")
	}
}

func TestQueryScenario(t *testing.T) {
	v := Render(scenarioItems(), NewFilter("alp", StatusAll, ""))
	if got := visibleIDs(v); !sameIDs(got, []string{"1"}) {
		t.Fatalf("visible = %v, want [1]", got)
	}
}

func TestCategoryWithoutMatchesHidesBothGroups(t *testing.T) {
	items := scenarioItems()
	items[0].Category = "Biology"
	for _, f := range []Filter{
		NewFilter("", StatusAll, "track-a"),
		NewFilter("alp", StatusTodo, "track-a"),
		NewFilter("", StatusDone, "track-a"),
	} {
		v := Render(items, f)
		if VisibleCount(v.Pending) != 0 || VisibleCount(v.Done) != 0 {
			t.Fatalf("filter %+v left rows visible", f)
		}
		if len(v.Pending)+len(v.Done) != 2 {
			t.Fatalf("filter changed group membership")
		}
	}
}

func TestFilterOrderIndependent(t *testing.T) {
	items := []model.Item{
		{ID: "1", Title: "xenon", Status: model.StatusTodo},
		{ID: "2", Title: "xylophone", Status: model.StatusDone},
		{ID: "3", Title: "boron", Status: model.StatusDone},
	}
	var a, b Filter
	a = a.WithStatus(StatusDone).WithQuery("x")
	b = b.WithQuery("x").WithStatus(StatusDone)

	va, vb := Render(items, a), Render(items, b)
	if !sameIDs(visibleIDs(va), visibleIDs(vb)) {
		t.Fatalf("order changed result: %v vs %v", visibleIDs(va), visibleIDs(vb))
	}
	if !sameIDs(visibleIDs(va), []string{"2"}) {
		t.Fatalf("visible = %v, want [2]", visibleIDs(va))
	}
}

func TestEmptyAndMissingQuery(t *testing.T) {
	items := scenarioItems()
	all := Render(items, NewFilter("   ", StatusAll, ""))
	if len(all.Visible()) != 2 {
		t.Fatalf("empty query should match everything")
	}
	none := Render(items, NewFilter("zzz", StatusAll, ""))
	if len(none.Visible()) != 0 {
		t.Fatalf("unmatched query should hide everything")
	}
	if none.Progress != all.Progress || len(none.Done) != len(all.Done) {
		t.Fatalf("filtering must not change progress or groups")
	}
}

func TestQueryMatchesCategoryAndAuthors(t *testing.T) {
	it := model.Item{ID: "1", Title: "Soil", Category: "Geology", Authors: []string{"Ada Lovelace"}}
	for _, q := range []string{"soil", "GEO", "lovelace"} {
		if !NewFilter(q, StatusAll, "").Match(it) {
			t.Errorf("query %q should match", q)
		}
	}
	if NewFilter("", StatusAll, "geo").Match(it) {
		t.Errorf("category predicate is exact, not substring")
	}
	if !NewFilter("", StatusAll, "GEOLOGY").Match(it) {
		t.Errorf("category predicate should ignore case")
	}
}

func TestRenderIdempotentAndFilterKeepsStatus(t *testing.T) {
	items := scenarioItems()
	f := NewFilter("beta", StatusDone, "")
	v1, v2 := Render(items, f), Render(items, f)
	if !sameIDs(visibleIDs(v1), visibleIDs(v2)) || v1.Progress != v2.Progress {
		t.Fatalf("render not idempotent")
	}
	if items[0].Status != model.StatusTodo || items[1].Status != model.StatusDone {
		t.Fatalf("render mutated input")
	}
}

func TestToggleKeepsFilter(t *testing.T) {
	b := NewBoard(DefaultConfig(), NewStore(scenarioItems()), nil)
	b.SetFilter(NewFilter("", StatusTodo, ""))
	if _, err := b.Toggle("1"); err != nil {
		t.Fatal(err)
	}
	v := b.View()
	if len(v.Visible()) != 0 {
		t.Fatalf("toggled item should be hidden by the todo filter: %v", visibleIDs(v))
	}
	if b.Filter().Status() != StatusTodo {
		t.Fatalf("filter lost")
	}
}

func TestParseStatusFilter(t *testing.T) {
	for in, want := range map[string]StatusFilter{"": StatusAll, "ALL": StatusAll, "todo": StatusTodo, " done ": StatusDone} {
		got, err := ParseStatusFilter(in)
		if err != nil || got != want {
			t.Errorf("ParseStatusFilter(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseStatusFilter("later"); err == nil {
		t.Errorf("expected error")
	}
	if StatusAll.Next() != StatusTodo || StatusTodo.Next() != StatusDone || StatusDone.Next() != StatusAll {
		t.Errorf("Next does not cycle")
	}
}

func TestLoadFailureKeepsPreviousItems(t *testing.T) {
	b := NewBoard(DefaultConfig(), NewStore(scenarioItems()), nil)
	err := b.Load(context.Background(), SourceFunc(func(context.Context) ([]model.Item, error) {
		return nil, io.ErrUnexpectedEOF
	}))
	var fe *FetchError
	if !errors.As(err, &fe) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected FetchError wrapping EOF, got %v", err)
	}
	if b.Store().Len() != 2 {
		t.Fatalf("failed load replaced items")
	}
}

func TestLoadNormalizesStatus(t *testing.T) {
	b := NewBoard(DefaultConfig(), nil, nil)
	err := b.Load(context.Background(), SourceFunc(func(context.Context) ([]model.Item, error) {
		return []model.Item{{ID: "a", Title: "A"}, {ID: "b", Title: "B", Status: "weird"}}, nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	if len(b.View().Pending) != 2 {
		t.Fatalf("unknown statuses should be todo: %+v", b.View())
	}
}

func TestPersistFailureKeepsToggle(t *testing.T) {
	p := PersisterFunc(func(ctx context.Context, id string, s model.Status) error {
		return &apperr.NetworkError{Method: "PUT", Path: "/x", StatusCode: 500}
	})
	b := NewBoard(DefaultConfig(), NewStore(scenarioItems()), p)
	c, err := b.Toggle("1")
	if err != nil {
		t.Fatal(err)
	}
	err = b.Persist(context.Background(), c)
	if !IsPersistError(err) || apperr.StatusCode(err) != 500 {
		t.Fatalf("expected PersistError with status 500, got %v", err)
	}
	it, _ := b.Store().Get("1")
	if it.Status != model.StatusDone {
		t.Fatalf("persist failure reverted the toggle")
	}
}

func TestStaleChange(t *testing.T) {
	b := NewBoard(DefaultConfig(), NewStore(scenarioItems()), nil)
	first, _ := b.Toggle("1")
	second, _ := b.Toggle("1")
	if !b.Stale(first) || b.Stale(second) {
		t.Fatalf("stale detection wrong: first=%v second=%v", b.Stale(first), b.Stale(second))
	}
	if err := b.Persist(context.Background(), second); err != nil {
		t.Fatalf("nil persister should be a no-op: %v", err)
	}
}

type fakeRemote struct {
	me        model.Me
	gets      map[string]any
	puts      map[string]any
	failPaths map[string]error
}

func (f *fakeRemote) GetJSON(ctx context.Context, path string, q url.Values, out any) error {
	if err := f.failPaths[path]; err != nil {
		return err
	}
	switch o := out.(type) {
	case *[]model.Presentation:
		*o = f.gets[path].([]model.Presentation)
	case *struct {
		Completed []int `json:"completed"`
	}:
		o.Completed = f.gets[path].([]int)
	}
	return nil
}

func (f *fakeRemote) PutJSON(ctx context.Context, path string, in, out any) error {
	if f.puts == nil {
		f.puts = map[string]any{}
	}
	f.puts[path] = in
	return nil
}

func (f *fakeRemote) Me(ctx context.Context) (model.Me, error) { return f.me, nil }

func TestPresentationSource(t *testing.T) {
	uid := 4
	remote := &fakeRemote{
		me: model.Me{Authenticated: true, UserID: &uid},
		gets: map[string]any{
			"/api/v1/presentations": []model.Presentation{
				{ID: 1, Title: "Alpha", Subject: "Bio", Presenters: []model.Presenter{{Firstname: "Ada", Lastname: "L"}}},
				{ID: 2, Title: "Beta"},
				{ID: 3, Title: "Gamma", Status: "done"},
			},
			"/api/v1/abstractgrades/completed/4": []int{2},
		},
	}
	src := PresentationSource{Remote: remote, Config: DefaultConfig()}
	items, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := map[string]model.Status{}
	for _, it := range items {
		got[it.ID] = it.Status
	}
	want := map[string]model.Status{"1": model.StatusTodo, "2": model.StatusDone, "3": model.StatusDone}
	for id, s := range want {
		if got[id] != s {
			t.Errorf("item %s status = %q, want %q", id, got[id], s)
		}
	}
	if items[0].Category != "Bio" || len(items[0].Authors) != 1 || items[0].Authors[0] != "Ada L" {
		t.Errorf("item 1 fields = %+v", items[0])
	}
}

func TestPresentationSourceAnonymousSkipsCompletion(t *testing.T) {
	remote := &fakeRemote{
		gets: map[string]any{
			"/api/v1/presentations": []model.Presentation{{ID: 1, Title: "Alpha"}},
		},
		failPaths: map[string]error{"/api/v1/abstractgrades/completed/0": errors.New("must not be called")},
	}
	items, err := PresentationSource{Remote: remote, Config: DefaultConfig()}.Load(context.Background())
	if err != nil || len(items) != 1 || items[0].Status != model.StatusTodo {
		t.Fatalf("Load = %+v, %v", items, err)
	}
}

func TestPresentationPersister(t *testing.T) {
	remote := &fakeRemote{}
	p := PresentationPersister{Remote: remote, Config: Config{Item: "/api/v1/presentations/{id}"}}
	if err := p.PersistStatus(context.Background(), "7", model.StatusDone); err != nil {
		t.Fatal(err)
	}
	body, ok := remote.puts["/api/v1/presentations/7"].(map[string]any)
	if !ok || body["status"] != model.StatusDone {
		t.Fatalf("put body = %#v", remote.puts)
	}
}

func TestDefaultConfigKeepsTogglesLocal(t *testing.T) {
	if DefaultConfig().Item != "" {
		t.Fatalf("default config must not name a status endpoint")
	}
	b := NewBoard(DefaultConfig(), NewStore(scenarioItems()), nil)
	if b.Persists() {
		t.Fatalf("board without persister reports persistence")
	}
	c, err := b.Toggle("1")
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Persist(context.Background(), c); err != nil {
		t.Fatalf("Persist without persister = %v", err)
	}
	if b.View().Progress.Done != 2 {
		t.Fatalf("local toggle lost: %+v", b.View().Progress)
	}
}
