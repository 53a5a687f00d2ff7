package reader

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func run(t *testing.T, c *Controller, repo Repository, req Request) (Outcome, error) {
	t.Helper()
	return c.Complete(req.Do(context.Background(), repo))
}

func mustRun(t *testing.T, c *Controller, repo Repository, req Request) Outcome {
	t.Helper()
	out, err := run(t, c, repo, req)
	if err != nil {
		t.Fatalf("request %s failed: %v", req.Kind, err)
	}
	return out
}

func assertSelectionValid(t *testing.T, c *Controller) {
	t.Helper()
	page := c.Page()
	total := len(page.Items)
	if page.HasNext {
		total++
	}
	sel := c.Selection()
	switch sel.Kind {
	case SelectNone:
		if total != 0 {
			t.Fatalf("selection none with %d selectable rows", total)
		}
	case SelectIndex:
		if sel.Index < 0 || sel.Index >= len(page.Items) {
			t.Fatalf("selection index %d out of range for %d items", sel.Index, len(page.Items))
		}
	case SelectSentinel:
		if !page.HasNext {
			t.Fatal("selection on sentinel without next page")
		}
	}
}

func TestController_PagesOfTwentyScenario(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 25, 20)
	c := New([]View{{Title: "All"}})

	mustRun(t, c, repo, c.Start())
	page := c.Page()
	if len(page.Items) != 20 || !page.HasNext || page.NextPage != 2 {
		t.Fatalf("unexpected first page: len=%d hasNext=%v next=%d", len(page.Items), page.HasNext, page.NextPage)
	}
	if sel := c.Selection(); sel.Kind != SelectIndex || sel.Index != 0 {
		t.Fatalf("expected selection at 0, got %+v", sel)
	}

	for i := 0; i < 20; i++ {
		c.MoveSelection(Forward)
	}
	if sel := c.Selection(); sel.Kind != SelectSentinel {
		t.Fatalf("expected sentinel after 20 moves, got %+v", sel)
	}

	act, err := c.ActivateSelection()
	if err != nil {
		t.Fatalf("ActivateSelection returned error: %v", err)
	}
	if act.Kind != ActivateLoadMore || act.Request.Page != 2 {
		t.Fatalf("expected load-more of page 2, got %+v", act)
	}
	out := mustRun(t, c, repo, act.Request)
	if out.Appended != 5 {
		t.Fatalf("expected 5 appended, got %d", out.Appended)
	}

	page = c.Page()
	if len(page.Items) != 25 || page.HasNext {
		t.Fatalf("unexpected page after load more: len=%d hasNext=%v", len(page.Items), page.HasNext)
	}
	if page.CurrentPage != 2 {
		t.Fatalf("expected current page 2, got %d", page.CurrentPage)
	}
	if sel := c.Selection(); sel.Kind != SelectIndex || sel.Index != 20 {
		t.Fatalf("expected selection at first new item 20, got %+v", sel)
	}
	proj := c.Projection()
	if len(proj.Rows) != 25 || proj.Rows[len(proj.Rows)-1].IsSentinel {
		t.Fatalf("expected no sentinel row, got %d rows", len(proj.Rows))
	}
	if proj.Highlighted != 20 {
		t.Fatalf("expected highlighted row 20, got %d", proj.Highlighted)
	}
}

func TestController_ViewSwitchResetsPageAndSelection(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 45, 20)
	repo.addView("user:me", 100, 3, 20)
	c := New([]View{{Title: "All"}, {Title: "Mine", Query: "user:me"}})

	mustRun(t, c, repo, c.Start())
	c.SelectLast()
	act, _ := c.ActivateSelection()
	mustRun(t, c, repo, act.Request)
	c.MoveSelectionBy(-3)
	if c.Page().CurrentPage != 2 {
		t.Fatalf("expected page 2 before switching, got %d", c.Page().CurrentPage)
	}

	mustRun(t, c, repo, c.SelectView(Forward))
	page := c.Page()
	if page.CurrentPage != 1 || len(page.Items) != 3 || page.HasNext {
		t.Fatalf("unexpected page after switch: %+v", page)
	}
	if page.Items[0].Number != 100 {
		t.Fatalf("expected items of the new view, got #%d", page.Items[0].Number)
	}
	if sel := c.Selection(); sel.Kind != SelectIndex || sel.Index != 0 {
		t.Fatalf("expected selection reset to 0, got %+v", sel)
	}
	if got := c.CurrentView().Title; got != "Mine" {
		t.Fatalf("unexpected current view %q", got)
	}
}

func TestController_ViewSwitchToEmptyViewSelectsNone(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 5, 20)
	c := New([]View{{Title: "All"}, {Title: "Empty", Query: "tag:nothing"}})

	mustRun(t, c, repo, c.Start())
	mustRun(t, c, repo, c.SelectView(Forward))
	if sel := c.Selection(); sel.Kind != SelectNone {
		t.Fatalf("expected no selection for empty view, got %+v", sel)
	}
	if proj := c.Projection(); proj.Highlighted != -1 || len(proj.Rows) != 0 {
		t.Fatalf("unexpected projection for empty view: %+v", proj)
	}
}

func TestController_LoadMoreIsAppendOnly(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 50, 20)
	c := New(nil)

	mustRun(t, c, repo, c.Start())
	before := c.Page().Items

	c.SelectLast()
	act, err := c.ActivateSelection()
	if err != nil || act.Kind != ActivateLoadMore {
		t.Fatalf("expected load more, got %+v err=%v", act, err)
	}
	mustRun(t, c, repo, act.Request)

	after := c.Page()
	if len(after.Items) != 40 {
		t.Fatalf("expected 40 items, got %d", len(after.Items))
	}
	if !reflect.DeepEqual(after.Items[:20], before) {
		t.Fatal("existing items changed during load more")
	}
	if after.NextPage != 3 || !after.HasNext {
		t.Fatalf("expected next page 3, got %+v", after)
	}
	if sel := c.Selection(); sel.Index != 20 {
		t.Fatalf("expected cursor on first appended item, got %+v", sel)
	}
}

func TestController_LoadMoreEmptyPageKeepsCursorOnSentinel(t *testing.T) {
	c := New(nil)

	req := c.Start()
	c.Complete(Result{
		Kind:       RequestLoad,
		Generation: req.Generation,
		Page:       Page{Items: []Item{{Number: 1}, {Number: 2}}, Page: 1, HasNext: true, NextPage: 2},
	})
	c.SelectLast()
	act, _ := c.ActivateSelection()
	out, err := c.Complete(Result{
		Kind:       RequestLoadMore,
		Generation: act.Request.Generation,
		Page:       Page{Page: 2, HasNext: true, NextPage: 3},
	})
	if err != nil || out.Appended != 0 {
		t.Fatalf("unexpected outcome %+v err=%v", out, err)
	}
	if sel := c.Selection(); sel.Kind != SelectSentinel || sel.Index != 2 {
		t.Fatalf("expected cursor to stay on sentinel, got %+v", sel)
	}
	act, err = c.ActivateSelection()
	if err != nil || act.Kind != ActivateLoadMore || act.Request.Page != 3 {
		t.Fatalf("expected retry of page 3, got %+v err=%v", act, err)
	}
}

func TestController_LoadMoreEmptyFinalPageClampsCursor(t *testing.T) {
	c := New(nil)
	req := c.Start()
	c.Complete(Result{
		Kind:       RequestLoad,
		Generation: req.Generation,
		Page:       Page{Items: []Item{{Number: 1}, {Number: 2}}, Page: 1, HasNext: true, NextPage: 2},
	})
	c.SelectLast()
	act, _ := c.ActivateSelection()
	if _, err := c.Complete(Result{Kind: RequestLoadMore, Generation: act.Request.Generation, Page: Page{Page: 2}}); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if sel := c.Selection(); sel.Kind != SelectIndex || sel.Index != 1 {
		t.Fatalf("expected cursor clamped to last item, got %+v", sel)
	}
	if c.Projection().HasNext {
		t.Fatal("expected sentinel to disappear")
	}
}

func TestController_StarReconcilesOnlySelectedItem(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 25, 20)
	target := repo.posts[4]
	target.Starred = false
	target.Stars = 3
	repo.posts[4] = target
	c := New(nil)

	mustRun(t, c, repo, c.Start())
	c.MoveSelectionBy(3)
	before := c.Page()

	req, ok, err := c.ApplyAction(ActionStar)
	if err != nil || !ok {
		t.Fatalf("ApplyAction returned ok=%v err=%v", ok, err)
	}
	if req.Mutation.Number != 4 {
		t.Fatalf("expected mutation on #4, got #%d", req.Mutation.Number)
	}
	out := mustRun(t, c, repo, req)
	if !out.Replaced || !out.Item.Starred || out.Item.Stars != 4 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if !reflect.DeepEqual(repo.mutateCalls, []string{"star#4"}) || !reflect.DeepEqual(repo.getCalls, []int{4}) {
		t.Fatalf("unexpected remote calls: mutate=%v get=%v", repo.mutateCalls, repo.getCalls)
	}

	after := c.Page()
	if len(after.Items) != len(before.Items) || after.CurrentPage != before.CurrentPage || after.NextPage != before.NextPage || after.HasNext != before.HasNext {
		t.Fatalf("pagination changed: before=%+v after=%+v", before, after)
	}
	for i := range after.Items {
		if i == 3 {
			continue
		}
		if !reflect.DeepEqual(after.Items[i], before.Items[i]) {
			t.Fatalf("item %d changed during reconciliation", i)
		}
	}
	got := after.Items[3]
	want := before.Items[3]
	want.Starred = true
	want.Stars = 4
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("reconciled item mismatch:\n got: %+v\nwant: %+v", got, want)
	}
	if sel := c.Selection(); sel.Index != 3 {
		t.Fatalf("selection moved during mutation: %+v", sel)
	}
}

func TestController_ReconcileKeepsNonFlagFields(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 2, 20)
	c := New(nil)
	mustRun(t, c, repo, c.Start())

	renamed := repo.posts[1]
	renamed.Name = "renamed on server"
	repo.posts[1] = renamed

	req, _, _ := c.ApplyAction(ActionWatch)
	mustRun(t, c, repo, req)
	item := c.Page().Items[0]
	if item.Name != "post 1" {
		t.Fatalf("expected name untouched by reconciliation, got %q", item.Name)
	}
	if !item.Watched || item.Watches != 2 {
		t.Fatalf("expected watch flags refreshed, got %+v", item)
	}
}

func TestController_ActionOnSentinelIsNoop(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 30, 20)
	c := New(nil)
	mustRun(t, c, repo, c.Start())
	c.SelectLast()

	req, ok, err := c.ApplyAction(ActionStar)
	if ok || err != nil {
		t.Fatalf("expected no-op on sentinel, got ok=%v err=%v req=%+v", ok, err, req)
	}
	if c.State() != StateIdle {
		t.Fatalf("expected idle state, got %s", c.State())
	}
	if len(repo.mutateCalls) != 0 {
		t.Fatalf("unexpected remote calls: %v", repo.mutateCalls)
	}
}

func TestController_ActionWithNoSelectionIsNoop(t *testing.T) {
	c := New(nil)
	if _, ok, err := c.ApplyAction(ActionUnstar); ok || err != nil {
		t.Fatalf("expected no-op without selection, got ok=%v err=%v", ok, err)
	}
}

func TestController_MutationFailureLeavesStateIntact(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 5, 20)
	c := New(nil)
	mustRun(t, c, repo, c.Start())
	before := c.Page()

	repo.mutateErr = errors.New("boom")
	req, _, _ := c.ApplyAction(ActionStar)
	if _, err := run(t, c, repo, req); err == nil {
		t.Fatal("expected mutation error")
	}
	if len(repo.getCalls) != 0 {
		t.Fatalf("expected no refetch after failed action, got %v", repo.getCalls)
	}
	if !reflect.DeepEqual(before, c.Page()) {
		t.Fatal("page changed after failed mutation")
	}
	if c.State() != StateIdle {
		t.Fatalf("expected idle after failure, got %s", c.State())
	}
}

func TestController_RefetchNotFoundIsReported(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 5, 20)
	c := New(nil)
	mustRun(t, c, repo, c.Start())
	before := c.Page()

	repo.getErr = ErrNotFound
	req, _, _ := c.ApplyAction(ActionWatch)
	_, err := run(t, c, repo, req)
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not found kind, got %v (%s)", err, KindOf(err))
	}
	if !reflect.DeepEqual(before, c.Page()) {
		t.Fatal("item changed after failed refetch")
	}
}

func TestController_ReplaceItemMissReportsNoChange(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 5, 20)
	c := New(nil)
	mustRun(t, c, repo, c.Start())
	before := c.Page()

	req, _, _ := c.ApplyAction(ActionStar)
	out, err := c.Complete(Result{Kind: RequestMutate, Generation: req.Generation, Item: Item{Number: 999, Starred: true}})
	if err != nil {
		t.Fatalf("expected silent miss, got %v", err)
	}
	if out.Replaced {
		t.Fatal("expected Replaced=false for missing item")
	}
	if !reflect.DeepEqual(before, c.Page()) {
		t.Fatal("page changed after replace miss")
	}
}

func TestController_BusyRejectsActions(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 30, 20)
	c := New(nil)
	mustRun(t, c, repo, c.Start())

	req, ok, err := c.ApplyAction(ActionStar)
	if !ok || err != nil {
		t.Fatalf("expected first action accepted, got ok=%v err=%v", ok, err)
	}
	if _, _, err := c.ApplyAction(ActionWatch); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for second action, got %v", err)
	}
	c.SelectLast()
	if _, err := c.ActivateSelection(); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for load more, got %v", err)
	}
	mustRun(t, c, repo, req)
	if c.State() != StateIdle {
		t.Fatalf("expected idle, got %s", c.State())
	}
}

func TestController_MovementAllowedWhileBusy(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 5, 20)
	c := New(nil)
	mustRun(t, c, repo, c.Start())

	req, _, _ := c.ApplyAction(ActionStar)
	c.MoveSelection(Forward)
	c.MoveSelection(Forward)
	out := mustRun(t, c, repo, req)
	if out.Item.Number != 1 {
		t.Fatalf("expected mutation to target the originally selected item, got #%d", out.Item.Number)
	}
	if sel := c.Selection(); sel.Index != 2 {
		t.Fatalf("expected cursor to stay where the user moved it, got %+v", sel)
	}
}

func TestController_DiscardsStaleLoadMoreAfterViewSwitch(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 45, 20)
	repo.addView("user:me", 100, 2, 20)
	c := New([]View{{Title: "All"}, {Title: "Mine", Query: "user:me"}})
	mustRun(t, c, repo, c.Start())

	c.SelectLast()
	act, err := c.ActivateSelection()
	if err != nil {
		t.Fatalf("ActivateSelection returned error: %v", err)
	}
	stale := act.Request.Do(context.Background(), repo)

	switchReq := c.SelectView(Forward)
	mustRun(t, c, repo, switchReq)
	before := c.Page()

	if _, err := c.Complete(stale); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	after := c.Page()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("stale load more mutated new view: %+v", after)
	}
	if len(after.Items) != 2 || after.Items[0].Number != 100 {
		t.Fatalf("unexpected items after switch: %+v", after.Items)
	}
}

func TestController_StaleResponseArrivingWhileNewLoadPending(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 45, 20)
	repo.addView("user:me", 100, 2, 20)
	c := New([]View{{Title: "All"}, {Title: "Mine", Query: "user:me"}})
	mustRun(t, c, repo, c.Start())

	c.SelectLast()
	act, _ := c.ActivateSelection()
	switchReq := c.SelectView(Forward)

	if _, err := run(t, c, repo, act.Request); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale while switch pending, got %v", err)
	}
	if c.State() != StateLoading {
		t.Fatalf("expected switch still loading, got %s", c.State())
	}
	mustRun(t, c, repo, switchReq)
	if got := len(c.Page().Items); got != 2 {
		t.Fatalf("expected 2 items from new view, got %d", got)
	}
}

func TestController_DiscardsStaleMutationAfterViewSwitch(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 5, 20)
	repo.addView("starred:true", 1, 5, 20)
	c := New([]View{{Title: "All"}, {Title: "Starred", Query: "starred:true"}})
	mustRun(t, c, repo, c.Start())

	req, _, _ := c.ApplyAction(ActionStar)
	stale := req.Do(context.Background(), repo)
	mustRun(t, c, repo, c.SelectView(Forward))
	before := c.Page()

	if _, err := c.Complete(stale); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if !reflect.DeepEqual(before, c.Page()) {
		t.Fatal("stale mutation changed the new view")
	}
}

func TestController_LoadFailureKeepsPreviousPage(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 5, 20)
	c := New([]View{{Title: "All"}, {Title: "Mine", Query: "user:me"}})
	mustRun(t, c, repo, c.Start())
	c.MoveSelection(Forward)
	before := c.Page()

	repo.listErr = ErrUnauthorized
	_, err := run(t, c, repo, c.SelectView(Forward))
	if KindOf(err) != KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if !reflect.DeepEqual(before, c.Page()) {
		t.Fatal("failed load replaced the page")
	}
	if got := c.CurrentView().Title; got != "All" {
		t.Fatalf("expected view to stay on the loaded one, got %q", got)
	}
	if sel := c.Selection(); sel.Index != 1 {
		t.Fatalf("selection changed after failed load: %+v", sel)
	}
}

func TestController_LoadMoreFailureKeepsItems(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 30, 20)
	c := New(nil)
	mustRun(t, c, repo, c.Start())
	c.SelectLast()
	before := c.Page()

	repo.listErr = errors.New("connection reset")
	act, _ := c.ActivateSelection()
	if _, err := run(t, c, repo, act.Request); err == nil {
		t.Fatal("expected load more error")
	}
	if !reflect.DeepEqual(before, c.Page()) {
		t.Fatal("failed load more changed the page")
	}
	if sel := c.Selection(); sel.Kind != SelectSentinel {
		t.Fatalf("expected cursor to remain on sentinel, got %+v", sel)
	}
}

func TestController_EmptyRegistryUsesDefaultView(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 3, 20)
	c := New(nil)

	req := c.Start()
	if req.View.Title != DefaultViewTitle || req.View.Query != "" {
		t.Fatalf("unexpected default view: %+v", req.View)
	}
	mustRun(t, c, repo, req)
	mustRun(t, c, repo, c.SelectView(Forward))
	mustRun(t, c, repo, c.SelectView(Backward))
	if got := c.CurrentView().Title; got != DefaultViewTitle {
		t.Fatalf("expected default view after navigation, got %q", got)
	}
	if !reflect.DeepEqual(repo.listCalls, []string{"@1", "@1", "@1"}) {
		t.Fatalf("unexpected list calls: %v", repo.listCalls)
	}
}

func TestController_ActivateItemReturnsIt(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 3, 20)
	c := New(nil)
	mustRun(t, c, repo, c.Start())
	c.MoveSelection(Forward)
	gen := c.Generation()

	act, err := c.ActivateSelection()
	if err != nil || act.Kind != ActivateOpen || act.Item.Number != 2 {
		t.Fatalf("unexpected activation %+v err=%v", act, err)
	}
	if c.Generation() != gen || c.State() != StateIdle {
		t.Fatal("activating an item must not change controller state")
	}
}

func TestController_ReplaceViewsKeepsCurrentByTitle(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("user:me", 1, 3, 20)
	repo.addView("wip:true", 10, 3, 20)
	c := New([]View{{Title: "All"}, {Title: "Mine", Query: "user:me"}})
	mustRun(t, c, repo, c.Start())
	mustRun(t, c, repo, c.SelectView(Forward))

	req := c.ReplaceViews([]View{{Title: "WIP", Query: "wip:true"}, {Title: "Mine", Query: "user:me"}})
	if req.View.Title != "Mine" {
		t.Fatalf("expected reload of surviving view, got %+v", req.View)
	}
	mustRun(t, c, repo, req)
	if c.ViewIndex() != 1 {
		t.Fatalf("expected index 1, got %d", c.ViewIndex())
	}

	req = c.ReplaceViews([]View{{Title: "WIP", Query: "wip:true"}})
	if req.View.Title != "WIP" {
		t.Fatalf("expected fallback to first view, got %+v", req.View)
	}
}

func TestController_SelectionBoundsUnderRandomOperations(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 67, 20)
	repo.addView("user:me", 200, 0, 20)
	repo.addView("wip:true", 300, 21, 20)
	c := New([]View{{Title: "All"}, {Title: "Mine", Query: "user:me"}, {Title: "WIP", Query: "wip:true"}})
	mustRun(t, c, repo, c.Start())

	rng := rand.New(rand.NewSource(42))
	for step := 0; step < 2000; step++ {
		switch rng.Intn(8) {
		case 0:
			c.MoveSelection(Forward)
		case 1:
			c.MoveSelection(Backward)
		case 2:
			c.MoveSelectionBy(rng.Intn(30) - 15)
		case 3:
			act, err := c.ActivateSelection()
			if err == nil && act.Kind == ActivateLoadMore {
				run(t, c, repo, act.Request)
			}
		case 4:
			dir := Forward
			if rng.Intn(2) == 0 {
				dir = Backward
			}
			run(t, c, repo, c.SelectView(dir))
		case 5:
			if req, ok, err := c.ApplyAction(Action(rng.Intn(4) + 1)); ok && err == nil {
				run(t, c, repo, req)
			}
		case 6:
			c.SelectLast()
		case 7:
			c.SelectFirst()
		}
		assertSelectionValid(t, c)
		proj := c.Projection()
		if proj.HasNext != (len(proj.Rows) > 0 && proj.Rows[len(proj.Rows)-1].IsSentinel) {
			t.Fatalf("step %d: sentinel row mismatch", step)
		}
		for i, row := range proj.Rows {
			if row.IsSentinel && i != len(proj.Rows)-1 {
				t.Fatalf("step %d: sentinel not at end", step)
			}
		}
	}
}

func TestController_NoSentinelOnceLastPageLoaded(t *testing.T) {
	repo := newFakeRepo()
	repo.addView("", 1, 40, 20)
	c := New(nil)
	mustRun(t, c, repo, c.Start())
	c.SelectLast()
	act, _ := c.ActivateSelection()
	mustRun(t, c, repo, act.Request)

	for i := 0; i < 50; i++ {
		c.MoveSelection(Forward)
		if c.Selection().Kind == SelectSentinel {
			t.Fatal("sentinel selectable after final page")
		}
	}
	act, err := c.ActivateSelection()
	if err != nil || act.Kind != ActivateOpen {
		t.Fatalf("expected last item to open, got %+v err=%v", act, err)
	}
	for _, row := range c.Projection().Rows {
		if row.IsSentinel {
			t.Fatal("sentinel row rendered after final page")
		}
	}
}
