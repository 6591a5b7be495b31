package mongo

import (
	"testing"

	"github.com/99minutos/task-manager/internal/core/domain"
	"github.com/99minutos/task-manager/internal/core/ports"
)

func TestBuildTaskFilters(t *testing.T) {
	count, window := buildTaskFilters(ports.ListTasksFilter{
		OwnerID: "user-1",
		Status:  domain.TaskDone,
		Cursor:  "01HZZZZZZZZZZZZZZZZZZZZZZZ",
	})

	if count["user_id"] != "user-1" || count["status"] != "done" {
		t.Fatalf("unexpected count filter: %v", count)
	}
	if _, ok := count["_id"]; ok {
		t.Fatalf("count filter must ignore the cursor: %v", count)
	}
	if window["user_id"] != "user-1" || window["status"] != "done" {
		t.Fatalf("window filter must keep owner and status: %v", window)
	}
	if _, ok := window["_id"]; !ok {
		t.Fatalf("window filter must carry the cursor condition: %v", window)
	}
}

func TestBuildTaskFilters_Empty(t *testing.T) {
	count, window := buildTaskFilters(ports.ListTasksFilter{})
	if len(count) != 0 || len(window) != 0 {
		t.Fatalf("expected empty filters, got %v / %v", count, window)
	}
}

func TestBuildTaskFindOptions(t *testing.T) {
	opts := buildTaskFindOptions(ports.ListTasksFilter{Skip: 20, Limit: 11})
	if opts.Skip == nil || *opts.Skip != 20 {
		t.Fatalf("expected skip 20, got %v", opts.Skip)
	}
	if opts.Limit == nil || *opts.Limit != 11 {
		t.Fatalf("expected limit 11, got %v", opts.Limit)
	}

	opts = buildTaskFindOptions(ports.ListTasksFilter{Skip: 20, Limit: 11, Cursor: "x"})
	if opts.Skip != nil {
		t.Fatalf("skip must be ignored with a cursor, got %v", *opts.Skip)
	}
}
