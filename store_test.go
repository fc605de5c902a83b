package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	s, err := openStore(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestStore_Stats(t *testing.T) {
	s, now := newTestStore(t)
	ctx := context.Background()

	*now = now.AddDate(0, 0, -10)
	mustNoErr(t, s.RecordVisit(ctx, "aaaa", "ua", "/"))
	*now = now.AddDate(0, 0, 7)
	mustNoErr(t, s.RecordVisit(ctx, "bbbb", "ua", "/"))
	*now = now.AddDate(0, 0, 3)
	mustNoErr(t, s.RecordVisit(ctx, "bbbb", "ua", "/"))

	mustNoErr(t, s.RecordProjectEvent(ctx, "a", "select"))
	mustNoErr(t, s.RecordProjectEvent(ctx, "a", "demo"))
	mustNoErr(t, s.RecordProjectEvent(ctx, "b", "github"))

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalVisitors != 3 || stats.UniqueVisitors != 2 {
		t.Errorf("total=%d unique=%d", stats.TotalVisitors, stats.UniqueVisitors)
	}
	if stats.VisitorsToday != 1 || stats.VisitorsThisWeek != 2 {
		t.Errorf("today=%d week=%d", stats.VisitorsToday, stats.VisitorsThisWeek)
	}
	if stats.ProjectEvents != 3 {
		t.Errorf("events=%d", stats.ProjectEvents)
	}
	if len(stats.TopProjects) != 2 || stats.TopProjects[0].ProjectID != "a" {
		t.Fatalf("top = %+v", stats.TopProjects)
	}
	if a := stats.TopProjects[0]; a.Selects != 1 || a.Plays != 1 || a.Total != 2 {
		t.Errorf("a = %+v", a)
	}
	if len(stats.RecentVisitors) != 3 || !stats.RecentVisitors[0].Timestamp.Equal(*now) {
		t.Errorf("recent = %+v", stats.RecentVisitors)
	}
}

func TestStore_DeleteVisitorsBefore(t *testing.T) {
	s, now := newTestStore(t)
	ctx := context.Background()

	mustNoErr(t, s.RecordVisit(ctx, "old", "", "/"))
	*now = now.Add(48 * time.Hour)
	mustNoErr(t, s.RecordVisit(ctx, "new", "", "/"))

	n, err := s.DeleteVisitorsBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}
	recent, _ := s.RecentVisitors(ctx, 10)
	if len(recent) != 1 || recent[0].HashedIP != "new" {
		t.Errorf("remaining = %+v", recent)
	}
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
