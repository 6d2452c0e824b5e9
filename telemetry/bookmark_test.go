package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func gen(g int, rate float64) GenerationStats {
	return GenerationStats{
		Generation:      g,
		Population:      100,
		DistinctGenomes: 50,
		SurvivalRate:    rate,
	}
}

func TestBookmarkDetector_Breakthrough(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(gen(i, 10))
	}

	bookmarks := bd.Check(gen(5, 25))
	if !hasBookmark(bookmarks, BookmarkSurvivalBreakthrough) {
		t.Error("expected survival_breakthrough bookmark")
	}
}

func TestBookmarkDetector_Crash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(gen(i, 40))
	}

	bookmarks := bd.Check(gen(5, 20))
	if !hasBookmark(bookmarks, BookmarkSurvivalCrash) {
		t.Error("expected survival_crash bookmark")
	}

	// Peak was reset, so the same level does not trigger again.
	bookmarks = bd.Check(gen(6, 20))
	if hasBookmark(bookmarks, BookmarkSurvivalCrash) {
		t.Error("crash triggered twice")
	}
}

func TestBookmarkDetector_NoCrashOnSmallDrop(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(gen(0, 10))

	// 40% relative drop but only 4 points.
	if hasBookmark(bd.Check(gen(1, 6)), BookmarkSurvivalCrash) {
		t.Error("unexpected crash for a drop under the point threshold")
	}
}

func TestBookmarkDetector_DiversityCollapseOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	low := gen(0, 10)
	low.DistinctGenomes = 2

	if !hasBookmark(bd.Check(low), BookmarkDiversityCollapse) {
		t.Fatal("expected diversity_collapse bookmark")
	}
	low.Generation = 1
	if hasBookmark(bd.Check(low), BookmarkDiversityCollapse) {
		t.Error("diversity_collapse triggered while still collapsed")
	}
	bd.Check(gen(2, 10))
	low.Generation = 3
	if !hasBookmark(bd.Check(low), BookmarkDiversityCollapse) {
		t.Error("expected diversity_collapse after recovery")
	}
}

func TestBookmarkDetector_Converged(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggered := 0
	for i := 0; i < 20; i++ {
		if hasBookmark(bd.Check(gen(i, 30)), BookmarkConverged) {
			triggered++
		}
	}
	if triggered != 1 {
		t.Errorf("converged triggered %d times, want 1", triggered)
	}
}

func TestBookmarkDetector_Reset(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 5; i++ {
		bd.Check(gen(i, 40))
	}
	bd.Reset()

	if hasBookmark(bd.Check(gen(0, 20)), BookmarkSurvivalCrash) {
		t.Error("crash detected against forgotten peak")
	}
	if len(bd.rates()) != 1 {
		t.Errorf("history length = %d, want 1", len(bd.rates()))
	}
}
