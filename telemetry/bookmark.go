package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSurvivalBreakthrough BookmarkType = "survival_breakthrough"
	BookmarkSurvivalCrash        BookmarkType = "survival_crash"
	BookmarkDiversityCollapse    BookmarkType = "diversity_collapse"
	BookmarkConverged            BookmarkType = "converged"
)

// Detector thresholds.
const (
	breakthroughFactor  = 1.5  // rate vs rolling mean
	breakthroughMinRate = 5.0  // percent
	crashDrop           = 0.30 // fraction of recent peak
	crashMinPoints      = 5.0  // percentage points
	diversityFloor      = 0.05 // distinct genomes / population
	convergedCV         = 0.05 // coefficient of variation of survival rate
	convergedWindow     = 4    // generations the CV is measured over
	convergedRuns       = 5    // consecutive stable checks before triggering
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Generation  int          `csv:"generation"`
	Description string       `csv:"description"`
}

// Log writes the bookmark to logger.
func (b Bookmark) Log(logger *slog.Logger) {
	logger.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a run from the stream of
// completed generations.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []GenerationStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPeak      float64 // highest survival rate since the last crash
	diverse         bool    // last generation was above the diversity floor
	stableRunsCount int     // consecutive checks with a stable survival rate
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < convergedWindow+1 {
		historySize = convergedWindow + 1
	}
	return &BookmarkDetector{
		history:     make([]GenerationStats, historySize),
		historySize: historySize,
		diverse:     true,
	}
}

// Check analyzes the latest generation and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkBreakthrough(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkDiversity(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if b := bd.checkConverged(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if stats.SurvivalRate > bd.recentPeak {
		bd.recentPeak = stats.SurvivalRate
	}
	return bookmarks
}

// Reset forgets all history.
func (bd *BookmarkDetector) Reset() {
	*bd = *NewBookmarkDetector(bd.historySize)
}

func (bd *BookmarkDetector) addToHistory(stats GenerationStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// rates returns the survival rates in history, oldest first.
func (bd *BookmarkDetector) rates() []float64 {
	if !bd.historyFull {
		out := make([]float64, bd.historyIdx)
		for i := range out {
			out[i] = bd.history[i].SurvivalRate
		}
		return out
	}
	out := make([]float64, bd.historySize)
	for i := range out {
		out[i] = bd.history[(bd.historyIdx+i)%bd.historySize].SurvivalRate
	}
	return out
}

func (bd *BookmarkDetector) checkBreakthrough(stats GenerationStats) *Bookmark {
	rates := bd.rates()
	if len(rates) < 3 {
		return nil
	}

	avg := stat.Mean(rates, nil)
	if avg == 0 {
		return nil
	}
	if stats.SurvivalRate > avg*breakthroughFactor && stats.SurvivalRate >= breakthroughMinRate {
		return &Bookmark{
			Type:        BookmarkSurvivalBreakthrough,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("Survival %.1f%% is %.1fx average (%.1f%%)", stats.SurvivalRate, stats.SurvivalRate/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCrash(stats GenerationStats) *Bookmark {
	if bd.recentPeak == 0 {
		return nil
	}

	drop := 1.0 - stats.SurvivalRate/bd.recentPeak
	if drop > crashDrop && stats.SurvivalRate < bd.recentPeak-crashMinPoints {
		// Reset peak after crash
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.SurvivalRate

		return &Bookmark{
			Type:        BookmarkSurvivalCrash,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("Survival crashed %.0f%% from peak %.1f%% to %.1f%%", drop*100, oldPeak, stats.SurvivalRate),
		}
	}
	return nil
}

// checkDiversity triggers once each time diversity falls below the floor.
func (bd *BookmarkDetector) checkDiversity(stats GenerationStats) *Bookmark {
	if stats.Population == 0 {
		return nil
	}
	ratio := float64(stats.DistinctGenomes) / float64(stats.Population)
	wasDiverse := bd.diverse
	bd.diverse = ratio >= diversityFloor
	if wasDiverse && !bd.diverse {
		return &Bookmark{
			Type:        BookmarkDiversityCollapse,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("Only %d distinct genomes in a population of %d", stats.DistinctGenomes, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkConverged(stats GenerationStats) *Bookmark {
	rates := bd.rates()
	if len(rates) < convergedWindow || stats.SurvivalRate == 0 {
		bd.stableRunsCount = 0
		return nil
	}

	mean, std := stat.MeanStdDev(rates[len(rates)-convergedWindow:], nil)
	if mean > 0 && std/mean < convergedCV {
		bd.stableRunsCount++
	} else {
		bd.stableRunsCount = 0
	}

	if bd.stableRunsCount == convergedRuns { // trigger exactly once per plateau
		return &Bookmark{
			Type:        BookmarkConverged,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("Survival stable near %.1f%% for %d generations", mean, convergedWindow+convergedRuns-1),
		}
	}
	return nil
}
