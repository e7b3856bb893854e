package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPopulationCrash  BookmarkType = "population_crash"
	BookmarkExtinction       BookmarkType = "extinction"
	BookmarkBabyBoom         BookmarkType = "baby_boom"
	BookmarkSkillCap         BookmarkType = "skill_cap"
	BookmarkStablePopulation BookmarkType = "stable_population"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	skillCap int

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPeak         int  // peak slime count since the last crash
	extinct            bool // last window had no slimes
	capReached         bool // a slime has hit the skill cap
	stableWindowsCount int  // consecutive windows with a steady population
}

// NewBookmarkDetector creates a detector with the given history size.
// skillCap is the per-slime skill total that triggers the skill_cap bookmark.
func NewBookmarkDetector(historySize, skillCap int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable population detection
	}
	return &BookmarkDetector{
		skillCap:    skillCap,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSkillCap(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Baby boom: births > 2x rolling average
		if b := bd.checkBabyBoom(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Population crash: dropped >30% from recent peak
		if b := bd.checkPopulationCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Stable population: low variance over 5+ windows
		if b := bd.checkStablePopulation(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.Slimes > bd.recentPeak {
		bd.recentPeak = stats.Slimes
	}

	return bookmarks
}

// Reset clears all history, e.g. after the world is reseeded.
func (bd *BookmarkDetector) Reset() {
	*bd = *NewBookmarkDetector(bd.historySize, bd.skillCap)
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.Slimes > 0 {
		bd.extinct = false
		return nil
	}
	if bd.extinct {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("All slimes died after %.0fs", stats.SimTimeSec),
	}
}

func (bd *BookmarkDetector) checkSkillCap(stats WindowStats) *Bookmark {
	if bd.capReached || bd.skillCap <= 0 || stats.MaxSkill < bd.skillCap {
		return nil
	}
	bd.capReached = true
	return &Bookmark{
		Type:        BookmarkSkillCap,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("First slime reached the skill cap of %d", bd.skillCap),
	}
}

func (bd *BookmarkDetector) checkBabyBoom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var totalBirths int
	for _, h := range history {
		totalBirths += h.Births
	}
	avgBirths := float64(totalBirths) / float64(len(history))

	if stats.Births >= 5 && float64(stats.Births) > avgBirths*2.0 {
		return &Bookmark{
			Type:        BookmarkBabyBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d births is %.1fx average (%.1f)", stats.Births, float64(stats.Births)/max(avgBirths, 1), avgBirths),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Slimes)/float64(bd.recentPeak)
	if dropPercent > 0.30 && stats.Slimes < bd.recentPeak-5 {
		// Reset peak after crash
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Slimes

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Slimes crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Slimes),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStablePopulation(stats WindowStats) *Bookmark {
	if stats.Slimes < 5 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	// Check variance in recent windows
	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += float64(h.Slimes)
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := float64(h.Slimes) - mean
		variance += d * d
	}
	variance /= 4

	cv2 := 0.0
	if mean > 0 {
		cv2 = variance / (mean * mean)
	}

	if cv2 < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable population of %d slimes over 5+ windows", stats.Slimes),
		}
	}

	return nil
}
