package sim

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang = language.English

// CI is a confidence interval.
type CI struct {
	Lo float64
	Hi float64
}

// Report summarizes a batch of runs.
type Report struct {
	LevelID    string
	Strategy   string
	Runs       int
	Failed     int // runs that ended in an engine error
	Wins       int
	WinRate    float64
	WinCI      CI
	Confidence float64

	MovesMean float64
	MovesStd  float64
	MovesP50  float64
	MovesP90  float64

	CollectedMean float64
	LeftOnWinMean float64 // moves left over, averaged over won runs

	Elapsed time.Duration
}

// Summarize computes the report for finished runs.
func Summarize(levelID, strategy string, runs []Run, confidence float64) *Report {
	r := &Report{LevelID: levelID, Strategy: strategy, Runs: len(runs), Confidence: confidence}

	var moves, collected, leftOnWin []float64
	for _, run := range runs {
		if run.Err != nil {
			r.Failed++
			continue
		}
		moves = append(moves, float64(run.Outcome.MovesMade))
		collected = append(collected, float64(run.Outcome.Collected))
		if run.Outcome.Won {
			r.Wins++
			leftOnWin = append(leftOnWin, float64(run.Outcome.MovesLeft))
		}
	}

	played := len(moves)
	r.WinRate, r.WinCI = proportionCI(r.Wins, played, confidence)
	if played == 0 {
		return r
	}

	r.MovesMean, r.MovesStd = stat.MeanStdDev(moves, nil)
	if played < 2 {
		r.MovesStd = 0
	}
	sort.Float64s(moves)
	r.MovesP50 = stat.Quantile(0.5, stat.Empirical, moves, nil)
	r.MovesP90 = stat.Quantile(0.9, stat.Empirical, moves, nil)
	r.CollectedMean = stat.Mean(collected, nil)
	if len(leftOnWin) > 0 {
		r.LeftOnWinMean = stat.Mean(leftOnWin, nil)
	}
	return r
}

// proportionCI returns the Clopper-Pearson exact interval for k successes out of n.
func proportionCI(k, n int, confidence float64) (float64, CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat := float64(k) / float64(n)

	var ci CI
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return pHat, ci
}

// Table renders the report as a boxed key/value table.
func (r *Report) Table() string {
	p := message.NewPrinter(lang)
	keys := []string{
		"Level", "Strategy", "Runs", "Failed", "Wins", "Win rate",
		fmt.Sprintf("Win rate %g%% CI", math.Round(1000*r.Confidence)/10),
		"Moves mean", "Moves std", "Moves p50", "Moves p90",
		"Collected mean", "Moves left on win", "Elapsed",
	}
	vals := map[string]string{
		"Level":             r.LevelID,
		"Strategy":          r.Strategy,
		"Runs":              p.Sprintf("%d", r.Runs),
		"Failed":            p.Sprintf("%d", r.Failed),
		"Wins":              p.Sprintf("%d", r.Wins),
		"Win rate":          p.Sprintf("%.2f %%", 100*r.WinRate),
		keys[6]:             p.Sprintf("[%.2f%%, %.2f%%]", 100*r.WinCI.Lo, 100*r.WinCI.Hi),
		"Moves mean":        p.Sprintf("%.2f", r.MovesMean),
		"Moves std":         p.Sprintf("%.2f", r.MovesStd),
		"Moves p50":         p.Sprintf("%.0f", r.MovesP50),
		"Moves p90":         p.Sprintf("%.0f", r.MovesP90),
		"Collected mean":    p.Sprintf("%.1f", r.CollectedMean),
		"Moves left on win": p.Sprintf("%.2f", r.LeftOnWinMean),
		"Elapsed":           r.Elapsed.Round(time.Millisecond).String(),
	}
	return FormatTable("Blast simulation", keys, vals)
}

// FormatTable draws a two-column table with a centered title.
func FormatTable(title string, keys []string, vals map[string]string) string {
	maxKeyLen := 0
	maxValLen := 0
	for _, k := range keys {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(vals[k]); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", totalInner) + "+\n"
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		v := vals[k]
		sb.WriteString("| " + k + blank(maxKeyLen-2-runewidth.StringWidth(k)) +
			" | " + v + blank(maxValLen-2-runewidth.StringWidth(v)) + " |\n")
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
