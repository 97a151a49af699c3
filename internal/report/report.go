// Package report aggregates time entries into totals, activity maps and
// windowed reports. Every query scans the daily files on demand; nothing is
// cached between calls.
package report

import (
	"iter"
	"sort"
	"time"

	"github.com/donburnsideAZ/project-tracker/internal/clock"
	"github.com/donburnsideAZ/project-tracker/internal/model"
	"github.com/donburnsideAZ/project-tracker/internal/storage"
	"github.com/donburnsideAZ/project-tracker/internal/timecalc"
)

// Entries is the part of the time-entry store the engine reads.
type Entries interface {
	ScanAll() iter.Seq[storage.DayRecord]
	ScanUser(user string) iter.Seq[storage.DayRecord]
	LoadDay(user, date string) (model.DailyTimeFile, error)
}

// Projects resolves project ids to names and targets.
type Projects interface {
	Lookup(ref string) (model.Project, bool)
}

// Engine computes aggregates over the time-entry store.
type Engine struct {
	entries  Entries
	projects Projects
	clock    clock.Clock
}

// NewEngine returns an Engine. projects may be nil, in which case reports
// carry project ids without names or targets.
func NewEngine(entries Entries, projects Projects, c clock.Clock) *Engine {
	if c == nil {
		c = clock.Real()
	}
	return &Engine{entries: entries, projects: projects, clock: c}
}

func (e *Engine) lookup(id string) (model.Project, bool) {
	if e.projects == nil {
		return model.Project{}, false
	}
	return e.projects.Lookup(id)
}

// ProjectTotalHours sums the hours logged against projectID by every user.
func (e *Engine) ProjectTotalHours(projectID string) int {
	total := 0
	for rec := range e.entries.ScanAll() {
		for _, te := range rec.Entries {
			if te.ProjectID == projectID {
				total += te.Hours
			}
		}
	}
	return total
}

// activityTime is the log timestamp of te, else its work date at local
// midnight. It reports false when neither is usable.
func activityTime(te model.TimeEntry) (time.Time, bool) {
	if !te.CreatedAt.IsZero() {
		return te.CreatedAt, true
	}
	if te.Date == "" {
		return time.Time{}, false
	}
	d, err := timecalc.ParseDate(te.Date, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// UserLastActivity returns, per project, the latest activity of user.
func (e *Engine) UserLastActivity(user string) map[string]time.Time {
	last := map[string]time.Time{}
	for rec := range e.entries.ScanUser(user) {
		for _, te := range rec.Entries {
			t, ok := activityTime(te)
			if !ok {
				continue
			}
			if t.After(last[te.ProjectID]) {
				last[te.ProjectID] = t
			}
		}
	}
	return last
}

// TodayTotal returns the hours in user's file for today.
func (e *Engine) TodayTotal(user string) int {
	day, err := e.entries.LoadDay(user, clock.Today(e.clock))
	if err != nil {
		return 0
	}
	return day.TotalHours()
}

// Filter selects entries by file date and owning user. An empty User selects
// every user.
type Filter struct {
	From time.Time
	To   time.Time
	User string
}

// ProjectTotal is one row of the per-project grouping.
type ProjectTotal struct {
	ProjectID string  `json:"project_id"`
	Name      string  `json:"name"`
	Hours     int     `json:"hours"`
	Target    float64 `json:"target_hours"`
	Ratio     Ratio   `json:"ratio"`
}

// WorkTypeTotal is one row of the per-work-type grouping.
type WorkTypeTotal struct {
	WorkType string `json:"work_type"`
	Hours    int    `json:"hours"`
	Percent  Ratio  `json:"percent"`
}

// Row is one entry in export form.
type Row struct {
	Date        string `json:"date"`
	User        string `json:"user"`
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	WorkType    string `json:"work_type"`
	Hours       int    `json:"hours"`
	Notes       string `json:"notes"`
}

// Result is a windowed report.
type Result struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	User         string          `json:"user,omitempty"`
	TotalHours   int             `json:"total_hours"`
	EntryCount   int             `json:"entry_count"`
	ProjectCount int             `json:"project_count"`
	Days         int             `json:"days"`
	AvgPerDay    Ratio           `json:"avg_per_day"`
	AvgRatio     Ratio           `json:"avg_ratio"`
	ByProject    []ProjectTotal  `json:"by_project"`
	ByWorkType   []WorkTypeTotal `json:"by_work_type"`
	Rows         []Row           `json:"rows"`
}

// Report aggregates the entries whose file date lies in [f.From, f.To].
func (e *Engine) Report(f Filter) Result {
	from, to := timecalc.FormatDate(f.From), timecalc.FormatDate(f.To)
	res := Result{
		From:       from,
		To:         to,
		User:       f.User,
		Days:       timecalc.DayCount(f.From, f.To),
		ByProject:  []ProjectTotal{},
		ByWorkType: []WorkTypeTotal{},
		Rows:       []Row{},
	}

	byProject := map[string]int{}
	byWorkType := map[string]int{}
	for rec := range e.entries.ScanAll() {
		if rec.Date < from || rec.Date > to {
			continue
		}
		if f.User != "" && rec.UserID != f.User {
			continue
		}
		for _, te := range rec.Entries {
			res.TotalHours += te.Hours
			res.EntryCount++
			byProject[te.ProjectID] += te.Hours
			byWorkType[te.WorkType] += te.Hours

			p, _ := e.lookup(te.ProjectID)
			res.Rows = append(res.Rows, Row{
				Date:        rec.Date,
				User:        rec.UserID,
				ProjectID:   te.ProjectID,
				ProjectName: p.Name,
				WorkType:    te.WorkType,
				Hours:       te.Hours,
				Notes:       te.Notes,
			})
		}
	}

	var ratioSum float64
	var ratioCount int
	for id, hours := range byProject {
		pt := ProjectTotal{ProjectID: id, Hours: hours}
		if p, ok := e.lookup(id); ok {
			pt.Name = p.Name
			pt.Target = p.TargetHours
		}
		pt.Ratio = Divide(float64(hours), pt.Target)
		if pt.Ratio.Valid {
			ratioSum += pt.Ratio.Value
			ratioCount++
		}
		res.ByProject = append(res.ByProject, pt)
	}
	sort.Slice(res.ByProject, func(i, j int) bool {
		a, b := res.ByProject[i], res.ByProject[j]
		if a.Hours != b.Hours {
			return a.Hours > b.Hours
		}
		return a.ProjectID < b.ProjectID
	})

	for wt, hours := range byWorkType {
		res.ByWorkType = append(res.ByWorkType, WorkTypeTotal{
			WorkType: wt,
			Hours:    hours,
			Percent:  Divide(float64(hours), float64(res.TotalHours)),
		})
	}
	sort.Slice(res.ByWorkType, func(i, j int) bool {
		a, b := res.ByWorkType[i], res.ByWorkType[j]
		if a.Hours != b.Hours {
			return a.Hours > b.Hours
		}
		return a.WorkType < b.WorkType
	})

	sort.SliceStable(res.Rows, func(i, j int) bool {
		if res.Rows[i].Date != res.Rows[j].Date {
			return res.Rows[i].Date < res.Rows[j].Date
		}
		return res.Rows[i].User < res.Rows[j].User
	})

	res.ProjectCount = len(byProject)
	res.AvgPerDay = Divide(float64(res.TotalHours), float64(res.Days))
	res.AvgRatio = Divide(ratioSum, float64(ratioCount))
	return res
}

// LogLine is one entry in a project's time log.
type LogLine struct {
	Date     string `json:"date"`
	User     string `json:"user"`
	WorkType string `json:"work_type"`
	Hours    int    `json:"hours"`
	Notes    string `json:"notes"`
}

// ProjectLog is every user's time on one project.
type ProjectLog struct {
	ProjectID string    `json:"project_id"`
	Lines     []LogLine `json:"lines"`
	Total     int       `json:"total"`
}

// ProjectLog lists every entry logged against projectID, newest work date
// first.
func (e *Engine) ProjectLog(projectID string) ProjectLog {
	log := ProjectLog{ProjectID: projectID, Lines: []LogLine{}}
	for rec := range e.entries.ScanAll() {
		for _, te := range rec.Entries {
			if te.ProjectID != projectID {
				continue
			}
			date := te.Date
			if date == "" {
				date = rec.Date
			}
			log.Lines = append(log.Lines, LogLine{
				Date:     date,
				User:     rec.UserID,
				WorkType: te.WorkType,
				Hours:    te.Hours,
				Notes:    te.Notes,
			})
			log.Total += te.Hours
		}
	}
	sort.SliceStable(log.Lines, func(i, j int) bool {
		if log.Lines[i].Date != log.Lines[j].Date {
			return log.Lines[i].Date > log.Lines[j].Date
		}
		return log.Lines[i].User < log.Lines[j].User
	})
	return log
}
