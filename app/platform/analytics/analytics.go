// Package analytics records usage events to the append-only log and derives
// the admin summary from it. Admin logins are deliberately never recorded;
// the login log covers job seekers only.
package analytics

import (
	"sort"
	"time"

	"jobboard/app/database"
)

const (
	recentWindowDays = 30
	historyLimit     = 100
)

type Service struct {
	store *database.Store
}

func NewService(store *database.Store) *Service {
	return &Service{store: store}
}

func (s *Service) TrackLogin(userID int, email string) error {
	return s.store.UpdateAnalytics(func(a *database.AnalyticsLog) {
		a.Logins = append(a.Logins, database.LoginEvent{
			UserID:    userID,
			Email:     email,
			Timestamp: time.Now().UTC(),
		})
	})
}

func (s *Service) TrackApplication(userID int, email, jobID, jobTitle, company string) error {
	return s.store.UpdateAnalytics(func(a *database.AnalyticsLog) {
		a.Applications = append(a.Applications, database.ApplicationEvent{
			UserID:    userID,
			Email:     email,
			JobID:     jobID,
			JobTitle:  jobTitle,
			Company:   company,
			Timestamp: time.Now().UTC(),
		})
	})
}

func (s *Service) TrackPageView(userID int, email, page string) error {
	return s.store.UpdateAnalytics(func(a *database.AnalyticsLog) {
		a.PageViews = append(a.PageViews, database.PageViewEvent{
			UserID:    userID,
			Email:     email,
			Page:      page,
			Timestamp: time.Now().UTC(),
		})
	})
}

type ApplicationRecord struct {
	JobID     string    `json:"jobId"`
	JobTitle  string    `json:"jobTitle"`
	Company   string    `json:"company"`
	Timestamp time.Time `json:"timestamp"`
}

type JobApplications struct {
	JobID    string `json:"jobId"`
	JobTitle string `json:"jobTitle"`
	Company  string `json:"company"`
	Count    int    `json:"count"`
	Users    []int  `json:"users"`
}

type UserApplications struct {
	UserID       int                 `json:"userId"`
	Email        string              `json:"email"`
	Applications []ApplicationRecord `json:"applications"`
}

type Summary struct {
	TotalUsers          int                         `json:"totalUsers"`
	UniqueLoggedInUsers int                         `json:"uniqueLoggedInUsers"`
	TotalLogins         int                         `json:"totalLogins"`
	RecentLogins        int                         `json:"recentLogins"`
	TotalApplications   int                         `json:"totalApplications"`
	RecentApplications  int                         `json:"recentApplications"`
	ApplicationsByJob   []JobApplications           `json:"applicationsByJob"`
	UserApplications    []UserApplications          `json:"userApplications"`
	LoginHistory        []database.LoginEvent       `json:"loginHistory"`
	ApplicationHistory  []database.ApplicationEvent `json:"applicationHistory"`
}

// Summarize recomputes every aggregate from the full event log and the user
// table. Nothing is cached or materialized.
func (s *Service) Summarize() Summary {
	log := s.store.Analytics()
	users := s.store.Users()
	cutoff := time.Now().AddDate(0, 0, -recentWindowDays)

	summary := Summary{
		TotalLogins:       len(log.Logins),
		TotalApplications: len(log.Applications),
	}

	for _, u := range users {
		if u.Role == database.RoleUser {
			summary.TotalUsers++
		}
	}

	loggedIn := make(map[int]struct{})
	for _, l := range log.Logins {
		loggedIn[l.UserID] = struct{}{}
		if !l.Timestamp.Before(cutoff) {
			summary.RecentLogins++
		}
	}
	summary.UniqueLoggedInUsers = len(loggedIn)

	// Per-job leaderboard: title and company come from the first event seen
	// for the job, entries keep encounter order among equal counts.
	jobIndex := make(map[string]int)
	userIndex := make(map[int]int)
	for _, a := range log.Applications {
		if !a.Timestamp.Before(cutoff) {
			summary.RecentApplications++
		}

		i, ok := jobIndex[a.JobID]
		if !ok {
			i = len(summary.ApplicationsByJob)
			jobIndex[a.JobID] = i
			summary.ApplicationsByJob = append(summary.ApplicationsByJob, JobApplications{
				JobID:    a.JobID,
				JobTitle: a.JobTitle,
				Company:  a.Company,
			})
		}
		job := &summary.ApplicationsByJob[i]
		job.Count++
		if !containsInt(job.Users, a.UserID) {
			job.Users = append(job.Users, a.UserID)
		}

		j, ok := userIndex[a.UserID]
		if !ok {
			j = len(summary.UserApplications)
			userIndex[a.UserID] = j
			summary.UserApplications = append(summary.UserApplications, UserApplications{
				UserID: a.UserID,
				Email:  a.Email,
			})
		}
		summary.UserApplications[j].Applications = append(summary.UserApplications[j].Applications, ApplicationRecord{
			JobID:     a.JobID,
			JobTitle:  a.JobTitle,
			Company:   a.Company,
			Timestamp: a.Timestamp,
		})
	}

	sort.SliceStable(summary.ApplicationsByJob, func(i, j int) bool {
		return summary.ApplicationsByJob[i].Count > summary.ApplicationsByJob[j].Count
	})

	summary.LoginHistory = lastReversedLogins(log.Logins)
	summary.ApplicationHistory = lastReversedApplications(log.Applications)

	return summary
}

func containsInt(values []int, v int) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}

func lastReversedLogins(events []database.LoginEvent) []database.LoginEvent {
	start := 0
	if len(events) > historyLimit {
		start = len(events) - historyLimit
	}
	out := make([]database.LoginEvent, 0, len(events)-start)
	for i := len(events) - 1; i >= start; i-- {
		out = append(out, events[i])
	}
	return out
}

func lastReversedApplications(events []database.ApplicationEvent) []database.ApplicationEvent {
	start := 0
	if len(events) > historyLimit {
		start = len(events) - historyLimit
	}
	out := make([]database.ApplicationEvent, 0, len(events)-start)
	for i := len(events) - 1; i >= start; i-- {
		out = append(out, events[i])
	}
	return out
}
