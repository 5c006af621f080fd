package analytics

import (
	"os"
	"testing"
	"time"

	"jobboard/app/database"
)

type memBackend struct {
	docs map[string][]byte
}

func (b *memBackend) Read(name string) ([]byte, error) {
	data, ok := b.docs[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (b *memBackend) Write(name string, data []byte) error {
	b.docs[name] = data
	return nil
}

func newService() (*Service, *database.Store) {
	store := database.NewStore(&memBackend{docs: make(map[string][]byte)})
	return NewService(store), store
}

func seedUsers(t *testing.T, store *database.Store, users ...database.User) {
	t.Helper()
	err := store.UpdateUsers(func(existing []database.User) ([]database.User, error) {
		return append(existing, users...), nil
	})
	if err != nil {
		t.Fatalf("seed users: %v", err)
	}
}

func TestSummarizeAggregates(t *testing.T) {
	service, store := newService()

	seedUsers(t, store,
		database.User{ID: 1, Email: "a@example.com", Role: database.RoleUser},
		database.User{ID: 2, Email: "b@example.com", Role: database.RoleUser},
		database.User{ID: 3, Email: "admin@example.com", Role: database.RoleAdmin},
	)

	for i := 0; i < 3; i++ {
		if err := service.TrackLogin(1, "a@example.com"); err != nil {
			t.Fatalf("TrackLogin error: %v", err)
		}
	}
	if err := service.TrackLogin(2, "b@example.com"); err != nil {
		t.Fatalf("TrackLogin error: %v", err)
	}

	if err := service.TrackApplication(1, "a@example.com", "job1", "Backend Engineer", "Acme"); err != nil {
		t.Fatalf("TrackApplication error: %v", err)
	}
	if err := service.TrackApplication(1, "a@example.com", "job1", "Backend Engineer", "Acme"); err != nil {
		t.Fatalf("TrackApplication error: %v", err)
	}
	if err := service.TrackApplication(2, "b@example.com", "job2", "Data Analyst", "Globex"); err != nil {
		t.Fatalf("TrackApplication error: %v", err)
	}

	summary := service.Summarize()

	if summary.TotalUsers != 2 {
		t.Errorf("TotalUsers = %d; want 2 (admin excluded)", summary.TotalUsers)
	}
	if summary.TotalLogins != 4 {
		t.Errorf("TotalLogins = %d; want 4", summary.TotalLogins)
	}
	if summary.UniqueLoggedInUsers != 2 {
		t.Errorf("UniqueLoggedInUsers = %d; want 2", summary.UniqueLoggedInUsers)
	}
	if summary.TotalApplications != 3 {
		t.Errorf("TotalApplications = %d; want 3", summary.TotalApplications)
	}

	if len(summary.ApplicationsByJob) != 2 {
		t.Fatalf("len(ApplicationsByJob) = %d; want 2", len(summary.ApplicationsByJob))
	}
	top := summary.ApplicationsByJob[0]
	if top.JobID != "job1" || top.Count != 2 {
		t.Errorf("top job = %s count %d; want job1 count 2", top.JobID, top.Count)
	}
	if len(top.Users) != 1 || top.Users[0] != 1 {
		t.Errorf("top job users = %v; want [1]", top.Users)
	}
	if summary.ApplicationsByJob[1].JobID != "job2" {
		t.Errorf("second job = %s; want job2", summary.ApplicationsByJob[1].JobID)
	}

	if len(summary.UserApplications) != 2 {
		t.Fatalf("len(UserApplications) = %d; want 2", len(summary.UserApplications))
	}
	if summary.UserApplications[0].UserID != 1 || len(summary.UserApplications[0].Applications) != 2 {
		t.Errorf("first applicant history = %+v; want user 1 with 2 applications", summary.UserApplications[0])
	}
}

func TestSummarizeStableTieOrder(t *testing.T) {
	service, _ := newService()

	// Equal counts keep first-encounter order.
	if err := service.TrackApplication(1, "a@example.com", "jobA", "Title A", "Acme"); err != nil {
		t.Fatalf("TrackApplication error: %v", err)
	}
	if err := service.TrackApplication(2, "b@example.com", "jobB", "Title B", "Globex"); err != nil {
		t.Fatalf("TrackApplication error: %v", err)
	}

	summary := service.Summarize()
	if summary.ApplicationsByJob[0].JobID != "jobA" || summary.ApplicationsByJob[1].JobID != "jobB" {
		t.Errorf("tie order = %s, %s; want jobA, jobB", summary.ApplicationsByJob[0].JobID, summary.ApplicationsByJob[1].JobID)
	}
}

func TestSummarizeRecencyWindow(t *testing.T) {
	service, store := newService()

	err := store.UpdateAnalytics(func(a *database.AnalyticsLog) {
		a.Logins = append(a.Logins,
			database.LoginEvent{UserID: 1, Email: "a@example.com", Timestamp: time.Now().AddDate(0, 0, -31)},
			database.LoginEvent{UserID: 1, Email: "a@example.com", Timestamp: time.Now().AddDate(0, 0, -29)},
		)
		a.Applications = append(a.Applications,
			database.ApplicationEvent{UserID: 1, Email: "a@example.com", JobID: "job1", Timestamp: time.Now().AddDate(0, 0, -31)},
			database.ApplicationEvent{UserID: 1, Email: "a@example.com", JobID: "job1", Timestamp: time.Now().AddDate(0, 0, -29)},
		)
	})
	if err != nil {
		t.Fatalf("seed analytics: %v", err)
	}

	summary := service.Summarize()

	if summary.TotalLogins != 2 || summary.RecentLogins != 1 {
		t.Errorf("logins total %d recent %d; want 2 and 1", summary.TotalLogins, summary.RecentLogins)
	}
	if summary.TotalApplications != 2 || summary.RecentApplications != 1 {
		t.Errorf("applications total %d recent %d; want 2 and 1", summary.TotalApplications, summary.RecentApplications)
	}
}

func TestSummarizeHistoryTruncation(t *testing.T) {
	service, store := newService()

	base := time.Now().Add(-time.Hour)
	err := store.UpdateAnalytics(func(a *database.AnalyticsLog) {
		for i := 0; i < 150; i++ {
			a.Logins = append(a.Logins, database.LoginEvent{
				UserID:    i,
				Email:     "a@example.com",
				Timestamp: base.Add(time.Duration(i) * time.Second),
			})
		}
	})
	if err != nil {
		t.Fatalf("seed analytics: %v", err)
	}

	summary := service.Summarize()

	if len(summary.LoginHistory) != 100 {
		t.Fatalf("len(LoginHistory) = %d; want 100", len(summary.LoginHistory))
	}
	if summary.LoginHistory[0].UserID != 149 {
		t.Errorf("newest entry UserID = %d; want 149", summary.LoginHistory[0].UserID)
	}
	if summary.LoginHistory[99].UserID != 50 {
		t.Errorf("oldest kept entry UserID = %d; want 50", summary.LoginHistory[99].UserID)
	}
}

func TestPageViewsLoggedButNotSummarized(t *testing.T) {
	service, store := newService()

	if err := service.TrackPageView(1, "a@example.com", "/jobs"); err != nil {
		t.Fatalf("TrackPageView error: %v", err)
	}

	if got := len(store.Analytics().PageViews); got != 1 {
		t.Errorf("len(PageViews) = %d; want 1", got)
	}
}
