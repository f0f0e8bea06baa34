package trackertest_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/temirov/jirate/internal/tracker"
	"github.com/temirov/jirate/internal/tracker/trackertest"
)

func loadProject(t *testing.T) *trackertest.Project {
	t.Helper()
	project, loadError := trackertest.LoadFixture(filepath.Join("testdata", "project.yaml"), trackertest.NewSequence("TEST", 200))
	if loadError != nil {
		t.Fatalf("load fixture: %v", loadError)
	}
	return project
}

func TestLoadFixturePopulatesIssues(t *testing.T) {
	t.Parallel()

	project := loadProject(t)
	if diff := cmp.Diff([]string{"TEST-1", "TEST-100", "TEST-2"}, project.Keys()); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}
	issue, issueError := project.Issue("test-1")
	if issueError != nil {
		t.Fatalf("Issue: %v", issueError)
	}
	if issue.Links[1].Direction != tracker.LinkInward || issue.Links[1].TargetKey != "TEST-100" {
		t.Fatalf("unexpected second link: %+v", issue.Links[1])
	}
	if issue.Permalink() != "https://issues.example.com/browse/TEST-1" {
		t.Fatalf("unexpected permalink %s", issue.Permalink())
	}
	searches, present := project.UserData(tracker.UserDataSearches)
	if !present {
		t.Fatalf("expected searches user data")
	}
	if searches.(map[string]string)["default"] == "" {
		t.Fatalf("expected default search, got %v", searches)
	}
}

func TestSequenceIsExplicitPerProject(t *testing.T) {
	t.Parallel()

	first := trackertest.NewProject("TEST", trackertest.NewSequence("TEST", 1))
	second := trackertest.NewProject("TEST", trackertest.NewSequence("TEST", 1))
	created, _ := first.New("one", "", "Task")
	other, _ := second.New("two", "", "Task")
	if created.Key != "TEST-1" || other.Key != "TEST-1" {
		t.Fatalf("sequences must not share state: %s %s", created.Key, other.Key)
	}
	next, _ := first.New("three", "", "Task")
	if next.Key != "TEST-2" {
		t.Fatalf("expected TEST-2, got %s", next.Key)
	}
}

func TestLinkAndUnlinkMirrorBothSides(t *testing.T) {
	t.Parallel()

	project := loadProject(t)
	if linkError := project.Link("TEST-2", "TEST-100", "is blocked by"); linkError != nil {
		t.Fatalf("Link: %v", linkError)
	}
	left := project.Stored("TEST-2")
	right := project.Stored("TEST-100")
	if len(left.Links) != 1 || left.Links[0].Direction != tracker.LinkInward || left.Links[0].Relation != "is blocked by" {
		t.Fatalf("unexpected left links: %+v", left.Links)
	}
	if len(right.Links) != 1 || right.Links[0].Relation != "blocks" {
		t.Fatalf("unexpected right links: %+v", right.Links)
	}
	if unlinkError := project.Unlink("TEST-2", "TEST-100"); unlinkError != nil {
		t.Fatalf("Unlink: %v", unlinkError)
	}
	if len(left.Links) != 0 || len(right.Links) != 0 {
		t.Fatalf("expected links removed")
	}
	if linkError := project.Link("TEST-2", "TEST-100", "duplicates"); linkError == nil {
		t.Fatalf("expected unknown relation to fail")
	}
}

func TestUnknownIssueIsNotFound(t *testing.T) {
	t.Parallel()

	project := loadProject(t)
	_, issueError := project.Issue("TEST-404")
	if !errors.Is(issueError, tracker.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", issueError)
	}
}
