package tracker

// User selectors understood by Project.List.
const (
	UserCurrent    = "me"
	UserUnassigned = "none"
)

// UserDataSearches is the user data key holding named searches (map[string]string).
const UserDataSearches = "searches"

// CommentHandle is a fetched comment that can be changed in place.
type CommentHandle interface {
	Body() string
	Update(body string) error
	Delete() error
}

// Project is the backend collaborator for one tracker project.
// Lookups of unknown issues return a *NotFoundError.
type Project interface {
	Key() string

	Issue(key string) (*Issue, error)
	List(userID string) ([]Issue, error)
	Search(text string) ([]Issue, error)
	SearchIssues(query string) ([]Issue, error)

	Move(key string, target string) (bool, error)
	Close(key string) (bool, error)
	New(summary string, description string, issueType string) (*Issue, error)
	Subtask(parentKey string, summary string, description string) (*Issue, error)
	Link(leftKey string, rightKey string, relation string) error
	Unlink(leftKey string, rightKey string) error
	Comment(key string, text string) error
	GetComment(key string, commentID string) (CommentHandle, error)
	Assign(key string, user string) error
	UpdateIssue(key string, update IssueUpdate) error

	Transitions(key string) ([]Transition, error)
	States() ([]Status, error)
	IssueTypes() ([]IssueType, error)
	LinkTypes() ([]LinkType, error)

	Refresh() error
	IndexIssues() error

	UserData(key string) (any, bool)
	SetUserData(key string, value any)
}
