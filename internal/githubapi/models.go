package githubapi

import "time"

// CreateRepositoryOptions configures repository creation requests.
type CreateRepositoryOptions struct {
	Name        string
	Description string
	Private     bool
	AutoInit    bool
}

// CreatedRepository contains the key details returned after repository creation.
type CreatedRepository struct {
	Name     string
	FullName string
	CloneURL string
	HTMLURL  string
}

// Repository describes a repository entry returned by the listing endpoint.
type Repository struct {
	Name      string
	FullName  string
	Private   bool
	HTMLURL   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type createRepositoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
	AutoInit    bool   `json:"auto_init"`
}

type createRepositoryResponse struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	CloneURL string `json:"clone_url"`
	HTMLURL  string `json:"html_url"`
}

type actionsPermissionsPayload struct {
	Enabled        bool   `json:"enabled"`
	AllowedActions string `json:"allowed_actions"`
}

type workflowPermissionsPayload struct {
	DefaultWorkflowPermissions   string `json:"default_workflow_permissions"`
	CanApprovePullRequestReviews bool   `json:"can_approve_pull_request_reviews"`
}

type repositoryListEntry struct {
	Name      string    `json:"name"`
	FullName  string    `json:"full_name"`
	Private   bool      `json:"private"`
	HTMLURL   string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
