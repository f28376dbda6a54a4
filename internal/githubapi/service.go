package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultAPIBaseURLConstant                = "https://api.github.com"
	defaultPageSizeConstant                  = 100
	defaultRequestTimeoutConstant            = 30 * time.Second
	authorizationHeaderNameConstant          = "Authorization"
	authorizationHeaderTemplateConstant      = "token %s"
	acceptHeaderNameConstant                 = "Accept"
	acceptHeaderValueConstant                = "application/vnd.github.v3+json"
	contentTypeHeaderNameConstant            = "Content-Type"
	contentTypeHeaderValueConstant           = "application/json"
	createRepositoryPathConstant             = "/user/repos"
	listRepositoriesPathTemplateConstant     = "/user/repos?page=%d&per_page=%d&sort=updated&direction=desc"
	actionsPermissionsPathTemplateConstant   = "/repos/%s/actions/permissions"
	workflowPermissionsPathTemplateConstant  = "/repos/%s/actions/permissions/workflow"
	repositoryPathTemplateConstant           = "/repos/%s"
	allowedActionsAllValueConstant           = "all"
	workflowWritePermissionValueConstant     = "write"
	repositoryNameFieldNameConstant          = "repository_name"
	repositoryFieldNameConstant              = "repository"
	requiredValueMessageConstant             = "value required"
	requestCompletedLogMessageConstant       = "github api request completed"
	methodLogFieldNameConstant               = "method"
	urlLogFieldNameConstant                  = "url"
	statusLogFieldNameConstant               = "status"
	createRepositoryOperationNameConstant    = OperationName("CreateRepository")
	enableActionsOperationNameConstant       = OperationName("EnableRepositoryActions")
	workflowPermissionsOperationNameConstant = OperationName("SetWorkflowPermissions")
	listRepositoriesOperationNameConstant    = OperationName("ListUserRepositories")
	deleteRepositoryOperationNameConstant    = OperationName("DeleteRepository")
)

// HTTPClient abstracts the HTTP transport used by the repository service.
type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// NewHTTPClient returns the default HTTP client used for GitHub REST calls.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultRequestTimeoutConstant}
}

// ServiceConfiguration adjusts endpoints, credentials, and paging for the repository service.
type ServiceConfiguration struct {
	APIBaseURL  string
	AccessToken string
	PageSize    int
}

// RepositoryService performs GitHub repository management over the REST API.
type RepositoryService struct {
	logger      *zap.Logger
	httpClient  HTTPClient
	apiBaseURL  string
	accessToken string
	pageSize    int
}

// NewRepositoryService validates collaborators and constructs a RepositoryService.
func NewRepositoryService(logger *zap.Logger, httpClient HTTPClient, configuration ServiceConfiguration) (*RepositoryService, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if httpClient == nil {
		return nil, ErrHTTPClientNotConfigured
	}

	accessToken := strings.TrimSpace(configuration.AccessToken)
	if len(accessToken) == 0 {
		return nil, ErrAccessTokenNotConfigured
	}

	apiBaseURL := strings.TrimSpace(configuration.APIBaseURL)
	if len(apiBaseURL) == 0 {
		apiBaseURL = defaultAPIBaseURLConstant
	}
	apiBaseURL = strings.TrimSuffix(apiBaseURL, "/")

	pageSize := configuration.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSizeConstant
	}

	return &RepositoryService{
		logger:      logger,
		httpClient:  httpClient,
		apiBaseURL:  apiBaseURL,
		accessToken: accessToken,
		pageSize:    pageSize,
	}, nil
}

// CreateRepository creates a repository for the authenticated user and returns its key details.
func (service *RepositoryService) CreateRepository(executionContext context.Context, options CreateRepositoryOptions) (CreatedRepository, error) {
	repositoryName := strings.TrimSpace(options.Name)
	if len(repositoryName) == 0 {
		return CreatedRepository{}, InvalidInputError{FieldName: repositoryNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	payload := createRepositoryPayload{
		Name:        repositoryName,
		Description: options.Description,
		Private:     options.Private,
		AutoInit:    options.AutoInit,
	}

	var response createRepositoryResponse
	requestError := service.execute(executionContext, createRepositoryOperationNameConstant, http.MethodPost, createRepositoryPathConstant, payload, []int{http.StatusCreated}, &response)
	if requestError != nil {
		return CreatedRepository{}, requestError
	}

	return CreatedRepository{
		Name:     response.Name,
		FullName: response.FullName,
		CloneURL: response.CloneURL,
		HTMLURL:  response.HTMLURL,
	}, nil
}

// EnableRepositoryActions turns on GitHub Actions with all actions allowed for the repository.
// The repository is identified as owner/name.
func (service *RepositoryService) EnableRepositoryActions(executionContext context.Context, repository string) error {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	payload := actionsPermissionsPayload{Enabled: true, AllowedActions: allowedActionsAllValueConstant}
	requestPath := fmt.Sprintf(actionsPermissionsPathTemplateConstant, repositoryIdentifier)
	return service.execute(executionContext, enableActionsOperationNameConstant, http.MethodPut, requestPath, payload, []int{http.StatusOK, http.StatusNoContent}, nil)
}

// SetWorkflowPermissions grants workflows write permissions and review approval rights for the repository.
// The repository is identified as owner/name.
func (service *RepositoryService) SetWorkflowPermissions(executionContext context.Context, repository string) error {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	payload := workflowPermissionsPayload{DefaultWorkflowPermissions: workflowWritePermissionValueConstant, CanApprovePullRequestReviews: true}
	requestPath := fmt.Sprintf(workflowPermissionsPathTemplateConstant, repositoryIdentifier)
	return service.execute(executionContext, workflowPermissionsOperationNameConstant, http.MethodPut, requestPath, payload, []int{http.StatusOK, http.StatusNoContent}, nil)
}

// ListUserRepositories returns one page of the authenticated user's repositories
// ordered by most recent update. An empty page signals the end of the listing.
func (service *RepositoryService) ListUserRepositories(executionContext context.Context, pageNumber int) ([]Repository, error) {
	if pageNumber <= 0 {
		pageNumber = 1
	}

	requestPath := fmt.Sprintf(listRepositoriesPathTemplateConstant, pageNumber, service.pageSize)
	var entries []repositoryListEntry
	requestError := service.execute(executionContext, listRepositoriesOperationNameConstant, http.MethodGet, requestPath, nil, []int{http.StatusOK}, &entries)
	if requestError != nil {
		return nil, requestError
	}

	repositories := make([]Repository, 0, len(entries))
	for _, entry := range entries {
		repositories = append(repositories, Repository{
			Name:      entry.Name,
			FullName:  entry.FullName,
			Private:   entry.Private,
			HTMLURL:   entry.HTMLURL,
			CreatedAt: entry.CreatedAt,
			UpdatedAt: entry.UpdatedAt,
		})
	}

	return repositories, nil
}

// DeleteRepository removes the repository identified as owner/name.
func (service *RepositoryService) DeleteRepository(executionContext context.Context, repository string) error {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	requestPath := fmt.Sprintf(repositoryPathTemplateConstant, repositoryIdentifier)
	return service.execute(executionContext, deleteRepositoryOperationNameConstant, http.MethodDelete, requestPath, nil, []int{http.StatusNoContent}, nil)
}

func (service *RepositoryService) execute(executionContext context.Context, operation OperationName, method string, path string, payload any, expectedStatuses []int, target any) error {
	var requestBody io.Reader
	if payload != nil {
		encodedPayload, encodingError := json.Marshal(payload)
		if encodingError != nil {
			return PayloadEncodingError{Operation: operation, Cause: encodingError}
		}
		requestBody = bytes.NewReader(encodedPayload)
	}

	requestURL := service.apiBaseURL + path
	request, requestCreationError := http.NewRequestWithContext(executionContext, method, requestURL, requestBody)
	if requestCreationError != nil {
		return OperationError{Operation: operation, Cause: requestCreationError}
	}

	request.Header.Set(authorizationHeaderNameConstant, fmt.Sprintf(authorizationHeaderTemplateConstant, service.accessToken))
	request.Header.Set(acceptHeaderNameConstant, acceptHeaderValueConstant)
	if payload != nil {
		request.Header.Set(contentTypeHeaderNameConstant, contentTypeHeaderValueConstant)
	}

	response, requestError := service.httpClient.Do(request)
	if requestError != nil {
		return OperationError{Operation: operation, Cause: requestError}
	}
	defer func() {
		_ = response.Body.Close()
	}()

	responseBody, readError := io.ReadAll(response.Body)
	if readError != nil {
		return OperationError{Operation: operation, Cause: readError}
	}

	service.logger.Debug(
		requestCompletedLogMessageConstant,
		zap.String(methodLogFieldNameConstant, method),
		zap.String(urlLogFieldNameConstant, requestURL),
		zap.Int(statusLogFieldNameConstant, response.StatusCode),
	)

	if !statusExpected(response.StatusCode, expectedStatuses) {
		return APIStatusError{
			Operation:    operation,
			Method:       method,
			RequestURL:   requestURL,
			StatusCode:   response.StatusCode,
			ResponseBody: strings.TrimSpace(string(responseBody)),
		}
	}

	if target == nil {
		return nil
	}

	decodingError := json.Unmarshal(responseBody, target)
	if decodingError != nil {
		return ResponseDecodingError{Operation: operation, Cause: decodingError}
	}

	return nil
}

func statusExpected(statusCode int, expectedStatuses []int) bool {
	for _, expectedStatus := range expectedStatuses {
		if statusCode == expectedStatus {
			return true
		}
	}
	return false
}
