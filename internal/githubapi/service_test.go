package githubapi_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jiang1756/Rustdesk-builde/internal/githubapi"
)

const (
	testAccessTokenConstant                 = "test-token"
	testAuthorizationHeaderConstant         = "token test-token"
	testAcceptHeaderConstant                = "application/vnd.github.v3+json"
	testCreateRepositoryURLConstant         = "https://api.github.com/user/repos"
	testRepositoryIdentifierConstant        = "builder/rustdesk_20240101_000000"
	testLoggerValidationCaseNameConstant    = "logger_validation"
	testClientValidationCaseNameConstant    = "http_client_validation"
	testTokenValidationCaseNameConstant     = "access_token_validation"
	testSuccessfulCreationCaseNameConstant  = "successful_initialization"
	testCreateSuccessCaseNameConstant       = "repository_created"
	testCreateConflictCaseNameConstant      = "name_conflict_status"
	testCreateMissingNameCaseNameConstant   = "missing_repository_name"
	testEnableActionsCaseNameConstant       = "enable_actions"
	testWorkflowPermissionsCaseNameConstant = "workflow_permissions"
	testDeleteSuccessCaseNameConstant       = "repository_deleted"
	testDeleteMissingCaseNameConstant       = "repository_missing_status"
	testCreatedRepositoryBodyConstant       = `{"name":"rustdesk_20240101_000000","full_name":"builder/rustdesk_20240101_000000","clone_url":"https://github.com/builder/rustdesk_20240101_000000.git","html_url":"https://github.com/builder/rustdesk_20240101_000000"}`
	testConflictResponseBodyConstant        = `{"message":"name already exists on this account"}`
	testRepositoryListBodyConstant          = `[{"name":"rustdesk_20240101_000000","full_name":"builder/rustdesk_20240101_000000","private":false,"html_url":"https://github.com/builder/rustdesk_20240101_000000","created_at":"2024-01-01T10:00:00Z","updated_at":"2024-02-01T10:00:00Z"}]`
)

type recordedRequest struct {
	method        string
	requestURL    string
	body          string
	authorization string
	accept        string
	contentType   string
}

type stubHTTPClient struct {
	response         *http.Response
	responseError    error
	recordedRequests []recordedRequest
}

func (client *stubHTTPClient) Do(request *http.Request) (*http.Response, error) {
	bodyContent := ""
	if request.Body != nil {
		bodyBytes, readError := io.ReadAll(request.Body)
		if readError != nil {
			return nil, readError
		}
		bodyContent = string(bodyBytes)
	}

	client.recordedRequests = append(client.recordedRequests, recordedRequest{
		method:        request.Method,
		requestURL:    request.URL.String(),
		body:          bodyContent,
		authorization: request.Header.Get("Authorization"),
		accept:        request.Header.Get("Accept"),
		contentType:   request.Header.Get("Content-Type"),
	})

	if client.responseError != nil {
		return nil, client.responseError
	}
	return client.response, nil
}

func makeJSONResponse(statusCode int, body string) *http.Response {
	return &http.Response{StatusCode: statusCode, Body: io.NopCloser(strings.NewReader(body))}
}

func makeRepositoryService(testInstance *testing.T, httpClient githubapi.HTTPClient) *githubapi.RepositoryService {
	service, creationError := githubapi.NewRepositoryService(zap.NewNop(), httpClient, githubapi.ServiceConfiguration{AccessToken: testAccessTokenConstant})
	require.NoError(testInstance, creationError)
	return service
}

func TestNewRepositoryServiceValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		httpClient    githubapi.HTTPClient
		accessToken   string
		expectedError error
	}{
		{
			name:          testLoggerValidationCaseNameConstant,
			logger:        nil,
			httpClient:    &stubHTTPClient{},
			accessToken:   testAccessTokenConstant,
			expectedError: githubapi.ErrLoggerNotConfigured,
		},
		{
			name:          testClientValidationCaseNameConstant,
			logger:        zap.NewNop(),
			httpClient:    nil,
			accessToken:   testAccessTokenConstant,
			expectedError: githubapi.ErrHTTPClientNotConfigured,
		},
		{
			name:          testTokenValidationCaseNameConstant,
			logger:        zap.NewNop(),
			httpClient:    &stubHTTPClient{},
			accessToken:   "   ",
			expectedError: githubapi.ErrAccessTokenNotConfigured,
		},
		{
			name:        testSuccessfulCreationCaseNameConstant,
			logger:      zap.NewNop(),
			httpClient:  &stubHTTPClient{},
			accessToken: testAccessTokenConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			service, creationError := githubapi.NewRepositoryService(testCase.logger, testCase.httpClient, githubapi.ServiceConfiguration{AccessToken: testCase.accessToken})
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, creationError, testCase.expectedError)
				require.Nil(testInstance, service)
				return
			}
			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, service)
		})
	}
}

func TestRepositoryServiceCreateRepository(testInstance *testing.T) {
	testCases := []struct {
		name               string
		repositoryName     string
		response           *http.Response
		expectedStatusCode int
		expectInvalidInput bool
		expectedCallCount  int
	}{
		{
			name:              testCreateSuccessCaseNameConstant,
			repositoryName:    "rustdesk_20240101_000000",
			response:          makeJSONResponse(http.StatusCreated, testCreatedRepositoryBodyConstant),
			expectedCallCount: 1,
		},
		{
			name:               testCreateConflictCaseNameConstant,
			repositoryName:     "rustdesk_20240101_000000",
			response:           makeJSONResponse(http.StatusUnprocessableEntity, testConflictResponseBodyConstant),
			expectedStatusCode: http.StatusUnprocessableEntity,
			expectedCallCount:  1,
		},
		{
			name:               testCreateMissingNameCaseNameConstant,
			repositoryName:     "   ",
			expectInvalidInput: true,
			expectedCallCount:  0,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			httpClient := &stubHTTPClient{response: testCase.response}
			service := makeRepositoryService(testInstance, httpClient)

			createdRepository, creationError := service.CreateRepository(context.Background(), githubapi.CreateRepositoryOptions{
				Name:        testCase.repositoryName,
				Description: "Modified RustDesk with custom server settings",
			})

			require.Len(testInstance, httpClient.recordedRequests, testCase.expectedCallCount)

			if testCase.expectInvalidInput {
				require.Error(testInstance, creationError)
				require.IsType(testInstance, githubapi.InvalidInputError{}, creationError)
				return
			}

			if testCase.expectedStatusCode != 0 {
				var statusError githubapi.APIStatusError
				require.ErrorAs(testInstance, creationError, &statusError)
				require.Equal(testInstance, http.MethodPost, statusError.Method)
				require.Equal(testInstance, testCreateRepositoryURLConstant, statusError.RequestURL)
				require.Equal(testInstance, testCase.expectedStatusCode, statusError.StatusCode)
				require.Contains(testInstance, statusError.ResponseBody, "name already exists")
				return
			}

			require.NoError(testInstance, creationError)
			require.Equal(testInstance, "rustdesk_20240101_000000", createdRepository.Name)
			require.Equal(testInstance, "builder/rustdesk_20240101_000000", createdRepository.FullName)
			require.Equal(testInstance, "https://github.com/builder/rustdesk_20240101_000000.git", createdRepository.CloneURL)
			require.Equal(testInstance, "https://github.com/builder/rustdesk_20240101_000000", createdRepository.HTMLURL)

			request := httpClient.recordedRequests[0]
			require.Equal(testInstance, http.MethodPost, request.method)
			require.Equal(testInstance, testCreateRepositoryURLConstant, request.requestURL)
			require.Equal(testInstance, testAuthorizationHeaderConstant, request.authorization)
			require.Equal(testInstance, testAcceptHeaderConstant, request.accept)
			require.Equal(testInstance, "application/json", request.contentType)
			require.Contains(testInstance, request.body, `"name":"rustdesk_20240101_000000"`)
			require.Contains(testInstance, request.body, `"private":false`)
			require.Contains(testInstance, request.body, `"auto_init":false`)
		})
	}
}

func TestRepositoryServicePermissionUpdates(testInstance *testing.T) {
	testCases := []struct {
		name            string
		invoke          func(service *githubapi.RepositoryService) error
		expectedURL     string
		expectedPayload string
	}{
		{
			name: testEnableActionsCaseNameConstant,
			invoke: func(service *githubapi.RepositoryService) error {
				return service.EnableRepositoryActions(context.Background(), testRepositoryIdentifierConstant)
			},
			expectedURL:     "https://api.github.com/repos/" + testRepositoryIdentifierConstant + "/actions/permissions",
			expectedPayload: `"allowed_actions":"all"`,
		},
		{
			name: testWorkflowPermissionsCaseNameConstant,
			invoke: func(service *githubapi.RepositoryService) error {
				return service.SetWorkflowPermissions(context.Background(), testRepositoryIdentifierConstant)
			},
			expectedURL:     "https://api.github.com/repos/" + testRepositoryIdentifierConstant + "/actions/permissions/workflow",
			expectedPayload: `"default_workflow_permissions":"write"`,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			httpClient := &stubHTTPClient{response: makeJSONResponse(http.StatusNoContent, "")}
			service := makeRepositoryService(testInstance, httpClient)

			updateError := testCase.invoke(service)

			require.NoError(testInstance, updateError)
			require.Len(testInstance, httpClient.recordedRequests, 1)
			request := httpClient.recordedRequests[0]
			require.Equal(testInstance, http.MethodPut, request.method)
			require.Equal(testInstance, testCase.expectedURL, request.requestURL)
			require.Contains(testInstance, request.body, testCase.expectedPayload)
		})
	}
}

func TestRepositoryServiceListUserRepositories(testInstance *testing.T) {
	httpClient := &stubHTTPClient{response: makeJSONResponse(http.StatusOK, testRepositoryListBodyConstant)}
	service := makeRepositoryService(testInstance, httpClient)

	repositories, listingError := service.ListUserRepositories(context.Background(), 3)

	require.NoError(testInstance, listingError)
	require.Len(testInstance, httpClient.recordedRequests, 1)
	request := httpClient.recordedRequests[0]
	require.Equal(testInstance, http.MethodGet, request.method)
	require.Equal(testInstance, "https://api.github.com/user/repos?page=3&per_page=100&sort=updated&direction=desc", request.requestURL)

	require.Len(testInstance, repositories, 1)
	require.Equal(testInstance, "rustdesk_20240101_000000", repositories[0].Name)
	require.Equal(testInstance, time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC), repositories[0].CreatedAt)
	require.Equal(testInstance, time.Date(2024, time.February, 1, 10, 0, 0, 0, time.UTC), repositories[0].UpdatedAt)
}

func TestRepositoryServiceDeleteRepository(testInstance *testing.T) {
	testCases := []struct {
		name               string
		response           *http.Response
		expectedStatusCode int
	}{
		{
			name:     testDeleteSuccessCaseNameConstant,
			response: makeJSONResponse(http.StatusNoContent, ""),
		},
		{
			name:               testDeleteMissingCaseNameConstant,
			response:           makeJSONResponse(http.StatusNotFound, `{"message":"Not Found"}`),
			expectedStatusCode: http.StatusNotFound,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			httpClient := &stubHTTPClient{response: testCase.response}
			service := makeRepositoryService(testInstance, httpClient)

			deletionError := service.DeleteRepository(context.Background(), testRepositoryIdentifierConstant)

			require.Len(testInstance, httpClient.recordedRequests, 1)
			request := httpClient.recordedRequests[0]
			require.Equal(testInstance, http.MethodDelete, request.method)
			require.Equal(testInstance, "https://api.github.com/repos/"+testRepositoryIdentifierConstant, request.requestURL)

			if testCase.expectedStatusCode != 0 {
				var statusError githubapi.APIStatusError
				require.ErrorAs(testInstance, deletionError, &statusError)
				require.Equal(testInstance, testCase.expectedStatusCode, statusError.StatusCode)
				return
			}
			require.NoError(testInstance, deletionError)
		})
	}
}
