// Package githubapi provides a typed client for the GitHub REST API.
//
// RepositoryService performs repository creation, Actions permission updates,
// paginated listing, and deletion against api.github.com using token
// authentication. Responses outside an operation's expected status set surface
// as APIStatusError values carrying the request method, URL, status code, and
// response body.
package githubapi
