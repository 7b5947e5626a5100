// Package todolist is a client for the To Do list API.
//
// CreateItem posts a form-encoded Title to /api/todolist and ListItems reads
// the JSON array back. Each call sets its own Authorization header from the
// token it is passed and a fresh client-request-id. Calls are never retried;
// a non-2xx answer becomes an *APIError carrying the reason phrase.
package todolist
