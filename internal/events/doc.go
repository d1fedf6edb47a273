// Package events carries task lifecycle events from the service layer to
// background processing without either side importing the other.
//
// The service emits a TaskEvent when a task is created; the task package
// registers a handler that turns it into a suggestion job.
package events
