// Package task manages background job queuing, processing, and lifecycle.
// HTTP handlers hand slow work, such as resolving an AI suggestion for a
// freshly created task, to a TaskRunner so requests never wait on a model.
// Jobs live only in memory and are dropped on shutdown.
package task
