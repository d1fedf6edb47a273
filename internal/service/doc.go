// Package service contains the application use cases. It orchestrates the
// task store, the suggestion resolver and the event emitter to fulfill API
// operations.
//
// Services receive their dependencies through constructor injection and
// depend on the store interfaces, never on a concrete implementation.
// Errors are returned as sentinels from the store, domain and suggestion
// packages, wrapped in TaskServiceError when context helps, so the API layer
// can map them with errors.Is.
package service
