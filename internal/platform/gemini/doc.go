// Package gemini provides the hosted cloud tier for task suggestions using
// Google's Gemini API.
//
// CloudClient implements suggestion.CloudModel. It renders the cloud prompt,
// sends it with the system prompt as a system instruction, and concatenates
// the text parts of the first candidate. Every call runs through a circuit
// breaker so that an outage fails fast instead of costing a full request
// timeout per task. All failures, including breaker rejections, are reported
// wrapped in suggestion.ErrCloudModel.
package gemini
