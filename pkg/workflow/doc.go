// Package workflow is the HTTP transport for the external workflow-creation
// service. It sends the serialized intake payload as a single POST and reports
// the response status code; response bodies are drained and never parsed.
package workflow
