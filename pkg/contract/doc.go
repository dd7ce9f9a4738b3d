// Package contract publishes the request contract of the workflow-creation
// service as an embedded OpenAPI document and exposes the parts surfaces need:
// the operation method and path, the server URL, and the ordered field list
// with labels and required flags. Parsing uses kin-openapi.
package contract
